package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/patentdesk/backend/internal/pkg/logger"
	"github.com/patentdesk/backend/internal/platform/mailer"
)

// FilingNotifier sends the grant/reject decision emails. Every method is
// nil-safe and swallows delivery failures after logging them: a dead mail
// gateway must never fail or roll back the stage update that triggered it.
// The boolean result reports whether delivery succeeded.
type FilingNotifier interface {
	PatentGranted(ctx context.Context, applicantEmail, applicantName, inventionTitle string, filingID uuid.UUID) bool
	PatentRejected(ctx context.Context, applicantEmail, applicantName, inventionTitle string, filingID uuid.UUID, rejectedNumber, rejectedBy, location string) bool
}

type filingNotifier struct {
	mail mailer.Client
	log  *logger.Logger
}

func NewFilingNotifier(mail mailer.Client, baseLog *logger.Logger) FilingNotifier {
	return &filingNotifier{
		mail: mail,
		log:  baseLog.With("service", "FilingNotifier"),
	}
}

func (n *filingNotifier) PatentGranted(ctx context.Context, applicantEmail, applicantName, inventionTitle string, filingID uuid.UUID) bool {
	if n == nil || n.mail == nil || applicantEmail == "" {
		return false
	}
	msg := mailer.Message{
		To:       applicantEmail,
		ToName:   applicantName,
		Subject:  "Congratulations! Your Patent Has Been Granted - " + inventionTitle,
		HTMLBody: buildGrantedEmail(applicantName, inventionTitle, filingID),
	}
	if err := n.mail.Send(ctx, msg); err != nil {
		n.log.Warn("Failed to send grant email", "filing_id", filingID, "to", applicantEmail, "error", err)
		return false
	}
	return true
}

func (n *filingNotifier) PatentRejected(ctx context.Context, applicantEmail, applicantName, inventionTitle string, filingID uuid.UUID, rejectedNumber, rejectedBy, location string) bool {
	if n == nil || n.mail == nil || applicantEmail == "" {
		return false
	}
	msg := mailer.Message{
		To:       applicantEmail,
		ToName:   applicantName,
		Subject:  "Patent Application Status Update - " + inventionTitle,
		HTMLBody: buildRejectedEmail(applicantName, inventionTitle, filingID, rejectedNumber, rejectedBy, location),
	}
	if err := n.mail.Send(ctx, msg); err != nil {
		n.log.Warn("Failed to send rejection email", "filing_id", filingID, "to", applicantEmail, "error", err)
		return false
	}
	return true
}

func buildGrantedEmail(applicantName, inventionTitle string, filingID uuid.UUID) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #059669; color: white; padding: 40px; text-align: center; border-radius: 10px 10px 0 0;">
      <h1>Congratulations!</h1>
      <h2>Your Patent Has Been Granted</h2>
    </div>
    <div style="background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px;">
      <p>Dear <strong>%s</strong>,</p>
      <div style="background: #d1fae5; padding: 25px; margin: 20px 0; border-left: 4px solid #10b981; border-radius: 5px;">
        <p style="margin: 0;">We are delighted to inform you that your patent application has successfully
        completed all review stages and has been <strong>officially granted</strong>.</p>
      </div>
      <div style="background: white; padding: 20px; margin: 20px 0; border-radius: 5px;">
        <p><strong style="color: #059669;">Invention Title:</strong> %s</p>
        <p><strong style="color: #059669;">Filing Reference:</strong> %s</p>
      </div>
      <p>All five review stages are complete: Filed, Admin Review, Technical Review,
      Verification, and Grant. You can view the full grant details on your dashboard.</p>
      <div style="text-align: center; margin-top: 30px; color: #666; font-size: 12px; border-top: 1px solid #e5e7eb; padding-top: 20px;">
        <p>This is an automated notification. Please do not reply to this email.</p>
      </div>
    </div>
  </div>
</body>
</html>`, applicantName, inventionTitle, filingID)
}

func buildRejectedEmail(applicantName, inventionTitle string, filingID uuid.UUID, rejectedNumber, rejectedBy, location string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #dc2626; color: white; padding: 40px; text-align: center; border-radius: 10px 10px 0 0;">
      <h1>Patent Application Status Update</h1>
      <h2>Application Decision Notification</h2>
    </div>
    <div style="background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px;">
      <p>Dear <strong>%s</strong>,</p>
      <div style="background: #fee2e2; padding: 25px; margin: 20px 0; border-left: 4px solid #ef4444; border-radius: 5px;">
        <p style="margin: 0;">We regret to inform you that your patent application has been carefully
        reviewed and unfortunately could not be approved at this time.</p>
      </div>
      <div style="background: white; padding: 20px; margin: 20px 0; border-radius: 5px;">
        <p><strong style="color: #dc2626;">Invention Title:</strong> %s</p>
        <p><strong style="color: #dc2626;">Filing Reference:</strong> %s</p>
        <p><strong style="color: #dc2626;">Reference Number:</strong> %s</p>
        <p><strong style="color: #dc2626;">Reviewed By:</strong> %s</p>
        <p><strong style="color: #dc2626;">Location:</strong> %s</p>
      </div>
      <div style="background: #dbeafe; padding: 20px; margin: 20px 0; border-radius: 5px; border-left: 4px solid #3b82f6;">
        <p style="margin: 0;">You may contact our support team through the dashboard messaging thread
        for details about the decision or guidance on re-filing.</p>
      </div>
      <div style="text-align: center; margin-top: 30px; color: #666; font-size: 12px; border-top: 1px solid #e5e7eb; padding-top: 20px;">
        <p>This is an automated notification. Please do not reply to this email.</p>
      </div>
    </div>
  </div>
</body>
</html>`, applicantName, inventionTitle, filingID, rejectedNumber, rejectedBy, location)
}
