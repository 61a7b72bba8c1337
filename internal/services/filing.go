package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/patentdesk/backend/internal/data/repos"
	"github.com/patentdesk/backend/internal/domain"
	"github.com/patentdesk/backend/internal/pkg/dbctx"
	pkgerrors "github.com/patentdesk/backend/internal/pkg/errors"
	"github.com/patentdesk/backend/internal/pkg/logger"
)

// StageResult is what a stage update reports back to the caller.
type StageResult struct {
	Filing            *domain.PatentFiling `json:"filing"`
	Status            string               `json:"status"`
	AllStagesComplete bool                 `json:"allStagesComplete"`
	EmailSent         bool                 `json:"emailSent"`
}

// RejectRequest carries the resolution metadata recorded with a rejection.
type RejectRequest struct {
	RejectedPatentNumber string `json:"rejectedPatentNumber"`
	RejectedPatentPerson string `json:"rejectedPersonName"`
	Location             string `json:"location"`
	Status               string `json:"status"`
}

// RejectResult reports the persisted rejection and whether the applicant
// was notified.
type RejectResult struct {
	Filing    *domain.PatentFiling `json:"filing"`
	EmailSent bool                 `json:"emailSent"`
}

type FilingService interface {
	Submit(ctx context.Context, filing *domain.PatentFiling) (*domain.PatentFiling, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PatentFiling, error)
	ListAll(ctx context.Context) ([]*domain.PatentFiling, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.PatentFiling, error)
	ListByStatus(ctx context.Context, status string) ([]*domain.PatentFiling, error)
	ListGrantedOrRejected(ctx context.Context) ([]*domain.PatentFiling, error)

	CountAll(ctx context.Context) (int64, error)
	CountByState(ctx context.Context) ([]repos.StateCount, error)
	CitiesByState(ctx context.Context, state string) ([]string, error)
	StatusCounts(ctx context.Context) ([]repos.StatusCount, error)

	UpdateStages(ctx context.Context, id uuid.UUID, upd StageUpdate) (*StageResult, error)
	Reject(ctx context.Context, id uuid.UUID, req RejectRequest) (*RejectResult, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) (*domain.PatentFiling, error)
	SetMessage(ctx context.Context, id uuid.UUID, slot int, text string) (*domain.PatentFiling, error)
	SetReply(ctx context.Context, id uuid.UUID, slot int, text string) (*domain.PatentFiling, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*domain.PatentFiling, error)
}

type filingService struct {
	db       *gorm.DB
	filings  repos.FilingRepo
	notifier FilingNotifier
	log      *logger.Logger
}

func NewFilingService(
	db *gorm.DB,
	filings repos.FilingRepo,
	notifier FilingNotifier,
	baseLog *logger.Logger,
) FilingService {
	return &filingService{
		db:       db,
		filings:  filings,
		notifier: notifier,
		log:      baseLog.With("service", "FilingService"),
	}
}

// inTx runs fn inside one transaction when a DB handle is present. Unit
// tests wire fake repos and no handle; then fn runs directly.
func (s *filingService) inTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if s.db == nil {
		return fn(dbctx.Context{Ctx: ctx})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

func (s *filingService) Submit(ctx context.Context, filing *domain.PatentFiling) (*domain.PatentFiling, error) {
	if filing == nil {
		return nil, pkgerrors.ErrInvalidArgument
	}
	if filing.UserID == "" || filing.UserEmail == "" || filing.InventionTitle == "" {
		return nil, fmt.Errorf("%w: userId, userEmail and inventionTitle are required", pkgerrors.ErrInvalidArgument)
	}

	now := time.Now().UTC()
	filing.ID = uuid.New()
	filing.FilingDate = &now
	filing.Status = domain.StatusFiled
	filing.Stage1Filed = boolPtr(true)
	filing.IsActive = boolPtr(true)

	dbc := dbctx.Context{Ctx: ctx}
	if err := s.filings.Create(dbc, filing); err != nil {
		s.log.Error("Failed to create filing", "user_id", filing.UserID, "error", err)
		return nil, err
	}
	s.log.Info("Filing submitted", "filing_id", filing.ID, "user_id", filing.UserID)
	return filing, nil
}

func (s *filingService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PatentFiling, error) {
	return s.filings.GetByID(dbctx.Context{Ctx: ctx}, id)
}

func (s *filingService) ListAll(ctx context.Context) ([]*domain.PatentFiling, error) {
	return s.filings.ListAll(dbctx.Context{Ctx: ctx})
}

func (s *filingService) ListForUser(ctx context.Context, userID string) ([]*domain.PatentFiling, error) {
	if userID == "" {
		return nil, pkgerrors.ErrInvalidArgument
	}
	return s.filings.ListByUser(dbctx.Context{Ctx: ctx}, userID)
}

func (s *filingService) ListByStatus(ctx context.Context, status string) ([]*domain.PatentFiling, error) {
	if status == "" {
		return nil, pkgerrors.ErrInvalidArgument
	}
	return s.filings.ListByStatus(dbctx.Context{Ctx: ctx}, status)
}

func (s *filingService) ListGrantedOrRejected(ctx context.Context) ([]*domain.PatentFiling, error) {
	return s.filings.ListGrantedOrRejected(dbctx.Context{Ctx: ctx})
}

func (s *filingService) CountAll(ctx context.Context) (int64, error) {
	return s.filings.Count(dbctx.Context{Ctx: ctx})
}

func (s *filingService) CountByState(ctx context.Context) ([]repos.StateCount, error) {
	return s.filings.CountByState(dbctx.Context{Ctx: ctx})
}

func (s *filingService) CitiesByState(ctx context.Context, state string) ([]string, error) {
	if state == "" {
		return nil, pkgerrors.ErrInvalidArgument
	}
	return s.filings.DistinctCitiesByState(dbctx.Context{Ctx: ctx}, state)
}

func (s *filingService) StatusCounts(ctx context.Context) ([]repos.StatusCount, error) {
	return s.filings.StatusCounts(dbctx.Context{Ctx: ctx})
}

// UpdateStages applies a partial stage update inside one transaction, then
// dispatches the grant email after commit when the update flipped the filing
// to granted. The email is best effort: its failure never unwinds the stage
// change, it only clears the emailSent flag in the result.
func (s *filingService) UpdateStages(ctx context.Context, id uuid.UUID, upd StageUpdate) (*StageResult, error) {
	var (
		filing  *domain.PatentFiling
		outcome StageOutcome
	)
	err := s.inTx(ctx, func(dbc dbctx.Context) error {
		var err error
		filing, err = s.filings.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if filing.Status == domain.StatusRejected {
			s.log.Warn("Stage update attempted on rejected filing", "filing_id", id)
			return fmt.Errorf("%w: filing is rejected", pkgerrors.ErrInvalidArgument)
		}
		outcome = ApplyStageUpdate(filing, upd)
		return s.filings.Save(dbc, filing)
	})
	if err != nil {
		return nil, err
	}

	emailSent := false
	if outcome.NotifyGrant {
		emailSent = s.notifier.PatentGranted(ctx, filing.ApplicantEmail, filing.ApplicantName, filing.InventionTitle, filing.ID)
	}
	s.log.Info("Stage update applied",
		"filing_id", id, "status", outcome.Status,
		"all_complete", outcome.AllStagesComplete, "email_sent", emailSent)

	return &StageResult{
		Filing:            filing,
		Status:            outcome.Status,
		AllStagesComplete: outcome.AllStagesComplete,
		EmailSent:         emailSent,
	}, nil
}

// Reject marks the filing with the terminal rejection status. A custom status
// label may be supplied, otherwise the standard one is used. Rejection is the
// only path onto the rejected status and stage updates no longer apply after
// it.
func (s *filingService) Reject(ctx context.Context, id uuid.UUID, req RejectRequest) (*RejectResult, error) {
	var filing *domain.PatentFiling
	err := s.inTx(ctx, func(dbc dbctx.Context) error {
		var err error
		filing, err = s.filings.GetByID(dbc, id)
		if err != nil {
			return err
		}
		status := req.Status
		if status == "" {
			status = domain.StatusRejected
		}
		filing.Status = status
		filing.RejectedPatentNumber = req.RejectedPatentNumber
		filing.RejectedPatentPerson = req.RejectedPatentPerson
		filing.Location = req.Location
		return s.filings.Save(dbc, filing)
	})
	if err != nil {
		return nil, err
	}

	emailSent := s.notifier.PatentRejected(ctx,
		filing.ApplicantEmail, filing.ApplicantName, filing.InventionTitle, filing.ID,
		filing.RejectedPatentNumber, filing.RejectedPatentPerson, filing.Location)
	s.log.Info("Filing rejected", "filing_id", id, "email_sent", emailSent)

	return &RejectResult{Filing: filing, EmailSent: emailSent}, nil
}

// SetStatus overwrites the filing status directly without touching stage flags.
func (s *filingService) SetStatus(ctx context.Context, id uuid.UUID, status string) (*domain.PatentFiling, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, fmt.Errorf("%w: status is required", pkgerrors.ErrInvalidArgument)
	}
	return s.setSlot(ctx, id, func(f *domain.PatentFiling) error {
		f.Status = status
		return nil
	})
}

// SetMessage writes one of the five applicant message slots.
func (s *filingService) SetMessage(ctx context.Context, id uuid.UUID, slot int, text string) (*domain.PatentFiling, error) {
	return s.setSlot(ctx, id, func(f *domain.PatentFiling) error {
		switch slot {
		case 1:
			f.M1 = text
		case 2:
			f.M2 = text
		case 3:
			f.M3 = text
		case 4:
			f.M4 = text
		case 5:
			f.M5 = text
		default:
			return fmt.Errorf("%w: message slot must be 1..5, got %d", pkgerrors.ErrInvalidArgument, slot)
		}
		return nil
	})
}

// SetReply writes one of the four admin reply slots.
func (s *filingService) SetReply(ctx context.Context, id uuid.UUID, slot int, text string) (*domain.PatentFiling, error) {
	return s.setSlot(ctx, id, func(f *domain.PatentFiling) error {
		switch slot {
		case 1:
			f.R1 = text
		case 2:
			f.R2 = text
		case 3:
			f.R3 = text
		case 4:
			f.R4 = text
		default:
			return fmt.Errorf("%w: reply slot must be 1..4, got %d", pkgerrors.ErrInvalidArgument, slot)
		}
		return nil
	})
}

func (s *filingService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*domain.PatentFiling, error) {
	return s.setSlot(ctx, id, func(f *domain.PatentFiling) error {
		f.IsActive = boolPtr(active)
		return nil
	})
}

func (s *filingService) setSlot(ctx context.Context, id uuid.UUID, mutate func(*domain.PatentFiling) error) (*domain.PatentFiling, error) {
	var filing *domain.PatentFiling
	err := s.inTx(ctx, func(dbc dbctx.Context) error {
		var err error
		filing, err = s.filings.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if err := mutate(filing); err != nil {
			return err
		}
		return s.filings.Save(dbc, filing)
	})
	if err != nil {
		return nil, err
	}
	return filing, nil
}

func boolPtr(b bool) *bool { return &b }
