package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/patentdesk/backend/internal/data/repos"
	"github.com/patentdesk/backend/internal/domain"
	"github.com/patentdesk/backend/internal/pkg/dbctx"
	pkgerrors "github.com/patentdesk/backend/internal/pkg/errors"
	"github.com/patentdesk/backend/internal/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

type fakeFilingRepo struct {
	filings map[uuid.UUID]*domain.PatentFiling
	saves   int
	saveErr error
}

func newFakeFilingRepo(filings ...*domain.PatentFiling) *fakeFilingRepo {
	r := &fakeFilingRepo{filings: make(map[uuid.UUID]*domain.PatentFiling)}
	for _, f := range filings {
		r.filings[f.ID] = f
	}
	return r
}

func (r *fakeFilingRepo) Create(dbc dbctx.Context, f *domain.PatentFiling) error {
	r.filings[f.ID] = f
	return nil
}

func (r *fakeFilingRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.PatentFiling, error) {
	f, ok := r.filings[id]
	if !ok {
		return nil, pkgerrors.ErrNotFound
	}
	return f, nil
}

func (r *fakeFilingRepo) Save(dbc dbctx.Context, f *domain.PatentFiling) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.filings[f.ID] = f
	return nil
}

func (r *fakeFilingRepo) ListAll(dbctx.Context) ([]*domain.PatentFiling, error)    { return nil, nil }
func (r *fakeFilingRepo) ListByUser(dbctx.Context, string) ([]*domain.PatentFiling, error) {
	return nil, nil
}
func (r *fakeFilingRepo) ListByStatus(dbctx.Context, string) ([]*domain.PatentFiling, error) {
	return nil, nil
}
func (r *fakeFilingRepo) ListGrantedOrRejected(dbctx.Context) ([]*domain.PatentFiling, error) {
	return nil, nil
}
func (r *fakeFilingRepo) Count(dbctx.Context) (int64, error) { return int64(len(r.filings)), nil }
func (r *fakeFilingRepo) CountFiledSince(dbctx.Context, time.Time) (int64, error) { return 0, nil }
func (r *fakeFilingRepo) CountByState(dbctx.Context) ([]repos.StateCount, error)  { return nil, nil }
func (r *fakeFilingRepo) CountByStateSince(dbctx.Context, time.Time) ([]repos.StateCount, error) {
	return nil, nil
}
func (r *fakeFilingRepo) CountByCitySince(dbctx.Context, time.Time) ([]repos.CityCount, error) {
	return nil, nil
}
func (r *fakeFilingRepo) CountByCityInStateSince(dbctx.Context, time.Time, string) ([]repos.CityCount, error) {
	return nil, nil
}
func (r *fakeFilingRepo) CountByCityContains(dbctx.Context, string) (int64, error)  { return 0, nil }
func (r *fakeFilingRepo) CountByStateContains(dbctx.Context, string) (int64, error) { return 0, nil }
func (r *fakeFilingRepo) StatusCounts(dbctx.Context) ([]repos.StatusCount, error)   { return nil, nil }
func (r *fakeFilingRepo) DistinctCitiesByState(dbctx.Context, string) ([]string, error) {
	return nil, nil
}

type fakeNotifier struct {
	grantCalls  int
	rejectCalls int
	delivered   bool
}

func (n *fakeNotifier) PatentGranted(ctx context.Context, email, name, title string, id uuid.UUID) bool {
	n.grantCalls++
	return n.delivered
}

func (n *fakeNotifier) PatentRejected(ctx context.Context, email, name, title string, id uuid.UUID, number, by, location string) bool {
	n.rejectCalls++
	return n.delivered
}

func newTestFilingService(t *testing.T, repo *fakeFilingRepo, notifier *fakeNotifier) FilingService {
	t.Helper()
	return NewFilingService(nil, repo, notifier, testLogger(t))
}

func pendingFiling() *domain.PatentFiling {
	return &domain.PatentFiling{
		ID:             uuid.New(),
		UserID:         "user-1",
		UserEmail:      "user@example.com",
		ApplicantName:  "Asha Verma",
		ApplicantEmail: "asha@example.com",
		InventionTitle: "Solar Desalination Unit",
		Stage1Filed:    boolPtr(true),
		Status:         domain.StatusFiled,
		IsActive:       boolPtr(true),
	}
}

func TestSubmitDefaults(t *testing.T) {
	t.Parallel()
	repo := newFakeFilingRepo()
	svc := newTestFilingService(t, repo, &fakeNotifier{})

	out, err := svc.Submit(context.Background(), &domain.PatentFiling{
		UserID:         "user-1",
		UserEmail:      "user@example.com",
		ApplicantName:  "Asha Verma",
		ApplicantEmail: "asha@example.com",
		InventionTitle: "Solar Desalination Unit",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.ID == uuid.Nil {
		t.Fatal("ID not assigned")
	}
	if out.Status != domain.StatusFiled {
		t.Fatalf("status = %q, want %q", out.Status, domain.StatusFiled)
	}
	if out.Stage1Filed == nil || !*out.Stage1Filed {
		t.Fatal("stage 1 not marked filed")
	}
	if out.IsActive == nil || !*out.IsActive {
		t.Fatal("filing not active")
	}
	if out.FilingDate == nil {
		t.Fatal("filing date not stamped")
	}
	if _, ok := repo.filings[out.ID]; !ok {
		t.Fatal("filing not persisted")
	}
}

func TestSubmitRequiredFields(t *testing.T) {
	t.Parallel()
	svc := newTestFilingService(t, newFakeFilingRepo(), &fakeNotifier{})

	cases := []*domain.PatentFiling{
		nil,
		{UserEmail: "u@example.com", InventionTitle: "T"},
		{UserID: "u", InventionTitle: "T"},
		{UserID: "u", UserEmail: "u@example.com"},
	}
	for i, f := range cases {
		if _, err := svc.Submit(context.Background(), f); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
			t.Fatalf("case %d: err = %v, want ErrInvalidArgument", i, err)
		}
	}
}

func TestUpdateStagesProgresses(t *testing.T) {
	t.Parallel()
	f := pendingFiling()
	repo := newFakeFilingRepo(f)
	notifier := &fakeNotifier{}
	svc := newTestFilingService(t, repo, notifier)

	res, err := svc.UpdateStages(context.Background(), f.ID, StageUpdate{
		Stage2AdminReview: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("UpdateStages: %v", err)
	}
	if res.Status != domain.StatusAdminReview {
		t.Fatalf("status = %q, want %q", res.Status, domain.StatusAdminReview)
	}
	if res.AllStagesComplete || res.EmailSent {
		t.Fatal("partial update should not complete or notify")
	}
	if notifier.grantCalls != 0 {
		t.Fatalf("grant emails = %d, want 0", notifier.grantCalls)
	}
	if repo.saves != 1 {
		t.Fatalf("saves = %d, want 1", repo.saves)
	}
}

func TestUpdateStagesGrantNotifiesOnce(t *testing.T) {
	t.Parallel()
	f := pendingFiling()
	f.Stage2AdminReview = boolPtr(true)
	f.Stage3TechnicalReview = boolPtr(true)
	f.Stage4Verification = boolPtr(true)
	repo := newFakeFilingRepo(f)
	notifier := &fakeNotifier{delivered: true}
	svc := newTestFilingService(t, repo, notifier)

	res, err := svc.UpdateStages(context.Background(), f.ID, StageUpdate{
		Stage5Granted:           boolPtr(true),
		PatentNumber:            sp("IN-2026-001"),
		GrantedPatentPersonName: sp("Examiner Rao"),
	})
	if err != nil {
		t.Fatalf("UpdateStages: %v", err)
	}
	if res.Status != domain.StatusGranted {
		t.Fatalf("status = %q, want %q", res.Status, domain.StatusGranted)
	}
	if !res.AllStagesComplete || !res.EmailSent {
		t.Fatalf("complete=%v emailSent=%v, want both true", res.AllStagesComplete, res.EmailSent)
	}
	if notifier.grantCalls != 1 {
		t.Fatalf("grant emails = %d, want 1", notifier.grantCalls)
	}

	// Re-sending the same flags must not notify again.
	res2, err := svc.UpdateStages(context.Background(), f.ID, StageUpdate{
		Stage5Granted: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("second UpdateStages: %v", err)
	}
	if res2.EmailSent {
		t.Fatal("idempotent re-grant should not resend email")
	}
	if notifier.grantCalls != 1 {
		t.Fatalf("grant emails after re-grant = %d, want 1", notifier.grantCalls)
	}
}

func TestUpdateStagesEmailFailureDoesNotFail(t *testing.T) {
	t.Parallel()
	f := pendingFiling()
	f.Stage2AdminReview = boolPtr(true)
	f.Stage3TechnicalReview = boolPtr(true)
	f.Stage4Verification = boolPtr(true)
	repo := newFakeFilingRepo(f)
	svc := newTestFilingService(t, repo, &fakeNotifier{delivered: false})

	res, err := svc.UpdateStages(context.Background(), f.ID, StageUpdate{Stage5Granted: boolPtr(true)})
	if err != nil {
		t.Fatalf("UpdateStages: %v", err)
	}
	if res.Status != domain.StatusGranted {
		t.Fatalf("status = %q, want %q", res.Status, domain.StatusGranted)
	}
	if res.EmailSent {
		t.Fatal("emailSent should report the delivery failure")
	}
}

func TestUpdateStagesNotFound(t *testing.T) {
	t.Parallel()
	svc := newTestFilingService(t, newFakeFilingRepo(), &fakeNotifier{})
	if _, err := svc.UpdateStages(context.Background(), uuid.New(), StageUpdate{}); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateStagesRefusedAfterReject(t *testing.T) {
	t.Parallel()
	f := pendingFiling()
	f.Status = domain.StatusRejected
	repo := newFakeFilingRepo(f)
	notifier := &fakeNotifier{}
	svc := newTestFilingService(t, repo, notifier)

	_, err := svc.UpdateStages(context.Background(), f.ID, StageUpdate{Stage2AdminReview: boolPtr(true)})
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if repo.saves != 0 {
		t.Fatalf("saves = %d, want 0", repo.saves)
	}
	if notifier.grantCalls != 0 {
		t.Fatal("rejected filing must never trigger a grant email")
	}
}

func TestRejectDefaultsAndNotifies(t *testing.T) {
	t.Parallel()
	f := pendingFiling()
	repo := newFakeFilingRepo(f)
	notifier := &fakeNotifier{delivered: true}
	svc := newTestFilingService(t, repo, notifier)

	res, err := svc.Reject(context.Background(), f.ID, RejectRequest{
		RejectedPatentNumber: "REJ-42",
		RejectedPatentPerson: "Examiner Rao",
		Location:             "Chennai",
	})
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if res.Filing.Status != domain.StatusRejected {
		t.Fatalf("status = %q, want %q", res.Filing.Status, domain.StatusRejected)
	}
	if res.Filing.RejectedPatentNumber != "REJ-42" || res.Filing.RejectedPatentPerson != "Examiner Rao" || res.Filing.Location != "Chennai" {
		t.Fatalf("rejection metadata not recorded: %+v", res.Filing)
	}
	if !res.EmailSent {
		t.Fatal("emailSent = false, want true")
	}
	if notifier.rejectCalls != 1 {
		t.Fatalf("reject emails = %d, want 1", notifier.rejectCalls)
	}
}

func TestRejectCustomStatus(t *testing.T) {
	t.Parallel()
	f := pendingFiling()
	repo := newFakeFilingRepo(f)
	svc := newTestFilingService(t, repo, &fakeNotifier{})

	res, err := svc.Reject(context.Background(), f.ID, RejectRequest{Status: "Withdrawn by Applicant"})
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if res.Filing.Status != "Withdrawn by Applicant" {
		t.Fatalf("status = %q, want custom label", res.Filing.Status)
	}
}

func TestSetMessageAndReplySlots(t *testing.T) {
	t.Parallel()
	f := pendingFiling()
	svc := newTestFilingService(t, newFakeFilingRepo(f), &fakeNotifier{})
	ctx := context.Background()

	out, err := svc.SetMessage(ctx, f.ID, 3, "Please review the updated claims.")
	if err != nil {
		t.Fatalf("SetMessage: %v", err)
	}
	if out.M3 != "Please review the updated claims." {
		t.Fatalf("M3 = %q", out.M3)
	}

	out, err = svc.SetReply(ctx, f.ID, 2, "Claims received, under review.")
	if err != nil {
		t.Fatalf("SetReply: %v", err)
	}
	if out.R2 != "Claims received, under review." {
		t.Fatalf("R2 = %q", out.R2)
	}

	if _, err := svc.SetMessage(ctx, f.ID, 6, "x"); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("message slot 6: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := svc.SetMessage(ctx, f.ID, 0, "x"); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("message slot 0: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := svc.SetReply(ctx, f.ID, 5, "x"); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("reply slot 5: err = %v, want ErrInvalidArgument", err)
	}
}

func TestSetStatus(t *testing.T) {
	t.Parallel()
	f := pendingFiling()
	svc := newTestFilingService(t, newFakeFilingRepo(f), &fakeNotifier{})
	ctx := context.Background()

	out, err := svc.SetStatus(ctx, f.ID, "On Hold")
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if out.Status != "On Hold" {
		t.Fatalf("status = %q, want On Hold", out.Status)
	}

	if _, err := svc.SetStatus(ctx, f.ID, "   "); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("blank status: err = %v, want ErrInvalidArgument", err)
	}
}

func TestSetActive(t *testing.T) {
	t.Parallel()
	f := pendingFiling()
	svc := newTestFilingService(t, newFakeFilingRepo(f), &fakeNotifier{})

	out, err := svc.SetActive(context.Background(), f.ID, false)
	if err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if out.IsActive == nil || *out.IsActive {
		t.Fatal("filing should be inactive")
	}
}
