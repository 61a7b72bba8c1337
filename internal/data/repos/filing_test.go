package repos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/patentdesk/backend/internal/domain"
	"github.com/patentdesk/backend/internal/pkg/dbctx"
	pkgerrors "github.com/patentdesk/backend/internal/pkg/errors"
)

func seedFiling(t *testing.T, repo FilingRepo, userID, city, state, status string) *domain.PatentFiling {
	t.Helper()
	active := true
	filed := true
	f := &domain.PatentFiling{
		ID:             uuid.New(),
		UserID:         userID,
		UserEmail:      userID + "@example.com",
		ApplicantName:  "Applicant " + userID,
		ApplicantEmail: userID + "@example.com",
		ApplicantCity:  city,
		ApplicantState: state,
		InventionTitle: "Invention by " + userID,
		Stage1Filed:    &filed,
		Status:         status,
		IsActive:       &active,
	}
	if err := repo.Create(dbctx.Context{Ctx: context.Background()}, f); err != nil {
		t.Fatalf("seed filing: %v", err)
	}
	return f
}

func TestFilingRepoRoundTrip(t *testing.T) {
	repo := NewFilingRepo(testDB(t), testLogger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	f := seedFiling(t, repo, "u1", "Mumbai", "Maharashtra", domain.StatusFiled)

	got, err := repo.GetByID(dbc, f.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ApplicantCity != "Mumbai" || got.Status != domain.StatusFiled {
		t.Fatalf("got %+v", got)
	}

	got.Status = domain.StatusAdminReview
	if err := repo.Save(dbc, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = repo.GetByID(dbc, f.ID)
	if err != nil {
		t.Fatalf("GetByID after save: %v", err)
	}
	if got.Status != domain.StatusAdminReview {
		t.Fatalf("status = %q after save", got.Status)
	}

	if _, err := repo.GetByID(dbc, uuid.New()); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("missing row: err = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByID(dbc, uuid.Nil); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("nil id: err = %v, want ErrInvalidArgument", err)
	}
}

func TestFilingRepoListsAndStateAggregates(t *testing.T) {
	repo := NewFilingRepo(testDB(t), testLogger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	seedFiling(t, repo, "u1", "Mumbai", "Maharashtra", domain.StatusFiled)
	seedFiling(t, repo, "u1", "Pune", "Maharashtra", domain.StatusGranted)
	seedFiling(t, repo, "u2", "Chennai", "Tamil Nadu", domain.StatusRejected)
	seedFiling(t, repo, "u3", "", "", domain.StatusFiled)

	byUser, err := repo.ListByUser(dbc, "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(byUser) != 2 {
		t.Fatalf("u1 filings = %d, want 2", len(byUser))
	}

	granted, err := repo.ListGrantedOrRejected(dbc)
	if err != nil {
		t.Fatalf("ListGrantedOrRejected: %v", err)
	}
	if len(granted) != 2 {
		t.Fatalf("granted/rejected = %d, want 2", len(granted))
	}

	n, err := repo.Count(dbc)
	if err != nil || n != 4 {
		t.Fatalf("Count = %d, %v; want 4", n, err)
	}

	states, err := repo.CountByState(dbc)
	if err != nil {
		t.Fatalf("CountByState: %v", err)
	}
	// Blank states are excluded and the biggest state comes first.
	if len(states) != 2 || states[0].State != "Maharashtra" || states[0].Count != 2 {
		t.Fatalf("states = %+v", states)
	}

	statuses, err := repo.StatusCounts(dbc)
	if err != nil {
		t.Fatalf("StatusCounts: %v", err)
	}
	total := int64(0)
	for _, sc := range statuses {
		total += sc.Count
	}
	if len(statuses) != 3 || total != 4 {
		t.Fatalf("statuses = %+v", statuses)
	}
}

func TestFilingRepoCityQueries(t *testing.T) {
	repo := NewFilingRepo(testDB(t), testLogger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	seedFiling(t, repo, "u1", "Mumbai", "Maharashtra", domain.StatusFiled)
	seedFiling(t, repo, "u2", "Navi Mumbai", "Maharashtra", domain.StatusFiled)
	seedFiling(t, repo, "u3", "Pune", "Maharashtra", domain.StatusFiled)
	seedFiling(t, repo, "u4", "Chennai", "Tamil Nadu", domain.StatusFiled)

	n, err := repo.CountByCityContains(dbc, "mumbai")
	if err != nil || n != 2 {
		t.Fatalf("CountByCityContains = %d, %v; want 2", n, err)
	}

	n, err = repo.CountByStateContains(dbc, "tamil")
	if err != nil || n != 1 {
		t.Fatalf("CountByStateContains = %d, %v; want 1", n, err)
	}

	cities, err := repo.DistinctCitiesByState(dbc, "Maharashtra")
	if err != nil {
		t.Fatalf("DistinctCitiesByState: %v", err)
	}
	want := []string{"Mumbai", "Navi Mumbai", "Pune"}
	if len(cities) != len(want) {
		t.Fatalf("cities = %v, want %v", cities, want)
	}
	for i := range want {
		if cities[i] != want[i] {
			t.Fatalf("cities = %v, want %v", cities, want)
		}
	}
}

func TestFilingRepoSinceWindows(t *testing.T) {
	gdb := testDB(t)
	repo := NewFilingRepo(gdb, testLogger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	old := seedFiling(t, repo, "u1", "Mumbai", "Maharashtra", domain.StatusFiled)
	seedFiling(t, repo, "u2", "Pune", "Maharashtra", domain.StatusFiled)

	// Age the first row past the window under test.
	lastMonth := time.Now().AddDate(0, -1, 0)
	if err := gdb.Model(&domain.PatentFiling{}).
		Where("id = ?", old.ID).
		Update("created_at", lastMonth).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	n, err := repo.CountFiledSince(dbc, weekAgo)
	if err != nil || n != 1 {
		t.Fatalf("CountFiledSince = %d, %v; want 1", n, err)
	}

	states, err := repo.CountByStateSince(dbc, weekAgo)
	if err != nil {
		t.Fatalf("CountByStateSince: %v", err)
	}
	if len(states) != 1 || states[0].Count != 1 {
		t.Fatalf("states = %+v", states)
	}

	cities, err := repo.CountByCityInStateSince(dbc, weekAgo, "Maharashtra")
	if err != nil {
		t.Fatalf("CountByCityInStateSince: %v", err)
	}
	if len(cities) != 1 || cities[0].City != "Pune" {
		t.Fatalf("cities = %+v", cities)
	}
}
