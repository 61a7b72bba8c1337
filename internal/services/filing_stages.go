package services

import (
	"github.com/patentdesk/backend/internal/domain"
)

// StageUpdate is a partial set of stage-flag changes plus the optional admin
// processing fields that ride along with a grant. Nil fields are left
// untouched on the filing.
type StageUpdate struct {
	Stage1Filed           *bool `json:"stage1Filed"`
	Stage2AdminReview     *bool `json:"stage2AdminReview"`
	Stage3TechnicalReview *bool `json:"stage3TechnicalReview"`
	Stage4Verification    *bool `json:"stage4Verification"`
	Stage5Granted         *bool `json:"stage5Granted"`

	PatentNumber            *string `json:"patentNumber"`
	GrantedPatentPersonName *string `json:"grantedPatentPersonName"`
	Location                *string `json:"location"`
}

// StageOutcome is what a stage update decided: the derived status, whether
// the pipeline is fully complete, and whether a grant notification is due.
type StageOutcome struct {
	Status            string
	AllStagesComplete bool
	NotifyGrant       bool
}

// stageStatusOrder maps the highest set stage flag to the derived status.
// Order matters: stage 4 beats 3 beats 2, and nothing beyond stage 1 means
// "Filed". No consistency between flags is enforced; the highest true flag
// alone determines the label.
var stageStatusOrder = []struct {
	flag   func(*domain.PatentFiling) *bool
	status string
}{
	{func(f *domain.PatentFiling) *bool { return f.Stage4Verification }, domain.StatusUnderVerification},
	{func(f *domain.PatentFiling) *bool { return f.Stage3TechnicalReview }, domain.StatusTechnicalReview},
	{func(f *domain.PatentFiling) *bool { return f.Stage2AdminReview }, domain.StatusAdminReview},
}

// ApplyStageUpdate mutates the filing's stage flags, admin fields, and
// derived status from a partial update, and reports the outcome. It is a
// pure in-memory transformation; the caller persists and dispatches.
//
// The grant notification fires only when the pipeline is fully complete AND
// the grant flag flipped from unset/false to true within this call. Setting
// the grant flag while earlier stages are incomplete completes nothing and
// notifies nobody; re-sending an all-true update is a no-op for
// notification purposes.
func ApplyStageUpdate(filing *domain.PatentFiling, upd StageUpdate) StageOutcome {
	wasGranted := filing.StageGranted()

	if upd.Stage1Filed != nil {
		filing.Stage1Filed = upd.Stage1Filed
	}
	if upd.Stage2AdminReview != nil {
		filing.Stage2AdminReview = upd.Stage2AdminReview
	}
	if upd.Stage3TechnicalReview != nil {
		filing.Stage3TechnicalReview = upd.Stage3TechnicalReview
	}
	if upd.Stage4Verification != nil {
		filing.Stage4Verification = upd.Stage4Verification
	}
	if upd.Stage5Granted != nil {
		filing.Stage5Granted = upd.Stage5Granted
	}

	if upd.PatentNumber != nil {
		filing.PatentNumber = *upd.PatentNumber
	}
	if upd.GrantedPatentPersonName != nil {
		filing.GrantedPatentPersonName = *upd.GrantedPatentPersonName
	}
	if upd.Location != nil {
		filing.Location = *upd.Location
	}

	allComplete := flagSet(filing.Stage1Filed) &&
		flagSet(filing.Stage2AdminReview) &&
		flagSet(filing.Stage3TechnicalReview) &&
		flagSet(filing.Stage4Verification) &&
		flagSet(filing.Stage5Granted)

	switch {
	case allComplete:
		filing.Status = domain.StatusGranted
	default:
		filing.Status = domain.StatusFiled
		for _, s := range stageStatusOrder {
			if flagSet(s.flag(filing)) {
				filing.Status = s.status
				break
			}
		}
	}

	grantJustSet := !wasGranted && filing.StageGranted()

	return StageOutcome{
		Status:            filing.Status,
		AllStagesComplete: allComplete,
		NotifyGrant:       allComplete && grantJustSet,
	}
}

func flagSet(b *bool) bool { return b != nil && *b }
