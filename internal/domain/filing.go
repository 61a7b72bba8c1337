package domain

import (
	"time"

	"github.com/google/uuid"
)

// Filing status labels. Status is derived from the stage flags except for
// the terminal rejection label, which is only ever set by an explicit
// rejection action.
const (
	StatusFiled             = "Filed"
	StatusAdminReview       = "Admin Review"
	StatusTechnicalReview   = "Technical Review"
	StatusUnderVerification = "Under Verification"
	StatusGranted           = "Granted"
	StatusRejected          = "Patent is Rejected"
)

// PatentFiling is one patent application progressing through the five-stage
// review pipeline. The stage flags are nullable on purpose: a stage only
// counts as complete when its flag is present and true.
type PatentFiling struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// Weak reference into the external identity provider; not owned here.
	UserID    string `gorm:"column:user_id;not null;index" json:"userId"`
	UserEmail string `gorm:"column:user_email;not null" json:"userEmail"`
	UserName  string `gorm:"column:user_name" json:"userName,omitempty"`

	ApplicantName    string `gorm:"column:applicant_name;not null" json:"applicantName"`
	ApplicantEmail   string `gorm:"column:applicant_email;not null" json:"applicantEmail"`
	ApplicantPhone   string `gorm:"column:applicant_phone;size:20" json:"applicantPhone"`
	ApplicantAddress string `gorm:"column:applicant_address;type:text" json:"applicantAddress"`
	ApplicantCity    string `gorm:"column:applicant_city;size:100;index" json:"applicantCity"`
	ApplicantState   string `gorm:"column:applicant_state;size:100;index" json:"applicantState"`
	ApplicantPincode string `gorm:"column:applicant_pincode;size:10" json:"applicantPincode"`
	ApplicantCountry string `gorm:"column:applicant_country;size:100" json:"applicantCountry"`
	OrganizationName string `gorm:"column:organization_name" json:"organizationName,omitempty"`
	ApplicantType    string `gorm:"column:applicant_type;size:50" json:"applicantType"`

	InventionTitle        string `gorm:"column:invention_title;size:500;not null" json:"inventionTitle"`
	InventionField        string `gorm:"column:invention_field" json:"inventionField"`
	InventionDescription  string `gorm:"column:invention_description;type:text" json:"inventionDescription"`
	TechnicalProblem      string `gorm:"column:technical_problem;type:text" json:"technicalProblem"`
	ProposedSolution      string `gorm:"column:proposed_solution;type:text" json:"proposedSolution"`
	Advantages            string `gorm:"column:advantages;type:text" json:"advantages"`
	PriorArt              string `gorm:"column:prior_art;type:text" json:"priorArt,omitempty"`
	Keywords              string `gorm:"column:keywords;size:500" json:"keywords,omitempty"`
	PatentType            string `gorm:"column:patent_type;size:50" json:"patentType"`
	FilingType            string `gorm:"column:filing_type;size:50" json:"filingType"`
	NumberOfClaims        int    `gorm:"column:number_of_claims" json:"numberOfClaims"`
	NumberOfDrawings      int    `gorm:"column:number_of_drawings" json:"numberOfDrawings"`
	DescriptionFileURL    string `gorm:"column:description_file_url;type:text" json:"descriptionFileUrl"`
	ClaimsFileURL         string `gorm:"column:claims_file_url;type:text" json:"claimsFileUrl"`
	AbstractFileURL       string `gorm:"column:abstract_file_url;type:text" json:"abstractFileUrl"`
	DrawingsFileURL       string `gorm:"column:drawings_file_url;type:text" json:"drawingsFileUrl,omitempty"`
	CommercialApplication string `gorm:"column:commercial_application;type:text" json:"commercialApplication,omitempty"`

	// Payment record, captured at submission and immutable afterwards.
	PaymentAmount    float64    `gorm:"column:payment_amount" json:"paymentAmount"`
	PaymentCurrency  string     `gorm:"column:payment_currency;size:3" json:"paymentCurrency"`
	PaymentID        string     `gorm:"column:payment_id" json:"paymentId"`
	PaymentOrderID   string     `gorm:"column:payment_order_id" json:"paymentOrderId,omitempty"`
	PaymentSignature string     `gorm:"column:payment_signature" json:"paymentSignature,omitempty"`
	PaymentStatus    string     `gorm:"column:payment_status;size:50" json:"paymentStatus"`
	PaymentTimestamp *time.Time `gorm:"column:payment_timestamp" json:"paymentTimestamp,omitempty"`

	// Review pipeline stage flags, strictly one per stage.
	Stage1Filed           *bool `gorm:"column:stage_1_filed" json:"stage1Filed,omitempty"`
	Stage2AdminReview     *bool `gorm:"column:stage_2_admin_review" json:"stage2AdminReview,omitempty"`
	Stage3TechnicalReview *bool `gorm:"column:stage_3_technical_review" json:"stage3TechnicalReview,omitempty"`
	Stage4Verification    *bool `gorm:"column:stage_4_verification" json:"stage4Verification,omitempty"`
	Stage5Granted         *bool `gorm:"column:stage_5_granted" json:"stage5Granted,omitempty"`

	// Admin resolution metadata. Grant fields are only meaningful once the
	// filing is granted, rejection fields once it is rejected.
	PatentNumber            string `gorm:"column:patent_number;size:50" json:"patentNumber,omitempty"`
	GrantedPatentPersonName string `gorm:"column:granted_patent_person_name;size:200" json:"grantedPatentPersonName,omitempty"`
	RejectedPatentNumber    string `gorm:"column:rejected_patent_number;size:50" json:"rejectedPatentNumber,omitempty"`
	RejectedPatentPerson    string `gorm:"column:rejected_patent_person_name;size:200" json:"rejectedPersonName,omitempty"`
	Location                string `gorm:"column:location;size:200" json:"location,omitempty"`

	// Fixed-arity messaging slots: five user messages, four admin replies.
	M1 string `gorm:"column:m1;type:text" json:"m1,omitempty"`
	M2 string `gorm:"column:m2;type:text" json:"m2,omitempty"`
	M3 string `gorm:"column:m3;type:text" json:"m3,omitempty"`
	M4 string `gorm:"column:m4;type:text" json:"m4,omitempty"`
	M5 string `gorm:"column:m5;type:text" json:"m5,omitempty"`
	R1 string `gorm:"column:r1;type:text" json:"r1,omitempty"`
	R2 string `gorm:"column:r2;type:text" json:"r2,omitempty"`
	R3 string `gorm:"column:r3;type:text" json:"r3,omitempty"`
	R4 string `gorm:"column:r4;type:text" json:"r4,omitempty"`

	Status   string `gorm:"column:status;size:50;index" json:"status"`
	IsActive *bool  `gorm:"column:is_active" json:"isActive,omitempty"`

	FilingDate *time.Time `gorm:"column:filing_date" json:"filingDate,omitempty"`
	CreatedAt  time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updatedAt"`
}

func (PatentFiling) TableName() string { return "patent_filings" }

// StageGranted reports whether the grant flag is present and true.
func (f *PatentFiling) StageGranted() bool {
	return f.Stage5Granted != nil && *f.Stage5Granted
}
