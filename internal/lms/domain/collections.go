package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrBucketNotFound           = errors.New("collection bucket not found")
	ErrCollectionStatusNotFound = errors.New("collection status not found")
	ErrDpdOutOfBucketRange      = errors.New("dpd outside bucket range")
)

// NpaCategory is the regulatory asset classification ladder.
type NpaCategory string

const (
	NpaCategoryStandard    NpaCategory = "standard"
	NpaCategorySubStandard NpaCategory = "sub_standard"
	NpaCategoryDoubtful1   NpaCategory = "doubtful_1"
	NpaCategoryDoubtful2   NpaCategory = "doubtful_2"
	NpaCategoryDoubtful3   NpaCategory = "doubtful_3"
	NpaCategoryLoss        NpaCategory = "loss"
)

// NpaCategoryValues lists the closed set accepted by the npa_category column.
func NpaCategoryValues() []string {
	return []string{"standard", "sub_standard", "doubtful_1", "doubtful_2", "doubtful_3", "loss"}
}

// Valid reports whether the value belongs to the declared enum set.
func (c NpaCategory) Valid() bool {
	switch c {
	case NpaCategoryStandard, NpaCategorySubStandard, NpaCategoryDoubtful1,
		NpaCategoryDoubtful2, NpaCategoryDoubtful3, NpaCategoryLoss:
		return true
	}
	return false
}

// CollectionActivityType classifies outreach attempts.
type CollectionActivityType string

const (
	ActivityTypeCall        CollectionActivityType = "call"
	ActivityTypeVisit       CollectionActivityType = "visit"
	ActivityTypeEmail       CollectionActivityType = "email"
	ActivityTypeSms         CollectionActivityType = "sms"
	ActivityTypeWhatsapp    CollectionActivityType = "whatsapp"
	ActivityTypeLegalNotice CollectionActivityType = "legal_notice"
	ActivityTypeCourtFiling CollectionActivityType = "court_filing"
	ActivityTypeOther       CollectionActivityType = "other"
)

// CollectionActivityTypeValues lists the closed set accepted by the
// collection_activity_type column.
func CollectionActivityTypeValues() []string {
	return []string{"call", "visit", "email", "sms", "whatsapp", "legal_notice", "court_filing", "other"}
}

// Valid reports whether the value belongs to the declared enum set.
func (t CollectionActivityType) Valid() bool {
	switch t {
	case ActivityTypeCall, ActivityTypeVisit, ActivityTypeEmail, ActivityTypeSms,
		ActivityTypeWhatsapp, ActivityTypeLegalNotice, ActivityTypeCourtFiling, ActivityTypeOther:
		return true
	}
	return false
}

// CollectionOutcome records where an outreach attempt landed.
type CollectionOutcome string

const (
	OutcomePromisedToPay        CollectionOutcome = "promised_to_pay"
	OutcomePaid                 CollectionOutcome = "paid"
	OutcomeRefusedToPay         CollectionOutcome = "refused_to_pay"
	OutcomeWrongNumber          CollectionOutcome = "wrong_number"
	OutcomeNotReachable         CollectionOutcome = "not_reachable"
	OutcomePaymentArrangement   CollectionOutcome = "payment_arrangement"
	OutcomeLegalActionInitiated CollectionOutcome = "legal_action_initiated"
)

// CollectionOutcomeValues lists the closed set accepted by the
// collection_outcome column.
func CollectionOutcomeValues() []string {
	return []string{
		"promised_to_pay", "paid", "refused_to_pay", "wrong_number",
		"not_reachable", "payment_arrangement", "legal_action_initiated",
	}
}

// Valid reports whether the value belongs to the declared enum set.
func (o CollectionOutcome) Valid() bool {
	switch o {
	case OutcomePromisedToPay, OutcomePaid, OutcomeRefusedToPay, OutcomeWrongNumber,
		OutcomeNotReachable, OutcomePaymentArrangement, OutcomeLegalActionInitiated:
		return true
	}
	return false
}

// ProceedingType classifies legal recovery routes.
type ProceedingType string

const (
	ProceedingTypeLegalNotice          ProceedingType = "legal_notice"
	ProceedingTypeCivilSuite           ProceedingType = "civil_suite"
	ProceedingTypeCriminalCase         ProceedingType = "criminal_case"
	ProceedingTypeSarfaesi             ProceedingType = "sarfaesi"
	ProceedingTypeDebtRecoveryTribunal ProceedingType = "debt_recovery_tribunal"
	ProceedingTypeArbitration          ProceedingType = "arbitration"
)

// ProceedingTypeValues lists the closed set accepted by the proceeding_type column.
func ProceedingTypeValues() []string {
	return []string{"legal_notice", "civil_suite", "criminal_case", "sarfaesi", "debt_recovery_tribunal", "arbitration"}
}

// Valid reports whether the value belongs to the declared enum set.
func (t ProceedingType) Valid() bool {
	switch t {
	case ProceedingTypeLegalNotice, ProceedingTypeCivilSuite, ProceedingTypeCriminalCase,
		ProceedingTypeSarfaesi, ProceedingTypeDebtRecoveryTribunal, ProceedingTypeArbitration:
		return true
	}
	return false
}

// ProceedingStage tracks where a legal case stands.
type ProceedingStage string

const (
	StageInitiated        ProceedingStage = "initiated"
	StageUnderReview      ProceedingStage = "under_review"
	StageHearingScheduled ProceedingStage = "hearing_scheduled"
	StageJudgmentAwaited  ProceedingStage = "judgment_awaited"
	StageJudgmentInFavor  ProceedingStage = "judgment_in_favor"
	StageJudgmentAgainst  ProceedingStage = "judgment_against"
	StageSettled          ProceedingStage = "settled"
	StageClosed           ProceedingStage = "closed"
)

// ProceedingStageValues lists the closed set accepted by the proceeding_stage column.
func ProceedingStageValues() []string {
	return []string{
		"initiated", "under_review", "hearing_scheduled", "judgment_awaited",
		"judgment_in_favor", "judgment_against", "settled", "closed",
	}
}

// Valid reports whether the value belongs to the declared enum set.
func (s ProceedingStage) Valid() bool {
	switch s {
	case StageInitiated, StageUnderReview, StageHearingScheduled, StageJudgmentAwaited,
		StageJudgmentInFavor, StageJudgmentAgainst, StageSettled, StageClosed:
		return true
	}
	return false
}

// CollectionBucket partitions the DPD axis into named strategy bands.
type CollectionBucket struct {
	ID                     uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	BucketCode             string          `gorm:"column:bucketCode;type:varchar(50);not null;uniqueIndex;index:coll_bucket_code" json:"bucket_code"`
	BucketName             string          `gorm:"column:bucketName;type:varchar(255);not null" json:"bucket_name"`
	MinDpdDays             int             `gorm:"column:minDpdDays;not null;index:coll_bucket_dpd" json:"min_dpd_days"`
	MaxDpdDays             int             `gorm:"column:maxDpdDays;not null;index:coll_bucket_dpd" json:"max_dpd_days"`
	ProvisioningPercentage decimal.Decimal `gorm:"column:provisioningPercentage;type:decimal(5,2);not null" json:"provisioning_percentage"`
	CollectionStrategy     string          `gorm:"column:collectionStrategy;type:text;not null" json:"collection_strategy"`
	IsActive               bool            `gorm:"column:isActive;not null;default:true;index:coll_bucket_active" json:"is_active"`
	CreatedAt              time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
}

// TableName maps the entity into the lms namespace.
func (CollectionBucket) TableName() string { return "lms.collection_bucket" }

// Covers reports whether the DPD count falls inside the bucket band.
func (b *CollectionBucket) Covers(dpdDays int) bool {
	return dpdDays >= b.MinDpdDays && dpdDays <= b.MaxDpdDays
}

// ProvisionFor computes the provisioning amount for an overdue exposure.
func (b *CollectionBucket) ProvisionFor(overdueAmount decimal.Decimal) decimal.Decimal {
	return overdueAmount.Mul(b.ProvisioningPercentage).Div(decimal.NewFromInt(100)).Round(2)
}

// LoanCollectionStatus is the single live collections record per account:
// current bucket, DPD, overdue split and NPA classification.
type LoanCollectionStatus struct {
	ID               int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LoanAccountID    uuid.UUID       `gorm:"column:loanAccountId;type:uuid;not null;uniqueIndex;index:loan_coll_status_loan_acc" json:"loan_account_id"`
	CurrentBucket    *uuid.UUID      `gorm:"column:currentBucket;type:uuid;index:loan_coll_status_bucket" json:"current_bucket,omitempty"`
	DpdDays          int             `gorm:"column:dpdDays;not null;default:0;index:loan_coll_status_dpd" json:"dpd_days"`
	LastPaymentDate  *time.Time      `gorm:"column:lastPaymentDate;type:date" json:"last_payment_date,omitempty"`
	TotalOverdue     decimal.Decimal `gorm:"column:totalOverdueAmount;type:decimal(15,2);not null;default:0" json:"total_overdue_amount"`
	PrincipalOverdue decimal.Decimal `gorm:"column:principalOverdue;type:decimal(15,2);not null;default:0" json:"principal_overdue"`
	InterestOverdue  decimal.Decimal `gorm:"column:interestOverdue;type:decimal(15,2);not null;default:0" json:"interest_overdue"`
	FeeOverdue       decimal.Decimal `gorm:"column:feeOverdue;type:decimal(15,2);not null;default:0" json:"fee_overdue"`
	NpaDate          *time.Time      `gorm:"column:npaDate;type:date" json:"npa_date,omitempty"`
	NpaCategory      *NpaCategory    `gorm:"column:npaCategory;type:npa_category;index:loan_coll_status_npa" json:"npa_category,omitempty"`
	Provisioning     decimal.Decimal `gorm:"column:provisioningAmount;type:decimal(15,2);not null;default:0" json:"provisioning_amount"`
	AssignedTo       *string         `gorm:"column:assignedTo;type:varchar(255);index:loan_coll_status_assigned" json:"assigned_to,omitempty"`
	AssignedDate     *time.Time      `gorm:"column:assignedDate;type:date" json:"assigned_date,omitempty"`
	LastFollowUpDate *time.Time      `gorm:"column:lastFollowUpDate;type:date" json:"last_follow_up_date,omitempty"`
	NextFollowUpDate *time.Time      `gorm:"column:nextFollowUpDate;type:date" json:"next_follow_up_date,omitempty"`
	CreatedAt        time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the lms namespace.
func (LoanCollectionStatus) TableName() string { return "lms.loan_collection_status" }

// UpdateOverdue refreshes the overdue split and total. The total is always
// the sum of the three components.
func (s *LoanCollectionStatus) UpdateOverdue(principal, interest, fees decimal.Decimal, dpdDays int) {
	s.PrincipalOverdue = principal
	s.InterestOverdue = interest
	s.FeeOverdue = fees
	s.TotalOverdue = principal.Add(interest).Add(fees)
	s.DpdDays = dpdDays
	s.UpdatedAt = time.Now()
}

// AssignBucket places the account into the bucket covering its DPD and
// refreshes provisioning against the total overdue.
func (s *LoanCollectionStatus) AssignBucket(bucket *CollectionBucket) error {
	if !bucket.Covers(s.DpdDays) {
		return ErrDpdOutOfBucketRange
	}
	s.CurrentBucket = &bucket.ID
	s.Provisioning = bucket.ProvisionFor(s.TotalOverdue)
	s.UpdatedAt = time.Now()
	return nil
}

// ClassifyNpa stamps the regulatory category and the date it took effect.
func (s *LoanCollectionStatus) ClassifyNpa(category NpaCategory, asOf time.Time) {
	s.NpaCategory = &category
	s.NpaDate = &asOf
	s.UpdatedAt = time.Now()
}

// RecordPayment resets DPD tracking after a payment clears overdues.
func (s *LoanCollectionStatus) RecordPayment(paymentDate time.Time) {
	s.LastPaymentDate = &paymentDate
	s.UpdatedAt = time.Now()
}

// Assign hands the account to a collections agent.
func (s *LoanCollectionStatus) Assign(agent string, asOf time.Time) {
	s.AssignedTo = &agent
	s.AssignedDate = &asOf
	s.UpdatedAt = time.Now()
}

// CollectionActivity is one outreach attempt logged against an account's
// collection record. Append-only.
type CollectionActivity struct {
	ID                     uuid.UUID              `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	LoanCollectionStatusID int64                  `gorm:"column:loanCollectionStatusId;not null;index:coll_act_status" json:"loan_collection_status_id"`
	ActivityType           CollectionActivityType `gorm:"column:activityType;type:collection_activity_type;not null;index:coll_act_type" json:"activity_type"`
	ActivityDate           time.Time              `gorm:"column:activityDate;type:date;not null;index:coll_act_date" json:"activity_date"`
	Notes                  *string                `gorm:"column:notes;type:text" json:"notes,omitempty"`
	Outcome                *CollectionOutcome     `gorm:"column:outcome;type:collection_outcome" json:"outcome,omitempty"`
	NextActionDate         *time.Time             `gorm:"column:nextActionDate;type:date" json:"next_action_date,omitempty"`
	AssignedTo             string                 `gorm:"column:assignedTo;type:varchar(255);not null;index:coll_act_assigned" json:"assigned_to"`
	CreatedAt              time.Time              `gorm:"column:createdAt;not null" json:"created_at"`
}

// TableName maps the entity into the lms namespace.
func (CollectionActivity) TableName() string { return "lms.collection_activity" }

// RecoveryProceeding tracks a legal case against a defaulted account.
type RecoveryProceeding struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	LoanAccountID        uuid.UUID       `gorm:"column:loanAccountId;type:uuid;not null;index:rec_proc_loan_acc" json:"loan_account_id"`
	ProceedingType       ProceedingType  `gorm:"column:proceedingType;type:proceeding_type;not null;index:rec_proc_type" json:"proceeding_type"`
	Stage                ProceedingStage `gorm:"column:stage;type:proceeding_stage;not null;default:'initiated';index:rec_proc_stage" json:"stage"`
	FilingDate           time.Time       `gorm:"column:filingDate;type:date;not null" json:"filing_date"`
	CaseNumber           *string         `gorm:"column:caseNumber;type:varchar(100);index:rec_proc_case_num" json:"case_number,omitempty"`
	CourtName            *string         `gorm:"column:courtName;type:varchar(255)" json:"court_name,omitempty"`
	LawyerName           *string         `gorm:"column:lawyerName;type:varchar(255)" json:"lawyer_name,omitempty"`
	LegalCharges         decimal.Decimal `gorm:"column:legalCharges;type:decimal(15,2);not null;default:0" json:"legal_charges"`
	ExpectedRecoveryDate *time.Time      `gorm:"column:expectedRecoveryDate;type:date" json:"expected_recovery_date,omitempty"`
	ActualRecoveryDate   *time.Time      `gorm:"column:actualRecoveryDate;type:date" json:"actual_recovery_date,omitempty"`
	RecoveryAmount       decimal.Decimal `gorm:"column:recoveryAmount;type:decimal(15,2);not null;default:0" json:"recovery_amount"`
	Status               string          `gorm:"column:status;type:varchar(50);not null;default:'active';index:rec_proc_status" json:"status"`
	CreatedAt            time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the lms namespace.
func (RecoveryProceeding) TableName() string { return "lms.recovery_proceeding" }

// AdvanceStage moves the case to a new stage.
func (p *RecoveryProceeding) AdvanceStage(stage ProceedingStage) error {
	if !stage.Valid() {
		return errors.New("invalid proceeding stage")
	}
	p.Stage = stage
	p.UpdatedAt = time.Now()
	return nil
}

// RecordRecovery books recovered money against the case.
func (p *RecoveryProceeding) RecordRecovery(amount decimal.Decimal, recoveredOn time.Time) {
	p.RecoveryAmount = p.RecoveryAmount.Add(amount)
	p.ActualRecoveryDate = &recoveredOn
	p.UpdatedAt = time.Now()
}

// CollectionBucketRepository provides access to DPD bucket definitions.
type CollectionBucketRepository interface {
	Create(ctx context.Context, bucket *CollectionBucket) error
	Update(ctx context.Context, bucket *CollectionBucket) error
	FindActive(ctx context.Context) ([]*CollectionBucket, error)
	FindForDpd(ctx context.Context, dpdDays int) (*CollectionBucket, error)
}

// LoanCollectionStatusRepository provides access to per-account collection
// records.
type LoanCollectionStatusRepository interface {
	Create(ctx context.Context, status *LoanCollectionStatus) error
	Update(ctx context.Context, status *LoanCollectionStatus) error
	FindByAccountID(ctx context.Context, accountID uuid.UUID) (*LoanCollectionStatus, error)
	FindByDpdRange(ctx context.Context, minDpd, maxDpd int) ([]*LoanCollectionStatus, error)
}

// CollectionActivityRepository provides access to outreach logs.
type CollectionActivityRepository interface {
	Create(ctx context.Context, activity *CollectionActivity) error
	FindByCollectionStatusID(ctx context.Context, statusID int64) ([]*CollectionActivity, error)
}

// RecoveryProceedingRepository provides access to legal case records.
type RecoveryProceedingRepository interface {
	Create(ctx context.Context, proceeding *RecoveryProceeding) error
	Update(ctx context.Context, proceeding *RecoveryProceeding) error
	FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*RecoveryProceeding, error)
}
