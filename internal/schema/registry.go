package schema

import (
	lmsdomain "github.com/finvolv/lendingplatform/internal/lms/domain"
	merchantdomain "github.com/finvolv/lendingplatform/internal/merchant/domain"
	losdomain "github.com/finvolv/lendingplatform/internal/origination/domain"
	shareddomain "github.com/finvolv/lendingplatform/internal/shared/domain"
	usersdomain "github.com/finvolv/lendingplatform/internal/users/domain"
)

// Namespaces are the Postgres schemas the platform owns.
const (
	NamespaceUsers    = "users"
	NamespaceLos      = "los"
	NamespaceLms      = "lms"
	NamespaceMerchant = "merchant"
	NamespaceShared   = "shared"
)

// Namespaces returns the schemas in creation order.
func Namespaces() []string {
	return []string{NamespaceUsers, NamespaceLos, NamespaceLms, NamespaceMerchant, NamespaceShared}
}

// Enum is one Postgres enum type and its closed value set.
type Enum struct {
	Name   string
	Values []string
}

// Enums returns every enum type the models' columns reference. The value
// sets come from the domain packages so the database and Go stay in sync.
func Enums() []Enum {
	return []Enum{
		{"user_status", usersdomain.UserStatusValues()},
		{"mutual_fund_type", losdomain.MutualFundTypeValues()},
		{"loan_application_status", losdomain.LoanApplicationStatusValues()},
		{"document_type", losdomain.DocumentTypeValues()},
		{"document_status", losdomain.DocumentStatusValues()},
		{"approval_status", losdomain.ApprovalStatusValues()},
		{"loan_status", lmsdomain.LoanStatusValues()},
		{"disbursement_status", lmsdomain.DisbursementStatusValues()},
		{"emi_status", lmsdomain.EmiStatusValues()},
		{"accrual_status", lmsdomain.AccrualStatusValues()},
		{"fee_type", lmsdomain.FeeTypeValues()},
		{"fee_calculation_method", lmsdomain.FeeCalculationMethodValues()},
		{"fee_status", lmsdomain.FeeStatusValues()},
		{"npa_category", lmsdomain.NpaCategoryValues()},
		{"collection_activity_type", lmsdomain.CollectionActivityTypeValues()},
		{"collection_outcome", lmsdomain.CollectionOutcomeValues()},
		{"proceeding_type", lmsdomain.ProceedingTypeValues()},
		{"proceeding_stage", lmsdomain.ProceedingStageValues()},
		{"restructuring_type", lmsdomain.RestructuringTypeValues()},
		{"restructuring_status", lmsdomain.RestructuringStatusValues()},
		{"adjustment_reason", lmsdomain.AdjustmentReasonValues()},
		{"store_type", merchantdomain.StoreTypeValues()},
		{"gst_verification_status", merchantdomain.GstVerificationStatusValues()},
		{"journey", merchantdomain.JourneyTypeValues()},
		{"order_status", merchantdomain.OrderStatusValues()},
		{"payment_status", merchantdomain.PaymentStatusValues()},
		{"channel_type", merchantdomain.ChannelTypeValues()},
		{"fulfillment_type", merchantdomain.FulfillmentTypeValues()},
		{"settlement_status", merchantdomain.SettlementStatusValues()},
		{"analytics_period", merchantdomain.AnalyticsPeriodValues()},
	}
}

// Models returns every registered model in dependency order: parents before
// the tables that reference them, so foreign keys resolve during migration.
func Models() []any {
	return []any{
		// users
		&usersdomain.User{},
		&usersdomain.KycVerification{},
		&usersdomain.CasData{},
		&usersdomain.Transaction{},
		&usersdomain.Autopay{},
		&usersdomain.SubscriptionPayment{},
		&usersdomain.SubscriptionRefund{},
		&usersdomain.IdempotencyKey{},

		// los
		&losdomain.LoanProduct{},
		&losdomain.LtvConfig{},
		&losdomain.LoanApplication{},
		&losdomain.MutualFundCollateral{},
		&losdomain.Document{},
		&losdomain.LoanSanction{},
		&losdomain.ApprovalWorkflow{},

		// lms
		&lmsdomain.LoanAccount{},
		&lmsdomain.Disbursement{},
		&lmsdomain.EmiSchedule{},
		&lmsdomain.Repayment{},
		&lmsdomain.InterestAccrual{},
		&lmsdomain.AccrualRunLog{},
		&lmsdomain.InterestRateHistory{},
		&lmsdomain.FeeMaster{},
		&lmsdomain.LoanFee{},
		&lmsdomain.FeePayment{},
		&lmsdomain.PenaltyCalculation{},
		&lmsdomain.CollectionBucket{},
		&lmsdomain.LoanCollectionStatus{},
		&lmsdomain.CollectionActivity{},
		&lmsdomain.RecoveryProceeding{},
		&lmsdomain.LoanRestructuring{},
		&lmsdomain.RestructuringTerms{},
		&lmsdomain.InterestRateAdjustment{},
		&lmsdomain.TenureChange{},
		&lmsdomain.TopUpLoan{},

		// merchant
		&merchantdomain.Merchant{},
		&merchantdomain.MerchantKYC{},
		&merchantdomain.MerchantStore{},
		&merchantdomain.MerchantSettlementConfig{},
		&merchantdomain.MerchantCategory{},
		&merchantdomain.Product{},
		&merchantdomain.ProductVariant{},
		&merchantdomain.ProductBundle{},
		&merchantdomain.ProductChannelPricing{},
		&merchantdomain.EmiPlan{},
		&merchantdomain.MerchantEmiPlan{},
		&merchantdomain.MerchantVariantEmiPlan{},
		&merchantdomain.QrCode{},
		&merchantdomain.Order{},
		&merchantdomain.OrderItem{},
		&merchantdomain.OrderStatusHistory{},
		&merchantdomain.Settlement{},
		&merchantdomain.SettlementOrder{},
		&merchantdomain.MerchantAnalyticsDaily{},
		&merchantdomain.MerchantAnalyticsRaw{},
		&merchantdomain.UserJourney{},

		// shared
		&shareddomain.SessionJourney{},
		&shareddomain.ApiKey{},
		&shareddomain.Cors{},
		&shareddomain.CorsConfig{},
	}
}
