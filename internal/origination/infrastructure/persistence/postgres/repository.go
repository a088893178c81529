package postgres

import (
	"context"
	"errors"

	"github.com/finvolv/lendingplatform/internal/origination/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type loanProductRepository struct {
	db *gorm.DB
}

// NewLoanProductRepository creates the GORM-backed loan product repository.
func NewLoanProductRepository(db *gorm.DB) domain.LoanProductRepository {
	return &loanProductRepository{db: db}
}

func (r *loanProductRepository) Create(ctx context.Context, product *domain.LoanProduct) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *loanProductRepository) Update(ctx context.Context, product *domain.LoanProduct) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *loanProductRepository) FindByID(ctx context.Context, id int64) (*domain.LoanProduct, error) {
	var product domain.LoanProduct
	if err := r.db.WithContext(ctx).Where(`"id" = ?`, id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *loanProductRepository) FindByCode(ctx context.Context, code string) (*domain.LoanProduct, error) {
	var product domain.LoanProduct
	if err := r.db.WithContext(ctx).Where(`"code" = ?`, code).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *loanProductRepository) FindActive(ctx context.Context) ([]*domain.LoanProduct, error) {
	var products []*domain.LoanProduct
	err := r.db.WithContext(ctx).Where(`"isActive" = ?`, true).Find(&products).Error
	return products, err
}

type ltvConfigRepository struct {
	db *gorm.DB
}

// NewLtvConfigRepository creates the GORM-backed LTV config repository.
func NewLtvConfigRepository(db *gorm.DB) domain.LtvConfigRepository {
	return &ltvConfigRepository{db: db}
}

func (r *ltvConfigRepository) Create(ctx context.Context, cfg *domain.LtvConfig) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *ltvConfigRepository) FindByProductAndFundType(ctx context.Context, productID int64, fundType domain.MutualFundType) (*domain.LtvConfig, error) {
	var cfg domain.LtvConfig
	err := r.db.WithContext(ctx).
		Where(`"loanProductId" = ? AND "mutualFundType" = ?`, productID, fundType).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLtvConfigNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *ltvConfigRepository) FindByProduct(ctx context.Context, productID int64) ([]*domain.LtvConfig, error) {
	var cfgs []*domain.LtvConfig
	err := r.db.WithContext(ctx).Where(`"loanProductId" = ?`, productID).Find(&cfgs).Error
	return cfgs, err
}

type loanApplicationRepository struct {
	db *gorm.DB
}

// NewLoanApplicationRepository creates the GORM-backed loan application repository.
func NewLoanApplicationRepository(db *gorm.DB) domain.LoanApplicationRepository {
	return &loanApplicationRepository{db: db}
}

func (r *loanApplicationRepository) Create(ctx context.Context, app *domain.LoanApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *loanApplicationRepository) Update(ctx context.Context, app *domain.LoanApplication) error {
	return r.db.WithContext(ctx).Save(app).Error
}

func (r *loanApplicationRepository) FindByID(ctx context.Context, id int64) (*domain.LoanApplication, error) {
	var app domain.LoanApplication
	if err := r.db.WithContext(ctx).Where(`"id" = ?`, id).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *loanApplicationRepository) FindByApplicationNumber(ctx context.Context, number string) (*domain.LoanApplication, error) {
	var app domain.LoanApplication
	err := r.db.WithContext(ctx).Where(`"applicationNumber" = ?`, number).First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *loanApplicationRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.LoanApplication, int64, error) {
	var (
		apps  []*domain.LoanApplication
		total int64
	)
	query := r.db.WithContext(ctx).Model(&domain.LoanApplication{}).Where(`"userId" = ?`, userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order(`"createdAt" DESC`).Limit(limit).Offset(offset).Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (r *loanApplicationRepository) FindByStatus(ctx context.Context, status domain.LoanApplicationStatus, limit, offset int) ([]*domain.LoanApplication, int64, error) {
	var (
		apps  []*domain.LoanApplication
		total int64
	)
	query := r.db.WithContext(ctx).Model(&domain.LoanApplication{}).Where(`"status" = ?`, status)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order(`"createdAt" ASC`).Limit(limit).Offset(offset).Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

type mutualFundCollateralRepository struct {
	db *gorm.DB
}

// NewMutualFundCollateralRepository creates the GORM-backed collateral repository.
func NewMutualFundCollateralRepository(db *gorm.DB) domain.MutualFundCollateralRepository {
	return &mutualFundCollateralRepository{db: db}
}

func (r *mutualFundCollateralRepository) Create(ctx context.Context, collateral *domain.MutualFundCollateral) error {
	return r.db.WithContext(ctx).Create(collateral).Error
}

func (r *mutualFundCollateralRepository) Update(ctx context.Context, collateral *domain.MutualFundCollateral) error {
	return r.db.WithContext(ctx).Save(collateral).Error
}

func (r *mutualFundCollateralRepository) FindByApplicationID(ctx context.Context, applicationID int64) ([]*domain.MutualFundCollateral, error) {
	var rows []*domain.MutualFundCollateral
	err := r.db.WithContext(ctx).Where(`"loanApplicationId" = ?`, applicationID).Find(&rows).Error
	return rows, err
}

func (r *mutualFundCollateralRepository) FindByFolioNumber(ctx context.Context, folio string) ([]*domain.MutualFundCollateral, error) {
	var rows []*domain.MutualFundCollateral
	err := r.db.WithContext(ctx).Where(`"folioNumber" = ?`, folio).Find(&rows).Error
	return rows, err
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates the GORM-backed document repository.
func NewDocumentRepository(db *gorm.DB) domain.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *documentRepository) Update(ctx context.Context, doc *domain.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

func (r *documentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	if err := r.db.WithContext(ctx).Where(`"id" = ?`, id).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) FindByApplicationID(ctx context.Context, applicationID int64) ([]*domain.Document, error) {
	var docs []*domain.Document
	err := r.db.WithContext(ctx).Where(`"loanApplicationId" = ?`, applicationID).Find(&docs).Error
	return docs, err
}

type loanSanctionRepository struct {
	db *gorm.DB
}

// NewLoanSanctionRepository creates the GORM-backed sanction repository.
func NewLoanSanctionRepository(db *gorm.DB) domain.LoanSanctionRepository {
	return &loanSanctionRepository{db: db}
}

func (r *loanSanctionRepository) Create(ctx context.Context, sanction *domain.LoanSanction) error {
	return r.db.WithContext(ctx).Create(sanction).Error
}

func (r *loanSanctionRepository) Update(ctx context.Context, sanction *domain.LoanSanction) error {
	return r.db.WithContext(ctx).Save(sanction).Error
}

func (r *loanSanctionRepository) FindByApplicationID(ctx context.Context, applicationID int64) (*domain.LoanSanction, error) {
	var sanction domain.LoanSanction
	err := r.db.WithContext(ctx).Where(`"loanApplicationId" = ?`, applicationID).First(&sanction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSanctionNotFound
		}
		return nil, err
	}
	return &sanction, nil
}

func (r *loanSanctionRepository) FindByLetterNumber(ctx context.Context, letterNumber string) (*domain.LoanSanction, error) {
	var sanction domain.LoanSanction
	err := r.db.WithContext(ctx).Where(`"sanctionLetterNumber" = ?`, letterNumber).First(&sanction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSanctionNotFound
		}
		return nil, err
	}
	return &sanction, nil
}

type approvalWorkflowRepository struct {
	db *gorm.DB
}

// NewApprovalWorkflowRepository creates the GORM-backed approval workflow repository.
func NewApprovalWorkflowRepository(db *gorm.DB) domain.ApprovalWorkflowRepository {
	return &approvalWorkflowRepository{db: db}
}

func (r *approvalWorkflowRepository) Create(ctx context.Context, entry *domain.ApprovalWorkflow) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *approvalWorkflowRepository) Update(ctx context.Context, entry *domain.ApprovalWorkflow) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *approvalWorkflowRepository) FindByApplicationID(ctx context.Context, applicationID int64) ([]*domain.ApprovalWorkflow, error) {
	var entries []*domain.ApprovalWorkflow
	err := r.db.WithContext(ctx).
		Where(`"loanApplicationId" = ?`, applicationID).
		Order(`"createdAt" ASC`).
		Find(&entries).Error
	return entries, err
}

func (r *approvalWorkflowRepository) FindPendingByApprover(ctx context.Context, approverID uuid.UUID) ([]*domain.ApprovalWorkflow, error) {
	var entries []*domain.ApprovalWorkflow
	err := r.db.WithContext(ctx).
		Where(`"approverId" = ? AND "status" = ?`, approverID, domain.ApprovalStatusPending).
		Find(&entries).Error
	return entries, err
}
