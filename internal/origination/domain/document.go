package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDocumentNotFound      = errors.New("document not found")
	ErrInvalidDocumentStatus = errors.New("invalid document status")
)

// DocumentType classifies uploaded borrower documents.
type DocumentType string

const (
	DocumentTypeAadhaar             DocumentType = "aadhaar"
	DocumentTypePan                 DocumentType = "pan"
	DocumentTypeBankStatement       DocumentType = "bank_statement"
	DocumentTypeMutualFundStatement DocumentType = "mutual_fund_statement"
	DocumentTypeIncomeProof         DocumentType = "income_proof"
	DocumentTypeAgreement           DocumentType = "agreement"
	DocumentTypeKyc                 DocumentType = "kyc"
)

// DocumentTypeValues lists the closed set accepted by the document_type column.
func DocumentTypeValues() []string {
	return []string{
		"aadhaar", "pan", "bank_statement", "mutual_fund_statement",
		"income_proof", "agreement", "kyc",
	}
}

// Valid reports whether the value belongs to the declared enum set.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeAadhaar, DocumentTypePan, DocumentTypeBankStatement,
		DocumentTypeMutualFundStatement, DocumentTypeIncomeProof,
		DocumentTypeAgreement, DocumentTypeKyc:
		return true
	}
	return false
}

// DocumentStatus tracks verification progress of an uploaded document.
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusUploaded DocumentStatus = "uploaded"
	DocumentStatusVerified DocumentStatus = "verified"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// DocumentStatusValues lists the closed set accepted by the document_status column.
func DocumentStatusValues() []string {
	return []string{"pending", "uploaded", "verified", "rejected"}
}

// Valid reports whether the value belongs to the declared enum set.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusPending, DocumentStatusUploaded, DocumentStatusVerified, DocumentStatusRejected:
		return true
	}
	return false
}

// Document is an uploaded file attached to a loan application.
type Document struct {
	ID                  uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	LoanApplicationID   int64          `gorm:"column:loanApplicationId;not null;index:docs_loan_app" json:"loan_application_id"`
	DocumentType        DocumentType   `gorm:"column:documentType;type:document_type;not null;index:docs_type" json:"document_type"`
	DocumentURL         string         `gorm:"column:documentUrl;type:varchar(500);not null" json:"document_url"`
	FileName            string         `gorm:"column:fileName;type:varchar(255);not null" json:"file_name"`
	FileSize            *int           `gorm:"column:fileSize" json:"file_size,omitempty"`
	Status              DocumentStatus `gorm:"column:status;type:document_status;not null;default:'pending';index:docs_status" json:"status"`
	VerificationRemarks *string        `gorm:"column:verificationRemarks;type:text" json:"verification_remarks,omitempty"`
	VerifiedBy          *uuid.UUID     `gorm:"column:verifiedBy;type:uuid" json:"verified_by,omitempty"`
	VerifiedAt          *time.Time     `gorm:"column:verifiedAt" json:"verified_at,omitempty"`
	CreatedAt           time.Time      `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the los namespace.
func (Document) TableName() string { return "los.documents" }

// NewDocument registers an uploaded document awaiting verification.
func NewDocument(applicationID int64, docType DocumentType, url, fileName string) *Document {
	now := time.Now()
	return &Document{
		ID:                uuid.New(),
		LoanApplicationID: applicationID,
		DocumentType:      docType,
		DocumentURL:       url,
		FileName:          fileName,
		Status:            DocumentStatusUploaded,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Verify marks the document verified by a reviewer.
func (d *Document) Verify(verifierID uuid.UUID, remarks string) {
	now := time.Now()
	d.Status = DocumentStatusVerified
	d.VerifiedBy = &verifierID
	d.VerifiedAt = &now
	d.VerificationRemarks = &remarks
	d.UpdatedAt = now
}

// Reject marks the document rejected with remarks.
func (d *Document) Reject(verifierID uuid.UUID, remarks string) {
	now := time.Now()
	d.Status = DocumentStatusRejected
	d.VerifiedBy = &verifierID
	d.VerifiedAt = &now
	d.VerificationRemarks = &remarks
	d.UpdatedAt = now
}

// DocumentRepository provides access to application documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	Update(ctx context.Context, doc *Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)
	FindByApplicationID(ctx context.Context, applicationID int64) ([]*Document, error)
}
