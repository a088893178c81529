package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrApprovalNotFound = errors.New("approval workflow entry not found")

// ApprovalStatus tracks one approver's decision at one level.
type ApprovalStatus string

const (
	ApprovalStatusPending     ApprovalStatus = "pending"
	ApprovalStatusApproved    ApprovalStatus = "approved"
	ApprovalStatusRejected    ApprovalStatus = "rejected"
	ApprovalStatusConditional ApprovalStatus = "conditional"
)

// ApprovalStatusValues lists the closed set accepted by the approval_status column.
func ApprovalStatusValues() []string {
	return []string{"pending", "approved", "rejected", "conditional"}
}

// Valid reports whether the value belongs to the declared enum set.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected, ApprovalStatusConditional:
		return true
	}
	return false
}

// ApprovalWorkflow is one step of the multi-level approval chain for an
// application. Lower approvalLevel decides first.
type ApprovalWorkflow struct {
	ID                int64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LoanApplicationID int64          `gorm:"column:loanApplicationId;not null;index:approval_loan_app" json:"loan_application_id"`
	ApproverID        uuid.UUID      `gorm:"column:approverId;type:uuid;not null;index:approval_approver" json:"approver_id"`
	ApprovalLevel     int            `gorm:"column:approvalLevel;not null" json:"approval_level"`
	Role              string         `gorm:"column:role;type:varchar(100);not null" json:"role"`
	Status            ApprovalStatus `gorm:"column:status;type:approval_status;not null;default:'pending';index:approval_status" json:"status"`
	Remarks           *string        `gorm:"column:remarks;type:text" json:"remarks,omitempty"`
	ApprovedAt        *time.Time     `gorm:"column:approvedAt" json:"approved_at,omitempty"`
	CreatedAt         time.Time      `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the los namespace.
func (ApprovalWorkflow) TableName() string { return "los.approval_workflow" }

// Decide records the approver's verdict. Pending entries only.
func (w *ApprovalWorkflow) Decide(status ApprovalStatus, remarks string) error {
	if w.Status != ApprovalStatusPending {
		return errors.New("approval already decided")
	}
	if !status.Valid() || status == ApprovalStatusPending {
		return errors.New("invalid approval decision")
	}
	now := time.Now()
	w.Status = status
	w.Remarks = &remarks
	w.ApprovedAt = &now
	w.UpdatedAt = now
	return nil
}

// ApprovalWorkflowRepository provides access to approval chain entries.
type ApprovalWorkflowRepository interface {
	Create(ctx context.Context, entry *ApprovalWorkflow) error
	Update(ctx context.Context, entry *ApprovalWorkflow) error
	FindByApplicationID(ctx context.Context, applicationID int64) ([]*ApprovalWorkflow, error)
	FindPendingByApprover(ctx context.Context, approverID uuid.UUID) ([]*ApprovalWorkflow, error)
}
