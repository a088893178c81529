package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserNotActive     = errors.New("user is not active")
	ErrInvalidUserStatus = errors.New("invalid user status")
)

// UserStatus is the aggregate gate for platform access.
type UserStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBlocked   UserStatus = "blocked"
	UserStatusInactive  UserStatus = "inactive"
)

// UserStatusValues lists the closed set accepted by the user_status column.
func UserStatusValues() []string {
	return []string{"pending", "active", "suspended", "blocked", "inactive"}
}

// Valid reports whether the value belongs to the declared enum set.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusPending, UserStatusActive, UserStatusSuspended,
		UserStatusBlocked, UserStatusInactive:
		return true
	}
	return false
}

// User is the uniquely identified principal. Verification flags transition
// independently; status gates platform access.
type User struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FullName       string     `gorm:"column:fullName;type:varchar(255);not null" json:"full_name"`
	Age            int        `gorm:"column:age;not null" json:"age"`
	Pan            *string    `gorm:"column:pan;type:varchar(35)" json:"pan,omitempty"`
	Pekrn          *string    `gorm:"column:pekrn;type:varchar(15)" json:"pekrn,omitempty"`
	Mobile         *string    `gorm:"column:mobile;type:varchar(13)" json:"mobile,omitempty"`
	Email          *string    `gorm:"column:email;type:varchar(255)" json:"email,omitempty"`
	Status         UserStatus `gorm:"column:status;type:user_status;not null;default:'pending'" json:"status"`
	EmailVerified  bool       `gorm:"column:emailVerified;not null;default:false" json:"email_verified"`
	MobileVerified bool       `gorm:"column:mobileVerified;not null;default:false" json:"mobile_verified"`
	PanVerified    bool       `gorm:"column:panVerified;not null;default:false" json:"pan_verified"`
	PekrnVerified  bool       `gorm:"column:pekrnVerified;not null;default:false" json:"pekrn_verified"`
	KycVerified    bool       `gorm:"column:kycVerified;not null;default:false" json:"kyc_verified"`
	CreatedAt      time.Time  `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the users namespace.
func (User) TableName() string { return "users.users" }

// NewUser creates a pending user awaiting verification.
func NewUser(fullName string, age int) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New(),
		FullName:  fullName,
		Age:       age,
		Status:    UserStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate rejects enum values outside the declared set.
func (u *User) Validate() error {
	if !u.Status.Valid() {
		return ErrInvalidUserStatus
	}
	return nil
}

// Activate opens platform access.
func (u *User) Activate() {
	u.Status = UserStatusActive
	u.UpdatedAt = time.Now()
}

// Suspend temporarily revokes platform access.
func (u *User) Suspend() {
	u.Status = UserStatusSuspended
	u.UpdatedAt = time.Now()
}

// Block permanently revokes platform access.
func (u *User) Block() {
	u.Status = UserStatusBlocked
	u.UpdatedAt = time.Now()
}

// MarkEmailVerified records a completed email verification.
func (u *User) MarkEmailVerified() {
	u.EmailVerified = true
	u.UpdatedAt = time.Now()
}

// MarkMobileVerified records a completed mobile verification.
func (u *User) MarkMobileVerified() {
	u.MobileVerified = true
	u.UpdatedAt = time.Now()
}

// MarkPanVerified records a completed PAN verification.
func (u *User) MarkPanVerified() {
	u.PanVerified = true
	u.UpdatedAt = time.Now()
}

// MarkKycVerified records a completed KYC verification.
func (u *User) MarkKycVerified() {
	u.KycVerified = true
	u.UpdatedAt = time.Now()
}

// KycVerification holds one identity-provider response per user. Immutable
// once verified except for remark updates.
type KycVerification struct {
	ID                  int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID              uuid.UUID       `gorm:"column:userId;type:uuid;not null;index:kyc_user" json:"user_id"`
	AadhaarNumber       *string         `gorm:"column:aadhaarNumber;type:varchar(12);index:kyc_aadhaar" json:"aadhaar_number,omitempty"`
	CareOf              *string         `gorm:"column:care_of;type:varchar(255)" json:"care_of,omitempty"`
	PanNumber           *string         `gorm:"column:panNumber;type:varchar(10);index:kyc_pan" json:"pan_number,omitempty"`
	FullName            *string         `gorm:"column:fullName;type:varchar(255)" json:"full_name,omitempty"`
	Gender              *string         `gorm:"column:gender;type:varchar(10)" json:"gender,omitempty"`
	Image               *string         `gorm:"column:image;type:varchar(255)" json:"image,omitempty"`
	DateOfBirth         *time.Time      `gorm:"column:dateOfBirth;type:date" json:"date_of_birth,omitempty"`
	Address             json.RawMessage `gorm:"column:address;type:jsonb" json:"address,omitempty"`
	IsVerified          bool            `gorm:"column:isVerified;not null;default:false" json:"is_verified"`
	VerificationDate    *time.Time      `gorm:"column:verificationDate" json:"verification_date,omitempty"`
	VerificationRemarks *string         `gorm:"column:verificationRemarks;type:text" json:"verification_remarks,omitempty"`
	CreatedAt           time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName keeps the KYC record in the los namespace where the upstream
// verification pipeline writes it.
func (KycVerification) TableName() string { return "los.kyc_verification" }

// MarkVerified stamps the verification; once set it is never cleared.
func (k *KycVerification) MarkVerified(remarks string) {
	now := time.Now()
	k.IsVerified = true
	k.VerificationDate = &now
	k.VerificationRemarks = &remarks
	k.UpdatedAt = now
}

// UpdateRemarks is the only mutation allowed after verification.
func (k *KycVerification) UpdateRemarks(remarks string) {
	k.VerificationRemarks = &remarks
	k.UpdatedAt = time.Now()
}

// CasData is the raw consolidated account statement payload for a user.
type CasData struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID       `gorm:"column:userId;type:uuid;not null" json:"user_id"`
	CasData   json.RawMessage `gorm:"column:casData;type:jsonb;not null" json:"cas_data"`
	CreatedAt time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the users namespace.
func (CasData) TableName() string { return "users.cas_data" }

// UserRepository provides access to user identity records.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByStatus(ctx context.Context, status UserStatus, limit, offset int) ([]*User, int64, error)
}

// KycVerificationRepository provides access to KYC verification records.
type KycVerificationRepository interface {
	Create(ctx context.Context, kyc *KycVerification) error
	Update(ctx context.Context, kyc *KycVerification) error
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*KycVerification, error)
}
