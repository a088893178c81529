package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStatusEnumClosed(t *testing.T) {
	for _, value := range UserStatusValues() {
		assert.True(t, UserStatus(value).Valid(), value)
	}
	assert.False(t, UserStatus("deleted").Valid())
	assert.False(t, UserStatus("").Valid())
}

func TestNewUserStartsPendingAndUnverified(t *testing.T) {
	user := NewUser("Asha Nair", 34)
	require.NoError(t, user.Validate())

	assert.Equal(t, UserStatusPending, user.Status)
	assert.False(t, user.EmailVerified)
	assert.False(t, user.KycVerified)
}

func TestUserVerificationFlagsAreIndependentOfStatus(t *testing.T) {
	user := NewUser("Asha Nair", 34)

	user.MarkEmailVerified()
	user.MarkPanVerified()
	assert.True(t, user.EmailVerified)
	assert.True(t, user.PanVerified)
	assert.Equal(t, UserStatusPending, user.Status, "verification does not open access by itself")

	user.Activate()
	assert.Equal(t, UserStatusActive, user.Status)

	user.Suspend()
	assert.Equal(t, UserStatusSuspended, user.Status)
	assert.True(t, user.EmailVerified, "suspension does not clear verification")
}

func TestKycMarkVerifiedStampsDate(t *testing.T) {
	kyc := &KycVerification{}
	kyc.MarkVerified("aadhaar match")

	assert.True(t, kyc.IsVerified)
	require.NotNil(t, kyc.VerificationDate)
	require.NotNil(t, kyc.VerificationRemarks)
	assert.Equal(t, "aadhaar match", *kyc.VerificationRemarks)

	kyc.UpdateRemarks("manual recheck passed")
	assert.True(t, kyc.IsVerified, "remark updates never clear verification")
	assert.Equal(t, "manual recheck passed", *kyc.VerificationRemarks)
}

func TestIdempotencyKeyExpiry(t *testing.T) {
	key := &IdempotencyKey{ExpiresAt: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)}

	assert.False(t, key.Expired(key.ExpiresAt.Add(-time.Minute)))
	assert.False(t, key.Expired(key.ExpiresAt))
	assert.True(t, key.Expired(key.ExpiresAt.Add(time.Second)))
}
