package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/finvolv/lendingplatform/internal/lms/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAccountRepo struct {
	accounts []*domain.LoanAccount
}

func (r *stubAccountRepo) Create(ctx context.Context, account *domain.LoanAccount) error { return nil }
func (r *stubAccountRepo) Update(ctx context.Context, account *domain.LoanAccount) error { return nil }
func (r *stubAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.LoanAccount, error) {
	return nil, domain.ErrAccountNotFound
}
func (r *stubAccountRepo) FindByAccountNumber(ctx context.Context, accountNumber string) (*domain.LoanAccount, error) {
	return nil, domain.ErrAccountNotFound
}
func (r *stubAccountRepo) FindByApplicationID(ctx context.Context, applicationID int64) (*domain.LoanAccount, error) {
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindActive(ctx context.Context, limit, offset int) ([]*domain.LoanAccount, int64, error) {
	if offset >= len(r.accounts) {
		return nil, int64(len(r.accounts)), nil
	}
	end := offset + limit
	if end > len(r.accounts) {
		end = len(r.accounts)
	}
	return r.accounts[offset:end], int64(len(r.accounts)), nil
}

type stubAccrualRepo struct {
	existing  map[string]bool
	lookupErr map[string]error
	created   []*domain.InterestAccrual
	posted    []uuid.UUID
}

func accrualKey(accountID uuid.UUID, date time.Time) string {
	return accountID.String() + "|" + date.Format("2006-01-02")
}

func (r *stubAccrualRepo) Create(ctx context.Context, accrual *domain.InterestAccrual) error {
	r.created = append(r.created, accrual)
	return nil
}

func (r *stubAccrualRepo) CreateBatch(ctx context.Context, accruals []*domain.InterestAccrual) error {
	r.created = append(r.created, accruals...)
	return nil
}

func (r *stubAccrualRepo) MarkPosted(ctx context.Context, ids []uuid.UUID) error {
	r.posted = append(r.posted, ids...)
	return nil
}

func (r *stubAccrualRepo) FindUnposted(ctx context.Context, limit int) ([]*domain.InterestAccrual, error) {
	var unposted []*domain.InterestAccrual
	for _, accrual := range r.created {
		if !accrual.PostedToLedger && len(unposted) < limit {
			unposted = append(unposted, accrual)
		}
	}
	return unposted, nil
}

func (r *stubAccrualRepo) FindByAccountAndDate(ctx context.Context, accountID uuid.UUID, date time.Time) (*domain.InterestAccrual, error) {
	if err, ok := r.lookupErr[accrualKey(accountID, date)]; ok {
		return nil, err
	}
	if r.existing[accrualKey(accountID, date)] {
		return &domain.InterestAccrual{}, nil
	}
	return nil, domain.ErrAccrualNotFound
}

type stubRunLogRepo struct {
	logs []*domain.AccrualRunLog
}

func (r *stubRunLogRepo) Create(ctx context.Context, log *domain.AccrualRunLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func (r *stubRunLogRepo) Update(ctx context.Context, log *domain.AccrualRunLog) error { return nil }

func (r *stubRunLogRepo) FindByRunDate(ctx context.Context, date time.Time) ([]*domain.AccrualRunLog, error) {
	return r.logs, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func activeAccount(outstanding, rate string) *domain.LoanAccount {
	return &domain.LoanAccount{
		ID:                 uuid.New(),
		Status:             domain.LoanStatusActive,
		CurrentOutstanding: decimal.RequireFromString(outstanding),
		InterestRate:       decimal.RequireFromString(rate),
	}
}

func TestRunDailyAccruesEveryActiveAccount(t *testing.T) {
	accounts := &stubAccountRepo{accounts: []*domain.LoanAccount{
		activeAccount("500000.00", "12.0000"),
		activeAccount("250000.00", "10.5000"),
	}}
	accruals := &stubAccrualRepo{}
	runLogs := &stubRunLogRepo{}

	svc := NewAccrualService(accounts, accruals, runLogs, 365, testLogger())
	runDate := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	runLog, err := svc.RunDaily(context.Background(), runDate)
	require.NoError(t, err)

	assert.Equal(t, domain.AccrualStatusCompleted, runLog.Status)
	assert.Equal(t, 2, runLog.LoansProcessed)
	require.Len(t, accruals.created, 2)

	// 500000 * 12 / (365 * 100) = 164.38, 250000 * 10.5 / (365 * 100) = 71.92
	assert.True(t, accruals.created[0].AccruedInterest.Equal(decimal.RequireFromString("164.38")))
	assert.True(t, accruals.created[1].AccruedInterest.Equal(decimal.RequireFromString("71.92")))
	assert.True(t, runLog.TotalAccruedInterest.Equal(decimal.RequireFromString("236.30")))
}

func TestRunDailySkipsAccountsAlreadyAccrued(t *testing.T) {
	account := activeAccount("500000.00", "12.0000")
	runDate := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	accounts := &stubAccountRepo{accounts: []*domain.LoanAccount{account}}
	accruals := &stubAccrualRepo{existing: map[string]bool{
		accrualKey(account.ID, runDate): true,
	}}
	runLogs := &stubRunLogRepo{}

	svc := NewAccrualService(accounts, accruals, runLogs, 365, testLogger())
	runLog, err := svc.RunDaily(context.Background(), runDate)
	require.NoError(t, err)

	assert.Empty(t, accruals.created, "rerun must not duplicate accruals")
	assert.Equal(t, domain.AccrualStatusCompleted, runLog.Status)
	assert.Equal(t, 0, runLog.LoansProcessed)
}

func TestRunDailyTransientLookupErrorDoesNotAccrue(t *testing.T) {
	flaky := activeAccount("500000.00", "12.0000")
	healthy := activeAccount("250000.00", "10.5000")
	runDate := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	accounts := &stubAccountRepo{accounts: []*domain.LoanAccount{flaky, healthy}}
	accruals := &stubAccrualRepo{lookupErr: map[string]error{
		accrualKey(flaky.ID, runDate): errors.New("connection reset"),
	}}
	runLogs := &stubRunLogRepo{}

	svc := NewAccrualService(accounts, accruals, runLogs, 365, testLogger())
	runLog, err := svc.RunDaily(context.Background(), runDate)
	require.NoError(t, err)

	// The account with the failed existence check is skipped, never inserted.
	require.Len(t, accruals.created, 1)
	assert.Equal(t, healthy.ID, accruals.created[0].LoanAccountID)

	assert.Equal(t, domain.AccrualStatusPartial, runLog.Status)
	assert.Equal(t, 1, runLog.LoansProcessed)
	require.NotNil(t, runLog.ErrorMessage)
	assert.Contains(t, *runLog.ErrorMessage, "1 accounts")
}

func TestPostToLedger(t *testing.T) {
	accruals := &stubAccrualRepo{}
	accruals.created = []*domain.InterestAccrual{
		domain.NewInterestAccrual(uuid.New(), time.Now(), decimal.RequireFromString("100000.00"), decimal.RequireFromString("12.0000"), 1, 365),
		domain.NewInterestAccrual(uuid.New(), time.Now(), decimal.RequireFromString("200000.00"), decimal.RequireFromString("12.0000"), 1, 365),
	}

	svc := NewAccrualService(&stubAccountRepo{}, accruals, &stubRunLogRepo{}, 365, testLogger())
	posted, err := svc.PostToLedger(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 2, posted)
	assert.Len(t, accruals.posted, 2)
}
