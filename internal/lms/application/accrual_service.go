package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finvolv/lendingplatform/internal/lms/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const accrualPageSize = 200

// AccrualService runs the daily interest accrual over active loan accounts.
// Each run writes one accrual row per account plus a run log summary. Rows
// already posted to the ledger are never touched.
type AccrualService struct {
	accounts      domain.LoanAccountRepository
	accruals      domain.InterestAccrualRepository
	runLogs       domain.AccrualRunLogRepository
	dayCountBasis int
	logger        *slog.Logger
}

// NewAccrualService creates the accrual batch service. dayCountBasis is the
// year denominator, typically 365.
func NewAccrualService(
	accounts domain.LoanAccountRepository,
	accruals domain.InterestAccrualRepository,
	runLogs domain.AccrualRunLogRepository,
	dayCountBasis int,
	logger *slog.Logger,
) *AccrualService {
	return &AccrualService{
		accounts:      accounts,
		accruals:      accruals,
		runLogs:       runLogs,
		dayCountBasis: dayCountBasis,
		logger:        logger,
	}
}

// RunDaily accrues one day of interest for every active account as of
// runDate. Accounts that already have an accrual row for the date are
// skipped, so reruns are safe.
func (s *AccrualService) RunDaily(ctx context.Context, runDate time.Time) (*domain.AccrualRunLog, error) {
	runLog := &domain.AccrualRunLog{
		RunDate:   runDate,
		StartDate: runDate,
		EndDate:   runDate,
		Status:    domain.AccrualStatusPending,
		StartedAt: time.Now(),
	}
	if err := s.runLogs.Create(ctx, runLog); err != nil {
		return nil, fmt.Errorf("create run log: %w", err)
	}

	var (
		processed    int
		failed       int
		totalAccrued = decimal.Zero
		offset       = 0
	)

	for {
		accounts, _, err := s.accounts.FindActive(ctx, accrualPageSize, offset)
		if err != nil {
			runLog.Fail(err.Error())
			if updateErr := s.runLogs.Update(ctx, runLog); updateErr != nil {
				s.logger.Error("failed to persist run log failure", slog.Any("error", updateErr))
			}
			return runLog, fmt.Errorf("load active accounts: %w", err)
		}
		if len(accounts) == 0 {
			break
		}

		batch := make([]*domain.InterestAccrual, 0, len(accounts))
		for _, account := range accounts {
			_, lookupErr := s.accruals.FindByAccountAndDate(ctx, account.ID, runDate)
			if lookupErr == nil {
				continue
			}
			if !errors.Is(lookupErr, domain.ErrAccrualNotFound) {
				// A transient read failure must not turn into a duplicate
				// accrual; leave the account for the next rerun.
				s.logger.Error("accrual existence check failed",
					slog.String("loan_account_id", account.ID.String()),
					slog.Any("error", lookupErr))
				failed++
				continue
			}
			accrual := domain.NewInterestAccrual(
				account.ID, runDate,
				account.CurrentOutstanding, account.InterestRate,
				1, s.dayCountBasis,
			)
			batch = append(batch, accrual)
		}

		if err := s.accruals.CreateBatch(ctx, batch); err != nil {
			s.logger.Error("accrual batch insert failed",
				slog.Int("batch_size", len(batch)),
				slog.Any("error", err))
			failed += len(batch)
		} else {
			for _, accrual := range batch {
				totalAccrued = totalAccrued.Add(accrual.AccruedInterest)
			}
			processed += len(batch)
		}

		offset += len(accounts)
	}

	if failed > 0 {
		runLog.CompletePartial(processed, totalAccrued,
			fmt.Sprintf("%d accounts could not be accrued", failed))
	} else {
		runLog.Complete(processed, totalAccrued)
	}
	if err := s.runLogs.Update(ctx, runLog); err != nil {
		return runLog, fmt.Errorf("finalize run log: %w", err)
	}

	s.logger.Info("accrual run finished",
		slog.Time("run_date", runDate),
		slog.Int("processed", processed),
		slog.Int("failed", failed),
		slog.String("total_accrued", totalAccrued.String()))
	return runLog, nil
}

// PostToLedger marks up to limit unposted accruals as posted.
func (s *AccrualService) PostToLedger(ctx context.Context, limit int) (int, error) {
	unposted, err := s.accruals.FindUnposted(ctx, limit)
	if err != nil {
		return 0, err
	}
	if len(unposted) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, len(unposted))
	for i, accrual := range unposted {
		ids[i] = accrual.ID
	}
	if err := s.accruals.MarkPosted(ctx, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}
