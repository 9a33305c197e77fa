package service

import (
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/settlement"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SettlementObserver receives the outcome of every computed report
type SettlementObserver interface {
	ObserveSettlement(transactions int, maxResidual decimal.Decimal)
}

// SettlementService computes who owes whom for a trip
type SettlementService struct {
	tripRepo    domain.TripRepository
	expenseRepo domain.ExpenseRepository
	strict      bool
	observer    SettlementObserver
}

// NewSettlementService creates a new SettlementService. In strict mode a
// ledger whose balances do not sum to zero is rejected with
// domain.ErrUnbalancedLedger instead of being settled as far as possible.
func NewSettlementService(tripRepo domain.TripRepository, expenseRepo domain.ExpenseRepository, strict bool) *SettlementService {
	return &SettlementService{
		tripRepo:    tripRepo,
		expenseRepo: expenseRepo,
		strict:      strict,
	}
}

// SetMetrics sets the observer notified after each report
func (s *SettlementService) SetMetrics(observer SettlementObserver) {
	s.observer = observer
}

// GetReport builds the settlement report of a trip from one consistent
// ledger snapshot
func (s *SettlementService) GetReport(tripID int32) (*domain.SettlementReport, error) {
	if _, err := s.tripRepo.GetByID(tripID); err != nil {
		return nil, err
	}

	snapshot, err := s.expenseRepo.GetLedgerSnapshot(tripID)
	if err != nil {
		return nil, err
	}

	balances, err := settlement.AggregateBalances(snapshot.Members, snapshot)
	if err != nil {
		return nil, err
	}

	if s.strict {
		if err := settlement.ValidateZeroSum(balances); err != nil {
			log.Warn().Err(err).Int32("trip_id", tripID).Msg("Rejected unbalanced ledger")
			return nil, err
		}
	}

	report := settlement.BuildReport(balances, snapshot.TotalExpenses)

	residual := settlement.MaxResidual(settlement.Residuals(report.Balances, report.Transactions))
	if residual.GreaterThan(settlement.Tolerance) {
		log.Warn().
			Int32("trip_id", tripID).
			Str("max_residual", residual.StringFixed(2)).
			Msg("Settlement left balances unresolved")
	}

	if s.observer != nil {
		s.observer.ObserveSettlement(len(report.Transactions), residual)
	}

	log.Debug().
		Int32("trip_id", tripID).
		Int("members", len(report.Balances)).
		Int("transactions", len(report.Transactions)).
		Msg("Computed settlement report")

	return report, nil
}
