package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/websocket"
)

// ExpenseService handles expense and repayment business logic
type ExpenseService struct {
	tripRepo       domain.TripRepository
	memberRepo     domain.MemberRepository
	expenseRepo    domain.ExpenseRepository
	eventPublisher websocket.EventPublisher
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(tripRepo domain.TripRepository, memberRepo domain.MemberRepository, expenseRepo domain.ExpenseRepository) *ExpenseService {
	return &ExpenseService{
		tripRepo:    tripRepo,
		memberRepo:  memberRepo,
		expenseRepo: expenseRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ExpenseService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ExpenseService) publishEvent(tripID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(tripID, event)
	}
}

// CreateExpense records a payment by one member split among participants
func (s *ExpenseService) CreateExpense(tripID int32, input domain.CreateExpenseInput) (*domain.Expense, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, fmt.Errorf("%w: description exceeds %d characters", domain.ErrInvalidInput, domain.MaxDescriptionLength)
	}

	members, err := s.tripMembers(tripID)
	if err != nil {
		return nil, err
	}
	if !members[input.PayerID] {
		return nil, domain.ErrPayerNotMember
	}

	participants := input.Splits
	if len(participants) == 0 && (input.Mode == domain.SplitModeEqual || input.Mode == "") {
		participants = allMembers(members)
	}

	splits, err := CalculateSplits(input.Amount, input.Mode, participants)
	if err != nil {
		return nil, err
	}
	for _, split := range splits {
		if !members[split.MemberID] {
			return nil, fmt.Errorf("%w: member %d is not part of the trip", domain.ErrInvalidSplit, split.MemberID)
		}
	}

	expenseDate := time.Now().UTC()
	if input.ExpenseDate != nil {
		expenseDate = *input.ExpenseDate
	}

	expense, err := s.expenseRepo.Create(&domain.Expense{
		TripID:      tripID,
		PayerID:     input.PayerID,
		Kind:        domain.ExpenseKindExpense,
		Description: description,
		Amount:      input.Amount,
		ExpenseDate: expenseDate,
		Splits:      splits,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(tripID, websocket.ExpenseCreated(expense))
	return expense, nil
}

// RecordRepayment records one member paying another back. It is stored as
// an expense paid by the sender and owed entirely by the recipient, so it
// moves both balances toward zero without counting as trip spending.
func (s *ExpenseService) RecordRepayment(tripID int32, input domain.RepaymentInput) (*domain.Expense, error) {
	if input.FromMemberID == input.ToMemberID {
		return nil, domain.ErrSelfRepayment
	}
	if err := ValidateMoney(input.Amount); err != nil {
		return nil, err
	}

	members, err := s.tripMembers(tripID)
	if err != nil {
		return nil, err
	}
	if !members[input.FromMemberID] || !members[input.ToMemberID] {
		return nil, domain.ErrMemberNotFound
	}

	description := strings.TrimSpace(input.Note)
	if description == "" {
		description = "Repayment"
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, fmt.Errorf("%w: note exceeds %d characters", domain.ErrInvalidInput, domain.MaxDescriptionLength)
	}

	repayment, err := s.expenseRepo.Create(&domain.Expense{
		TripID:      tripID,
		PayerID:     input.FromMemberID,
		Kind:        domain.ExpenseKindRepayment,
		Description: description,
		Amount:      input.Amount,
		ExpenseDate: time.Now().UTC(),
		Splits:      []domain.ExpenseSplit{{MemberID: input.ToMemberID, Amount: input.Amount}},
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(tripID, websocket.RepaymentCreated(repayment))
	return repayment, nil
}

// ListExpenses retrieves all expenses and repayments of a trip
func (s *ExpenseService) ListExpenses(tripID int32) ([]*domain.Expense, error) {
	if _, err := s.tripRepo.GetByID(tripID); err != nil {
		return nil, err
	}
	return s.expenseRepo.GetByTrip(tripID)
}

// GetExpense retrieves an expense of a trip
func (s *ExpenseService) GetExpense(tripID int32, id int32) (*domain.Expense, error) {
	return s.expenseRepo.GetByID(tripID, id)
}

// DeleteExpense deletes an expense or repayment
func (s *ExpenseService) DeleteExpense(tripID int32, id int32) error {
	if err := s.expenseRepo.Delete(tripID, id); err != nil {
		return err
	}

	s.publishEvent(tripID, websocket.ExpenseDeleted(map[string]int32{"id": id}))
	return nil
}

// allMembers lists every member of the trip in ID order
func allMembers(members map[int32]bool) []domain.SplitInput {
	ids := make([]int32, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	inputs := make([]domain.SplitInput, len(ids))
	for i, id := range ids {
		inputs[i] = domain.SplitInput{MemberID: id}
	}
	return inputs
}

// tripMembers returns the set of member IDs of a trip
func (s *ExpenseService) tripMembers(tripID int32) (map[int32]bool, error) {
	if _, err := s.tripRepo.GetByID(tripID); err != nil {
		return nil, err
	}
	members, err := s.memberRepo.GetByTrip(tripID)
	if err != nil {
		return nil, err
	}
	set := make(map[int32]bool, len(members))
	for _, m := range members {
		set[m.ID] = true
	}
	return set, nil
}
