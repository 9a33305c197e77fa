package service

import (
	"strings"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/websocket"
)

// TripService handles trip and member business logic
type TripService struct {
	tripRepo       domain.TripRepository
	memberRepo     domain.MemberRepository
	expenseRepo    domain.ExpenseRepository
	eventPublisher websocket.EventPublisher
}

// NewTripService creates a new TripService
func NewTripService(tripRepo domain.TripRepository, memberRepo domain.MemberRepository, expenseRepo domain.ExpenseRepository) *TripService {
	return &TripService{
		tripRepo:    tripRepo,
		memberRepo:  memberRepo,
		expenseRepo: expenseRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TripService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *TripService) publishEvent(tripID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(tripID, event)
	}
}

// CreateTrip creates a trip together with its initial members
func (s *TripService) CreateTrip(input domain.CreateTripInput) (*domain.Trip, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}
	currency, err := normalizeCurrency(input.Currency)
	if err != nil {
		return nil, err
	}

	trip := &domain.Trip{
		Name:     name,
		Currency: currency,
		Members:  make([]*domain.Member, 0, len(input.MemberNames)),
	}
	seen := make(map[string]bool, len(input.MemberNames))
	for _, raw := range input.MemberNames {
		memberName, err := validateName(raw)
		if err != nil {
			return nil, err
		}
		if seen[memberName] {
			return nil, domain.ErrMemberNameTaken
		}
		seen[memberName] = true
		trip.Members = append(trip.Members, &domain.Member{Name: memberName})
	}

	return s.tripRepo.Create(trip)
}

// GetTrip retrieves a trip with its members
func (s *TripService) GetTrip(id int32) (*domain.Trip, error) {
	trip, err := s.tripRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	members, err := s.memberRepo.GetByTrip(id)
	if err != nil {
		return nil, err
	}
	trip.Members = members
	return trip, nil
}

// ListTrips retrieves all trips
func (s *TripService) ListTrips() ([]*domain.Trip, error) {
	return s.tripRepo.GetAll()
}

// UpdateTrip renames a trip or changes its display currency
func (s *TripService) UpdateTrip(id int32, input domain.UpdateTripInput) (*domain.Trip, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}
	currency, err := normalizeCurrency(input.Currency)
	if err != nil {
		return nil, err
	}

	trip, err := s.tripRepo.Update(id, name, currency)
	if err != nil {
		return nil, err
	}

	s.publishEvent(id, websocket.TripUpdated(trip))
	return trip, nil
}

// DeleteTrip deletes a trip with all of its members and expenses
func (s *TripService) DeleteTrip(id int32) error {
	if err := s.tripRepo.Delete(id); err != nil {
		return err
	}

	s.publishEvent(id, websocket.TripDeleted(map[string]int32{"id": id}))
	return nil
}

// AddMember adds a member to an existing trip
func (s *TripService) AddMember(tripID int32, name string) (*domain.Member, error) {
	memberName, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if _, err := s.tripRepo.GetByID(tripID); err != nil {
		return nil, err
	}

	member, err := s.memberRepo.Create(&domain.Member{TripID: tripID, Name: memberName})
	if err != nil {
		return nil, err
	}

	s.publishEvent(tripID, websocket.MemberCreated(member))
	return member, nil
}

// RemoveMember removes a member that has no expenses or splits
func (s *TripService) RemoveMember(tripID int32, memberID int32) error {
	if _, err := s.memberRepo.GetByID(tripID, memberID); err != nil {
		return err
	}

	active, err := s.expenseRepo.HasActivity(tripID, memberID)
	if err != nil {
		return err
	}
	if active {
		return domain.ErrMemberHasActivity
	}

	if err := s.memberRepo.Delete(tripID, memberID); err != nil {
		return err
	}

	s.publishEvent(tripID, websocket.MemberDeleted(map[string]int32{"id": memberID}))
	return nil
}

func validateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}

func normalizeCurrency(raw string) (string, error) {
	currency := strings.ToUpper(strings.TrimSpace(raw))
	if currency == "" {
		return domain.DefaultCurrency, nil
	}
	if len(currency) != 3 {
		return "", domain.ErrInvalidCurrency
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return "", domain.ErrInvalidCurrency
		}
	}
	return currency, nil
}
