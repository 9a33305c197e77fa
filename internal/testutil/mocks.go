package testutil

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// MockTripRepository is a mock implementation of domain.TripRepository
type MockTripRepository struct {
	Trips    map[int32]*domain.Trip
	NextID   int32
	Members  *MockMemberRepository
	CreateFn func(trip *domain.Trip) (*domain.Trip, error)
}

// NewMockTripRepository creates a new MockTripRepository. Members of created
// trips are stored in memberRepo when it is not nil.
func NewMockTripRepository(memberRepo *MockMemberRepository) *MockTripRepository {
	return &MockTripRepository{
		Trips:   make(map[int32]*domain.Trip),
		NextID:  1,
		Members: memberRepo,
	}
}

// Create creates a trip together with its members
func (m *MockTripRepository) Create(trip *domain.Trip) (*domain.Trip, error) {
	if m.CreateFn != nil {
		return m.CreateFn(trip)
	}
	now := time.Now()
	trip.ID = m.NextID
	m.NextID++
	trip.CreatedAt = now
	trip.UpdatedAt = now
	if m.Members != nil {
		for _, member := range trip.Members {
			member.TripID = trip.ID
			if _, err := m.Members.Create(member); err != nil {
				return nil, err
			}
		}
	}
	m.Trips[trip.ID] = trip
	return trip, nil
}

// GetByID retrieves a trip by ID
func (m *MockTripRepository) GetByID(id int32) (*domain.Trip, error) {
	trip, ok := m.Trips[id]
	if !ok {
		return nil, domain.ErrTripNotFound
	}
	return trip, nil
}

// GetAll retrieves all trips, newest first
func (m *MockTripRepository) GetAll() ([]*domain.Trip, error) {
	trips := make([]*domain.Trip, 0, len(m.Trips))
	for _, trip := range m.Trips {
		trips = append(trips, trip)
	}
	sort.Slice(trips, func(i, j int) bool { return trips[i].ID > trips[j].ID })
	return trips, nil
}

// Update updates a trip's name and currency
func (m *MockTripRepository) Update(id int32, name, currency string) (*domain.Trip, error) {
	trip, ok := m.Trips[id]
	if !ok {
		return nil, domain.ErrTripNotFound
	}
	trip.Name = name
	trip.Currency = currency
	trip.UpdatedAt = time.Now()
	return trip, nil
}

// Delete removes a trip
func (m *MockTripRepository) Delete(id int32) error {
	if _, ok := m.Trips[id]; !ok {
		return domain.ErrTripNotFound
	}
	delete(m.Trips, id)
	return nil
}

// AddTrip adds a trip to the mock repository (helper for tests)
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.Trips[trip.ID] = trip
	if trip.ID >= m.NextID {
		m.NextID = trip.ID + 1
	}
}

// MockMemberRepository is a mock implementation of domain.MemberRepository
type MockMemberRepository struct {
	Members map[int32]*domain.Member
	NextID  int32
}

// NewMockMemberRepository creates a new MockMemberRepository
func NewMockMemberRepository() *MockMemberRepository {
	return &MockMemberRepository{
		Members: make(map[int32]*domain.Member),
		NextID:  1,
	}
}

// Create creates a new member
func (m *MockMemberRepository) Create(member *domain.Member) (*domain.Member, error) {
	for _, existing := range m.Members {
		if existing.TripID == member.TripID && existing.Name == member.Name {
			return nil, domain.ErrMemberNameTaken
		}
	}
	member.ID = m.NextID
	m.NextID++
	member.CreatedAt = time.Now()
	m.Members[member.ID] = member
	return member, nil
}

// GetByID retrieves a member of a trip
func (m *MockMemberRepository) GetByID(tripID int32, id int32) (*domain.Member, error) {
	member, ok := m.Members[id]
	if !ok || member.TripID != tripID {
		return nil, domain.ErrMemberNotFound
	}
	return member, nil
}

// GetByTrip retrieves all members of a trip ordered by ID
func (m *MockMemberRepository) GetByTrip(tripID int32) ([]*domain.Member, error) {
	members := make([]*domain.Member, 0)
	for _, member := range m.Members {
		if member.TripID == tripID {
			members = append(members, member)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

// Delete removes a member
func (m *MockMemberRepository) Delete(tripID int32, id int32) error {
	member, ok := m.Members[id]
	if !ok || member.TripID != tripID {
		return domain.ErrMemberNotFound
	}
	delete(m.Members, id)
	return nil
}

// AddMember adds a member to the mock repository (helper for tests)
func (m *MockMemberRepository) AddMember(member *domain.Member) {
	m.Members[member.ID] = member
	if member.ID >= m.NextID {
		m.NextID = member.ID + 1
	}
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses   map[int32]*domain.Expense
	NextID     int32
	Members    *MockMemberRepository
	CreateFn   func(expense *domain.Expense) (*domain.Expense, error)
	SnapshotFn func(tripID int32) (*domain.LedgerSnapshot, error)
}

// NewMockExpenseRepository creates a new MockExpenseRepository. Ledger
// snapshots read trip members from memberRepo.
func NewMockExpenseRepository(memberRepo *MockMemberRepository) *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[int32]*domain.Expense),
		NextID:   1,
		Members:  memberRepo,
	}
}

// Create creates an expense with its splits
func (m *MockExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	if m.CreateFn != nil {
		return m.CreateFn(expense)
	}
	now := time.Now()
	expense.ID = m.NextID
	m.NextID++
	expense.CreatedAt = now
	expense.UpdatedAt = now
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// GetByID retrieves an expense of a trip
func (m *MockExpenseRepository) GetByID(tripID int32, id int32) (*domain.Expense, error) {
	expense, ok := m.Expenses[id]
	if !ok || expense.TripID != tripID {
		return nil, domain.ErrExpenseNotFound
	}
	return expense, nil
}

// GetByTrip retrieves all expenses of a trip ordered by ID
func (m *MockExpenseRepository) GetByTrip(tripID int32) ([]*domain.Expense, error) {
	expenses := make([]*domain.Expense, 0)
	for _, expense := range m.Expenses {
		if expense.TripID == tripID {
			expenses = append(expenses, expense)
		}
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].ID < expenses[j].ID })
	return expenses, nil
}

// Delete removes an expense
func (m *MockExpenseRepository) Delete(tripID int32, id int32) error {
	expense, ok := m.Expenses[id]
	if !ok || expense.TripID != tripID {
		return domain.ErrExpenseNotFound
	}
	delete(m.Expenses, id)
	return nil
}

// SetReceiptPath sets or clears the receipt object path of an expense
func (m *MockExpenseRepository) SetReceiptPath(tripID int32, id int32, path *string) error {
	expense, ok := m.Expenses[id]
	if !ok || expense.TripID != tripID {
		return domain.ErrExpenseNotFound
	}
	expense.ReceiptPath = path
	return nil
}

// HasActivity reports whether the member paid for or shares in any expense
func (m *MockExpenseRepository) HasActivity(tripID int32, memberID int32) (bool, error) {
	for _, expense := range m.Expenses {
		if expense.TripID != tripID {
			continue
		}
		if expense.PayerID == memberID {
			return true, nil
		}
		for _, split := range expense.Splits {
			if split.MemberID == memberID {
				return true, nil
			}
		}
	}
	return false, nil
}

// GetLedgerSnapshot aggregates stored expenses into a ledger snapshot
func (m *MockExpenseRepository) GetLedgerSnapshot(tripID int32) (*domain.LedgerSnapshot, error) {
	if m.SnapshotFn != nil {
		return m.SnapshotFn(tripID)
	}
	snapshot := domain.NewLedgerSnapshot(tripID)
	if m.Members != nil {
		members, err := m.Members.GetByTrip(tripID)
		if err != nil {
			return nil, err
		}
		snapshot.Members = members
	}
	expenses, _ := m.GetByTrip(tripID)
	for _, expense := range expenses {
		snapshot.Paid[expense.PayerID] = snapshot.Paid[expense.PayerID].Add(expense.Amount)
		for _, split := range expense.Splits {
			snapshot.Owed[split.MemberID] = snapshot.Owed[split.MemberID].Add(split.Amount)
		}
		if expense.Kind != domain.ExpenseKindRepayment {
			snapshot.TotalExpenses = snapshot.TotalExpenses.Add(expense.Amount)
		}
	}
	return snapshot, nil
}

// AddExpense adds an expense to the mock repository (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense *domain.Expense) {
	if expense.Kind == "" {
		expense.Kind = domain.ExpenseKindExpense
	}
	m.Expenses[expense.ID] = expense
	if expense.ID >= m.NextID {
		m.NextID = expense.ID + 1
	}
}

// MockObjectStorage is an in-memory implementation of storage.ObjectStorage
type MockObjectStorage struct {
	Objects  map[string][]byte
	Types    map[string]string
	UploadFn func(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	mu       sync.Mutex
}

// NewMockObjectStorage creates a new MockObjectStorage
func NewMockObjectStorage() *MockObjectStorage {
	return &MockObjectStorage{
		Objects: make(map[string][]byte),
		Types:   make(map[string]string),
	}
}

// Upload stores the object in memory
func (m *MockObjectStorage) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadFn != nil {
		return m.UploadFn(ctx, objectPath, data, contentType, size)
	}
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[objectPath] = buf
	m.Types[objectPath] = contentType
	return objectPath, nil
}

// Delete removes the object
func (m *MockObjectStorage) Delete(ctx context.Context, objectPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, objectPath)
	delete(m.Types, objectPath)
	return nil
}

// GeneratePresignedURL returns a fake URL for the object
func (m *MockObjectStorage) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Objects[objectPath]; !ok {
		return "", fmt.Errorf("object not found: %s", objectPath)
	}
	return fmt.Sprintf("https://storage.test/%s?expires=%d", objectPath, int(expiry.Seconds())), nil
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	Events map[int32][]websocket.Event
	mu     sync.Mutex
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{Events: make(map[int32][]websocket.Event)}
}

// Publish records the event
func (m *MockEventPublisher) Publish(tripID int32, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events[tripID] = append(m.Events[tripID], event)
}

// Types returns the event types published for a trip in order
func (m *MockEventPublisher) Types(tripID int32) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events[tripID]))
	for i, e := range m.Events[tripID] {
		types[i] = e.Type
	}
	return types
}

// MockSettlementObserver records settlement observations
type MockSettlementObserver struct {
	Reports      int
	Transactions []int
	Residuals    []decimal.Decimal
}

// ObserveSettlement records one settlement computation
func (m *MockSettlementObserver) ObserveSettlement(transactions int, maxResidual decimal.Decimal) {
	m.Reports++
	m.Transactions = append(m.Transactions, transactions)
	m.Residuals = append(m.Residuals, maxResidual)
}
