package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Subscriber that keeps every message it is sent
type recorder struct {
	id     string
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func newRecorder(id string) *recorder {
	return &recorder{id: id}
}

func (r *recorder) ID() string {
	return r.id
}

func (r *recorder) Send(data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClientClosed
	}
	r.frames = append(r.frames, data)
	return nil
}

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// events decodes everything the subscriber received so far
func (r *recorder) events(t *testing.T) []Event {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()

	events := make([]Event, len(r.frames))
	for i, frame := range r.frames {
		require.NoError(t, json.Unmarshal(frame, &events[i]))
	}
	return events
}

func (r *recorder) lastEvent(t *testing.T) Event {
	t.Helper()
	events := r.events(t)
	require.NotEmpty(t, events)
	return events[len(events)-1]
}

// knownTrips is a TripLookup over a fixed set of trip IDs
type knownTrips map[int32]bool

func (k knownTrips) GetByID(id int32) (*domain.Trip, error) {
	if !k[id] {
		return nil, domain.ErrTripNotFound
	}
	return &domain.Trip{ID: id, Name: fmt.Sprintf("Trip %d", id)}, nil
}

type failingTrips struct{}

func (failingTrips) GetByID(id int32) (*domain.Trip, error) {
	return nil, errors.New("connection refused")
}

func TestHub_ClientWatchingSeveralTrips(t *testing.T) {
	hub := NewHub(knownTrips{1: true, 2: true})
	alice := newRecorder("alice")
	bob := newRecorder("bob")

	require.NoError(t, hub.Register(alice, 1))
	require.NoError(t, hub.Register(alice, 2))
	require.NoError(t, hub.Register(bob, 2))

	hub.Publish(1, ExpenseCreated(map[string]interface{}{"id": float64(10)}))
	hub.Publish(2, MemberCreated(map[string]interface{}{"id": float64(4)}))

	aliceEvents := alice.events(t)
	require.Len(t, aliceEvents, 2)
	assert.Equal(t, int32(1), aliceEvents[0].TripID)
	assert.Equal(t, "expense.created", aliceEvents[0].Type)
	assert.Equal(t, int32(2), aliceEvents[1].TripID)

	bobEvents := bob.events(t)
	require.Len(t, bobEvents, 1)
	assert.Equal(t, "member.created", bobEvents[0].Type)

	assert.Equal(t, []int32{1, 2}, hub.Subscriptions(alice))
	assert.Equal(t, []int32{2}, hub.Subscriptions(bob))
	assert.Equal(t, 2, hub.TotalClientCount())
	assert.Equal(t, 2, hub.WatchedTripCount())
}

func TestHub_EventsStayInsideTheirTrip(t *testing.T) {
	hub := NewHub(nil)
	lisbon := newRecorder("lisbon")
	porto := newRecorder("porto")
	faro := newRecorder("faro")
	require.NoError(t, hub.Register(lisbon, 1))
	require.NoError(t, hub.Register(porto, 2))
	require.NoError(t, hub.Register(faro, 3))

	hub.Publish(2, ExpenseDeleted(map[string]interface{}{"id": float64(8)}))

	assert.Empty(t, lisbon.events(t))
	assert.Empty(t, faro.events(t))
	got := porto.events(t)
	require.Len(t, got, 1)
	assert.Equal(t, int32(2), got[0].TripID)
	assert.Equal(t, "expense.deleted", got[0].Type)
}

func TestHub_TripForgottenWhenLastWatcherLeaves(t *testing.T) {
	hub := NewHub(nil)
	first := newRecorder("first")
	second := newRecorder("second")
	require.NoError(t, hub.Register(first, 5))
	require.NoError(t, hub.Register(second, 5))
	require.NoError(t, hub.Register(second, 6))

	hub.Unregister(first, 5)
	assert.Equal(t, 1, hub.ClientCount(5))
	assert.Equal(t, 2, hub.WatchedTripCount())
	assert.Empty(t, hub.Subscriptions(first))
	assert.Equal(t, 1, hub.TotalClientCount())

	hub.Unregister(second, 5)
	assert.Equal(t, 0, hub.ClientCount(5))
	assert.Equal(t, 1, hub.WatchedTripCount())
	assert.Equal(t, []int32{6}, hub.Subscriptions(second))

	// Nothing left to deliver to
	hub.Publish(5, TripUpdated(map[string]interface{}{"id": float64(5)}))
	assert.Empty(t, first.events(t))
	assert.Empty(t, second.events(t))
}

func TestHub_RegisterTwiceKeepsOneSubscription(t *testing.T) {
	hub := NewHub(nil)
	sub := newRecorder("sub")

	require.NoError(t, hub.Register(sub, 1))
	require.NoError(t, hub.Register(sub, 1))

	assert.Equal(t, 1, hub.ClientCount(1))
	hub.Publish(1, TripUpdated(nil))
	assert.Len(t, sub.events(t), 1)
}

func TestHub_SubscriptionLimit(t *testing.T) {
	hub := NewHub(nil)
	sub := newRecorder("busy")
	for tripID := int32(1); tripID <= MaxTripsPerClient; tripID++ {
		require.NoError(t, hub.Register(sub, tripID))
	}

	err := hub.Register(sub, MaxTripsPerClient+1)
	assert.ErrorIs(t, err, ErrTooManyTrips)
	assert.NoError(t, hub.Register(sub, 1))
	assert.Len(t, hub.Subscriptions(sub), MaxTripsPerClient)

	hub.Unregister(sub, 1)
	assert.NoError(t, hub.Register(sub, MaxTripsPerClient+1))
}

func TestHub_DisconnectEndsAllSubscriptions(t *testing.T) {
	hub := NewHub(nil)
	leaving := newRecorder("leaving")
	staying := newRecorder("staying")
	for _, tripID := range []int32{1, 2, 3} {
		require.NoError(t, hub.Register(leaving, tripID))
	}
	require.NoError(t, hub.Register(staying, 3))

	hub.Disconnect(leaving)

	assert.Empty(t, hub.Subscriptions(leaving))
	assert.Equal(t, 1, hub.TotalClientCount())
	assert.Equal(t, 1, hub.WatchedTripCount())
	assert.Equal(t, 1, hub.ClientCount(3))

	require.NotPanics(t, func() { hub.Disconnect(leaving) })
}

func TestHub_BroadcastDropsUnreachableClient(t *testing.T) {
	hub := NewHub(nil)
	gone := newRecorder("gone")
	live := newRecorder("live")
	require.NoError(t, hub.Register(gone, 1))
	require.NoError(t, hub.Register(gone, 2))
	require.NoError(t, hub.Register(live, 1))
	require.NoError(t, gone.Close())

	hub.Publish(1, ExpenseCreated(map[string]interface{}{"id": float64(1)}))

	assert.Len(t, live.events(t), 1)
	assert.Empty(t, hub.Subscriptions(gone))
	assert.Equal(t, 1, hub.ClientCount(1))
	assert.Equal(t, 0, hub.ClientCount(2))
}

func TestHub_HandleCommand(t *testing.T) {
	tests := []struct {
		name        string
		trips       TripLookup
		command     string
		wantType    string
		wantTrip    int32
		wantReason  string
		wantWatched []int32
	}{
		{"subscribe to known trip", knownTrips{4: true}, `{"action":"subscribe","tripId":4}`, "subscription.confirmed", 4, "", []int32{1, 4}},
		{"subscribe to unknown trip", knownTrips{}, `{"action":"subscribe","tripId":9}`, "subscription.rejected", 9, "trip not found", []int32{1}},
		{"trip lookup failure", failingTrips{}, `{"action":"subscribe","tripId":4}`, "subscription.rejected", 4, "trip lookup failed", []int32{1}},
		{"unsubscribe", knownTrips{}, `{"action":"unsubscribe","tripId":1}`, "subscription.ended", 1, "unsubscribed", []int32{}},
		{"unknown action", knownTrips{}, `{"action":"switch","tripId":2}`, "subscription.rejected", 2, `unknown action "switch"`, []int32{1}},
		{"missing trip id", knownTrips{}, `{"action":"subscribe"}`, "subscription.rejected", 0, "tripId must be a positive integer", []int32{1}},
		{"malformed json", knownTrips{}, `subscribe 4`, "subscription.rejected", 0, "malformed command", []int32{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := NewHub(tt.trips)
			sub := newRecorder("sub")
			require.NoError(t, hub.Register(sub, 1))

			hub.HandleCommand(sub, []byte(tt.command))

			reply := sub.lastEvent(t)
			assert.Equal(t, tt.wantType, reply.Type)
			assert.Equal(t, EntityTypeSubscription, reply.Entity)
			assert.Equal(t, tt.wantTrip, reply.TripID)

			payload, ok := reply.Payload.(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, float64(tt.wantTrip), payload["tripId"])
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, payload["reason"])
			}
			assert.Equal(t, tt.wantWatched, hub.Subscriptions(sub))
		})
	}
}

func TestHub_HandleCommand_SubscriptionLimit(t *testing.T) {
	trips := knownTrips{}
	for tripID := int32(1); tripID <= MaxTripsPerClient+1; tripID++ {
		trips[tripID] = true
	}
	hub := NewHub(trips)
	sub := newRecorder("sub")
	for tripID := int32(1); tripID <= MaxTripsPerClient; tripID++ {
		require.NoError(t, hub.Register(sub, tripID))
	}

	hub.HandleCommand(sub, []byte(fmt.Sprintf(`{"action":"subscribe","tripId":%d}`, MaxTripsPerClient+1)))

	reply := sub.lastEvent(t)
	assert.Equal(t, "subscription.rejected", reply.Type)
	assert.Equal(t, ErrTooManyTrips.Error(), reply.Payload.(map[string]interface{})["reason"])
}

func TestHub_ConcurrentSubscriptions(t *testing.T) {
	hub := NewHub(nil)
	subs := make([]*recorder, 40)
	for i := range subs {
		subs[i] = newRecorder(fmt.Sprintf("client-%d", i))
	}

	var wg sync.WaitGroup
	for i, sub := range subs {
		wg.Add(1)
		go func(i int, sub *recorder) {
			defer wg.Done()
			assert.NoError(t, hub.Register(sub, int32(i%4)+1))
			assert.NoError(t, hub.Register(sub, 100))
		}(i, sub)
	}
	wg.Wait()

	assert.Equal(t, len(subs), hub.TotalClientCount())
	assert.Equal(t, len(subs), hub.ClientCount(100))
	assert.Equal(t, 10, hub.ClientCount(1))

	for i, sub := range subs {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			hub.Publish(int32(i%4)+1, ExpenseCreated(map[string]interface{}{"id": float64(i)}))
		}(i)
		go func(sub *recorder) {
			defer wg.Done()
			hub.Disconnect(sub)
		}(sub)
	}
	wg.Wait()

	assert.Equal(t, 0, hub.TotalClientCount())
	assert.Equal(t, 0, hub.WatchedTripCount())
}
