package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// MaxTripsPerClient bounds how many trips one connection may watch
const MaxTripsPerClient = 10

const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
)

var (
	// ErrClientClosed is returned when sending to a closed or saturated client
	ErrClientClosed = errors.New("client is closed")
	// ErrTooManyTrips is returned when a client already watches MaxTripsPerClient trips
	ErrTooManyTrips = errors.New("client watches too many trips")
)

// TripLookup resolves the trip a client asks to watch
type TripLookup interface {
	GetByID(id int32) (*domain.Trip, error)
}

// Subscriber is a connection that receives trip events
type Subscriber interface {
	ID() string
	Send(data []byte) error
	Close() error
}

// Command is a message a client sends to change the trips it watches
type Command struct {
	Action string `json:"action"`
	TripID int32  `json:"tripId"`
}

// Hub routes trip events to the connections watching each trip. A
// connection may watch several trips at once. It is safe for concurrent use.
type Hub struct {
	trips    TripLookup
	watchers map[int32]map[string]Subscriber
	watching map[string]map[int32]struct{}
	mu       sync.RWMutex
}

// NewHub creates a Hub that checks subscription requests against trips
func NewHub(trips TripLookup) *Hub {
	return &Hub{
		trips:    trips,
		watchers: make(map[int32]map[string]Subscriber),
		watching: make(map[string]map[int32]struct{}),
	}
}

// Register subscribes sub to a trip. Registering an existing subscription
// is a no-op.
func (h *Hub) Register(sub Subscriber, tripID int32) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	subID := sub.ID()
	watched := h.watching[subID]
	if _, ok := watched[tripID]; ok {
		return nil
	}
	if len(watched) >= MaxTripsPerClient {
		return ErrTooManyTrips
	}

	if watched == nil {
		watched = make(map[int32]struct{})
		h.watching[subID] = watched
	}
	watched[tripID] = struct{}{}

	if h.watchers[tripID] == nil {
		h.watchers[tripID] = make(map[string]Subscriber)
	}
	h.watchers[tripID][subID] = sub

	log.Debug().
		Int32("trip_id", tripID).
		Str("client_id", subID).
		Int("watched_trips", len(watched)).
		Msg("WebSocket subscription added")
	return nil
}

// Unregister ends one subscription. A trip is forgotten once its last
// watcher leaves.
func (h *Hub) Unregister(sub Subscriber, tripID int32) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.unsubscribeLocked(sub.ID(), tripID) {
		log.Debug().
			Int32("trip_id", tripID).
			Str("client_id", sub.ID()).
			Msg("WebSocket subscription ended")
	}
}

// Disconnect ends every subscription of sub
func (h *Hub) Disconnect(sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subID := sub.ID()
	watched := h.watching[subID]
	count := len(watched)
	for tripID := range watched {
		h.unsubscribeLocked(subID, tripID)
	}

	if count > 0 {
		log.Debug().
			Str("client_id", subID).
			Int("watched_trips", count).
			Msg("WebSocket client disconnected")
	}
}

// DropTrip ends all subscriptions to a trip and returns how many ended
func (h *Hub) DropTrip(tripID int32) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	watchers := h.watchers[tripID]
	count := len(watchers)
	for subID := range watchers {
		h.unsubscribeLocked(subID, tripID)
	}
	return count
}

// unsubscribeLocked removes one subscription from both indexes.
// h.mu must be held for writing.
func (h *Hub) unsubscribeLocked(subID string, tripID int32) bool {
	watchers, ok := h.watchers[tripID]
	if !ok {
		return false
	}
	if _, ok := watchers[subID]; !ok {
		return false
	}

	delete(watchers, subID)
	if len(watchers) == 0 {
		delete(h.watchers, tripID)
	}

	if watched, ok := h.watching[subID]; ok {
		delete(watched, tripID)
		if len(watched) == 0 {
			delete(h.watching, subID)
		}
	}
	return true
}

// HandleCommand applies a client command and answers the client with a
// subscription event describing the outcome
func (h *Hub) HandleCommand(sub Subscriber, raw []byte) {
	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		h.reply(sub, SubscriptionRejected(0, "malformed command"))
		return
	}
	if cmd.TripID <= 0 {
		h.reply(sub, SubscriptionRejected(0, "tripId must be a positive integer"))
		return
	}

	switch cmd.Action {
	case ActionSubscribe:
		if reason := h.checkTrip(cmd.TripID); reason != "" {
			h.reply(sub, SubscriptionRejected(cmd.TripID, reason))
			return
		}
		if err := h.Register(sub, cmd.TripID); err != nil {
			h.reply(sub, SubscriptionRejected(cmd.TripID, err.Error()))
			return
		}
		h.reply(sub, SubscriptionConfirmed(cmd.TripID))

	case ActionUnsubscribe:
		h.Unregister(sub, cmd.TripID)
		h.reply(sub, SubscriptionEnded(cmd.TripID, "unsubscribed"))

	default:
		h.reply(sub, SubscriptionRejected(cmd.TripID, fmt.Sprintf("unknown action %q", cmd.Action)))
	}
}

// checkTrip returns a rejection reason, or "" when the trip can be watched
func (h *Hub) checkTrip(tripID int32) string {
	if h.trips == nil {
		return ""
	}
	if _, err := h.trips.GetByID(tripID); err != nil {
		if errors.Is(err, domain.ErrTripNotFound) {
			return "trip not found"
		}
		log.Error().Err(err).Int32("trip_id", tripID).Msg("WebSocket trip lookup failed")
		return "trip lookup failed"
	}
	return ""
}

func (h *Hub) reply(sub Subscriber, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Msg("Failed to serialize reply")
		return
	}
	if err := sub.Send(data); err != nil {
		log.Debug().Err(err).Str("client_id", sub.ID()).Msg("Failed to reply to client")
	}
}

// Broadcast sends an event to every client watching the trip. Clients that
// can no longer receive are disconnected.
func (h *Hub) Broadcast(tripID int32, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Int32("trip_id", tripID).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	recipients := make([]Subscriber, 0, len(h.watchers[tripID]))
	for _, sub := range h.watchers[tripID] {
		recipients = append(recipients, sub)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, sub := range recipients {
		if err := sub.Send(data); err != nil {
			log.Warn().
				Err(err).
				Int32("trip_id", tripID).
				Str("client_id", sub.ID()).
				Msg("Dropping unreachable client")
			h.Disconnect(sub)
			continue
		}
		delivered++
	}

	log.Debug().
		Int32("trip_id", tripID).
		Str("event_type", event.Type).
		Int("delivered", delivered).
		Msg("Broadcast event")
}

// Subscriptions returns the trips sub watches in ID order
func (h *Hub) Subscriptions(sub Subscriber) []int32 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	tripIDs := make([]int32, 0, len(h.watching[sub.ID()]))
	for tripID := range h.watching[sub.ID()] {
		tripIDs = append(tripIDs, tripID)
	}
	sort.Slice(tripIDs, func(i, j int) bool { return tripIDs[i] < tripIDs[j] })
	return tripIDs
}

// ClientCount returns the number of clients watching a trip
func (h *Hub) ClientCount(tripID int32) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers[tripID])
}

// TotalClientCount returns the number of clients watching at least one trip
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watching)
}

// WatchedTripCount returns the number of trips with at least one watcher
func (h *Hub) WatchedTripCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers)
}
