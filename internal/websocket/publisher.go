package websocket

import "github.com/rs/zerolog/log"

// EventPublisher publishes events to the clients watching a trip
type EventPublisher interface {
	Publish(tripID int32, event Event)
}

var _ EventPublisher = (*Hub)(nil)

// Publish stamps the event with its trip and broadcasts it. A trip.deleted
// event is the last one a trip's watchers receive.
func (h *Hub) Publish(tripID int32, event Event) {
	event.TripID = tripID
	h.Broadcast(tripID, event)

	if event.Is(EntityTypeTrip, EventTypeDeleted) {
		if ended := h.DropTrip(tripID); ended > 0 {
			log.Info().Int32("trip_id", tripID).Int("subscriptions", ended).Msg("Ended subscriptions of deleted trip")
		}
	}
}

// NoOpPublisher is a publisher that does nothing
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(tripID int32, event Event) {}
