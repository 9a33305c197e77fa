package domain

import "time"

// Member is a participant of a trip. Name is the display name used in settlements.
type Member struct {
	ID        int32     `json:"id"`
	TripID    int32     `json:"tripId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type MemberRepository interface {
	Create(member *Member) (*Member, error)
	GetByID(tripID int32, id int32) (*Member, error)
	GetByTrip(tripID int32) ([]*Member, error)
	Delete(tripID int32, id int32) error
}
