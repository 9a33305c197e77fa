package domain

import "time"

// Trip groups members and the expenses they share
type Trip struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	Members   []*Member `json:"members,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateTripInput holds the data needed to create a trip with its initial members
type CreateTripInput struct {
	Name        string
	Currency    string
	MemberNames []string
}

// UpdateTripInput holds the mutable trip fields
type UpdateTripInput struct {
	Name     string
	Currency string
}

type TripRepository interface {
	Create(trip *Trip) (*Trip, error)
	GetByID(id int32) (*Trip, error)
	GetAll() ([]*Trip, error)
	Update(id int32, name, currency string) (*Trip, error)
	Delete(id int32) error
}
