package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// TripHandler handles trip and member HTTP requests
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripRequest represents the create trip request body
type CreateTripRequest struct {
	Name     string   `json:"name"`
	Currency string   `json:"currency"`
	Members  []string `json:"members"`
}

// UpdateTripRequest represents the update trip request body
type UpdateTripRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// AddMemberRequest represents the add member request body
type AddMemberRequest struct {
	Name string `json:"name"`
}

// MemberResponse represents a trip member in API responses
type MemberResponse struct {
	ID        int32  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

// TripResponse represents a trip in API responses
type TripResponse struct {
	ID        int32            `json:"id"`
	Name      string           `json:"name"`
	Currency  string           `json:"currency"`
	Members   []MemberResponse `json:"members"`
	CreatedAt string           `json:"createdAt"`
	UpdatedAt string           `json:"updatedAt"`
}

// CreateTrip handles POST /api/v1/trips
// @Summary Create trip
// @Description Creates a trip with its initial members
// @Tags trips
// @Accept json
// @Produce json
// @Param request body CreateTripRequest true "Trip"
// @Success 201 {object} TripResponse
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /trips [post]
func (h *TripHandler) CreateTrip(c echo.Context) error {
	var req CreateTripRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	trip, err := h.tripService.CreateTrip(domain.CreateTripInput{
		Name:        req.Name,
		Currency:    req.Currency,
		MemberNames: req.Members,
	})
	if err != nil {
		return handleServiceError(c, err, "create trip")
	}

	log.Info().Int32("trip_id", trip.ID).Int("members", len(trip.Members)).Msg("Trip created")

	return c.JSON(http.StatusCreated, toTripResponse(trip))
}

// ListTrips handles GET /api/v1/trips
// @Summary List trips
// @Tags trips
// @Produce json
// @Success 200 {array} TripResponse
// @Router /trips [get]
func (h *TripHandler) ListTrips(c echo.Context) error {
	trips, err := h.tripService.ListTrips()
	if err != nil {
		return handleServiceError(c, err, "list trips")
	}

	response := make([]TripResponse, len(trips))
	for i, trip := range trips {
		response[i] = toTripResponse(trip)
	}
	return c.JSON(http.StatusOK, response)
}

// GetTrip handles GET /api/v1/trips/:tripId
// @Summary Get trip
// @Tags trips
// @Produce json
// @Param tripId path int true "Trip ID"
// @Success 200 {object} TripResponse
// @Failure 404 {object} ProblemDetails
// @Router /trips/{tripId} [get]
func (h *TripHandler) GetTrip(c echo.Context) error {
	tripID, ok := parseIDParam(c, "tripId")
	if !ok {
		return invalidIDError(c, "tripId")
	}

	trip, err := h.tripService.GetTrip(tripID)
	if err != nil {
		return handleServiceError(c, err, "get trip")
	}
	return c.JSON(http.StatusOK, toTripResponse(trip))
}

// UpdateTrip handles PUT /api/v1/trips/:tripId
// @Summary Update trip
// @Tags trips
// @Accept json
// @Produce json
// @Param tripId path int true "Trip ID"
// @Param request body UpdateTripRequest true "Trip"
// @Success 200 {object} TripResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /trips/{tripId} [put]
func (h *TripHandler) UpdateTrip(c echo.Context) error {
	tripID, ok := parseIDParam(c, "tripId")
	if !ok {
		return invalidIDError(c, "tripId")
	}

	var req UpdateTripRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	trip, err := h.tripService.UpdateTrip(tripID, domain.UpdateTripInput{
		Name:     req.Name,
		Currency: req.Currency,
	})
	if err != nil {
		return handleServiceError(c, err, "update trip")
	}

	log.Info().Int32("trip_id", trip.ID).Msg("Trip updated")

	return c.JSON(http.StatusOK, toTripResponse(trip))
}

// DeleteTrip handles DELETE /api/v1/trips/:tripId
// @Summary Delete trip
// @Description Deletes a trip with its members, expenses and splits
// @Tags trips
// @Param tripId path int true "Trip ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /trips/{tripId} [delete]
func (h *TripHandler) DeleteTrip(c echo.Context) error {
	tripID, ok := parseIDParam(c, "tripId")
	if !ok {
		return invalidIDError(c, "tripId")
	}

	if err := h.tripService.DeleteTrip(tripID); err != nil {
		return handleServiceError(c, err, "delete trip")
	}

	log.Info().Int32("trip_id", tripID).Msg("Trip deleted")

	return c.NoContent(http.StatusNoContent)
}

// AddMember handles POST /api/v1/trips/:tripId/members
// @Summary Add member
// @Tags members
// @Accept json
// @Produce json
// @Param tripId path int true "Trip ID"
// @Param request body AddMemberRequest true "Member"
// @Success 201 {object} MemberResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /trips/{tripId}/members [post]
func (h *TripHandler) AddMember(c echo.Context) error {
	tripID, ok := parseIDParam(c, "tripId")
	if !ok {
		return invalidIDError(c, "tripId")
	}

	var req AddMemberRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	member, err := h.tripService.AddMember(tripID, req.Name)
	if err != nil {
		return handleServiceError(c, err, "add member")
	}

	log.Info().Int32("trip_id", tripID).Int32("member_id", member.ID).Msg("Member added")

	return c.JSON(http.StatusCreated, toMemberResponse(member))
}

// RemoveMember handles DELETE /api/v1/trips/:tripId/members/:memberId
// @Summary Remove member
// @Description Removes a member that has no expenses or splits
// @Tags members
// @Param tripId path int true "Trip ID"
// @Param memberId path int true "Member ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /trips/{tripId}/members/{memberId} [delete]
func (h *TripHandler) RemoveMember(c echo.Context) error {
	tripID, ok := parseIDParam(c, "tripId")
	if !ok {
		return invalidIDError(c, "tripId")
	}
	memberID, ok := parseIDParam(c, "memberId")
	if !ok {
		return invalidIDError(c, "memberId")
	}

	if err := h.tripService.RemoveMember(tripID, memberID); err != nil {
		return handleServiceError(c, err, "remove member")
	}

	log.Info().Int32("trip_id", tripID).Int32("member_id", memberID).Msg("Member removed")

	return c.NoContent(http.StatusNoContent)
}

func toTripResponse(trip *domain.Trip) TripResponse {
	members := make([]MemberResponse, len(trip.Members))
	for i, m := range trip.Members {
		members[i] = toMemberResponse(m)
	}
	return TripResponse{
		ID:        trip.ID,
		Name:      trip.Name,
		Currency:  trip.Currency,
		Members:   members,
		CreatedAt: trip.CreatedAt.Format(time.RFC3339),
		UpdatedAt: trip.UpdatedAt.Format(time.RFC3339),
	}
}

func toMemberResponse(member *domain.Member) MemberResponse {
	return MemberResponse{
		ID:        member.ID,
		Name:      member.Name,
		CreatedAt: member.CreatedAt.Format(time.RFC3339),
	}
}
