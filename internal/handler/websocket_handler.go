package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub            *websocket.Hub
	trips          websocket.TripLookup
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *websocket.Hub, trips websocket.TripLookup, allowedOrigins []string) *WebSocketHandler {
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		trips:          trips,
		allowedOrigins: originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Non-browser clients send no Origin
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS handles WebSocket connection requests at GET /ws?tripId=.
// The connection starts out watching tripId; the client can then send
// {"action":"subscribe"|"unsubscribe","tripId":N} to change what it watches.
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	raw := c.QueryParam("tripId")
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		log.Debug().Str("trip_id", raw).Msg("WebSocket connection rejected: invalid trip id")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid tripId")
	}
	tripID := int32(id)

	if _, err := h.trips.GetByID(tripID); err != nil {
		if errors.Is(err, domain.ErrTripNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "trip not found")
		}
		log.Error().Err(err).Int32("trip_id", tripID).Msg("WebSocket trip lookup failed")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, h.hub)
	if err := h.hub.Register(client, tripID); err != nil {
		log.Error().Err(err).Int32("trip_id", tripID).Msg("WebSocket subscription failed")
		client.Close()
		return nil
	}

	log.Info().
		Int32("trip_id", tripID).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	go client.WritePump()
	go client.ReadPump()

	return nil
}
