package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
)

type TrackingHandler struct {
	tracking ports.TrackingService
	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

// NewTrackingHandler accepts stream upgrades from the given origins; "*"
// allows any.
func NewTrackingHandler(tracking ports.TrackingService, allowedOrigins []string, log logrus.FieldLogger) *TrackingHandler {
	return &TrackingHandler{
		tracking: tracking,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

type StartTrackingRequest struct {
	ScheduleItemID string `json:"scheduleItemId"`
}

type ConfirmPickupRequest struct {
	OTP string `json:"otp"`
}

func (h *TrackingHandler) Start(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req StartTrackingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := h.tracking.Start(r.Context(), c.UserID, req.ScheduleItemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TrackingHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	t, err := h.tracking.Get(r.Context(), c.UserID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TrackingHandler) ConfirmPickup(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req ConfirmPickupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := h.tracking.ConfirmPickup(r.Context(), c.UserID, mux.Vars(r)["id"], req.OTP)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TrackingHandler) Depart(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	t, err := h.tracking.Depart(r.Context(), assignedDriver(c), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TrackingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	t, err := h.tracking.Complete(r.Context(), assignedDriver(c), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// assignedDriver is the driver a transition must come from; admins may
// move any visit.
func assignedDriver(c domain.Claims) string {
	if c.Role == domain.RoleAdmin {
		return ""
	}
	return c.UserID
}

// Stream upgrades to a WebSocket and pushes every state change of the
// visit until it completes or the client goes away.
func (h *TrackingHandler) Stream(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	trackingID := mux.Vars(r)["id"]

	updates, unsubscribe, err := h.tracking.Subscribe(r.Context(), c.UserID, trackingID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer unsubscribe()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.log.WithError(err).Warn("tracking stream upgrade failed")
		return
	}
	defer conn.Close()

	log := h.log.WithFields(logrus.Fields{
		"tracking_id": trackingID,
		"user_id":     c.UserID,
	})
	log.Info("tracking stream opened")

	// The read loop only handles control frames and notices disconnects.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-gone:
			log.Info("tracking stream closed by client")
			return
		case t, open := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if !open {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "tracking finished"))
				return
			}
			if err := conn.WriteJSON(t); err != nil {
				log.WithError(err).Warn("failed to write tracking update")
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
