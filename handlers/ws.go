package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/khomabhena/imali-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

// WSHandler pushes balance-change signals to a user's connected devices, so a
// purchase on one phone refreshes the dashboard on another.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get("user_id")
		log.Printf("ws: client disconnected (user %v)", userID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("ws: error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades an authenticated request and tags the session with the
// user ID for targeted broadcasts.
func (h *WSHandler) HandleWS(c *gin.Context) {
	userID := middleware.GetUserID(c)

	err := h.M.HandleRequestWithKeys(c.Writer, c.Request, map[string]interface{}{
		"user_id": userID,
	})
	if err != nil {
		log.Printf("ws: failed to upgrade: %v", err)
	}
}

type wsEvent struct {
	Type         string `json:"type"`
	BucketID     string `json:"bucket_id,omitempty"`
	CurrencyCode string `json:"currency_code,omitempty"`
}

// BroadcastBalanceChange notifies every session belonging to the user.
func (h *WSHandler) BroadcastBalanceChange(userID, eventType, bucketID, currency string) {
	msg, err := json.Marshal(wsEvent{Type: eventType, BucketID: bucketID, CurrencyCode: currency})
	if err != nil {
		return
	}

	err = h.M.BroadcastFilter(msg, func(s *melody.Session) bool {
		id, exists := s.Get("user_id")
		return exists && id == userID
	})
	if err != nil {
		log.Printf("ws: broadcast to user %s failed: %v", userID, err)
	}
}
