package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fieldhouse-sports/scheduler-core/notify"
)

var errHostIDRequired = errors.New("missing hostID")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// NotifyHandler upgrades a host's connection into the notify.Hub
// session that HostNotifier pushes auto-reschedule failures to,
// grounded on the teacher's WebSocketHandler.ServeWs.
type NotifyHandler struct {
	hub    *notify.Hub
	logger *zap.Logger
}

func NewNotifyHandler(hub *notify.Hub, logger *zap.Logger) *NotifyHandler {
	return &NotifyHandler{hub: hub, logger: logger}
}

// ServeWs handles GET /ws/hosts/{hostID}. middleware.Authenticate only
// requires a valid bearer token; neither it nor this handler checks
// hostID against the caller's identity.
func (h *NotifyHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	hostID := getURLParam(r, "hostID")
	if hostID == "" {
		badRequestResponse(w, errHostIDRequired)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("host_id", hostID), zap.Error(err))
		return
	}

	client := &notify.Client{Hub: h.hub, Conn: conn, Send: make(chan []byte, 256), HostID: hostID}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
