package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/fieldhouse-sports/scheduler-core/schederr"
)

// WindowExceededNotificationType is the Message.Type a connected host
// session should key its UI off of.
const WindowExceededNotificationType = "SCHEDULE_WINDOW_EXCEEDED"

// HostNotifier implements services.Notifier over a Hub. It never
// returns an error that should abort the caller's transaction — a
// missing session or a marshal failure is logged and swallowed, since
// NotifyHostOfAutoRescheduleFailure fires after the transactional
// decision has already been made (see services.MatchService.FinalizeMatch).
type HostNotifier struct {
	hub    *Hub
	logger *zap.Logger
}

func NewHostNotifier(hub *Hub, logger *zap.Logger) *HostNotifier {
	return &HostNotifier{hub: hub, logger: logger}
}

func (n *HostNotifier) NotifyHostOfAutoRescheduleFailure(_ context.Context, notification schederr.WindowExceededNotification) error {
	if err := n.hub.Push(notification.HostID, Message{
		Type:    WindowExceededNotificationType,
		Payload: notification,
		HostID:  notification.HostID,
	}); err != nil {
		n.logger.Error("failed to push auto-reschedule-failure notification",
			zap.String("event_id", notification.EventID), zap.String("host_id", notification.HostID), zap.Error(err))
	}
	return nil
}
