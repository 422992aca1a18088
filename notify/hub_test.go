package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldhouse-sports/scheduler-core/notify"
	"github.com/fieldhouse-sports/scheduler-core/schederr"
)

func newTestHub(t *testing.T) *notify.Hub {
	t.Helper()
	hub := notify.NewHub(zap.NewNop())
	go hub.Run()
	return hub
}

func registerClient(hub *notify.Hub, hostID string) *notify.Client {
	client := &notify.Client{Hub: hub, Send: make(chan []byte, 4), HostID: hostID}
	hub.Register <- client
	return client
}

func TestHub_PushDeliversToRegisteredHostOnly(t *testing.T) {
	hub := newTestHub(t)
	clientA := registerClient(hub, "host-a")
	clientB := registerClient(hub, "host-b")

	require.Eventually(t, func() bool { return hub.HasSession("host-a") }, time.Second, time.Millisecond)

	err := hub.Push("host-a", notify.Message{Type: "TEST", Payload: "hello"})
	require.NoError(t, err)

	select {
	case msg := <-clientA.Send:
		require.Contains(t, string(msg), "hello")
	default:
		t.Fatal("expected a message on host-a's send channel")
	}
	require.Empty(t, clientB.Send, "host-b must not receive host-a's message")
}

func TestHub_PushWithNoSessionIsANoOp(t *testing.T) {
	hub := newTestHub(t)
	err := hub.Push("nobody-home", notify.Message{Type: "TEST"})
	require.NoError(t, err)
}

func TestHostNotifier_NeverReturnsAnError(t *testing.T) {
	hub := newTestHub(t)
	notifier := notify.NewHostNotifier(hub, zap.NewNop())

	err := notifier.NotifyHostOfAutoRescheduleFailure(nil, schederr.WindowExceededNotification{
		EventID: "evt-1", HostID: "host-missing", MatchID: 7,
	})
	require.NoError(t, err)
}
