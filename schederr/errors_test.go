package schederr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldhouse-sports/scheduler-core/schederr"
)

func TestConfigError_FormatsMessage(t *testing.T) {
	err := schederr.NewConfigError("no fields are available for division %q", "OPEN")
	require.EqualError(t, err, `no fields are available for division "OPEN"`)
}

func TestInfeasibleError_CarriesCount(t *testing.T) {
	var err error = &schederr.InfeasibleError{ApproximateMatchesNeeded: 54}
	var infeasible *schederr.InfeasibleError
	require.True(t, errors.As(err, &infeasible))
	require.Equal(t, 54, infeasible.ApproximateMatchesNeeded)
}

func TestWindowExceededError_CarriesNotification(t *testing.T) {
	err := &schederr.WindowExceededError{Notification: schederr.WindowExceededNotification{
		EventID: "evt-1", EventName: "Summer League", MatchID: 7, HostID: "host-1",
	}}
	require.Contains(t, err.Error(), "match 7")
}

func TestConcurrencyError_NamesEvent(t *testing.T) {
	err := &schederr.ConcurrencyError{EventID: "evt-9"}
	require.Contains(t, err.Error(), "evt-9")
}
