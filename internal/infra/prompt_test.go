package infra

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trymirror/scanflow/internal/domain"
)

// TestTerminalRequester_Grants verifies a yes answer grants access
func TestTerminalRequester_Grants(t *testing.T) {
	for _, answer := range []string{"y", "Y", "yes", " Yes "} {
		var out bytes.Buffer
		requester := NewTerminalPermissionRequester(strings.NewReader(answer+"\n"), &out)

		state, err := requester.Request(context.Background())

		require.NoError(t, err)
		assert.Equal(t, domain.PermissionGranted, state, "answer %q", answer)
		assert.Contains(t, out.String(), "camera")
	}
}

// TestTerminalRequester_Denies verifies anything but yes denies access
func TestTerminalRequester_Denies(t *testing.T) {
	for _, answer := range []string{"n", "no", "", "maybe"} {
		var out bytes.Buffer
		requester := NewTerminalPermissionRequester(strings.NewReader(answer+"\n"), &out)

		state, err := requester.Request(context.Background())

		require.NoError(t, err)
		assert.Equal(t, domain.PermissionDenied, state, "answer %q", answer)
	}
}

// TestTerminalRequester_ClosedInput verifies EOF counts as denial
func TestTerminalRequester_ClosedInput(t *testing.T) {
	var out bytes.Buffer
	requester := NewTerminalPermissionRequester(strings.NewReader(""), &out)

	state, err := requester.Request(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.PermissionDenied, state)
}

// TestStaticRequester verifies the fixed-answer requester
func TestStaticRequester(t *testing.T) {
	requester := &StaticPermissionRequester{State: domain.PermissionGranted}

	state, err := requester.Request(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.PermissionGranted, state)
}

// TestStaticRequester_CanceledContext verifies teardown aborts the prompt
func TestStaticRequester_CanceledContext(t *testing.T) {
	requester := &StaticPermissionRequester{State: domain.PermissionGranted}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := requester.Request(ctx)
	assert.Error(t, err)
}
