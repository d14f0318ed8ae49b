package audit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTrail(t *testing.T) *Trail {
	t.Helper()
	trail, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { trail.Close() })
	return trail
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	trail := openTrail(t)

	require.NoError(t, trail.Record(ctx, "jane@example.com", ActionSignup, "", "customer"))
	require.NoError(t, trail.Record(ctx, "jane@example.com", ActionBookingCreated, "2024-06-10_10-00-00", "dog-basic"))
	require.NoError(t, trail.Record(ctx, "admin@gmail.com", ActionStatusChange, "2024-06-10_10-00-00", "pending -> confirmed"))

	events, err := trail.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)

	// Newest first.
	require.Equal(t, ActionStatusChange, events[0].Action)
	require.Equal(t, "pending -> confirmed", events[0].Detail)
	require.Equal(t, "2024-06-10_10-00-00", events[0].BookingID)
	require.Equal(t, ActionSignup, events[2].Action)
	require.False(t, events[0].CreatedAt.IsZero())
}

func TestRecentLimit(t *testing.T) {
	ctx := context.Background()
	trail := openTrail(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, trail.Record(ctx, "jane@example.com", ActionLogin, "", ""))
	}

	events, err := trail.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestRecentEmpty(t *testing.T) {
	trail := openTrail(t)
	events, err := trail.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestReopenKeepsEvents(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "audit.db")

	trail, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, trail.Record(ctx, "jane@example.com", ActionLogin, "", ""))
	require.NoError(t, trail.Close())

	trail, err = Open(path)
	require.NoError(t, err)
	defer trail.Close()

	events, err := trail.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, ActionLogin, events[0].Action)
}
