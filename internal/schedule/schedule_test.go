package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceAt(t *testing.T, clock string) *Service {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", "2026-03-10 "+clock)
	require.NoError(t, err)

	s := NewService(OpeningHours{Open: "11:00", Close: "22:00"}, 15*time.Minute)
	s.now = func() time.Time { return parsed }
	return s
}

func TestAvailableSlots_MidDay(t *testing.T) {
	s := serviceAt(t, "17:05")

	slots, err := s.AvailableSlots(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	assert.Equal(t, "17:15", slots[0].Time)
	assert.Equal(t, "22:00", slots[len(slots)-1].Time)
	for _, slot := range slots {
		assert.True(t, slot.IsAvailable)
		assert.Equal(t, slot.Time, slot.ID)
	}
}

func TestAvailableSlots_BeforeOpening(t *testing.T) {
	s := serviceAt(t, "08:00")

	slots, err := s.AvailableSlots(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, "11:00", slots[0].Time)
}

func TestAvailableSlots_AfterClosing(t *testing.T) {
	s := serviceAt(t, "22:30")

	slots, err := s.AvailableSlots(context.Background())
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestValidatePickupTime(t *testing.T) {
	s := serviceAt(t, "17:05")
	ctx := context.Background()

	cases := []struct {
		time string
		ok   bool
	}{
		{"18:00", true},
		{"17:05", false}, // not in the future
		{"12:00", false}, // already past
		{"23:00", false}, // after closing
		{"10:30", false}, // before opening
		{"half past six", false},
		{"", false},
	}
	for _, tc := range cases {
		ok, err := s.ValidatePickupTime(ctx, tc.time)
		require.NoError(t, err)
		assert.Equal(t, tc.ok, ok, "pickup time %q", tc.time)
	}
}

func TestEstimatedPickup_RoundsUpToSlot(t *testing.T) {
	s := serviceAt(t, "17:05")

	got, err := s.EstimatedPickup(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, "17:30", got)
}

func TestEstimatedPickup_ExactBoundary(t *testing.T) {
	s := serviceAt(t, "17:00")

	got, err := s.EstimatedPickup(context.Background(), 15)
	require.NoError(t, err)
	assert.Equal(t, "17:15", got)
}
