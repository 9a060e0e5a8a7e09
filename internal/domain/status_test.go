package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnabledActions(t *testing.T) {
	tests := []struct {
		status  PunchStatus
		wantIn  bool
		wantOut bool
	}{
		{StatusOut, true, false},
		{StatusIn, false, true},
		{StatusUnknown, true, true},
	}
	for _, tt := range tests {
		gotIn, gotOut := EnabledActions(tt.status)
		assert.Equal(t, tt.wantIn, gotIn, "clock in enabled for %q", tt.status)
		assert.Equal(t, tt.wantOut, gotOut, "clock out enabled for %q", tt.status)
	}
}

func TestClockActionStatus(t *testing.T) {
	assert.Equal(t, StatusIn, ClockIn.Status())
	assert.Equal(t, StatusOut, ClockOut.Status())
}

func TestTitleGlyph(t *testing.T) {
	assert.Equal(t, "⏱☑", TitleGlyph(StatusIn))
	assert.Equal(t, "⏱☒", TitleGlyph(StatusOut))
	assert.Equal(t, "⏱", TitleGlyph(StatusUnknown))
}

func TestTimerStateElapsed(t *testing.T) {
	now := time.Date(2026, 2, 12, 17, 45, 0, 0, time.UTC)

	assert.Equal(t, "--:--", TimerState{}.Elapsed(now))

	start := now.Add(-(2*time.Hour + 7*time.Minute))
	assert.Equal(t, "02:07", TimerState{ClockedInAt: &start}.Elapsed(now))

	// A clock skew into the future must not render a negative duration.
	future := now.Add(5 * time.Minute)
	assert.Equal(t, "00:00", TimerState{ClockedInAt: &future}.Elapsed(now))
}

func TestCredentialsComplete(t *testing.T) {
	assert.False(t, Credentials{}.Complete())
	assert.False(t, Credentials{Email: "a@b.com"}.Complete())
	assert.False(t, Credentials{Email: "  ", Password: "pw"}.Complete())
	assert.True(t, Credentials{Email: "a@b.com", Password: "pw"}.Complete())
}
