package attendance

import (
	"testing"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/settings"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

var testDay = time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)

func TestExpectedCheckIn_UserOverrideWins(t *testing.T) {
	u := user.User{CustomCheckInTime: strPtr("10:30")}
	s := settings.Settings{DefaultCheckInTime: strPtr("09:00")}

	expected := ExpectedCheckIn(u, s, testDay)

	require.NotNil(t, expected)
	assert.Equal(t, 10, expected.Hour())
	assert.Equal(t, 30, expected.Minute())
	assert.Equal(t, testDay.Day(), expected.Day())
}

func TestExpectedCheckIn_FallsBackToDefault(t *testing.T) {
	u := user.User{}
	s := settings.Settings{DefaultCheckInTime: strPtr("09:00")}

	expected := ExpectedCheckIn(u, s, testDay)

	require.NotNil(t, expected)
	assert.Equal(t, 9, expected.Hour())
}

func TestExpectedCheckIn_NoPolicyConfigured(t *testing.T) {
	assert.Nil(t, ExpectedCheckIn(user.User{}, settings.Settings{}, testDay))
}

func TestExpectedCheckOut_UserOverrideWins(t *testing.T) {
	u := user.User{CustomCheckOutTime: strPtr("18:15")}
	s := settings.Settings{DefaultCheckOutTime: strPtr("17:00")}

	expected := ExpectedCheckOut(u, s, testDay)

	require.NotNil(t, expected)
	assert.Equal(t, 18, expected.Hour())
	assert.Equal(t, 15, expected.Minute())
}

func TestMinutesBetween(t *testing.T) {
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.Local)

	assert.Equal(t, 45, MinutesBetween(base.Add(45*time.Minute), base))
	assert.Equal(t, -30, MinutesBetween(base.Add(-30*time.Minute), base))
	assert.Equal(t, 1, MinutesBetween(base.Add(30*time.Second), base))
	assert.Equal(t, 0, MinutesBetween(base, base))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "5 minutes", FormatDuration(5))
	assert.Equal(t, "59 minutes", FormatDuration(59))
	assert.Equal(t, "1 hours", FormatDuration(60))
	assert.Equal(t, "2 hours", FormatDuration(120))
	assert.Equal(t, "1 hours 30 minutes", FormatDuration(90))
}

func TestLateCheckInAlert(t *testing.T) {
	u := user.User{}
	s := settings.Settings{DefaultCheckInTime: strPtr("09:00")}

	alert := lateCheckInAlert(u, s, testDay.Add(9*time.Hour+25*time.Minute), testDay)

	require.NotNil(t, alert)
	assert.Equal(t, attendance.ReasonLateCheckIn, alert.Reason)
	assert.Equal(t, 25, alert.Minutes)
	assert.Contains(t, alert.Message, "25 minutes late")
	assert.Contains(t, alert.Message, "09:00")
}

func TestLateCheckInAlert_OnTime(t *testing.T) {
	u := user.User{}
	s := settings.Settings{DefaultCheckInTime: strPtr("09:00")}

	assert.Nil(t, lateCheckInAlert(u, s, testDay.Add(9*time.Hour), testDay))
	assert.Nil(t, lateCheckInAlert(u, s, testDay.Add(8*time.Hour), testDay))
}

func TestLateCheckInAlert_NoPolicy(t *testing.T) {
	assert.Nil(t, lateCheckInAlert(user.User{}, settings.Settings{}, testDay.Add(12*time.Hour), testDay))
}

func TestEarlyCheckOutAlert(t *testing.T) {
	u := user.User{}
	s := settings.Settings{DefaultCheckOutTime: strPtr("17:00")}

	alert := earlyCheckOutAlert(u, s, testDay.Add(15*time.Hour+30*time.Minute), testDay)

	require.NotNil(t, alert)
	assert.Equal(t, attendance.ReasonEarlyCheckOut, alert.Reason)
	assert.Equal(t, 90, alert.Minutes)
	assert.Contains(t, alert.Message, "1 hours 30 minutes early")
	assert.Contains(t, alert.Message, "17:00")
}

func TestEarlyCheckOutAlert_AtOrAfterExpected(t *testing.T) {
	u := user.User{}
	s := settings.Settings{DefaultCheckOutTime: strPtr("17:00")}

	assert.Nil(t, earlyCheckOutAlert(u, s, testDay.Add(17*time.Hour), testDay))
	assert.Nil(t, earlyCheckOutAlert(u, s, testDay.Add(18*time.Hour), testDay))
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2024, 3, 4, 15, 42, 7, 123, time.Local)

	got := startOfDay(ts)

	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local), got)
}
