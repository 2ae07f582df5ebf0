package attendance

import (
	"fmt"
	"math"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/settings"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
)

// ExpectedCheckIn resolves the expected check-in time for a user on a
// given day: the per-user override wins, then the tenant default. Nil
// means no policy is configured and no time alert is possible.
func ExpectedCheckIn(u user.User, s settings.Settings, day time.Time) *time.Time {
	return expectedTime(u.CustomCheckInTime, s.DefaultCheckInTime, day)
}

// ExpectedCheckOut mirrors ExpectedCheckIn for the check-out side.
func ExpectedCheckOut(u user.User, s settings.Settings, day time.Time) *time.Time {
	return expectedTime(u.CustomCheckOutTime, s.DefaultCheckOutTime, day)
}

func expectedTime(override, fallback *string, day time.Time) *time.Time {
	clock := override
	if clock == nil {
		clock = fallback
	}
	if clock == nil {
		return nil
	}

	parsed, err := time.Parse("15:04", *clock)
	if err != nil {
		return nil
	}

	t := time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, day.Location())
	return &t
}

// MinutesBetween returns the signed difference a-b rounded to whole minutes.
func MinutesBetween(a, b time.Time) int {
	return int(math.Round(a.Sub(b).Minutes()))
}

// FormatDuration renders a minute count the way alert messages phrase it.
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d minutes", minutes)
	}
	hours := minutes / 60
	rest := minutes % 60
	if rest == 0 {
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%d hours %d minutes", hours, rest)
}

// lateCheckInAlert returns a time alert when now is past the expected
// check-in time, nil otherwise.
func lateCheckInAlert(u user.User, s settings.Settings, now, day time.Time) *attendance.TimeAlert {
	expected := ExpectedCheckIn(u, s, day)
	if expected == nil || !now.After(*expected) {
		return nil
	}

	minutes := MinutesBetween(now, *expected)
	return &attendance.TimeAlert{
		Reason:  attendance.ReasonLateCheckIn,
		Minutes: minutes,
		Message: fmt.Sprintf("Checked in %s late. Expected check-in time: %s.",
			FormatDuration(minutes), expected.Format("15:04")),
	}
}

// earlyCheckOutAlert returns a time alert when now is before the
// expected check-out time, nil otherwise.
func earlyCheckOutAlert(u user.User, s settings.Settings, now, day time.Time) *attendance.TimeAlert {
	expected := ExpectedCheckOut(u, s, day)
	if expected == nil || !now.Before(*expected) {
		return nil
	}

	minutes := MinutesBetween(*expected, now)
	return &attendance.TimeAlert{
		Reason:  attendance.ReasonEarlyCheckOut,
		Minutes: minutes,
		Message: fmt.Sprintf("Checked out %s early. Expected check-out time: %s.",
			FormatDuration(minutes), expected.Format("15:04")),
	}
}

// startOfDay normalizes a timestamp to local midnight, the day
// granularity attendance records are keyed on.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
