package attendance

import (
	"testing"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/device"
	"github.com/stretchr/testify/assert"
)

func testDevice(browser, os string) device.Descriptor {
	return device.Descriptor{
		Browser:        browser,
		BrowserVersion: "120.0",
		OS:             os,
		OSVersion:      "10",
		Device:         "Unknown",
		DeviceType:     "desktop",
		UserAgent:      browser + " on " + os,
	}
}

func priorRecord(day time.Time, d device.Descriptor, ip string) attendance.Attendance {
	return attendance.Attendance{
		UserID: "user-1",
		Date:   day,
		CheckIn: &attendance.Event{
			Time:      day.Add(9 * time.Hour),
			IPAddress: ip,
			Device:    d,
		},
	}
}

func TestEvaluate_NoHistoryNoWhitelist(t *testing.T) {
	verdict := Evaluate(testDevice("Chrome", "Windows"), "10.0.0.1", nil, nil)

	assert.False(t, verdict.IsFraud)
	assert.False(t, verdict.HasDeviceAlert)
	assert.False(t, verdict.HasIPAlert)
	assert.Empty(t, verdict.Alerts)
}

func TestEvaluate_KnownDeviceAndIP(t *testing.T) {
	d := testDevice("Chrome", "Windows")
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	priors := []attendance.Attendance{priorRecord(day, d, "10.0.0.1")}

	verdict := Evaluate(d, "10.0.0.1", priors, nil)

	assert.False(t, verdict.IsFraud)
	assert.Empty(t, verdict.Alerts)
}

func TestEvaluate_DeviceMismatch(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	priors := []attendance.Attendance{priorRecord(day, testDevice("Chrome", "Windows"), "10.0.0.1")}

	verdict := Evaluate(testDevice("Firefox", "Linux"), "10.0.0.1", priors, nil)

	assert.True(t, verdict.IsFraud)
	assert.True(t, verdict.HasDeviceAlert)
	assert.False(t, verdict.HasIPAlert)
	assert.True(t, verdict.Has(attendance.ReasonDeviceMismatchHistory))
}

func TestEvaluate_IPMismatch(t *testing.T) {
	d := testDevice("Chrome", "Windows")
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	priors := []attendance.Attendance{priorRecord(day, d, "10.0.0.1")}

	verdict := Evaluate(d, "192.168.1.5", priors, nil)

	assert.True(t, verdict.IsFraud)
	assert.False(t, verdict.HasDeviceAlert)
	assert.True(t, verdict.HasIPAlert)
	assert.True(t, verdict.Has(attendance.ReasonIPMismatchHistory))
}

func TestEvaluate_AnyPriorDeviceMatchClears(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	current := testDevice("Chrome", "Windows")
	priors := []attendance.Attendance{
		priorRecord(day.AddDate(0, 0, -2), testDevice("Firefox", "Linux"), "10.0.0.1"),
		priorRecord(day.AddDate(0, 0, -1), current, "10.0.0.1"),
	}

	verdict := Evaluate(current, "10.0.0.1", priors, nil)

	assert.False(t, verdict.HasDeviceAlert)
}

func TestEvaluate_CheckOutLegCountsAsHistory(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	current := testDevice("Chrome", "Windows")
	prior := attendance.Attendance{
		UserID: "user-1",
		Date:   day,
		CheckOut: &attendance.Event{
			Time:      day.Add(17 * time.Hour),
			IPAddress: "10.0.0.9",
			Device:    current,
		},
	}

	verdict := Evaluate(current, "10.0.0.9", []attendance.Attendance{prior}, nil)

	assert.False(t, verdict.IsFraud)
}

func TestEvaluate_WhitelistViolation(t *testing.T) {
	verdict := Evaluate(testDevice("Chrome", "Windows"), "203.0.113.7", nil, []string{"10.0.0.1", "10.0.0.2"})

	assert.True(t, verdict.IsFraud)
	assert.True(t, verdict.HasIPAlert)
	assert.True(t, verdict.Has(attendance.ReasonIPNotWhitelisted))
	assert.Contains(t, verdict.Message(), "203.0.113.7")
}

func TestEvaluate_WhitelistViolationFiresWithoutHistory(t *testing.T) {
	// Whitelist is checked even for a first-ever check-in.
	verdict := Evaluate(testDevice("Chrome", "Windows"), "203.0.113.7", nil, []string{"10.0.0.1"})

	assert.True(t, verdict.IsFraud)
	assert.Empty(t, verdict.Alerts[1:])
}

func TestEvaluate_WhitelistSuppressesHistoryIPAlert(t *testing.T) {
	// One IP alert per evaluation: the whitelist finding wins and the
	// history mismatch does not stack a second IP reason.
	d := testDevice("Chrome", "Windows")
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	priors := []attendance.Attendance{priorRecord(day, d, "10.0.0.1")}

	verdict := Evaluate(d, "203.0.113.7", priors, []string{"10.0.0.1"})

	assert.True(t, verdict.HasIPAlert)
	assert.True(t, verdict.Has(attendance.ReasonIPNotWhitelisted))
	assert.False(t, verdict.Has(attendance.ReasonIPMismatchHistory))
}

func TestEvaluate_EmptyWhitelistDisablesCheck(t *testing.T) {
	verdict := Evaluate(testDevice("Chrome", "Windows"), "203.0.113.7", nil, []string{})

	assert.False(t, verdict.IsFraud)
}

func TestEvaluate_BothMismatches(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	priors := []attendance.Attendance{priorRecord(day, testDevice("Chrome", "Windows"), "10.0.0.1")}

	verdict := Evaluate(testDevice("Safari", "macOS"), "192.168.1.5", priors, nil)

	assert.True(t, verdict.HasDeviceAlert)
	assert.True(t, verdict.HasIPAlert)
	assert.Len(t, verdict.Alerts, 2)
}

func TestEvaluateSameDay_Match(t *testing.T) {
	d := testDevice("Chrome", "Windows")
	checkIn := &attendance.Event{Time: time.Now(), IPAddress: "10.0.0.1", Device: d}

	verdict := evaluateSameDay(checkIn, d, "10.0.0.1", nil)

	assert.False(t, verdict.IsFraud)
}

func TestEvaluateSameDay_DeviceChanged(t *testing.T) {
	checkIn := &attendance.Event{Time: time.Now(), IPAddress: "10.0.0.1", Device: testDevice("Chrome", "Windows")}

	verdict := evaluateSameDay(checkIn, testDevice("Firefox", "Linux"), "10.0.0.1", nil)

	assert.True(t, verdict.HasDeviceAlert)
	assert.True(t, verdict.Has(attendance.ReasonDeviceMismatchToday))
}

func TestEvaluateSameDay_IPChanged(t *testing.T) {
	d := testDevice("Chrome", "Windows")
	checkIn := &attendance.Event{Time: time.Now(), IPAddress: "10.0.0.1", Device: d}

	verdict := evaluateSameDay(checkIn, d, "192.168.1.50", nil)

	assert.True(t, verdict.HasIPAlert)
	assert.True(t, verdict.Has(attendance.ReasonIPMismatchToday))
}
