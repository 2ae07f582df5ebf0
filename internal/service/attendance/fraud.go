package attendance

import (
	"fmt"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/device"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

// Evaluate runs the fraud check for one check-in/check-out event: the
// IP whitelist first, then the device and IP history comparison against
// the provided prior records. Pure function, no I/O.
func Evaluate(current device.Descriptor, currentIP string, priors []attendance.Attendance, allowedIPs []string) attendance.FraudVerdict {
	var verdict attendance.FraudVerdict

	// Whitelist violation is independent of history.
	if len(allowedIPs) > 0 && !validator.IsInSlice(currentIP, allowedIPs) {
		verdict = verdict.WithIPAlert(attendance.ReasonIPNotWhitelisted,
			fmt.Sprintf("IP not in whitelist; current IP: %s.", currentIP))
	}

	if len(priors) == 0 {
		return verdict
	}

	currentFingerprint := device.Fingerprint(current)
	priorIPs := make(map[string]struct{})
	foundMatchingDevice := false

	check := func(e *attendance.Event) {
		if e == nil {
			return
		}
		priorIPs[e.IPAddress] = struct{}{}
		// Fingerprint equality is the cheap pre-filter; the full
		// field-wise match is the authoritative test.
		if device.Fingerprint(e.Device) == currentFingerprint && device.Matches(current, e.Device) {
			foundMatchingDevice = true
		}
	}

	for _, prior := range priors {
		check(prior.CheckIn)
		check(prior.CheckOut)
	}

	if !foundMatchingDevice {
		verdict = verdict.WithDeviceAlert(attendance.ReasonDeviceMismatchHistory,
			fmt.Sprintf("Device differs from prior records. Current device: %s.", current))
	}

	if _, seen := priorIPs[currentIP]; !verdict.HasIPAlert && !seen {
		verdict = verdict.WithIPAlert(attendance.ReasonIPMismatchHistory,
			"IP differs from prior records.")
	}

	return verdict
}

// evaluateSameDay compares a check-out signal against the same day's
// check-in leg, plus the whitelist. Used by CheckOut and PreCheckFraud.
func evaluateSameDay(checkIn *attendance.Event, current device.Descriptor, currentIP string, allowedIPs []string) attendance.FraudVerdict {
	var verdict attendance.FraudVerdict

	if len(allowedIPs) > 0 && !validator.IsInSlice(currentIP, allowedIPs) {
		verdict = verdict.WithIPAlert(attendance.ReasonIPNotWhitelisted,
			fmt.Sprintf("IP not in whitelist; current IP: %s.", currentIP))
	}

	if checkIn == nil {
		return verdict
	}

	if !device.Matches(checkIn.Device, current) {
		verdict = verdict.WithDeviceAlert(attendance.ReasonDeviceMismatchToday,
			fmt.Sprintf("Check-out device differs from check-in. Check-out device: %s.", current))
	}

	if checkIn.IPAddress != currentIP {
		verdict = verdict.WithIPAlert(attendance.ReasonIPMismatchToday,
			"Check-out IP differs from check-in.")
	}

	return verdict
}
