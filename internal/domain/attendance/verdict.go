package attendance

import (
	"strings"
)

// AlertReason is a symbolic tag for one distinct fraud/policy finding.
// Verdicts accumulate tags; text is rendered once at the response
// boundary, so the same finding can never be phrased into a record twice.
type AlertReason string

const (
	ReasonIPNotWhitelisted      AlertReason = "ip_not_whitelisted"
	ReasonDeviceMismatchHistory AlertReason = "device_mismatch_history"
	ReasonIPMismatchHistory     AlertReason = "ip_mismatch_history"
	ReasonDeviceMismatchToday   AlertReason = "device_mismatch_today"
	ReasonIPMismatchToday       AlertReason = "ip_mismatch_today"
	ReasonLateCheckIn           AlertReason = "late_check_in"
	ReasonEarlyCheckOut         AlertReason = "early_check_out"
)

// AlertDetail pairs a reason tag with its rendered message fragment.
type AlertDetail struct {
	Reason  AlertReason `json:"reason"`
	Message string      `json:"message"`
}

// FraudVerdict is the structured output of fraud evaluation. It is
// computed fresh on every check-in/check-out and merged into the day's
// record; flags only ever accumulate.
type FraudVerdict struct {
	HasDeviceAlert bool          `json:"has_device_alert"`
	HasIPAlert     bool          `json:"has_ip_alert"`
	IsFraud        bool          `json:"is_fraud"`
	Alerts         []AlertDetail `json:"alerts,omitempty"`
}

// Has reports whether the verdict already carries the given reason.
func (v FraudVerdict) Has(reason AlertReason) bool {
	for _, a := range v.Alerts {
		if a.Reason == reason {
			return true
		}
	}
	return false
}

// WithDeviceAlert returns a copy of the verdict with a device finding added.
func (v FraudVerdict) WithDeviceAlert(reason AlertReason, message string) FraudVerdict {
	v.HasDeviceAlert = true
	v.IsFraud = true
	return v.withAlert(reason, message)
}

// WithIPAlert returns a copy of the verdict with an IP finding added.
func (v FraudVerdict) WithIPAlert(reason AlertReason, message string) FraudVerdict {
	v.HasIPAlert = true
	v.IsFraud = true
	return v.withAlert(reason, message)
}

func (v FraudVerdict) withAlert(reason AlertReason, message string) FraudVerdict {
	if v.Has(reason) {
		return v
	}
	alerts := make([]AlertDetail, len(v.Alerts), len(v.Alerts)+1)
	copy(alerts, v.Alerts)
	v.Alerts = append(alerts, AlertDetail{Reason: reason, Message: message})
	return v
}

// Merge combines two verdicts: flags are OR'd and reasons the receiver
// does not already carry are appended in order.
func (v FraudVerdict) Merge(other FraudVerdict) FraudVerdict {
	v.HasDeviceAlert = v.HasDeviceAlert || other.HasDeviceAlert
	v.HasIPAlert = v.HasIPAlert || other.HasIPAlert
	v.IsFraud = v.IsFraud || other.IsFraud
	for _, a := range other.Alerts {
		v = v.withAlert(a.Reason, a.Message)
	}
	return v
}

// Message renders all accumulated findings as one human-readable string.
func (v FraudVerdict) Message() string {
	if len(v.Alerts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(v.Alerts))
	for _, a := range v.Alerts {
		parts = append(parts, a.Message)
	}
	return strings.Join(parts, " ")
}

// TimeAlert describes a late check-in or early check-out finding from
// the policy clock.
type TimeAlert struct {
	Reason  AlertReason `json:"reason"`
	Minutes int         `json:"minutes"`
	Message string      `json:"message"`
}
