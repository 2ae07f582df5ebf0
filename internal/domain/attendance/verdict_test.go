package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFraudVerdict_WithAlerts(t *testing.T) {
	var v FraudVerdict

	v = v.WithDeviceAlert(ReasonDeviceMismatchHistory, "device changed.")
	v = v.WithIPAlert(ReasonIPMismatchHistory, "ip changed.")

	assert.True(t, v.IsFraud)
	assert.True(t, v.HasDeviceAlert)
	assert.True(t, v.HasIPAlert)
	assert.Len(t, v.Alerts, 2)
	assert.Equal(t, "device changed. ip changed.", v.Message())
}

func TestFraudVerdict_DuplicateReasonIgnored(t *testing.T) {
	var v FraudVerdict

	v = v.WithIPAlert(ReasonIPNotWhitelisted, "not whitelisted.")
	v = v.WithIPAlert(ReasonIPNotWhitelisted, "not whitelisted again.")

	assert.Len(t, v.Alerts, 1)
	assert.Equal(t, "not whitelisted.", v.Message())
}

func TestFraudVerdict_CopyOnWrite(t *testing.T) {
	base := FraudVerdict{}.WithDeviceAlert(ReasonDeviceMismatchHistory, "a.")

	derived := base.WithIPAlert(ReasonIPMismatchHistory, "b.")

	assert.Len(t, base.Alerts, 1)
	assert.Len(t, derived.Alerts, 2)
	assert.False(t, base.HasIPAlert)
}

func TestFraudVerdict_Merge(t *testing.T) {
	left := FraudVerdict{}.WithDeviceAlert(ReasonDeviceMismatchHistory, "device.")
	right := FraudVerdict{}.
		WithDeviceAlert(ReasonDeviceMismatchHistory, "device rephrased.").
		WithIPAlert(ReasonIPMismatchToday, "ip today.")

	merged := left.Merge(right)

	assert.True(t, merged.HasDeviceAlert)
	assert.True(t, merged.HasIPAlert)
	// The receiver's phrasing wins for reasons both sides carry.
	assert.Len(t, merged.Alerts, 2)
	assert.Equal(t, "device. ip today.", merged.Message())
}

func TestFraudVerdict_MergeWithEmpty(t *testing.T) {
	v := FraudVerdict{}.WithIPAlert(ReasonIPNotWhitelisted, "x.")

	assert.Equal(t, v, v.Merge(FraudVerdict{}))
	assert.Equal(t, v, FraudVerdict{}.Merge(v))
}

func TestFraudVerdict_MessageEmpty(t *testing.T) {
	assert.Equal(t, "", FraudVerdict{}.Message())
}
