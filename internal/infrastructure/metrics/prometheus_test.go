package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder("test")

	r.ScanCycle(250*time.Millisecond, 7)
	r.ScanCycle(time.Second, 3)
	r.ScanFailure("pins")
	r.NotificationSent("alarm_sent")
	r.NotificationSent("alarm_sent")
	r.NotificationSent("final_sent")
	r.ReactionRemoved("foreign")
	r.Dialogue("completed")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.scanCycles))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.scanMessages))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.scanFailures.WithLabelValues("pins")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.notifications.WithLabelValues("alarm_sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.notifications.WithLabelValues("final_sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.reactionRemoved.WithLabelValues("foreign")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.dialogues.WithLabelValues("completed")))

	expected := `
# HELP test_dialogues_total Event creation dialogues by outcome
# TYPE test_dialogues_total counter
test_dialogues_total{outcome="completed"} 1
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "test_dialogues_total"))
}

func TestRecorder_IndependentRegistries(t *testing.T) {
	a := NewRecorder("")
	b := NewRecorder("")
	a.ScanFailure("panic")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.scanFailures.WithLabelValues("panic")))
}
