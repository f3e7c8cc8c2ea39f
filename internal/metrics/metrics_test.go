package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordStreak(t *testing.T) {
	before := testutil.ToFloat64(StreakTransitions.WithLabelValues("Gym", "extend"))
	RecordStreak("Gym", "extend")
	RecordStreak("Gym", "extend")
	assert.Equal(t, before+2, testutil.ToFloat64(StreakTransitions.WithLabelValues("Gym", "extend")))
}

func TestRecordScanSplitsResults(t *testing.T) {
	ok := testutil.ToFloat64(ScanRuns.WithLabelValues("ok"))
	failed := testutil.ToFloat64(ScanRuns.WithLabelValues("error"))

	RecordScan(nil, time.Millisecond)
	RecordScan(errors.New("db down"), time.Millisecond)

	assert.Equal(t, ok+1, testutil.ToFloat64(ScanRuns.WithLabelValues("ok")))
	assert.Equal(t, failed+1, testutil.ToFloat64(ScanRuns.WithLabelValues("error")))
}
