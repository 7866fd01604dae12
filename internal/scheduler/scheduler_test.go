package scheduler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-history/internal/weather"
)

type fakeStats weather.Stats

func (f fakeStats) Stats() weather.Stats { return weather.Stats(f) }

type fakeCounters struct{ total, failed uint64 }

func (f fakeCounters) Totals() (uint64, uint64) { return f.total, f.failed }

func TestReportLogsTotals(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := New(time.Minute, fakeStats{Countries: 7, Cities: 17, Records: 204}, fakeCounters{total: 12, failed: 1}, logger)
	s.Report()

	out := buf.String()
	assert.Contains(t, out, "msg=heartbeat")
	assert.Contains(t, out, "component=heartbeat")
	assert.Contains(t, out, "countries=7")
	assert.Contains(t, out, "records=204")
	assert.Contains(t, out, "requests_total=12")
	assert.Contains(t, out, "requests_failed=1")
}

func TestStartWithZeroIntervalIsDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := New(0, fakeStats{}, fakeCounters{}, logger)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Contains(t, buf.String(), "heartbeat disabled")
	assert.False(t, s.scheduler.IsRunning())
}

func TestStartSchedulesJob(t *testing.T) {
	s := New(time.Hour, fakeStats{}, fakeCounters{}, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.True(t, s.scheduler.IsRunning())
	assert.Len(t, s.scheduler.Jobs(), 1)
}
