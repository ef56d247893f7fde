package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := NewCollector(reg)

	assert.NotNil(t, collector)
	assert.NotNil(t, collector.jobsRunning)
	assert.NotNil(t, collector.jobsPending)
	assert.NotNil(t, collector.jobsDone)
	assert.NotNil(t, collector.jobDuration)
	assert.NotNil(t, collector.etaSeconds)
}

func TestSetRunningAndPending(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := NewCollector(reg)

	assert.NotPanics(t, func() {
		collector.SetRunning(3)
		collector.SetPending(7)
	})
}

func TestRecordTerminalObservesDurationUnlessTransportFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := NewCollector(reg)

	assert.NotPanics(t, func() {
		collector.RecordTerminal("SUCCESS", 1.5, false)
		collector.RecordTerminal("FAILED", 0.2, true)
	})
}

func TestSetETA(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := NewCollector(reg)

	assert.NotPanics(t, func() {
		collector.SetETA(42.0)
	})
}

func TestCollectorIsolation(t *testing.T) {
	reg1 := prometheus.NewRegistry()
	c1 := NewCollector(reg1)
	require.NotNil(t, c1)

	reg2 := prometheus.NewRegistry()
	c2 := NewCollector(reg2)
	require.NotNil(t, c2)

	assert.Panics(t, func() {
		NewCollector(reg1)
	}, "registering a second collector against the same registry should panic on duplicate metric names")
}

func TestConcurrentMetricUpdates(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := NewCollector(reg)

	done := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		go func() {
			collector.SetRunning(1)
			collector.SetPending(2)
			collector.RecordTerminal("SUCCESS", 0.1, false)
			done <- true
		}()
	}
	for i := 0; i < 100; i++ {
		<-done
	}
}
