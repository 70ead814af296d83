package router

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestEnableMetricsConcurrentWithRecording(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		EnableMetrics(WithRegistry(prometheus.NewRegistry()))
	}()
	go func() {
		defer wg.Done()
		recordNavigation(outcomeCommitted, time.Millisecond)
		recordPermissionDenied()
		recordActivation("activate")
	}()
	wg.Wait()

	// Further calls must keep the first instance.
	EnableMetrics(WithRegistry(prometheus.NewRegistry()))
	if loadMetrics() == nil {
		t.Fatal("metrics not initialized after EnableMetrics")
	}
}
