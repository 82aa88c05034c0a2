package sampler

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain uses goleak to verify that no run leaves a stage or the
// cancellation watcher running after Sample returns.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
