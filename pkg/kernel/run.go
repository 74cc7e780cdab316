package kernel

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the scheduler tick period used by Run unless
// overridden.
const DefaultInterval = time.Millisecond

// Run implements the Runnable convention: it performs setup when needed
// and then drives scheduler ticks until the context is canceled. A
// bricked controller keeps ticking without doing work, mirroring real
// hardware waiting for a firmware reset.
func (k *Kernel) Run(ctx context.Context) error {
	if !k.setupDone {
		if k.Setup() {
			glog.Infof("controller %d ready, %d modules", k.config.ControllerID, len(k.modules))
		} else {
			glog.Errorf("controller %d setup failed", k.config.ControllerID)
		}
	}

	interval := k.config.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			k.Cycle()
		}
	}
}
