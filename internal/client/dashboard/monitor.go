package dashboard

import (
	"context"
	"sync"
	"time"
)

// Monitor is a running transaction-log poll. Stop ends it and waits for the
// polling goroutine to exit.
type Monitor struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func startMonitor(ctx context.Context, interval time.Duration, tick func(ctx context.Context)) *Monitor {
	ctx, cancel := context.WithCancel(ctx)
	m := &Monitor{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(m.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				tick(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()

	return m
}

func (m *Monitor) Stop() {
	m.once.Do(m.cancel)
	<-m.done
}

// Done is closed once the monitor has stopped.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}
