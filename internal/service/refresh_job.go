package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nexus-hq/nexus-attendance/internal/adapter"
	"github.com/nexus-hq/nexus-attendance/internal/logger"
)

type sessionRefreshJob struct {
	adapter adapter.BackendAdapter
	logger  *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSessionRefreshJob creates a refresh job that calls the who-am-I
// endpoint on a ticker to detect token expiry in the background. The job is
// idle until Start is called.
func NewSessionRefreshJob(backend adapter.BackendAdapter, log *logger.Logger) SessionRefreshJob {
	return &sessionRefreshJob{adapter: backend, logger: log}
}

// Start implements [SessionRefreshJob]. It stops any previously running
// job, then launches a background goroutine that revalidates every interval.
// The goroutine exits when ctx is cancelled or Stop is called. When the
// backend rejects the token, onExpired is invoked and the goroutine exits:
// there is nothing left to refresh. Network failures are logged and retried
// on the next tick.
func (j *sessionRefreshJob) Start(ctx context.Context, interval time.Duration, onExpired func()) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if _, err := j.adapter.CurrentUser(jobCtx); err != nil {
					if errors.Is(err, adapter.ErrUnauthorized) {
						j.logger.Info().Msg("session token rejected during background refresh")
						if onExpired != nil {
							onExpired()
						}
						return
					}
					j.logger.Warn().Err(err).Msg("background session refresh failed")
				}
			}
		}
	}()
}

// Stop implements [SessionRefreshJob]. It cancels the background
// goroutine's context and blocks until the goroutine has fully exited.
func (j *sessionRefreshJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
