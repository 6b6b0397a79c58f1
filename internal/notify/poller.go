// Package notify polls the backend for the unread message count while a
// user is logged in
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/getmentor/mentor-match-client/internal/session"
	"github.com/getmentor/mentor-match-client/pkg/circuitbreaker"
	"github.com/getmentor/mentor-match-client/pkg/logger"
	"github.com/getmentor/mentor-match-client/pkg/profiling"
)

// UnreadAPI is the backend surface of the poller
type UnreadAPI interface {
	UnreadCount(ctx context.Context) (int, error)
}

// SessionReader tells the poller whether anyone is logged in
type SessionReader interface {
	Snapshot() session.Snapshot
}

// Sink receives each fresh unread count
type Sink interface {
	SetUnread(count int)
}

// Poller refreshes the unread count on a fixed interval. While the backend
// keeps failing, polls are skipped until the breaker lets one through.
type Poller struct {
	cron     *cron.Cron
	breaker  *gobreaker.CircuitBreaker
	api      UnreadAPI
	session  SessionReader
	sinks    []Sink
	interval time.Duration
	timeout  time.Duration

	mu   sync.Mutex
	last int
}

func NewPoller(client UnreadAPI, sess SessionReader, interval time.Duration, sinks ...Sink) *Poller {
	return &Poller{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
			cron.Recover(cron.DiscardLogger),
		)),
		breaker:  circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("unread_poller")),
		api:      client,
		session:  sess,
		sinks:    sinks,
		interval: interval,
		timeout:  10 * time.Second,
	}
}

// Start schedules the poll. A zero interval disables polling.
func (p *Poller) Start() error {
	if p.interval <= 0 {
		logger.Info("Unread poller disabled")
		return nil
	}

	spec := fmt.Sprintf("@every %s", p.interval)
	if _, err := p.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		p.Poll(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule unread poller: %w", err)
	}

	p.cron.Start()
	logger.Info("Unread poller started", zap.Duration("interval", p.interval))
	return nil
}

// Stop waits for a running poll to finish or ctx to expire
func (p *Poller) Stop(ctx context.Context) {
	done := p.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.Warn("Unread poller did not stop in time")
	}
}

// Poll fetches the unread count once. Nothing is fetched while logged out.
func (p *Poller) Poll(ctx context.Context) {
	if !p.session.Snapshot().Authenticated() {
		return
	}

	var (
		count int
		err   error
	)
	profiling.Do(ctx, "job", "unread_poller", func(ctx context.Context) {
		count, err = circuitbreaker.Execute(p.breaker, func() (int, error) {
			return p.api.UnreadCount(ctx)
		})
	})
	if errors.Is(err, circuitbreaker.ErrOpenState) {
		logger.Debug("Unread poll skipped, backend unavailable")
		return
	}
	if err != nil {
		logger.Warn("Unread count poll failed", zap.Error(err))
		return
	}

	p.mu.Lock()
	p.last = count
	p.mu.Unlock()

	for _, sink := range p.sinks {
		sink.SetUnread(count)
	}
}

// Last returns the most recent count, zero before the first poll
func (p *Poller) Last() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Reset forgets the count of the previous user
func (p *Poller) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = 0
}
