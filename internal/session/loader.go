package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/foxseedlab/jukebox/internal/resolver"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	loadQueueFactor = 16
	loadBusyReason  = "too many tracks are loading right now, try again later"
)

type outcomeHandler interface {
	Handle(req LoadRequest, outcome resolver.LoadOutcome)
}

// Loader resolves play requests off the caller's goroutine. Every accepted
// request is routed exactly once while the loader runs.
type Loader struct {
	resolver resolver.Resolver
	handler  outcomeHandler
	limiter  *rate.Limiter
	timeout  time.Duration
	workers  int
	requests chan LoadRequest
}

func NewLoader(res resolver.Resolver, handler outcomeHandler, workers int, ratePerSec float64, timeout time.Duration) *Loader {
	if workers < 1 {
		workers = 1
	}
	burst := int(ratePerSec)
	if burst < 1 {
		burst = 1
	}
	return &Loader{
		resolver: res,
		handler:  handler,
		limiter:  rate.NewLimiter(rate.Limit(ratePerSec), burst),
		timeout:  timeout,
		workers:  workers,
		requests: make(chan LoadRequest, workers*loadQueueFactor),
	}
}

// Submit never blocks the caller. A request that does not fit in the queue
// is answered with a busy failure instead of waiting.
func (l *Loader) Submit(req LoadRequest) {
	select {
	case l.requests <- req:
	default:
		slog.Warn("load queue full; rejecting request", "guild_id", req.GuildID, "reference", req.Reference)
		go l.handler.Handle(req, resolver.LoadFailed{Reason: loadBusyReason})
	}
}

func (l *Loader) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < l.workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case req := <-l.requests:
					l.handler.Handle(req, l.resolve(ctx, req))
				}
			}
		})
	}
	slog.Info("loader started", "workers", l.workers)
	return g.Wait()
}

func (l *Loader) resolve(ctx context.Context, req LoadRequest) (outcome resolver.LoadOutcome) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("resolver panicked", "panic", r, "reference", req.Reference)
			outcome = resolver.LoadFailed{Reason: "internal error while loading track"}
		}
	}()
	if err := l.limiter.Wait(ctx); err != nil {
		return resolver.LoadFailed{Reason: err.Error()}
	}
	rctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	started := time.Now()
	outcome = l.resolver.Load(rctx, req.Reference)
	if outcome == nil {
		return resolver.LoadFailed{Reason: "resolver returned no outcome"}
	}
	slog.Debug("reference resolved", "reference", req.Reference, "outcome", outcomeName(outcome), "elapsed_ms", time.Since(started).Milliseconds())
	return outcome
}

func outcomeName(outcome resolver.LoadOutcome) string {
	switch outcome.(type) {
	case resolver.SingleTrack:
		return "single_track"
	case resolver.Playlist:
		return "playlist"
	case resolver.NoMatches:
		return "no_matches"
	default:
		return "load_failed"
	}
}
