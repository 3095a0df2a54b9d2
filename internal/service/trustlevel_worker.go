package service

import (
	"context"
	"log"
	"time"

	"github.com/Luminous-Dynamics/terra-atlas/internal/repository"
	"github.com/Luminous-Dynamics/terra-atlas/internal/trust"
)

// TrustLevelWorker is a periodic background job that promotes or demotes
// users between trust levels based on their voting history, and sweeps
// expired refresh-token sessions.
type TrustLevelWorker struct {
	users    *repository.UserRepo
	sessions *repository.SessionRepo
	interval time.Duration
	stopCh   chan struct{}
}

// NewTrustLevelWorker creates a worker that ticks every interval.
func NewTrustLevelWorker(users *repository.UserRepo, sessions *repository.SessionRepo, interval time.Duration) *TrustLevelWorker {
	return &TrustLevelWorker{
		users:    users,
		sessions: sessions,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic recalculation loop. It runs one tick immediately,
// then every interval.
func (w *TrustLevelWorker) Start(ctx context.Context) {
	log.Printf("trust-worker: starting (interval=%s)", w.interval)

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			log.Println("trust-worker: stopping (context cancelled)")
			return
		case <-w.stopCh:
			log.Println("trust-worker: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *TrustLevelWorker) Stop() {
	close(w.stopCh)
}

func (w *TrustLevelWorker) tick(ctx context.Context) {
	start := time.Now()

	users, err := w.users.ListForTrustLevelRefresh(ctx)
	if err != nil {
		log.Printf("trust-worker: list error: %v", err)
		return
	}

	updated := 0
	for _, u := range users {
		level := trust.Level(u.ValidationsCount, u.Accuracy)
		if level == u.TrustLevel {
			continue
		}
		if err := w.users.UpdateTrustLevel(ctx, u.ID, level); err != nil {
			log.Printf("trust-worker: update error for %s: %v", u.ID, err)
			continue
		}
		updated++
	}

	swept, err := w.sessions.DeleteExpired(ctx)
	if err != nil {
		log.Printf("trust-worker: session sweep error: %v", err)
	}

	elapsed := time.Since(start)
	if updated > 0 || swept > 0 {
		log.Printf("trust-worker: tick complete — %d users re-leveled, %d sessions swept (%s)",
			updated, swept, elapsed.Round(time.Millisecond))
	}
}
