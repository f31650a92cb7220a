// Package guard serializes mutating operations per wallet. Every open,
// close and balance-affecting call takes the wallet's section before reading
// any state and holds it until all derived writes commit, so operations on
// one wallet are linearizable even though the HTTP clients issue independent,
// unserialized requests.
package guard

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prostore/cashdesk/internal/domain"
)

type WalletGuard struct {
	mu      sync.Mutex
	locks   map[uuid.UUID]chan struct{}
	maxWait time.Duration
}

func New(maxWait time.Duration) *WalletGuard {
	return &WalletGuard{
		locks:   make(map[uuid.UUID]chan struct{}),
		maxWait: maxWait,
	}
}

func (g *WalletGuard) lockChan(id uuid.UUID) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		g.locks[id] = ch
	}
	return ch
}

// Acquire takes the wallet's exclusive section, waiting at most the
// configured bound. It fails with ErrWalletBusy on timeout so callers never
// stall silently; that error is safe to retry.
func (g *WalletGuard) Acquire(ctx context.Context, walletID uuid.UUID) (release func(), err error) {
	ch := g.lockChan(walletID)

	timer := time.NewTimer(g.maxWait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-timer.C:
		return nil, fmt.Errorf("guard.Acquire: wallet %s: %w", walletID, domain.ErrWalletBusy)
	case <-ctx.Done():
		return nil, fmt.Errorf("guard.Acquire: %w", ctx.Err())
	}
}

// AcquireAll takes the sections of several wallets in ascending UUID order.
// The fixed global order prevents deadlock between two transfers moving money
// in opposite directions between the same pair of wallets. Duplicates are
// collapsed. On any failure no section remains held.
func (g *WalletGuard) AcquireAll(ctx context.Context, walletIDs ...uuid.UUID) (release func(), err error) {
	sorted := make([]uuid.UUID, 0, len(walletIDs))
	seen := make(map[uuid.UUID]struct{}, len(walletIDs))
	for _, id := range walletIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	releases := make([]func(), 0, len(sorted))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, id := range sorted {
		rel, err := g.Acquire(ctx, id)
		if err != nil {
			releaseAll()
			return nil, fmt.Errorf("guard.AcquireAll: %w", err)
		}
		releases = append(releases, rel)
	}

	var once sync.Once
	return func() { once.Do(releaseAll) }, nil
}
