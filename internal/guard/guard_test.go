package guard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prostore/cashdesk/internal/domain"
)

func TestAcquire_Exclusive(t *testing.T) {
	g := New(50 * time.Millisecond)
	walletID := uuid.New()
	ctx := context.Background()

	release, err := g.Acquire(ctx, walletID)
	require.NoError(t, err)

	_, err = g.Acquire(ctx, walletID)
	require.ErrorIs(t, err, domain.ErrWalletBusy)

	release()

	release2, err := g.Acquire(ctx, walletID)
	require.NoError(t, err)
	release2()
}

func TestAcquire_DifferentWalletsDoNotBlock(t *testing.T) {
	g := New(50 * time.Millisecond)
	ctx := context.Background()

	rel1, err := g.Acquire(ctx, uuid.New())
	require.NoError(t, err)
	defer rel1()

	rel2, err := g.Acquire(ctx, uuid.New())
	require.NoError(t, err)
	defer rel2()
}

func TestAcquire_ReleaseIsIdempotent(t *testing.T) {
	g := New(50 * time.Millisecond)
	walletID := uuid.New()

	release, err := g.Acquire(context.Background(), walletID)
	require.NoError(t, err)

	release()
	release()

	rel2, err := g.Acquire(context.Background(), walletID)
	require.NoError(t, err)
	rel2()
}

func TestAcquire_ContextCancelled(t *testing.T) {
	g := New(time.Minute)
	walletID := uuid.New()

	release, err := g.Acquire(context.Background(), walletID)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = g.Acquire(ctx, walletID)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAcquireAll_OppositeOrdersDoNotDeadlock(t *testing.T) {
	g := New(5 * time.Second)
	a, b := uuid.New(), uuid.New()

	const rounds = 200
	var wg sync.WaitGroup
	wg.Add(2)

	worker := func(first, second uuid.UUID) {
		defer wg.Done()
		for range rounds {
			release, err := g.AcquireAll(context.Background(), first, second)
			if err != nil {
				t.Error(err)
				return
			}
			release()
		}
	}

	go worker(a, b)
	go worker(b, a)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("deadlock: workers did not finish")
	}
}

func TestAcquireAll_CollapsesDuplicates(t *testing.T) {
	g := New(50 * time.Millisecond)
	walletID := uuid.New()

	release, err := g.AcquireAll(context.Background(), walletID, walletID)
	require.NoError(t, err)
	release()

	rel2, err := g.Acquire(context.Background(), walletID)
	require.NoError(t, err)
	rel2()
}

func TestAcquireAll_FailureReleasesEverything(t *testing.T) {
	g := New(50 * time.Millisecond)
	a, b := uuid.New(), uuid.New()

	holdB, err := g.Acquire(context.Background(), b)
	require.NoError(t, err)

	_, err = g.AcquireAll(context.Background(), a, b)
	require.ErrorIs(t, err, domain.ErrWalletBusy)

	// a must not be left held by the failed multi-acquire.
	relA, err := g.Acquire(context.Background(), a)
	require.NoError(t, err)
	relA()

	holdB()
	relB, err := g.Acquire(context.Background(), b)
	assert.NoError(t, err)
	relB()
}
