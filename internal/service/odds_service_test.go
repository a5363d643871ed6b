package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/playoff-odds/internal/cache"
	"github.com/yourusername/playoff-odds/internal/league"
	"github.com/yourusername/playoff-odds/internal/simulation"
	"github.com/yourusername/playoff-odds/internal/snapshot"
)

var asOf = time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeProvider struct {
	mu        sync.Mutex
	days      int
	fetchedAt time.Time
	err       error
	calls     atomic.Int32
}

func (p *fakeProvider) Snapshot(ctx context.Context, date time.Time) (*snapshot.Snapshot, error) {
	p.calls.Add(1)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	snap := snapshot.Synthetic(league.MustDefault(), date, p.days)
	snap.FetchedAt = p.fetchedAt
	return snap, nil
}

func (p *fakeProvider) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func newTestService(days int) (*OddsService, *fakeProvider, *fakeClock) {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	clock := &fakeClock{now: asOf.Add(9 * time.Hour)}
	provider := &fakeProvider{days: days, fetchedAt: clock.Now()}
	table := league.MustDefault()
	sim := simulation.NewSimulator(table, simulation.DefaultOptions(), log)

	opts := DefaultOptions()
	opts.Now = clock.Now
	return NewOddsService(table, provider, sim, opts, log), provider, clock
}

func inFlight(svc *OddsService, date time.Time) int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return len(svc.inflight[dateKey(date)])
}

var testParams = simulation.Params{Simulations: 1000, Seed: 17, Workers: 2}

func TestComputeOddsCachesFreshResult(t *testing.T) {
	svc, provider, _ := newTestService(5)
	ctx := context.Background()

	first, err := svc.ComputeOdds(ctx, asOf, testParams)
	require.NoError(t, err)
	assert.False(t, first.Stale)
	assert.Equal(t, 1000, first.TotalSimulations)

	second, err := svc.ComputeOdds(ctx, asOf, simulation.Params{Simulations: 1000, Seed: 17, Workers: 4})
	require.NoError(t, err)
	assert.Equal(t, first.RunID, second.RunID)
	assert.Equal(t, int32(1), provider.calls.Load())

	other, err := svc.ComputeOdds(ctx, asOf, simulation.Params{Simulations: 1000, Seed: 18})
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, other.RunID)
}

func TestComputeOddsRecomputesAfterTTL(t *testing.T) {
	svc, _, clock := newTestService(5)
	ctx := context.Background()

	first, err := svc.ComputeOdds(ctx, asOf, testParams)
	require.NoError(t, err)

	clock.Advance(7 * time.Hour)
	second, err := svc.ComputeOdds(ctx, asOf, testParams)
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.False(t, second.Stale)
	assert.Equal(t, uint64(2), svc.CacheStats()[cache.CategoryOdds].Recomputes)
}

func TestComputeOddsServesStaleWhenProviderFails(t *testing.T) {
	svc, provider, clock := newTestService(5)
	ctx := context.Background()

	first, err := svc.ComputeOdds(ctx, asOf, testParams)
	require.NoError(t, err)

	clock.Advance(7 * time.Hour)
	provider.fail(errors.New("stats feed down"))

	res, err := svc.ComputeOdds(ctx, asOf, testParams)
	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.Equal(t, first.RunID, res.RunID)
	assert.False(t, first.Stale, "the cached result is not mutated")

	other, err := svc.ComputeOdds(ctx, asOf, simulation.Params{Simulations: 2000, Seed: 1})
	require.NoError(t, err, "falls back to the latest result for the date")
	assert.Equal(t, first.RunID, other.RunID)
	assert.True(t, other.Stale)
}

func TestComputeOddsServesStaleForOldSnapshot(t *testing.T) {
	svc, _, clock := newTestService(5)
	ctx := context.Background()

	first, err := svc.ComputeOdds(ctx, asOf, testParams)
	require.NoError(t, err)

	clock.Advance(25 * time.Hour)
	res, err := svc.ComputeOdds(ctx, asOf, testParams)
	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.Equal(t, first.RunID, res.RunID)
}

func TestComputeOddsOldSnapshotWithoutCacheIsComputedAndFlagged(t *testing.T) {
	svc, provider, clock := newTestService(5)
	provider.fetchedAt = clock.Now().Add(-48 * time.Hour)

	res, err := svc.ComputeOdds(context.Background(), asOf, testParams)
	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.Equal(t, 1000, res.TotalSimulations)
}

func TestComputeOddsProviderErrorWithoutCache(t *testing.T) {
	svc, provider, _ := newTestService(5)
	boom := errors.New("stats feed down")
	provider.fail(boom)

	_, err := svc.ComputeOdds(context.Background(), asOf, testParams)
	assert.ErrorIs(t, err, boom)
}

func TestComputeOddsConcurrentCallersShareOneBatch(t *testing.T) {
	svc, provider, _ := newTestService(10)
	ctx := context.Background()

	const callers = 8
	ids := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.ComputeOdds(ctx, asOf, testParams)
			if assert.NoError(t, err) {
				ids[i] = res.RunID.String()
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, uint64(1), svc.CacheStats()[cache.CategoryOdds].Recomputes)
	assert.Equal(t, int32(1), provider.calls.Load(), "one snapshot fetch per key")
}

func TestComputeOddsPartialResultWhenCallerLeaves(t *testing.T) {
	svc, _, _ := newTestService(162)
	params := simulation.Params{Simulations: simulation.MaxSimulations, Seed: 5, Workers: 2, AllowPartial: true}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	res, err := svc.ComputeOdds(ctx, asOf, params)
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Greater(t, res.TotalSimulations, 0)
	assert.Less(t, res.TotalSimulations, simulation.MaxSimulations)
	assert.Equal(t, 0, svc.Supersede(asOf), "the batch stopped with its last caller")

	_, ok := svc.odds.GetStale(svc.oddsKey(asOf, params))
	assert.False(t, ok, "degraded results are not cached")
}

func TestComputeOddsCancelsBatchWhenCallerLeaves(t *testing.T) {
	svc, _, _ := newTestService(162)
	params := simulation.Params{Simulations: simulation.MaxSimulations, Seed: 6, Workers: 2}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := svc.ComputeOdds(ctx, asOf, params)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 0, svc.Supersede(asOf))
}

func TestComputeOddsBatchOutlivesOneOfTwoCallers(t *testing.T) {
	svc, _, _ := newTestService(60)
	params := simulation.Params{Simulations: 50000, Seed: 9, Workers: 2}

	leaving, cancel := context.WithCancel(context.Background())
	leftErr := make(chan error, 1)
	go func() {
		_, err := svc.ComputeOdds(leaving, asOf, params)
		leftErr <- err
	}()

	stayed := make(chan error, 1)
	require.Eventually(t, func() bool { return inFlight(svc, asOf) > 0 }, 10*time.Second, time.Millisecond)
	go func() {
		res, err := svc.ComputeOdds(context.Background(), asOf, params)
		if err == nil && res.Degraded {
			err = errors.New("degraded")
		}
		stayed <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-leftErr, context.Canceled)
	assert.NoError(t, <-stayed)
}

func TestRefreshReplacesFreshEntry(t *testing.T) {
	svc, _, _ := newTestService(5)
	ctx := context.Background()

	first, err := svc.ComputeOdds(ctx, asOf, testParams)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, asOf, testParams)
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, refreshed.RunID)

	cached, err := svc.ComputeOdds(ctx, asOf, testParams)
	require.NoError(t, err)
	assert.Equal(t, refreshed.RunID, cached.RunID)
}

func TestSupersedeCancelsInFlightBatch(t *testing.T) {
	svc, _, _ := newTestService(162)
	ctx := context.Background()

	errc := make(chan error, 1)
	go func() {
		_, err := svc.ComputeOdds(ctx, asOf, simulation.Params{Simulations: simulation.MaxSimulations, Seed: 3, Workers: 2})
		errc <- err
	}()

	require.Eventually(t, func() bool { return svc.Supersede(asOf) > 0 }, 10*time.Second, time.Millisecond)

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, simulation.ErrCancelled)
	case <-time.After(10 * time.Second):
		t.Fatal("superseded batch did not stop")
	}
	assert.Equal(t, 0, svc.Supersede(asOf))
}

func TestComputeGameOdds(t *testing.T) {
	svc, provider, _ := newTestService(3)
	ctx := context.Background()

	odds, err := svc.ComputeGameOdds(ctx, asOf)
	require.NoError(t, err)
	assert.Len(t, odds, 15)
	for _, o := range odds {
		assert.InDelta(t, 0.554, o.HomeWinProb, 1e-9)
	}

	_, err = svc.ComputeGameOdds(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestCurrentStandings(t *testing.T) {
	svc, provider, clock := newTestService(1)
	ctx := context.Background()

	st, err := svc.CurrentStandings(ctx, asOf)
	require.NoError(t, err)
	assert.Len(t, st, 30)
	assert.Equal(t, 0.0, st["NYY"].GamesBack)

	clock.Advance(3 * time.Hour)
	provider.fail(errors.New("down"))
	stale, err := svc.CurrentStandings(ctx, asOf)
	require.NoError(t, err)
	assert.Len(t, stale, 30)
}
