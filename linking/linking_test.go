package linking

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/hupe1980/pprl"
	"github.com/hupe1980/pprl/cluster"
	"github.com/hupe1980/pprl/encoding"
	"github.com/hupe1980/pprl/metricspace"
	"github.com/hupe1980/pprl/record"
	"github.com/hupe1980/pprl/similarity"
	"github.com/hupe1980/pprl/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span(lo, hi uint) []uint {
	var out []uint
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

func party(t *testing.T, id string, recs map[string][]uint, order ...string) *record.MemoryParty {
	t.Helper()
	p := record.NewMemoryParty(id)
	for _, rid := range order {
		r, err := record.New(rid, "", 64, recs[rid])
		require.NoError(t, err)
		require.NoError(t, p.Add(r))
	}
	return p
}

func records(snaps []cluster.Snapshot) [][]string {
	out := make([][]string, len(snaps))
	for i, s := range snaps {
		out[i] = s.Records
	}
	return out
}

func TestRun_LinksAndIndexes(t *testing.T) {
	a := party(t, "A", map[string][]uint{
		"a1": span(0, 11),
		"a2": span(20, 31),
		"a3": span(40, 51),
	}, "a1", "a2", "a3")
	b := party(t, "B", map[string][]uint{
		"b1": append(span(0, 10), 12),
		"b2": span(20, 31),
		"b3": span(52, 63),
	}, "b1", "b2", "b3")

	mc := &pprl.BasicMetricsCollector{}
	p, err := New([]record.Party{a, b},
		pprl.WithPivotSelector(metricspace.FirstN(1)),
		pprl.WithMinimumSubsetSize(2),
		pprl.WithMetricsCollector(mc),
	)
	require.NoError(t, err)

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"A/a1", "B/b1"}, {"A/a2", "B/b2"}}, records(res.Clusters))
	assert.Equal(t, [][]string{{"A/a3"}, {"B/b3"}}, records(res.Dropped))

	require.Len(t, res.Snapshot.Pivots, 1)
	pivot := res.Snapshot.Pivots[0]
	assert.Equal(t, []string{"A/a1", "B/b1"}, pivot.Cluster.Records)
	assert.InDelta(t, 24.0, pivot.Radius, 1e-12)
	require.Len(t, pivot.Assigned, 3)
	for _, as := range pivot.Assigned {
		assert.InDelta(t, 24.0, as.Distance, 1e-12)
	}

	assert.Equal(t, metricspace.SearchStats{
		Pivots:         3,
		TrianglePruned: 2,
		DistanceCalls:  7,
		Candidates:     2,
	}, res.Stats)

	s := mc.GetStats()
	assert.Equal(t, int64(3), s.Searches)
	assert.Equal(t, int64(1), s.Solves)
	assert.Equal(t, int64(2), s.SolveSelected)
	assert.Equal(t, int64(4), s.Indexed)
	assert.Equal(t, int64(1), s.Promoted)
}

func dataset(t *testing.T, seed int64) []record.Party {
	t.Helper()
	rng := testutil.NewRNG(seed)
	entities := rng.Entities(30, 1024, 100)

	var parties []record.Party
	for _, ps := range []struct {
		id string
		n  int
	}{{"A", 30}, {"B", 20}, {"C", 10}} {
		p, err := rng.Party(ps.id, entities[:ps.n], 1024, 3, testutil.SingleBlock)
		require.NoError(t, err)
		parties = append(parties, p)
	}
	return parties
}

func TestRun_RandomParties(t *testing.T) {
	p, err := New(dataset(t, 11))
	require.NoError(t, err)

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	seen := make(map[string]int)
	sizes := make(map[int]int)
	for _, s := range res.Clusters {
		sizes[len(s.Records)]++
		for _, id := range s.Records {
			seen[id]++
		}
	}
	assert.Len(t, seen, 60)
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
	assert.Equal(t, map[int]int{1: 10, 2: 10, 3: 10}, sizes)

	precision, recall := testutil.PairQuality(records(res.Clusters))
	assert.InDelta(t, 1.0, precision, 1e-12)
	assert.InDelta(t, 1.0, recall, 1e-12)
}

type recordingHandler struct {
	inner record.EncodingHandler

	mu    sync.Mutex
	calls [][]string
}

func (h *recordingHandler) ForParticipants(ids []string) record.Encoder {
	h.mu.Lock()
	h.calls = append(h.calls, append([]string(nil), ids...))
	h.mu.Unlock()
	return h.inner.ForParticipants(ids)
}

func TestRun_EnhancedPrivacyPreservesDistances(t *testing.T) {
	plain, err := New(dataset(t, 5))
	require.NoError(t, err)
	want, err := plain.Run(context.Background())
	require.NoError(t, err)

	parties := dataset(t, 5)
	h := &recordingHandler{inner: encoding.NewPermutationHandler("secret")}
	enhanced, err := New(parties, pprl.WithEnhancedPrivacy(true), pprl.WithEncodingHandler(h))
	require.NoError(t, err)
	got, err := enhanced.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"A"}, {"A", "B"}, {"A", "B", "C"}}, h.calls)
	assert.Equal(t, want.Snapshot, got.Snapshot)
	assert.Equal(t, want.Clusters, got.Clusters)

	r := parties[0].Records()[0]
	assert.False(t, r.Encoding().Equal(r.Original()))
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := New(dataset(t, 1))
	require.NoError(t, err)

	res, err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestRun_CancelledBetweenParties(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int
	metric := similarity.MetricFunc(func(x, y *cluster.Cluster) (float64, error) {
		calls++
		cancel()
		return similarity.AverageHamming{}.Distance(x, y)
	})

	p, err := New(dataset(t, 1), pprl.WithMetric(metric))
	require.NoError(t, err)

	res, err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
	assert.Positive(t, calls)
}

func TestRun_OracleFailure(t *testing.T) {
	a := party(t, "A", map[string][]uint{"a1": span(0, 3)}, "a1")
	b := party(t, "B", map[string][]uint{"b1": span(0, 3)}, "b1")

	tests := []struct {
		name   string
		metric similarity.Metric
	}{
		{"error", similarity.MetricFunc(func(*cluster.Cluster, *cluster.Cluster) (float64, error) {
			return 0, errors.New("unreachable")
		})},
		{"NaN", similarity.MetricFunc(func(*cluster.Cluster, *cluster.Cluster) (float64, error) {
			return math.NaN(), nil
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New([]record.Party{a, b},
				pprl.WithMetric(tt.metric),
				pprl.WithPivotSelector(metricspace.FirstN(1)),
			)
			require.NoError(t, err)

			res, err := p.Run(context.Background())
			require.ErrorIs(t, err, pprl.ErrOracleFailure)
			assert.Nil(t, res)
		})
	}
}

func TestRun_Empty(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Snapshot.Pivots)
	assert.Empty(t, res.Clusters)

	p, err = New([]record.Party{record.NewMemoryParty("A"), record.NewMemoryParty("B")})
	require.NoError(t, err)
	res, err = p.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Clusters)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(nil, pprl.WithMaximalIntersection(2))
	require.ErrorIs(t, err, pprl.ErrInvalidConfig)

	a := record.NewMemoryParty("A")
	_, err = New([]record.Party{a, a})
	require.ErrorIs(t, err, pprl.ErrInvalidConfig)
}
