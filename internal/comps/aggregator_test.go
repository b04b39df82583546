package comps

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"builderrisk/server/internal/models"
	"builderrisk/server/internal/normalize"
	"builderrisk/server/internal/rentcast"
	"builderrisk/server/internal/storage"
)

type fakeCall struct {
	radius   float64
	category string
}

type fakeLister struct {
	calls   []fakeCall
	results map[string][]map[string]any // keyed by category
	err     error
}

func (f *fakeLister) QueryListings(_ context.Context, _, _, radius float64, _ int, category string) ([]map[string]any, error) {
	f.calls = append(f.calls, fakeCall{radius: radius, category: category})
	if f.err != nil {
		return nil, f.err
	}
	return f.results[category], nil
}

type memoryCache struct {
	entries map[string][]map[string]any
	hits    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]map[string]any)}
}

func (m *memoryCache) Get(key string) ([]map[string]any, bool) {
	records, ok := m.entries[key]
	if ok {
		m.hits++
	}
	return records, ok
}

func (m *memoryCache) Put(key string, records []map[string]any) {
	m.entries[key] = records
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func rawListing(address string, price float64) map[string]any {
	return map[string]any{"formattedAddress": address, "price": price}
}

func newTestAggregator(lister Lister, cache Cache, want int) *Aggregator {
	return NewAggregator(lister, normalize.RentCast(), cache, testLogger(), []float64{0.5, 1, 2}, want, 25)
}

func TestGather_StopsWhenEnoughPricedComps(t *testing.T) {
	lister := &fakeLister{results: map[string][]map[string]any{
		rentcast.CategorySold: {
			rawListing("1 A St", 100000),
			rawListing("2 B St", 110000),
		},
	}}
	agg := newTestAggregator(lister, nil, 2)

	recs, trace := agg.Gather(context.Background(), 30.0, -97.0)

	// Two priced sold comps at the first radius: no further calls.
	require.Len(t, lister.calls, 1)
	assert.Equal(t, rentcast.CategorySold, lister.calls[0].category)
	assert.Equal(t, 0.5, lister.calls[0].radius)
	assert.Len(t, recs, 2)
	require.Len(t, trace, 1)
	assert.Equal(t, 2, trace[0].Count)
}

func TestGather_SoldTriedBeforeActiveAtEachRadius(t *testing.T) {
	lister := &fakeLister{results: map[string][]map[string]any{}}
	agg := newTestAggregator(lister, nil, 2)

	agg.Gather(context.Background(), 30.0, -97.0)

	require.Len(t, lister.calls, 6)
	assert.Equal(t, []fakeCall{
		{0.5, rentcast.CategorySold}, {0.5, rentcast.CategoryActive},
		{1, rentcast.CategorySold}, {1, rentcast.CategoryActive},
		{2, rentcast.CategorySold}, {2, rentcast.CategoryActive},
	}, lister.calls)
}

func TestGather_ProviderFailureDegradesToEmpty(t *testing.T) {
	lister := &fakeLister{err: errors.New("connection refused")}
	agg := newTestAggregator(lister, nil, 6)

	recs, trace := agg.Gather(context.Background(), 30.0, -97.0)

	assert.Empty(t, recs)
	// Every radius/category pair was still attempted.
	assert.Len(t, trace, 6)
}

func TestGather_UsesCache(t *testing.T) {
	cache := newMemoryCache()
	cache.Put(storage.Key(rentcast.CategorySold, 30.0, -97.0, 0.5), []map[string]any{
		rawListing("1 A St", 100000),
		rawListing("2 B St", 110000),
	})

	lister := &fakeLister{}
	agg := newTestAggregator(lister, cache, 2)

	recs, _ := agg.Gather(context.Background(), 30.0, -97.0)

	assert.Empty(t, lister.calls, "cached query must not hit the provider")
	assert.Len(t, recs, 2)
	assert.Equal(t, 1, cache.hits)
}

func TestGather_AnnotatesDistance(t *testing.T) {
	raw := rawListing("1 A St", 100000)
	raw["latitude"] = 30.01
	raw["longitude"] = -97.0
	lister := &fakeLister{results: map[string][]map[string]any{
		rentcast.CategorySold: {raw},
	}}
	agg := newTestAggregator(lister, nil, 1)

	recs, _ := agg.Gather(context.Background(), 30.0, -97.0)

	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].DistanceMiles)
	// 0.01 degrees of latitude is roughly 0.69 miles.
	assert.InDelta(t, 0.69, *recs[0].DistanceMiles, 0.03)
}

func TestDedupe_CaseInsensitiveFirstWins(t *testing.T) {
	price1, price2 := 100000.0, 200000.0
	recs := Dedupe([]models.ComparableRecord{
		{Address: "123 Main St", Price: &price1},
		{Address: "123 MAIN ST", Price: &price2},
		{Address: "  123 main st "},
	})

	require.Len(t, recs, 1)
	assert.Equal(t, "123 Main St", recs[0].Address)
	assert.Equal(t, 100000.0, *recs[0].Price)
}

func TestDedupe_KeepsAddresslessRecords(t *testing.T) {
	price := 100000.0
	recs := Dedupe([]models.ComparableRecord{
		{Price: &price},
		{Price: &price},
	})
	assert.Len(t, recs, 2)
}

func TestFindSubject(t *testing.T) {
	recs := []models.ComparableRecord{
		{Address: "100 Other Rd, Austin, TX"},
		{Address: "742 Evergreen Ter #2, Austin, TX"},
	}

	match := FindSubject(recs, "742 Evergreen Ter 2")
	require.NotNil(t, match)
	assert.Equal(t, "742 Evergreen Ter #2, Austin, TX", match.Address)

	assert.Nil(t, FindSubject(recs, "1 Nowhere Ln"))
	assert.Nil(t, FindSubject(recs, ""))
}
