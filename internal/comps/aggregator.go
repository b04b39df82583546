package comps

import (
	"context"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/sirupsen/logrus"

	"builderrisk/server/internal/models"
	"builderrisk/server/internal/normalize"
	"builderrisk/server/internal/rentcast"
	"builderrisk/server/internal/storage"
)

const metersPerMile = 1609.344

// Lister is the slice of the listings provider the aggregator needs.
type Lister interface {
	QueryListings(ctx context.Context, lat, lon, radiusMiles float64, limit int, category string) ([]map[string]any, error)
}

// Cache memoizes provider responses per query tuple for the session.
type Cache interface {
	Get(key string) ([]map[string]any, bool)
	Put(key string, records []map[string]any)
}

// Aggregator gathers comparables for a point by expanding the search
// radius until enough priced comps are found. Sold comps are the
// stronger signal and are queried first at each radius. A failed
// provider call contributes zero records and never aborts the gather.
type Aggregator struct {
	lister     Lister
	normalizer *normalize.Normalizer
	cache      Cache
	logger     *logrus.Logger

	radiiMiles []float64
	want       int
	queryLimit int
}

// NewAggregator builds an aggregator. cache may be nil to disable
// memoization.
func NewAggregator(lister Lister, normalizer *normalize.Normalizer, cache Cache, logger *logrus.Logger, radiiMiles []float64, want, queryLimit int) *Aggregator {
	if len(radiiMiles) == 0 {
		radiiMiles = []float64{0.5, 1, 2, 3, 5}
	}
	if want <= 0 {
		want = 6
	}
	if queryLimit <= 0 {
		queryLimit = 25
	}
	return &Aggregator{
		lister:     lister,
		normalizer: normalizer,
		cache:      cache,
		logger:     logger,
		radiiMiles: radiiMiles,
		want:       want,
		queryLimit: queryLimit,
	}
}

// Gather collects, normalizes and deduplicates comparables around the
// subject coordinates. It returns the working comp set together with a
// trace of every provider call made.
func (a *Aggregator) Gather(ctx context.Context, lat, lon float64) ([]models.ComparableRecord, []models.GatherStep) {
	var (
		gathered []models.ComparableRecord
		trace    []models.GatherStep
	)

search:
	for _, radius := range a.radiiMiles {
		for _, category := range []string{rentcast.CategorySold, rentcast.CategoryActive} {
			raws := a.query(ctx, lat, lon, radius, category)
			trace = append(trace, models.GatherStep{
				Category:    category,
				RadiusMiles: radius,
				Count:       len(raws),
			})
			gathered = append(gathered, a.normalizer.NormalizeAll(raws)...)

			if countPriced(gathered) >= a.want {
				break search
			}
		}
	}

	deduped := Dedupe(gathered)
	limit := a.want
	if limit < 6 {
		limit = 6
	}
	if len(deduped) > limit {
		deduped = deduped[:limit]
	}

	annotateDistance(deduped, lat, lon)

	a.logger.WithFields(logrus.Fields{
		"gathered": len(gathered),
		"deduped":  len(deduped),
		"priced":   countPriced(deduped),
		"calls":    len(trace),
	}).Info("Comparable gathering complete")

	return deduped, trace
}

// query runs one provider call through the cache, mapping any failure
// to zero records.
func (a *Aggregator) query(ctx context.Context, lat, lon, radius float64, category string) []map[string]any {
	key := storage.Key(category, lat, lon, radius)
	if a.cache != nil {
		if records, ok := a.cache.Get(key); ok {
			return records
		}
	}

	records, err := a.lister.QueryListings(ctx, lat, lon, radius, a.queryLimit, category)
	if err != nil {
		a.logger.WithError(err).WithFields(logrus.Fields{
			"category": category,
			"radius":   radius,
		}).Warn("Provider query failed, continuing without it")
		return nil
	}

	if a.cache != nil {
		a.cache.Put(key, records)
	}
	return records
}

// Dedupe removes records whose lowercased trimmed address was already
// seen, keeping the first occurrence and the insertion order. Records
// with no address are kept as-is.
func Dedupe(records []models.ComparableRecord) []models.ComparableRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]models.ComparableRecord, 0, len(records))
	for _, rec := range records {
		key := strings.ToLower(strings.TrimSpace(rec.Address))
		if key != "" {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, rec)
	}
	return out
}

// FindSubject looks for the subject property inside the gathered
// records so an on-market subject can contribute its own list price
// and DOM. Best effort: case-insensitive containment with "#" unit
// markers stripped, mirroring how providers format unit addresses.
func FindSubject(records []models.ComparableRecord, targetAddress string) *models.ComparableRecord {
	target := strings.ReplaceAll(strings.ToLower(targetAddress), "#", "")
	if target == "" {
		return nil
	}
	for i := range records {
		addr := strings.ReplaceAll(strings.ToLower(records[i].Address), "#", "")
		if addr != "" && strings.Contains(addr, target) {
			return &records[i]
		}
	}
	return nil
}

func annotateDistance(records []models.ComparableRecord, lat, lon float64) {
	subject := orb.Point{lon, lat}
	for i := range records {
		if records[i].Latitude == nil || records[i].Longitude == nil {
			continue
		}
		comp := orb.Point{*records[i].Longitude, *records[i].Latitude}
		miles := geo.DistanceHaversine(subject, comp) / metersPerMile
		records[i].DistanceMiles = &miles
	}
}

func countPriced(records []models.ComparableRecord) int {
	n := 0
	for i := range records {
		if records[i].Price != nil {
			n++
		}
	}
	return n
}
