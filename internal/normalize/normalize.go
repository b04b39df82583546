package normalize

import (
	"strconv"
	"strings"

	"builderrisk/server/internal/models"
)

// FieldMap lists, per canonical field, the provider's candidate source
// paths in priority order. A path may reach one level into a nested
// object with a dot ("avm.value", "address.line"). The first candidate
// that yields a usable value wins.
type FieldMap struct {
	Address       []string
	Price         []string
	DaysOnMarket  []string
	SquareFootage []string
	YearBuilt     []string
	Latitude      []string
	Longitude     []string
}

// Normalizer converts one provider's raw payloads into canonical
// comparable records. Add a provider by adding a FieldMap, never by
// branching inside the scoring pipeline.
type Normalizer struct {
	fields FieldMap
}

func New(fields FieldMap) *Normalizer {
	return &Normalizer{fields: fields}
}

// RentCast returns the normalizer for RentCast listing/sale payloads.
func RentCast() *Normalizer {
	return New(FieldMap{
		Address:       []string{"formattedAddress", "address", "address.line"},
		Price:         []string{"listPrice", "price", "estimatedValue", "lastSalePrice", "closingPrice", "avm.value"},
		DaysOnMarket:  []string{"daysOnMarket", "dom"},
		SquareFootage: []string{"squareFootage", "livingArea", "sqft"},
		YearBuilt:     []string{"yearBuilt"},
		Latitude:      []string{"latitude"},
		Longitude:     []string{"longitude"},
	})
}

// Normalize maps one raw record into the canonical shape. It returns
// ok=false when the record carries neither an address nor a price, in
// which case the record is discarded. Coercion failures never error;
// the affected field is simply nil.
func (n *Normalizer) Normalize(raw map[string]any) (models.ComparableRecord, bool) {
	rec := models.ComparableRecord{
		Address:       firstString(raw, n.fields.Address),
		Price:         firstPositiveFloat(raw, n.fields.Price),
		DaysOnMarket:  firstNonNegativeInt(raw, n.fields.DaysOnMarket),
		SquareFootage: firstPositiveInt(raw, n.fields.SquareFootage),
		YearBuilt:     firstInt(raw, n.fields.YearBuilt),
		Latitude:      firstFloat(raw, n.fields.Latitude),
		Longitude:     firstFloat(raw, n.fields.Longitude),
	}
	if rec.Address == "" && rec.Price == nil {
		return models.ComparableRecord{}, false
	}
	return rec, true
}

// NormalizeAll maps a whole raw batch, dropping discarded records.
func (n *Normalizer) NormalizeAll(raws []map[string]any) []models.ComparableRecord {
	out := make([]models.ComparableRecord, 0, len(raws))
	for _, raw := range raws {
		if rec, ok := n.Normalize(raw); ok {
			out = append(out, rec)
		}
	}
	return out
}

// lookup resolves a candidate path against the raw record, descending
// one nested level for dotted paths.
func lookup(raw map[string]any, path string) (any, bool) {
	if parent, child, ok := strings.Cut(path, "."); ok {
		nested, found := raw[parent].(map[string]any)
		if !found {
			return nil, false
		}
		v, found := nested[child]
		return v, found
	}
	v, found := raw[path]
	return v, found
}

func firstString(raw map[string]any, paths []string) string {
	for _, p := range paths {
		if v, ok := lookup(raw, p); ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// coerceFloat accepts the numeric shapes JSON decoding produces plus
// numeric strings some providers emit.
func coerceFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func firstFloat(raw map[string]any, paths []string) *float64 {
	for _, p := range paths {
		if v, ok := lookup(raw, p); ok {
			if f, ok := coerceFloat(v); ok {
				return &f
			}
		}
	}
	return nil
}

func firstPositiveFloat(raw map[string]any, paths []string) *float64 {
	for _, p := range paths {
		if v, ok := lookup(raw, p); ok {
			if f, ok := coerceFloat(v); ok && f > 0 {
				return &f
			}
		}
	}
	return nil
}

func firstInt(raw map[string]any, paths []string) *int {
	for _, p := range paths {
		if v, ok := lookup(raw, p); ok {
			if f, ok := coerceFloat(v); ok {
				i := int(f)
				return &i
			}
		}
	}
	return nil
}

func firstPositiveInt(raw map[string]any, paths []string) *int {
	for _, p := range paths {
		if v, ok := lookup(raw, p); ok {
			if f, ok := coerceFloat(v); ok && f > 0 {
				i := int(f)
				return &i
			}
		}
	}
	return nil
}

func firstNonNegativeInt(raw map[string]any, paths []string) *int {
	for _, p := range paths {
		if v, ok := lookup(raw, p); ok {
			if f, ok := coerceFloat(v); ok && f >= 0 {
				i := int(f)
				return &i
			}
		}
	}
	return nil
}
