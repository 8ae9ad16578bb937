// AngelaMos | 2026
// features_test.go

package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func parseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return values
}

func TestFilterRewritesComparisonOperators(t *testing.T) {
	t.Parallel()

	f := New(parseQuery(t, "price[gte]=100&difficulty=easy"))

	filter := f.Filter()
	assert.Equal(t, bson.M{
		"price":      bson.M{"$gte": float64(100)},
		"difficulty": "easy",
	}, filter)
}

func TestFilterMergesOperatorsOnOneField(t *testing.T) {
	t.Parallel()

	f := New(parseQuery(t, "price[gte]=100&price[lt]=500"))

	assert.Equal(t, bson.M{
		"price": bson.M{"$gte": float64(100), "$lt": float64(500)},
	}, f.Filter())
}

func TestFilterExcludesReservedKeys(t *testing.T) {
	t.Parallel()

	f := New(parseQuery(t, "sort=price&fields=name&page=2&limit=5&duration=7"))

	assert.Equal(t, bson.M{"duration": float64(7)}, f.Filter())
}

func TestFilterDropsOperatorInjection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "dollar key", raw: url.QueryEscape("$where") + "=1"},
		{name: "dotted key", raw: "a.b=1"},
		{name: "dollar value", raw: "role=" + url.QueryEscape("$ne")},
		{name: "unknown operator", raw: "price[regex]=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := New(parseQuery(t, tt.raw))
			assert.Empty(t, f.Filter())
		})
	}
}

func TestFilterFirstValueWins(t *testing.T) {
	t.Parallel()

	f := New(parseQuery(t, "difficulty=easy&difficulty=difficult"))

	assert.Equal(t, bson.M{"difficulty": "easy"}, f.Filter())
}

func TestFilterCoercesBooleans(t *testing.T) {
	t.Parallel()

	f := New(parseQuery(t, "secretTour=true"))

	assert.Equal(t, bson.M{"secretTour": true}, f.Filter())
}

func TestSortDefaultsToNewestFirst(t *testing.T) {
	t.Parallel()

	f := New(parseQuery(t, ""))

	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, f.Sort())
}

func TestSortParsesCommaListWithDescendingPrefix(t *testing.T) {
	t.Parallel()

	f := New(parseQuery(t, "sort=price,-duration"))

	assert.Equal(t, bson.D{
		{Key: "price", Value: 1},
		{Key: "duration", Value: -1},
	}, f.Sort())
}

func TestProjectionExcludesVersionFieldByDefault(t *testing.T) {
	t.Parallel()

	f := New(parseQuery(t, ""))

	assert.Equal(t, bson.M{"__v": 0}, f.Projection())
}

func TestProjectionSelectsRequestedFields(t *testing.T) {
	t.Parallel()

	f := New(parseQuery(t, "fields=name,price,duration"))

	assert.Equal(t, bson.M{"name": 1, "price": 1, "duration": 1}, f.Projection())
}

func TestProjectionNeverIncludesVersionField(t *testing.T) {
	t.Parallel()

	f := New(parseQuery(t, "fields=name,__v"))

	assert.Equal(t, bson.M{"name": 1}, f.Projection())
}

func TestPaginationSkipAndLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		wantSkip int64
		wantTake int64
	}{
		{name: "defaults", raw: "", wantSkip: 0, wantTake: 10},
		{name: "page two limit five", raw: "page=2&limit=5", wantSkip: 5, wantTake: 5},
		{name: "page three", raw: "page=3&limit=20", wantSkip: 40, wantTake: 20},
		{name: "malformed page", raw: "page=abc&limit=5", wantSkip: 0, wantTake: 5},
		{name: "zero page", raw: "page=0", wantSkip: 0, wantTake: 10},
		{name: "negative limit", raw: "limit=-3", wantSkip: 0, wantTake: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := New(parseQuery(t, tt.raw))
			assert.Equal(t, tt.wantSkip, f.Skip())
			assert.Equal(t, tt.wantTake, f.Limit())
		})
	}
}

// Page 2 with limit 5 over an ordered 12-item set must select items
// 6 through 10 in order, so skip must point at index 5 and the window
// length must be 5.
func TestPaginationWindowOverOrderedSet(t *testing.T) {
	t.Parallel()

	items := make([]int, 12)
	for i := range items {
		items[i] = i + 1
	}

	f := New(parseQuery(t, "page=2&limit=5"))
	skip, limit := f.Skip(), f.Limit()

	window := items[skip : skip+limit]
	assert.Equal(t, []int{6, 7, 8, 9, 10}, window)
}

func TestScopeComposition(t *testing.T) {
	t.Parallel()

	scope := bson.M{"secretTour": bson.M{"$ne": true}}

	t.Run("scope applies when filter is silent", func(t *testing.T) {
		t.Parallel()
		merged := Scope(scope, bson.M{"difficulty": "easy"})
		assert.Equal(t, bson.M{
			"secretTour": bson.M{"$ne": true},
			"difficulty": "easy",
		}, merged)
	})

	t.Run("scope wins over a colliding filter", func(t *testing.T) {
		t.Parallel()
		merged := Scope(scope, bson.M{"secretTour": true})
		assert.Equal(t, bson.M{"secretTour": bson.M{"$ne": true}}, merged)
	})

	t.Run("request parameters cannot lift the scope", func(t *testing.T) {
		t.Parallel()
		filter := New(parseQuery(t, "secretTour=true&difficulty=easy")).Filter()
		merged := Scope(scope, filter)
		assert.Equal(t, bson.M{
			"secretTour": bson.M{"$ne": true},
			"difficulty": "easy",
		}, merged)
	})

	t.Run("deactivated accounts stay hidden", func(t *testing.T) {
		t.Parallel()
		accountScope := bson.M{"active": bson.M{"$ne": false}}
		filter := New(parseQuery(t, "active=false")).Filter()
		merged := Scope(accountScope, filter)
		assert.Equal(t, bson.M{"active": bson.M{"$ne": false}}, merged)
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		t.Parallel()
		filter := bson.M{}
		Scope(scope, filter)
		assert.Empty(t, filter)
		assert.Equal(t, bson.M{"secretTour": bson.M{"$ne": true}}, scope)
	})
}
