// AngelaMos | 2026
// features.go

package query

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10

	// versionField is never returned to clients, whatever they select.
	versionField = "__v"
)

// reservedParams never participate in filtering; they drive the other
// feature stages.
var reservedParams = map[string]struct{}{
	"sort":   {},
	"fields": {},
	"page":   {},
	"limit":  {},
}

var comparisonOps = map[string]string{
	"gte": "$gte",
	"gt":  "$gt",
	"lte": "$lte",
	"lt":  "$lt",
}

// Features turns a raw request query into a filter plus find options.
// It is a pure plan builder: nothing touches the store until a
// repository executes the plan.
type Features struct {
	values url.Values
}

func New(values url.Values) *Features {
	return &Features{values: values}
}

// Filter rewrites comparison pseudo-operators (price[gte]=100 becomes
// {price: {$gte: 100}}) and treats the remaining parameters as
// equality matches. Reserved keys are excluded up front, and anything
// that looks like a raw store operator is dropped so request
// parameters can never inject query operators.
func (f *Features) Filter() bson.M {
	filter := bson.M{}

	for key, vals := range f.values {
		if len(vals) == 0 {
			continue
		}
		// First value wins; repeating a parameter does not widen the
		// filter.
		raw := vals[0]

		field, op := splitOperatorKey(key)
		if _, reserved := reservedParams[field]; reserved {
			continue
		}
		if !isSafeField(field) || !isSafeValue(raw) {
			continue
		}

		value := coerceValue(raw)

		if op == "" {
			filter[field] = value
			continue
		}

		mongoOp, ok := comparisonOps[op]
		if !ok {
			continue
		}

		if existing, ok := filter[field].(bson.M); ok {
			existing[mongoOp] = value
		} else {
			filter[field] = bson.M{mongoOp: value}
		}
	}

	return filter
}

// Sort parses a comma-separated field list with -prefix for
// descending order. Absent a sort parameter, newest first.
func (f *Features) Sort() bson.D {
	raw := f.values.Get("sort")
	if raw == "" {
		return bson.D{{Key: "createdAt", Value: -1}}
	}

	sort := bson.D{}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		order := 1
		if strings.HasPrefix(field, "-") {
			order = -1
			field = field[1:]
		}

		if !isSafeField(field) {
			continue
		}

		sort = append(sort, bson.E{Key: field, Value: order})
	}

	if len(sort) == 0 {
		return bson.D{{Key: "createdAt", Value: -1}}
	}

	return sort
}

// Projection builds the field selection. With no selection the
// internal version field is excluded; with one, inclusion of the
// requested fields already leaves it out (the store rejects mixed
// inclusion/exclusion projections).
func (f *Features) Projection() bson.M {
	raw := f.values.Get("fields")
	if raw == "" {
		return bson.M{versionField: 0}
	}

	projection := bson.M{}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" || field == versionField || !isSafeField(field) {
			continue
		}
		projection[field] = 1
	}

	if len(projection) == 0 {
		return bson.M{versionField: 0}
	}

	return projection
}

// Page and Limit fall back to defaults on absent, malformed or
// non-positive input. No upper bound is enforced on limit.
func (f *Features) Page() int64 {
	return positiveIntParam(f.values.Get("page"), DefaultPage)
}

func (f *Features) Limit() int64 {
	return positiveIntParam(f.values.Get("limit"), DefaultLimit)
}

func (f *Features) Skip() int64 {
	return (f.Page() - 1) * f.Limit()
}

// FindOptions composes sort, projection and pagination into a single
// lazily-executed find plan.
func (f *Features) FindOptions() *options.FindOptions {
	return options.Find().
		SetSort(f.Sort()).
		SetProjection(f.Projection()).
		SetSkip(f.Skip()).
		SetLimit(f.Limit())
}

// Scope composes a default-scope predicate with a filter. The scope
// is applied last and wins over any filter condition on the same
// field: filters built from request parameters must never be able to
// lift a default scope. Trusted call sites that need to see scoped-out
// documents query their collections without Scope.
func Scope(scope, filter bson.M) bson.M {
	merged := bson.M{}
	for k, v := range filter {
		merged[k] = v
	}
	for k, v := range scope {
		merged[k] = v
	}
	return merged
}

func splitOperatorKey(key string) (field, op string) {
	open := strings.IndexByte(key, '[')
	if open < 1 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	return key[:open], key[open+1 : len(key)-1]
}

func positiveIntParam(raw string, fallback int64) int64 {
	if raw == "" {
		return fallback
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return fallback
	}

	return n
}

func coerceValue(raw string) any {
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func isSafeField(field string) bool {
	if field == "" {
		return false
	}
	return !strings.ContainsAny(field, "$.")
}

func isSafeValue(raw string) bool {
	return !strings.HasPrefix(raw, "$")
}
