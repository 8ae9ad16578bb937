// AngelaMos | 2026
// repository_test.go

package tour

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func stageValue(t *testing.T, stage bson.D, key string) any {
	t.Helper()

	require.Len(t, stage, 1)
	require.Equal(t, key, stage[0].Key)
	return stage[0].Value
}

func TestStatsPipelineCountsEveryPublicTour(t *testing.T) {
	t.Parallel()

	pipeline := statsPipeline()
	require.Len(t, pipeline, 3)

	// The only filter is the secret-tour scope; tours are never
	// excluded by their rating.
	match := stageValue(t, pipeline[0], "$match")
	assert.Equal(t, publicScope(), match)

	group, ok := stageValue(t, pipeline[1], "$group").(bson.M)
	require.True(t, ok)
	assert.Equal(t, "$difficulty", group["_id"])
	assert.Equal(t, bson.M{"$sum": "$ratingsQuantity"}, group["numRating"])
	assert.Equal(t, bson.M{"$avg": "$ratingsAverage"}, group["avgRating"])

	sort := stageValue(t, pipeline[2], "$sort")
	assert.Equal(t, bson.M{"numTours": -1}, sort)
}

func TestMonthlyPlanPipelineWindowsTheYear(t *testing.T) {
	t.Parallel()

	pipeline := monthlyPlanPipeline(2024)
	require.Len(t, pipeline, 7)

	assert.Equal(t, publicScope(), stageValue(t, pipeline[0], "$match"))
	assert.Equal(t, "$startDates", stageValue(t, pipeline[1], "$unwind"))

	window, ok := stageValue(t, pipeline[2], "$match").(bson.M)
	require.True(t, ok)
	bounds, ok := window["startDates"].(bson.M)
	require.True(t, ok)
	assert.Equal(t,
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		bounds["$gte"])
	assert.Equal(t,
		time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC),
		bounds["$lte"])

	group, ok := stageValue(t, pipeline[3], "$group").(bson.M)
	require.True(t, ok)
	assert.Equal(t, bson.M{"$month": "$startDates"}, group["_id"])
	assert.Equal(t, bson.M{"$push": "$name"}, group["tours"])

	assert.Equal(t, bson.M{"month": 1}, stageValue(t, pipeline[6], "$sort"))
}
