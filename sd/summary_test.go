package sd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	cm := mustCompile(t, testInventoryModel())
	res, err := Simulate(context.Background(), cm, nil)
	require.NoError(t, err)

	summaries := Summarize(res)
	require.Len(t, summaries, 4)

	// stocks first, then flows alphabetically, then auxiliaries
	assert.Equal(t, "inventory", summaries[0].ID)
	assert.Equal(t, "stock", summaries[0].Category)
	assert.Equal(t, "production", summaries[1].ID)
	assert.Equal(t, "shipments", summaries[2].ID)
	assert.Equal(t, "demand", summaries[3].ID)
	assert.Equal(t, "auxiliary", summaries[3].Category)

	inv := summaries[0]
	assert.Equal(t, 1000.0, inv.Min)
	assert.Equal(t, 1060.0, inv.Max)
	assert.Equal(t, 1030.0, inv.Mean)
	assert.Equal(t, 1060.0, inv.Final)

	prod := summaries[1]
	assert.Equal(t, 80.0, prod.Min)
	assert.Equal(t, 80.0, prod.Max)
	assert.Equal(t, 80.0, prod.Mean)
}
