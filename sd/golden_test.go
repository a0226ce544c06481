package sd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockflow/stockflow/sd/internal/testutil"
	"github.com/stockflow/stockflow/sd/schema"
)

// goldenRelTol keeps the dataset readable with short decimal literals while
// still catching any semantic drift in parsing, compilation, or integration.
const goldenRelTol = 1e-9

func TestGoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	require.NotEmpty(t, dataset.Tests)

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			m, err := ParseModel(tc.Model)
			require.NoError(t, err)
			ds, err := schema.Builtin().Lookup(tc.Domain)
			require.NoError(t, err)

			res, err := Run(context.Background(), m, ds, tc.Overrides)
			require.NoError(t, err)

			testutil.AssertSeriesEqual(t, "time", tc.Time, res.Time, goldenRelTol)
			for id, want := range tc.Stocks {
				testutil.AssertSeriesEqual(t, "stock "+id, want, res.Stocks[id], goldenRelTol)
			}
			for id, want := range tc.Flows {
				testutil.AssertSeriesEqual(t, "flow "+id, want, res.Flows[id], goldenRelTol)
			}
			for id, want := range tc.Auxiliaries {
				testutil.AssertSeriesEqual(t, "auxiliary "+id, want, res.Auxiliaries[id], goldenRelTol)
			}
		})
	}
}
