// Package testutil provides shared test infrastructure for the simulation
// engine. It consolidates golden dataset types and assertion helpers used by
// the sd/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase pins one model run to its expected sampled trajectories.
// The model is stored inline as raw JSON so the dataset exercises the same
// decode path as user-supplied model files.
type GoldenTestCase struct {
	Name      string             `json:"name"`
	Domain    string             `json:"domain"`
	Model     json.RawMessage    `json:"model"`
	Overrides map[string]float64 `json:"overrides,omitempty"`

	// Expected series, exact to the last bit under forward Euler.
	Time        []float64            `json:"time"`
	Stocks      map[string][]float64 `json:"stocks"`
	Flows       map[string][]float64 `json:"flows"`
	Auxiliaries map[string][]float64 `json:"auxiliaries"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sd/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sd/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertSeriesEqual compares a sampled series against its expectation with
// relative tolerance. Integration is deterministic, so the tolerance exists
// only to keep the dataset readable (short decimal literals).
func AssertSeriesEqual(t *testing.T, name string, want, got []float64, relTol float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Errorf("%s: got %d samples, want %d", name, len(got), len(want))
		return
	}
	for i := range want {
		if want[i] == 0 && got[i] == 0 {
			continue
		}
		diff := math.Abs(want[i] - got[i])
		maxVal := math.Max(math.Abs(want[i]), math.Abs(got[i]))
		if maxVal == 0 || diff/maxVal > relTol {
			t.Errorf("%s[%d]: got %v, want %v (diff=%v)", name, i, got[i], want[i], diff)
		}
	}
}
