package sd

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// SeriesSummary aggregates one sampled series.
type SeriesSummary struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Final    float64 `json:"final"`
}

// Summarize computes per-series statistics for a result, ordered stocks
// first, then flows, then auxiliaries, alphabetically within each category.
func Summarize(r *SimulationResult) []SeriesSummary {
	var out []SeriesSummary
	appendCategory := func(category string, series map[string][]float64) {
		ids := make([]string, 0, len(series))
		for id := range series {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			s := series[id]
			if len(s) == 0 {
				continue
			}
			out = append(out, SeriesSummary{
				ID:       id,
				Category: category,
				Min:      floats.Min(s),
				Max:      floats.Max(s),
				Mean:     floats.Sum(s) / float64(len(s)),
				Final:    s[len(s)-1],
			})
		}
	}
	appendCategory("stock", r.Stocks)
	appendCategory("flow", r.Flows)
	appendCategory("auxiliary", r.Auxiliaries)
	return out
}
