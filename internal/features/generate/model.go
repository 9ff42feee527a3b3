package generate

import (
	"chartcraft/internal/features/chart"
	"chartcraft/pkg/recommendation"
)

// Result is the outcome of one recommendation round. Charts holds the saved
// charts in recommendation order; recommendations that failed to save are
// listed but have no chart.
type Result struct {
	Recommendations []recommendation.Recommendation `json:"recommendations"`
	Insights        []recommendation.Insight        `json:"insights"`
	Charts          []*chart.Chart                  `json:"charts"`
	Rejected        []recommendation.Violation      `json:"rejected,omitempty"`
}

type generateRequest struct {
	DatasetID string `json:"datasetId"`
}
