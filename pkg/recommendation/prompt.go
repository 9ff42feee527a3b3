package recommendation

import (
	"encoding/json"
	"fmt"
	"strings"

	"chartcraft/internal/common/models"
)

// DefaultSampleRows is how many leading rows are embedded in the prompt.
const DefaultSampleRows = 10

// SystemPrompt pins the response to the JSON document ValidateRecommendations accepts.
const SystemPrompt = `You are a data visualization expert. Reply with a single JSON object of the form:
{"recommendedCharts":[{"type":"bar|line|pie|scatter|area|histogram|heatmap","title":"...","description":"...","reasoning":"...","confidence":0-100,
"config":{"xAxis":"column","yAxis":"column","groupBy":"column","aggregation":"sum|count|average|min|max","colors":["#hex"]}}],
"insights":[{"type":"trend|anomaly|correlation|distribution|summary","title":"...","description":"...","confidence":0-100}]}
Only reference columns by their exact name.`

// PromptInput is what the prompt is built from.
type PromptInput struct {
	Name       string
	Rows       []models.Row
	Summaries  []ColumnSummary
	SampleRows int
}

// BuildPrompt renders the dataset description sent as the user message.
func BuildPrompt(in PromptInput) (string, error) {
	n := in.SampleRows
	if n <= 0 {
		n = DefaultSampleRows
	}
	sample := in.Rows[:min(n, len(in.Rows))]
	if sample == nil {
		sample = []models.Row{}
	}
	sampleJSON, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode sample rows: %w", err)
	}

	var b strings.Builder
	b.WriteString("Analyze this dataset and recommend the best chart types and provide insights.\n\n")
	b.WriteString("Dataset Information:\n")
	fmt.Fprintf(&b, "- Name: %s\n", in.Name)
	fmt.Fprintf(&b, "- Rows: %d\n", len(in.Rows))
	fmt.Fprintf(&b, "- Columns: %d\n\n", len(in.Summaries))

	b.WriteString("Column Details:\n")
	for _, s := range in.Summaries {
		fmt.Fprintf(&b, "- %s (%s): %s - %s\n", s.Column.DisplayName, s.Column.Name, s.Column.Type, s.Summary)
	}

	fmt.Fprintf(&b, "\nSample Data (first %d rows):\n%s\n\n", len(sample), sampleJSON)
	b.WriteString(instructions)
	return b.String(), nil
}

const instructions = `Please recommend 2-4 different chart types that would best visualize this data, explaining your reasoning for each. Also provide insights about patterns, trends, or interesting findings in the data.

Consider:
1. Data types and relationships between columns
2. Best practices for data visualization
3. What story the data might tell
4. Potential correlations or patterns
5. Appropriate aggregations for the data size

For each chart recommendation, specify:
- Chart type (bar, line, pie, scatter, area, histogram, heatmap)
- Which columns to use for x/y axes or grouping
- Appropriate aggregation method if needed
- Why this chart type is suitable

For insights, identify:
- Trends in the data
- Anomalies or outliers
- Correlations between variables
- Distribution patterns
- Key summary statistics`
