package recommendation

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"chartcraft/internal/common/models"
)

var (
	// ErrSchemaViolation marks a recommender payload, or one entry of it, that
	// does not have the expected shape.
	ErrSchemaViolation = errors.New("recommendation schema violation")
	// ErrPersistenceFailure wraps the save error of a single recommended chart.
	ErrPersistenceFailure = errors.New("failed to persist recommended chart")
)

// Insight kinds
const (
	InsightTrend        = "trend"
	InsightAnomaly      = "anomaly"
	InsightCorrelation  = "correlation"
	InsightDistribution = "distribution"
	InsightSummary      = "summary"
)

var insightTypes = []string{InsightTrend, InsightAnomaly, InsightCorrelation, InsightDistribution, InsightSummary}

type Recommendation struct {
	Type        models.ChartType   `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Reasoning   string             `json:"reasoning"`
	Confidence  float64            `json:"confidence"`
	Config      models.ChartConfig `json:"config"`
}

// ChartConfig returns the recommendation's config with its title, description,
// reasoning and confidence folded in.
func (r Recommendation) ChartConfig() models.ChartConfig {
	cfg := r.Config
	cfg.Title = r.Title
	cfg.Description = r.Description
	cfg.Reasoning = r.Reasoning
	confidence := r.Confidence
	cfg.Confidence = &confidence
	return cfg
}

type Insight struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// Violation describes one rejected entry of a recommender payload.
type Violation struct {
	Section string `json:"section"`
	Index   int    `json:"index"`
	Reason  string `json:"reason"`
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s[%d]: %s", v.Section, v.Index, v.Reason)
}

func (v Violation) Is(target error) bool {
	return target == ErrSchemaViolation
}

type RecommendationSet struct {
	Recommendations []Recommendation `json:"recommendations"`
	Insights        []Insight        `json:"insights"`
	Rejected        []Violation      `json:"rejected,omitempty"`
}

// ValidateRecommendations checks a recommender payload entry by entry. Invalid
// entries are dropped and reported in Rejected; only a payload without a
// recommendedCharts array fails as a whole. When columns is non-empty every
// referenced column must be one of them.
func ValidateRecommendations(raw []byte, columns []models.Column) (*RecommendationSet, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: payload is not an object", ErrSchemaViolation)
	}

	charts, ok := doc["recommendedCharts"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: recommendedCharts must be an array", ErrSchemaViolation)
	}
	var insights []any
	if v, present := doc["insights"]; present && v != nil {
		if insights, ok = v.([]any); !ok {
			return nil, fmt.Errorf("%w: insights must be an array", ErrSchemaViolation)
		}
	}

	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c.Name] = true
	}

	set := &RecommendationSet{Recommendations: []Recommendation{}, Insights: []Insight{}}
	for i, entry := range charts {
		rec, reason := parseRecommendation(entry, known)
		if reason != "" {
			set.Rejected = append(set.Rejected, Violation{Section: "recommendedCharts", Index: i, Reason: reason})
			continue
		}
		set.Recommendations = append(set.Recommendations, rec)
	}
	for i, entry := range insights {
		in, reason := parseInsight(entry)
		if reason != "" {
			set.Rejected = append(set.Rejected, Violation{Section: "insights", Index: i, Reason: reason})
			continue
		}
		set.Insights = append(set.Insights, in)
	}
	return set, nil
}

func parseRecommendation(entry any, known map[string]bool) (Recommendation, string) {
	var rec Recommendation
	obj, ok := entry.(map[string]any)
	if !ok {
		return rec, "not an object"
	}

	chartType, ok := obj["type"].(string)
	if !ok || !models.ChartType(chartType).Valid() {
		return rec, fmt.Sprintf("unknown chart type %v", obj["type"])
	}
	rec.Type = models.ChartType(chartType)

	var reason string
	if rec.Title, reason = requiredString(obj, "title", true); reason != "" {
		return rec, reason
	}
	if rec.Description, reason = requiredString(obj, "description", false); reason != "" {
		return rec, reason
	}
	if rec.Reasoning, reason = requiredString(obj, "reasoning", false); reason != "" {
		return rec, reason
	}
	if rec.Confidence, reason = confidence(obj); reason != "" {
		return rec, reason
	}

	cfg, ok := obj["config"].(map[string]any)
	if !ok {
		return rec, "config must be an object"
	}
	if rec.Config, reason = parseConfig(cfg); reason != "" {
		return rec, reason
	}
	if reason = requiredAxes(rec.Type, rec.Config); reason != "" {
		return rec, reason
	}
	if len(known) > 0 {
		for _, name := range rec.Config.Columns() {
			if !known[name] {
				return rec, fmt.Sprintf("unknown column %q", name)
			}
		}
	}
	return rec, ""
}

func parseConfig(obj map[string]any) (models.ChartConfig, string) {
	var cfg models.ChartConfig
	for key, dst := range map[string]*string{"xAxis": &cfg.XAxis, "yAxis": &cfg.YAxis, "groupBy": &cfg.GroupBy} {
		v, present := obj[key]
		if !present || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return cfg, fmt.Sprintf("config.%s must be a string", key)
		}
		*dst = s
	}

	if v, present := obj["aggregation"]; present && v != nil {
		s, ok := v.(string)
		if !ok || !models.Aggregation(s).Valid() {
			return cfg, fmt.Sprintf("unknown aggregation %v", v)
		}
		cfg.Aggregation = models.Aggregation(s)
	}

	if v, present := obj["colors"]; present && v != nil {
		list, ok := v.([]any)
		if !ok {
			return cfg, "config.colors must be an array of strings"
		}
		for _, c := range list {
			s, ok := c.(string)
			if !ok {
				return cfg, "config.colors must be an array of strings"
			}
			cfg.Colors = append(cfg.Colors, s)
		}
	}
	return cfg, ""
}

// requiredAxes enforces the axes a chart type cannot render without.
func requiredAxes(t models.ChartType, cfg models.ChartConfig) string {
	switch t {
	case models.ChartTypeScatter, models.ChartTypeHeatmap:
		if cfg.XAxis == "" || cfg.YAxis == "" {
			return fmt.Sprintf("%s chart needs xAxis and yAxis", t)
		}
	case models.ChartTypePie:
		if cfg.XAxis == "" && cfg.GroupBy == "" {
			return "pie chart needs xAxis or groupBy"
		}
	default:
		if cfg.XAxis == "" {
			return fmt.Sprintf("%s chart needs xAxis", t)
		}
	}
	return ""
}

func parseInsight(entry any) (Insight, string) {
	var in Insight
	obj, ok := entry.(map[string]any)
	if !ok {
		return in, "not an object"
	}
	kind, ok := obj["type"].(string)
	if !ok || !slices.Contains(insightTypes, kind) {
		return in, fmt.Sprintf("unknown insight type %v", obj["type"])
	}
	in.Type = kind

	var reason string
	if in.Title, reason = requiredString(obj, "title", true); reason != "" {
		return in, reason
	}
	if in.Description, reason = requiredString(obj, "description", false); reason != "" {
		return in, reason
	}
	if in.Confidence, reason = confidence(obj); reason != "" {
		return in, reason
	}
	return in, ""
}

func requiredString(obj map[string]any, key string, nonEmpty bool) (string, string) {
	s, ok := obj[key].(string)
	if !ok {
		return "", key + " must be a string"
	}
	if nonEmpty && strings.TrimSpace(s) == "" {
		return "", key + " must not be empty"
	}
	return s, ""
}

func confidence(obj map[string]any) (float64, string) {
	f, ok := obj["confidence"].(float64)
	if !ok {
		return 0, "confidence must be a number"
	}
	if f < 0 || f > 100 {
		return 0, fmt.Sprintf("confidence %v out of range [0,100]", f)
	}
	return f, ""
}
