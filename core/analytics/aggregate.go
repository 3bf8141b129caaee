package analytics

import (
	"errors"
	"sort"
	"time"

	"github.com/edusight/backend/core"
)

// DefaultTrendThreshold is the minimum gap between the recent-half and
// older-half averages before a series counts as improving or declining.
// Overridable through config (core.AnalyticsConfig.TrendThreshold).
const DefaultTrendThreshold = 0.5

// Trend classifications
const (
	TrendImproving    = "improving"
	TrendDeclining    = "declining"
	TrendStable       = "stable"
	TrendNoData       = "no_data"
	TrendInsufficient = "insufficient_data"
)

var ErrInvalidWindow = errors.New("window length must be positive")

type (
	// TimePoint is a single dated observation for one entity: a grade score,
	// a presence flag or a completion flag depending on the record kind.
	// Immutable once read from the data source.
	TimePoint struct {
		EntityID  string    `json:"entity_id"`
		Subject   string    `json:"subject"` // subject name or record kind
		Value     float64   `json:"value"`
		Flag      bool      `json:"flag"` // present / completed
		Timestamp time.Time `json:"timestamp"`
	}

	// Window defines the half-open interval [Now - Days, Now] used to filter
	// TimePoints. Now is injectable so aggregation stays deterministic.
	Window struct {
		EntityID string
		Days     int
		Now      time.Time
	}

	TrendResult struct {
		Subject string  `json:"subject"`
		Average float64 `json:"average"`
		Trend   string  `json:"trend"`
		Count   int     `json:"count"`
		Latest  float64 `json:"latest,omitempty"`
		Highest float64 `json:"highest,omitempty"`
		Lowest  float64 `json:"lowest,omitempty"`
	}

	RateResult struct {
		Total       int     `json:"total"`
		Matched     int     `json:"matched"`
		Unmatched   int     `json:"unmatched"`
		RatePercent float64 `json:"rate_percent"`
	}

	// Assignment is the slice of a Homework the overdue computation needs.
	Assignment struct {
		ID      string
		DueDate time.Time
	}

	// SubmissionMark is the slice of a Submission the overdue computation needs.
	SubmissionMark struct {
		AssignmentID string
		Completed    bool
	}
)

func (w Window) Validate() error {
	if w.Days <= 0 {
		return ErrInvalidWindow
	}
	return nil
}

// Bounds returns the [from, to] interval covered by the window.
func (w Window) Bounds() (time.Time, time.Time) {
	now := w.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return now.AddDate(0, 0, -w.Days), now
}

// ComputeTrend summarizes the points for the given subject: arithmetic mean
// (rounded half away from zero to 2 decimals), extremes, and a trend
// classification obtained by splitting the series (most recent first) at the
// midpoint index and comparing the two halves' averages against threshold.
//
// Empty input is a first-class case (TrendNoData), not an error. A single
// point cannot be split and yields TrendInsufficient. Points are sorted
// internally; callers need not pre-sort.
func ComputeTrend(points []TimePoint, subject string, threshold float64) TrendResult {
	res := TrendResult{Subject: subject, Trend: TrendNoData}

	filtered := make([]TimePoint, 0, len(points))
	for _, p := range points {
		if p.Subject == subject {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == 0 {
		return res
	}

	// most recent first
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.After(filtered[j].Timestamp)
	})

	var sum float64
	res.Highest = filtered[0].Value
	res.Lowest = filtered[0].Value
	for _, p := range filtered {
		sum += p.Value
		if p.Value > res.Highest {
			res.Highest = p.Value
		}
		if p.Value < res.Lowest {
			res.Lowest = p.Value
		}
	}

	res.Count = len(filtered)
	res.Average = core.Round2(sum / float64(res.Count))
	res.Latest = filtered[0].Value

	mid := res.Count / 2
	if mid == 0 {
		res.Trend = TrendInsufficient
		return res
	}

	var recentSum, olderSum float64
	for _, p := range filtered[:mid] {
		recentSum += p.Value
	}
	for _, p := range filtered[mid:] {
		olderSum += p.Value
	}
	recentAvg := recentSum / float64(mid)
	olderAvg := olderSum / float64(res.Count-mid)

	switch {
	case recentAvg > olderAvg+threshold:
		res.Trend = TrendImproving
	case recentAvg < olderAvg-threshold:
		res.Trend = TrendDeclining
	default:
		res.Trend = TrendStable
	}
	return res
}

// ComputeRate counts the points satisfying match and expresses them as a
// percentage of the total, rounded to 2 decimals. An empty input yields a
// zero rate, never a division error.
func ComputeRate(points []TimePoint, match func(TimePoint) bool) RateResult {
	res := RateResult{Total: len(points)}
	for _, p := range points {
		if match(p) {
			res.Matched++
		}
	}
	res.Unmatched = res.Total - res.Matched
	if res.Total > 0 {
		res.RatePercent = core.Round2(float64(res.Matched) / float64(res.Total) * 100)
	}
	return res
}

// CountOverdue reports how many assignments are past due with no completed
// submission. Any completed submission satisfies an assignment
// (at-least-one-match, NOT last-write-wins: a later incomplete submission
// never undoes an earlier completed one).
func CountOverdue(assignments []Assignment, submissions []SubmissionMark, now time.Time) int {
	completed := make(map[string]bool, len(submissions))
	for _, s := range submissions {
		if s.Completed {
			completed[s.AssignmentID] = true
		}
	}

	var overdue int
	for _, a := range assignments {
		if a.DueDate.Before(now) && !completed[a.ID] {
			overdue++
		}
	}
	return overdue
}
