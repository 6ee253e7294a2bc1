package action

import (
	"fmt"
	"strings"
	"time"
)

// CountSuccessful returns the number of successful results
func CountSuccessful(rs *ResultSet) int {
	count := 0
	for _, r := range rs.All() {
		if r.OK() {
			count++
		}
	}
	return count
}

// CountFailed returns the number of failed results
func CountFailed(rs *ResultSet) int {
	return rs.Len() - CountSuccessful(rs)
}

// FilterSuccessful returns only the successful results
func FilterSuccessful(rs *ResultSet) *ResultSet {
	return filter(rs, func(r Result) bool { return r.OK() })
}

// FilterFailed returns only the failed results
func FilterFailed(rs *ResultSet) *ResultSet {
	return filter(rs, func(r Result) bool { return !r.OK() })
}

func filter(rs *ResultSet, keep func(Result) bool) *ResultSet {
	filtered := make(map[string]Result)
	for name, r := range rs.All() {
		if keep(r) {
			filtered[name] = r
		}
	}
	return Of(filtered)
}

// AllSuccessful returns true if every result is a success
func AllSuccessful(rs *ResultSet) bool {
	return CountFailed(rs) == 0
}

// SuccessRate returns the success rate as a percentage (0.0 to 100.0)
func SuccessRate(rs *ResultSet) float64 {
	if rs.Len() == 0 {
		return 0.0
	}
	return float64(CountSuccessful(rs)) / float64(rs.Len()) * 100.0
}

// Summary provides a summary of a result set
type Summary struct {
	Total       int
	Successful  int
	Failed      int
	AvgDuration time.Duration
	MaxDuration time.Duration
}

// Summarize creates a summary of the results
func Summarize(rs *ResultSet) Summary {
	s := Summary{
		Total:      rs.Len(),
		Successful: CountSuccessful(rs),
	}
	s.Failed = s.Total - s.Successful

	var total time.Duration
	for _, r := range rs.All() {
		total += r.Duration
		if r.Duration > s.MaxDuration {
			s.MaxDuration = r.Duration
		}
	}
	if s.Total > 0 {
		s.AvgDuration = total / time.Duration(s.Total)
	}
	return s
}

// String returns a human-readable string representation of the summary
func (s Summary) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total: %d, ", s.Total))
	sb.WriteString(fmt.Sprintf("Successful: %d, ", s.Successful))
	sb.WriteString(fmt.Sprintf("Failed: %d", s.Failed))

	if s.Total > 0 {
		sb.WriteString(fmt.Sprintf(", Avg: %s", s.AvgDuration.Round(time.Millisecond)))
		sb.WriteString(fmt.Sprintf(", Max: %s", s.MaxDuration.Round(time.Millisecond)))
	}

	return sb.String()
}
