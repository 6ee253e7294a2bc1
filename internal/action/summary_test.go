package action

import (
	"strings"
	"testing"
	"time"
)

func sampleSet() *ResultSet {
	return Of(map[string]Result{
		"a": Success().WithDuration(100 * time.Millisecond),
		"b": Success().WithDuration(300 * time.Millisecond),
		"c": FromError(nil).WithDuration(200 * time.Millisecond),
	})
}

func TestCounts(t *testing.T) {
	rs := sampleSet()

	if got := CountSuccessful(rs); got != 2 {
		t.Errorf("CountSuccessful = %d, want 2", got)
	}
	if got := CountFailed(rs); got != 1 {
		t.Errorf("CountFailed = %d, want 1", got)
	}
	if AllSuccessful(rs) {
		t.Error("AllSuccessful should be false")
	}
	if !AllSuccessful(Empty()) {
		t.Error("AllSuccessful on empty set should be true")
	}
}

func TestFilters(t *testing.T) {
	rs := sampleSet()

	ok := FilterSuccessful(rs)
	if strings.Join(ok.Names(), ",") != "a,b" {
		t.Errorf("FilterSuccessful names = %v", ok.Names())
	}

	failed := FilterFailed(rs)
	if strings.Join(failed.Names(), ",") != "c" {
		t.Errorf("FilterFailed names = %v", failed.Names())
	}
}

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		name string
		rs   *ResultSet
		want float64
	}{
		{name: "empty", rs: Empty(), want: 0},
		{name: "all ok", rs: Single("a", Success()), want: 100},
		{name: "half", rs: Of(map[string]Result{"a": Success(), "b": Failure("1", "")}), want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuccessRate(tt.rs); got != tt.want {
				t.Errorf("SuccessRate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleSet())

	if s.Total != 3 || s.Successful != 2 || s.Failed != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.AvgDuration != 200*time.Millisecond {
		t.Errorf("AvgDuration = %v, want 200ms", s.AvgDuration)
	}
	if s.MaxDuration != 300*time.Millisecond {
		t.Errorf("MaxDuration = %v, want 300ms", s.MaxDuration)
	}

	str := s.String()
	if !strings.Contains(str, "Total: 3") || !strings.Contains(str, "Failed: 1") {
		t.Errorf("String() = %q", str)
	}

	if Summarize(Empty()).String() != "Total: 0, Successful: 0, Failed: 0" {
		t.Errorf("empty summary = %q", Summarize(Empty()).String())
	}
}
