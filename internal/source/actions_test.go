package source

import (
	"math"
	"testing"

	"github.com/theirongolddev/adburn/internal/model"
)

func TestSumActionValues_FirstOccurrencePerType(t *testing.T) {
	actions := []model.ActionValue{
		{Type: "lead", Value: 3},
		{Type: "lead", Value: 5},
	}
	if got := SumActionValues(actions, NewActionSet("lead")); got != 3 {
		t.Errorf("SumActionValues = %d, want 3", got)
	}
}

func TestSumActionValues_DistinctTypesAndTruncation(t *testing.T) {
	actions := []model.ActionValue{
		{Type: "purchase", Value: 2.9},
		{Type: "link_click", Value: 100},
		{Type: "contact", Value: 4},
		{Type: "purchase", Value: 50},
	}
	if got := SumActionValues(actions, ConversionActions); got != 6 {
		t.Errorf("SumActionValues = %d, want 6", got)
	}
}

func TestSumActionValues_Saturates(t *testing.T) {
	actions := []model.ActionValue{
		{Type: "lead", Value: 9e18},
		{Type: "purchase", Value: 9e18},
	}
	got := SumActionValues(actions, NewActionSet("lead", "purchase"))
	if got != math.MaxInt64 {
		t.Fatalf("SumActionValues = %d, want MaxInt64", got)
	}
}

func TestLookupActionValue(t *testing.T) {
	actions := []model.ActionValue{{Type: "video_view", Value: 10}, {Type: "video_view", Value: 99}}
	if got := LookupActionValue(actions, "video_view"); got != 10 {
		t.Errorf("LookupActionValue = %v, want 10 (first match)", got)
	}
	if got := LookupActionValue(nil, "video_view"); got != 0 {
		t.Errorf("LookupActionValue(nil) = %v, want 0", got)
	}
}

func TestResolveVideoCPV(t *testing.T) {
	tests := []struct {
		name string
		rec  model.MetricRecord
		want float64
	}{
		{
			name: "explicit cost entry",
			rec: model.MetricRecord{
				Spend:         100,
				Actions:       []model.ActionValue{{Type: "video_view", Value: 50}},
				CostPerAction: []model.ActionValue{{Type: "video_view", Value: 0.5}},
			},
			want: 0.5,
		},
		{
			name: "fallback to spend over views",
			rec: model.MetricRecord{
				Spend:   100,
				Actions: []model.ActionValue{{Type: "video_view", Value: 50}},
			},
			want: 2.0,
		},
		{
			name: "no views",
			rec:  model.MetricRecord{Spend: 100},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveVideoCPV(tt.rec); got != tt.want {
				t.Errorf("ResolveVideoCPV = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveConversions_Priority(t *testing.T) {
	actions := []model.ActionValue{
		{Type: "lead", Value: 9},
		{Type: "purchase", Value: 0},
		{Type: "complete_registration", Value: 4},
	}
	if got := ResolveConversions(actions); got != 9 {
		t.Errorf("ResolveConversions = %d, want 9 (purchase is zero, lead next)", got)
	}
	if got := ResolveConversions(nil); got != 0 {
		t.Errorf("ResolveConversions(nil) = %d, want 0", got)
	}
}
