package pipeline

import (
	"testing"

	"github.com/theirongolddev/adburn/internal/model"
)

func counts(stages []model.FunnelStage) []int64 {
	out := make([]int64, len(stages))
	for i, s := range stages {
		out[i] = s.Count
	}
	return out
}

func TestBuildFunnel_ClampsAdversarialInput(t *testing.T) {
	tests := []struct {
		name string
		in   FunnelTotals
		want []int64
	}{
		{
			name: "already monotonic",
			in:   FunnelTotals{1000, 800, 100, 50, 20, 5},
			want: []int64{1000, 800, 100, 50, 20, 5},
		},
		{
			name: "every stage exceeds its predecessor",
			in:   FunnelTotals{100, 200, 300, 400, 500, 600},
			want: []int64{100, 100, 100, 100, 100, 100},
		},
		{
			name: "no page views falls back to clicks",
			in:   FunnelTotals{1000, 900, 100, 0, 80, 300},
			want: []int64{1000, 900, 100, 0, 80, 80},
		},
		{
			name: "no leads caps conversions by clicks",
			in:   FunnelTotals{1000, 900, 100, 40, 0, 70},
			want: []int64{1000, 900, 100, 40, 0, 70},
		},
		{
			name: "no reach caps clicks by impressions",
			in:   FunnelTotals{50, 0, 80, 10, 5, 1},
			want: []int64{50, 0, 50, 10, 5, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stages := BuildFunnel(tt.in)
			got := counts(stages)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("counts = %v, want %v", got, tt.want)
				}
			}
			for i, s := range stages {
				if s.Position != i+1 {
					t.Errorf("stage %q position = %d, want %d", s.Name, s.Position, i+1)
				}
			}
		})
	}
}

// Every stage is bounded by its immediate predecessor whenever that
// predecessor saw any activity, and nothing below clicks exceeds clicks.
func TestBuildFunnel_Monotonic(t *testing.T) {
	inputs := []FunnelTotals{
		{0, 0, 0, 0, 0, 0},
		{10, 20, 30, 40, 50, 60},
		{100, 0, 0, 0, 0, 999},
		{5, 5, 5, 0, 0, 5},
		{1 << 40, 3, 1 << 41, 7, 1 << 20, 9},
	}
	for _, in := range inputs {
		c := counts(BuildFunnel(in))
		for i := 1; i < len(c); i++ {
			if c[i-1] > 0 && c[i] > c[i-1] {
				t.Errorf("%+v: stage %d (%d) > stage %d (%d)", in, i, c[i], i-1, c[i-1])
			}
			if i >= 3 && c[i] > c[2] {
				t.Errorf("%+v: stage %d (%d) exceeds clicks (%d)", in, i, c[i], c[2])
			}
		}
	}
}

func TestAccumulateFunnel_DedupPerRecord(t *testing.T) {
	records := []model.MetricRecord{
		{
			Impressions: 100, Reach: 80, Clicks: 10,
			Actions: []model.ActionValue{
				{Type: "landing_page_view", Value: 6},
				{Type: "landing_page_view", Value: 60},
				{Type: "lead", Value: 3},
				{Type: "purchase", Value: 1},
			},
		},
		{
			Impressions: 50, Reach: 40, Clicks: 5,
			Actions: []model.ActionValue{{Type: "view_content", Value: 2}, {Type: "contact", Value: 1}},
		},
	}

	got := AccumulateFunnel(records)
	want := FunnelTotals{Impressions: 150, Reach: 120, Clicks: 15, PageViews: 8, Leads: 4, Conversions: 5}
	if got != want {
		t.Errorf("AccumulateFunnel = %+v, want %+v", got, want)
	}
}

func TestFunnelShare(t *testing.T) {
	stages := BuildFunnel(FunnelTotals{3040000, 1820000, 35700, 18400, 2800, 1253})
	share := FunnelShare(stages)
	if share[0] != 100 || share[1] != 59.9 || share[2] != 1.2 {
		t.Errorf("share = %v", share)
	}
	if zero := FunnelShare(BuildFunnel(FunnelTotals{})); zero[0] != 0 {
		t.Errorf("share of empty funnel = %v, want zeros", zero)
	}
}
