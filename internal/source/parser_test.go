package source

import (
	"encoding/json"
	"math"
	"testing"
)

func decodeRow(t *testing.T, s string) RawRow {
	t.Helper()
	var r RawRow
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestNormalize_StringAndNumberEncodings(t *testing.T) {
	rec := Normalize(decodeRow(t, `{
		"campaign_name": "Lead Gen",
		"spend": "125.50",
		"impressions": " 1000 ",
		"clicks": 42,
		"reach": "800",
		"ctr": "4.2",
		"actions": [{"action_type":"lead","value":"7"},{"action_type":"purchase","value":2}]
	}`))

	if rec.Campaign != "Lead Gen" {
		t.Errorf("Campaign = %q, want Lead Gen", rec.Campaign)
	}
	if rec.Spend != 125.5 {
		t.Errorf("Spend = %v, want 125.5", rec.Spend)
	}
	if rec.Impressions != 1000 || rec.Clicks != 42 || rec.Reach != 800 {
		t.Errorf("Impressions/Clicks/Reach = %d/%d/%d, want 1000/42/800", rec.Impressions, rec.Clicks, rec.Reach)
	}
	if !rec.HasCTR || rec.CTR != 4.2 {
		t.Errorf("CTR = %v (has=%v), want 4.2", rec.CTR, rec.HasCTR)
	}
	if len(rec.Actions) != 2 || rec.Actions[0].Value != 7 || rec.Actions[1].Value != 2 {
		t.Errorf("Actions = %+v", rec.Actions)
	}
}

func TestNormalize_HugeCountsSaturate(t *testing.T) {
	rec := Normalize(decodeRow(t, `{
		"impressions": "1e20",
		"clicks": 1e19,
		"reach": "9.3e18",
		"actions": [{"action_type":"purchase","value":"1e30"}]
	}`))

	if rec.Impressions != math.MaxInt64 || rec.Clicks != math.MaxInt64 || rec.Reach != math.MaxInt64 {
		t.Errorf("Impressions/Clicks/Reach = %d/%d/%d, want MaxInt64", rec.Impressions, rec.Clicks, rec.Reach)
	}
	if got := ResolveConversions(rec.Actions); got != math.MaxInt64 {
		t.Errorf("ResolveConversions = %d, want MaxInt64", got)
	}
}

func TestNormalize_MissingFieldsDefault(t *testing.T) {
	rec := Normalize(RawRow{})

	if rec.Campaign != DefaultCampaign {
		t.Errorf("Campaign = %q, want %q", rec.Campaign, DefaultCampaign)
	}
	if rec.Platform != DefaultPlatform || rec.Age != DefaultAge || rec.Gender != DefaultGender {
		t.Errorf("dimension defaults = %q/%q/%q", rec.Platform, rec.Age, rec.Gender)
	}
	if rec.Spend != 0 || rec.Impressions != 0 || rec.HasCTR {
		t.Errorf("measures not zero: %+v", rec)
	}
	if rec.Actions != nil {
		t.Errorf("Actions = %+v, want nil", rec.Actions)
	}
}

func TestNormalizeAll_CountsUnparseableRows(t *testing.T) {
	rows := []RawRow{
		decodeRow(t, `{"spend":"abc","impressions":10}`),
		decodeRow(t, `{"spend":"1.5","impressions":"-4"}`),
		decodeRow(t, `{"actions":"not-a-list"}`),
		decodeRow(t, `{"ctr":null,"spend":null}`),
	}

	recs, bad := NormalizeAll(rows)
	if len(recs) != 4 {
		t.Fatalf("len = %d, want 4 (no row dropped)", len(recs))
	}
	if bad != 2 {
		t.Errorf("bad = %d, want 2", bad)
	}
	if recs[0].Spend != 0 || recs[0].Impressions != 10 {
		t.Errorf("row 0 = %+v, want spend 0 impressions 10", recs[0])
	}
	if recs[1].Impressions != 0 {
		t.Errorf("negative impressions = %d, want clamped to 0", recs[1].Impressions)
	}
	if recs[3].HasCTR {
		t.Error("null ctr should not count as present")
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{`12`, 12, true},
		{`"12.5"`, 12.5, true},
		{`" 3 "`, 3, true},
		{`""`, 0, true},
		{`"NaN"`, 0, false},
		{`"1e400"`, 0, false},
		{`"x"`, 0, false},
		{`{}`, 0, false},
		{`-3`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := parseNumber(json.RawMessage(tt.raw))
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("parseNumber(%s) = (%v, %v), want (%v, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
