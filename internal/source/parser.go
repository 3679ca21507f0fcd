// Package source turns loosely typed insights rows and exported tables into
// canonical records.
package source

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/adburn/internal/model"
)

var jsonNull = []byte("null")

// Normalize converts a raw row into a MetricRecord. It never fails: missing
// or unparseable values become zero and missing dimensions get defaults.
func Normalize(raw RawRow) model.MetricRecord {
	rec, _ := normalize(raw)
	return rec
}

// NormalizeAll normalizes a batch of rows. The second return value counts
// rows that had at least one field that could not be parsed, so callers can
// warn once per report instead of once per row.
func NormalizeAll(rows []RawRow) ([]model.MetricRecord, int) {
	out := make([]model.MetricRecord, 0, len(rows))
	bad := 0
	for _, r := range rows {
		rec, ok := normalize(r)
		if !ok {
			bad++
		}
		out = append(out, rec)
	}
	return out, bad
}

func normalize(raw RawRow) (model.MetricRecord, bool) {
	clean := true
	num := func(field string) float64 {
		v, ok := parseNumber(raw[field])
		if !ok {
			clean = false
		}
		return v
	}

	rec := model.MetricRecord{
		Campaign:     stringOr(raw[FieldCampaignName], DefaultCampaign),
		Date:         stringOr(raw[FieldDateStart], ""),
		Platform:     stringOr(raw[FieldPlatform], DefaultPlatform),
		Position:     stringOr(raw[FieldPosition], ""),
		Age:          stringOr(raw[FieldAge], DefaultAge),
		Gender:       stringOr(raw[FieldGender], DefaultGender),
		HourInterval: stringOr(raw[FieldHourly], ""),

		Spend:       num(FieldSpend),
		Impressions: model.ToCount(num(FieldImpressions)),
		Clicks:      model.ToCount(num(FieldClicks)),
		Reach:       model.ToCount(num(FieldReach)),
	}

	if v, ok := raw[FieldCTR]; ok && !isNull(v) {
		ctr, parsed := parseNumber(v)
		rec.CTR = ctr
		rec.HasCTR = parsed
		if !parsed {
			clean = false
		}
	}

	var ok bool
	if rec.Actions, ok = parseActions(raw[FieldActions]); !ok {
		clean = false
	}
	if rec.CostPerAction, ok = parseActions(raw[FieldCostPerAction]); !ok {
		clean = false
	}

	return rec, clean
}

// parseNumber accepts a JSON number or a numeric string. Missing and null
// values are zero without being an error. Negative, NaN and infinite values
// clamp to zero.
func parseNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || isNull(raw) {
		return 0, true
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		v, ok := ParseCell(s)
		if !ok {
			return 0, false
		}
		f = v
	}
	return clampNonNegative(f)
}

// ParseCell parses a numeric table cell. Blank cells are zero.
func ParseCell(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clampNonNegative(f)
}

func clampNonNegative(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f < 0 {
		return 0, true
	}
	return f, true
}

func parseActions(raw json.RawMessage) ([]model.ActionValue, bool) {
	if len(raw) == 0 || isNull(raw) {
		return nil, true
	}

	var items []rawAction
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}

	clean := true
	out := make([]model.ActionValue, 0, len(items))
	for _, it := range items {
		v, ok := parseNumber(it.Value)
		if !ok {
			clean = false
		}
		out = append(out, model.ActionValue{Type: it.ActionType, Value: v})
	}
	return out, clean
}

func stringOr(raw json.RawMessage, def string) string {
	if len(raw) == 0 || isNull(raw) {
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(bytes.TrimSpace(raw))
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}
