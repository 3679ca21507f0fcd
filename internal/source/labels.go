package source

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var placementLabels = map[string]string{
	"facebook":          "Facebook Feed",
	"instagram":         "Instagram Feed",
	"audience_network":  "Audience Network",
	"messenger":         "Messenger",
	"instagram_stories": "Stories",
	"facebook_stories":  "Facebook Stories",
	"reels":             "Reels",
	"facebook_reels":    "Facebook Reels",
}

var genderLabels = map[string]string{
	"male":    "Male",
	"female":  "Female",
	"unknown": "Unknown",
}

// AgeOrder is the canonical bracket order. Brackets outside it sort last.
var AgeOrder = []string{"18-24", "25-34", "35-44", "45-54", "55-64", "65+"}

var hourPattern = regexp.MustCompile(`^(\d{1,2}):\d{2}:\d{2}`)

// PlacementLabel maps a publisher platform and position to a display label.
// Lookup tries "platform_position", then the platform alone, then falls back
// to the title-cased platform.
func PlacementLabel(platform, position string) string {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if platform == "" {
		platform = DefaultPlatform
	}
	key := platform
	if position != "" {
		key = strings.Trim(strings.ToLower(platform+"_"+position), "_")
	}
	if label, ok := placementLabels[key]; ok {
		return label
	}
	if label, ok := placementLabels[platform]; ok {
		return label
	}
	return titleCase(platform)
}

// GenderLabel maps an API gender code to a display label. Unmapped codes are
// returned unchanged.
func GenderLabel(code string) string {
	if label, ok := genderLabels[strings.ToLower(code)]; ok {
		return label
	}
	return code
}

// AgeRank returns the sort position of an age bracket.
func AgeRank(age string) int {
	for i, a := range AgeOrder {
		if a == age {
			return i
		}
	}
	return len(AgeOrder)
}

// ParseHour extracts the hour from an interval label such as
// "09:00:00 - 09:59:59". It reports false for labels that do not start with
// a time or name an hour outside 0-23.
func ParseHour(interval string) (int, bool) {
	m := hourPattern.FindStringSubmatch(strings.TrimSpace(interval))
	if m == nil {
		return 0, false
	}
	h, err := strconv.Atoi(m[1])
	if err != nil || h > 23 {
		return 0, false
	}
	return h, true
}

// titleCase upper-cases the first letter of each run of letters and
// lower-cases the rest ("audience_network" -> "Audience_Network").
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		prevLetter = false
		b.WriteRune(r)
	}
	return b.String()
}
