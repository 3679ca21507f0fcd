package source

import "github.com/theirongolddev/adburn/internal/model"

// Action types used by the reports.
const (
	ActionVideoView            = "video_view"
	ActionPurchase             = "purchase"
	ActionLead                 = "lead"
	ActionCompleteRegistration = "complete_registration"
	ActionSubmitApplication    = "submit_application"
	ActionContact              = "contact"
	ActionLandingPageView      = "landing_page_view"
	ActionViewContent          = "view_content"
)

// ActionSet is a set of action types combined into one count.
type ActionSet map[string]struct{}

// NewActionSet builds a set from the given types.
func NewActionSet(types ...string) ActionSet {
	s := make(ActionSet, len(types))
	for _, t := range types {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether t is in the set.
func (s ActionSet) Has(t string) bool {
	_, ok := s[t]
	return ok
}

// Funnel action groups. Treat as read-only.
var (
	PageViewActions   = NewActionSet(ActionLandingPageView, ActionViewContent)
	LeadActions       = NewActionSet(ActionLead, ActionContact, ActionSubmitApplication, ActionCompleteRegistration)
	ConversionActions = NewActionSet(ActionPurchase, ActionCompleteRegistration, ActionSubmitApplication, ActionLead, ActionContact)
)

// conversionPriority is the lookup order for a campaign's conversion count.
var conversionPriority = []string{ActionPurchase, ActionLead, ActionCompleteRegistration}

// LookupActionValue returns the value of the first action of the given type,
// or 0 when absent.
func LookupActionValue(actions []model.ActionValue, actionType string) float64 {
	for _, a := range actions {
		if a.Type == actionType {
			return a.Value
		}
	}
	return 0
}

// SumActionValues adds the truncated value of every action whose type is in
// types. Each type contributes once, from its first occurrence.
func SumActionValues(actions []model.ActionValue, types ActionSet) int64 {
	seen := make(map[string]bool, len(types))
	var total int64
	for _, a := range actions {
		if !types.Has(a.Type) || seen[a.Type] {
			continue
		}
		seen[a.Type] = true
		total = model.AddCount(total, model.ToCount(a.Value))
	}
	return total
}

// ResolveVideoCPV returns the cost per video view of a record. An explicit
// cost_per_action_type entry wins; otherwise spend is divided by the
// video_view count. Zero views yield 0.
func ResolveVideoCPV(rec model.MetricRecord) float64 {
	for _, a := range rec.CostPerAction {
		if a.Type == ActionVideoView {
			return a.Value
		}
	}
	views := LookupActionValue(rec.Actions, ActionVideoView)
	if views <= 0 {
		return 0
	}
	return rec.Spend / views
}

// ResolveConversions returns the first non-zero of purchase, lead and
// complete_registration, truncated to an integer.
func ResolveConversions(actions []model.ActionValue) int64 {
	for _, t := range conversionPriority {
		if v := LookupActionValue(actions, t); v != 0 {
			return model.ToCount(v)
		}
	}
	return 0
}
