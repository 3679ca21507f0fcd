package model

// KPI pairs a display string with the raw value it was formatted from.
// Only Raw takes part in further arithmetic.
type KPI struct {
	Key     string
	Label   string
	Display string
	Raw     float64
}

// KPIReport is an ordered set of KPIs addressable by key.
type KPIReport struct {
	Items []KPI
	index map[string]int
}

// Add appends a KPI, replacing any previous KPI with the same key.
func (r *KPIReport) Add(k KPI) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[k.Key]; ok {
		r.Items[i] = k
		return
	}
	r.index[k.Key] = len(r.Items)
	r.Items = append(r.Items, k)
}

// Get returns the KPI stored under key.
func (r KPIReport) Get(key string) (KPI, bool) {
	i, ok := r.index[key]
	if !ok {
		return KPI{}, false
	}
	return r.Items[i], true
}

// Display returns the formatted value for key, or "" if absent.
func (r KPIReport) Display(key string) string {
	k, _ := r.Get(key)
	return k.Display
}

// Raw returns the numeric value for key, or 0 if absent.
func (r KPIReport) Raw(key string) float64 {
	k, _ := r.Get(key)
	return k.Raw
}

// Severity classifies an insight.
type Severity string

// Insight severities.
const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
	SeverityInfo    Severity = "info"
)

// Insight is a short finding rendered on the executive report.
type Insight struct {
	Severity Severity
	Title    string
	Detail   string
}

// Scenario is one conversion-rate hypothesis for upsell projections.
type Scenario struct {
	Name      string
	Rate      float64
	Realistic bool
}
