package model

import "fmt"

// Chart kinds understood by the HTML renderer.
const (
	ChartBar      = "bar"
	ChartLine     = "line"
	ChartDoughnut = "doughnut"
)

// Series is one dataset of a chart.
type Series struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// Chart holds labels and datasets of equal length.
type Chart struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Kind       string   `json:"kind"`
	Horizontal bool     `json:"horizontal,omitempty"`
	Stacked    bool     `json:"stacked,omitempty"`
	Labels     []string `json:"labels"`
	Datasets   []Series `json:"datasets"`
}

// Validate checks that every dataset matches the label count.
func (c Chart) Validate() error {
	for _, ds := range c.Datasets {
		if len(ds.Data) != len(c.Labels) {
			return fmt.Errorf("chart %s: dataset %q has %d values for %d labels",
				c.ID, ds.Label, len(ds.Data), len(c.Labels))
		}
	}
	return nil
}

// ScatterPoint is a labeled point of a scatter chart.
type ScatterPoint struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}
