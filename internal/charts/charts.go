// Package charts owns the derived state of the dashboard's two chart widgets
// and asks an opaque renderer to redraw them.
package charts

import "fmt"

// Mount point names on the rendering host.
const (
	ActivityMount = "activityChart"
	DeviceMount   = "deviceChart"
)

// Kind identifies the chart type a frame should be drawn as.
type Kind string

const (
	KindLine     Kind = "line"
	KindDoughnut Kind = "doughnut"
)

// Frame is everything a renderer needs to redraw one widget.
type Frame struct {
	Mount  string    `json:"mount"`
	Kind   Kind      `json:"kind"`
	Title  string    `json:"title,omitempty"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	// Tooltips holds the hover text of each point or slice, aligned with
	// Values.
	Tooltips []string `json:"tooltips,omitempty"`
	Animate  bool     `json:"animate"`
}

// Renderer redraws a single mounted widget from a frame.
type Renderer interface {
	Draw(Frame) error
}

// Host resolves mount points. ok is false when the mount point is absent.
type Host interface {
	Mount(name string) (r Renderer, ok bool)
}

// HourLabels returns "00:00" through "23:00".
func HourLabels() []string {
	labels := make([]string, 24)
	for i := range labels {
		labels[i] = fmt.Sprintf("%02d:00", i)
	}
	return labels
}
