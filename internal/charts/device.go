package charts

import (
	"fmt"
	"math"
	"strconv"

	"github.com/sirupsen/logrus"

	"dashsync/internal/models"
)

// PlaceholderLabel is drawn as a single slice when no device data exists.
const PlaceholderLabel = "No data"

// DevicePresenter owns the device-share doughnut. Its data is seeded once and
// never refreshed by polling.
type DevicePresenter struct {
	renderer Renderer
	share    models.DeviceShare
}

// NewDevicePresenter attaches to the mount point and draws the seed share.
// An empty label list becomes ["No data"] and an empty value list becomes
// [1]; a length mismatch keeps only the paired prefix.
func NewDevicePresenter(host Host, mount string, seed models.DeviceShare, log logrus.FieldLogger) *DevicePresenter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	p := &DevicePresenter{share: normalizeShare(seed)}
	if host == nil {
		return p
	}
	r, ok := host.Mount(mount)
	if !ok || r == nil {
		log.WithField("chart", mount).Debug("mount point absent; device chart disabled")
		return p
	}
	p.renderer = r
	frame := Frame{
		Mount:    DeviceMount,
		Kind:     KindDoughnut,
		Labels:   append([]string(nil), p.share.Labels...),
		Values:   append([]float64(nil), p.share.Values...),
		Tooltips: p.Tooltips(),
		Animate:  true,
	}
	if err := r.Draw(frame); err != nil {
		log.WithField("chart", mount).WithError(err).Warn("device chart draw failed")
	}
	return p
}

// Attached reports whether a renderer was found at construction time.
func (p *DevicePresenter) Attached() bool {
	return p != nil && p.renderer != nil
}

// Share returns a copy of the drawn share.
func (p *DevicePresenter) Share() models.DeviceShare {
	return models.DeviceShare{
		Labels: append([]string(nil), p.share.Labels...),
		Values: append([]float64(nil), p.share.Values...),
	}
}

// Percentages returns each slice's share of the total.
func (p *DevicePresenter) Percentages() []float64 {
	return Percentages(p.share.Values)
}

// Tooltip returns "<label>: <value> (<pct>%)" for slice i.
func (p *DevicePresenter) Tooltip(i int) string {
	if i < 0 || i >= len(p.share.Values) {
		return ""
	}
	return deviceTooltip(p.share.Labels[i], p.share.Values[i], p.Percentages()[i])
}

// Tooltips returns the tooltip of every slice.
func (p *DevicePresenter) Tooltips() []string {
	pcts := p.Percentages()
	out := make([]string, len(p.share.Values))
	for i, v := range p.share.Values {
		out[i] = deviceTooltip(p.share.Labels[i], v, pcts[i])
	}
	return out
}

func deviceTooltip(label string, value, pct float64) string {
	return fmt.Sprintf("%s: %s (%s%%)", label, formatValue(value), FormatPercent(pct))
}

// normalizeShare substitutes the placeholder label and the placeholder value
// independently when either side is empty, then trims the longer side so
// labels and values stay positionally paired.
func normalizeShare(seed models.DeviceShare) models.DeviceShare {
	labels, values := seed.Labels, seed.Values
	if len(labels) == 0 {
		labels = []string{PlaceholderLabel}
	}
	if len(values) == 0 {
		values = []float64{1}
	}
	n := min(len(labels), len(values))
	return models.DeviceShare{
		Labels: append([]string(nil), labels[:n]...),
		Values: append([]float64(nil), values[:n]...),
	}
}

// Percentages computes value/sum*100 rounded to one decimal. A zero total is
// not masked: the results are NaN (or ±Inf for non-zero values).
func Percentages(values []float64) []float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Round(v/total*100*10) / 10
	}
	return out
}

// FormatPercent renders a percentage with one decimal. Non-finite values
// print as "NaN", "Infinity" or "-Infinity".
func FormatPercent(pct float64) string {
	switch {
	case math.IsNaN(pct):
		return "NaN"
	case math.IsInf(pct, 1):
		return "Infinity"
	case math.IsInf(pct, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(pct, 'f', 1, 64)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
