package charts

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"dashsync/internal/models"
)

// ActivityPresenter owns the 24-bucket activity line chart.
type ActivityPresenter struct {
	mu       sync.Mutex
	renderer Renderer
	series   models.ActivitySeries
	log      logrus.FieldLogger
}

// NewActivityPresenter attaches to the named mount point. When the mount is
// absent the presenter stays inert for its whole lifetime.
func NewActivityPresenter(host Host, mount string, log logrus.FieldLogger) *ActivityPresenter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	p := &ActivityPresenter{log: log.WithField("chart", mount)}
	if host == nil {
		return p
	}
	r, ok := host.Mount(mount)
	if !ok || r == nil {
		p.log.Debug("mount point absent; activity chart disabled")
		return p
	}
	p.renderer = r
	if err := r.Draw(p.frame(p.series, true)); err != nil {
		p.log.WithError(err).Warn("initial activity chart draw failed")
	}
	return p
}

// Attached reports whether a renderer was found at construction time.
func (p *ActivityPresenter) Attached() bool {
	return p != nil && p.renderer != nil
}

// Update replaces the series with the given buckets and redraws without
// animation. Inert presenters ignore updates.
func (p *ActivityPresenter) Update(buckets []models.HourlyBucket) {
	if !p.Attached() || buckets == nil {
		return
	}
	series := BucketSeries(buckets)

	p.mu.Lock()
	p.series = series
	p.mu.Unlock()

	if err := p.renderer.Draw(p.frame(series, false)); err != nil {
		p.log.WithError(err).Warn("activity chart redraw failed")
	}
}

// Series returns a copy of the current series.
func (p *ActivityPresenter) Series() models.ActivitySeries {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.series
}

func (p *ActivityPresenter) frame(series models.ActivitySeries, animate bool) Frame {
	labels := HourLabels()
	values := make([]float64, len(series))
	tips := make([]string, len(series))
	for i, v := range series {
		values[i] = float64(v)
		title, body := ActivityTooltip(labels[i], v)
		tips[i] = title + "\n" + body
	}
	return Frame{
		Mount:    ActivityMount,
		Kind:     KindLine,
		Title:    "Data Points",
		Labels:   labels,
		Values:   values,
		Tooltips: tips,
		Animate:  animate,
	}
}

// BucketSeries folds buckets into a fresh 24-slot series. Later buckets for
// the same hour overwrite earlier ones; hours outside 0..23 are dropped.
func BucketSeries(buckets []models.HourlyBucket) models.ActivitySeries {
	var series models.ActivitySeries
	for _, b := range buckets {
		if !b.Hour.Valid() {
			continue
		}
		series[b.Hour] = b.Count
	}
	return series
}

// ActivityTooltip returns the tooltip title and body for one hour slot.
func ActivityTooltip(label string, count int64) (title, body string) {
	return fmt.Sprintf("Hour %s", label), fmt.Sprintf("%d data points", count)
}
