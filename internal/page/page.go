// Package page keeps a server-side mirror of the dashboard page: chart mount
// points, labelled elements, and the notification container. Every mutation
// is broadcast to connected browsers as a JSON patch.
package page

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"dashsync/internal/charts"
	"dashsync/internal/models"
)

// Element identifiers and classes known to the dashboard template.
const (
	WebhookCountID        = "webhook-count"
	NotificationContainer = "notification-container"
	ContainerClass        = "position-fixed top-0 end-0 p-3"
	ContainerZIndex       = 9999
	HighlightClass        = "fade-in"
)

// Broadcaster fans a message out to every connected browser.
type Broadcaster interface {
	Broadcast(message []byte)
}

// Element is a labelled node of the page.
type Element struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Classes    []string `json:"classes,omitempty"`
	AutoUpdate bool     `json:"auto_update,omitempty"`
}

// Container is the lazily created notification container.
type Container struct {
	ID     string                `json:"id"`
	Class  string                `json:"class"`
	ZIndex int                   `json:"z_index"`
	Alerts []models.Notification `json:"alerts"`
}

// Snapshot is the full page state sent to late-joining clients.
type Snapshot struct {
	Elements  []Element      `json:"elements"`
	Charts    []charts.Frame `json:"charts"`
	Container *Container     `json:"container,omitempty"`
}

// Patch is one incremental change pushed to browsers.
type Patch struct {
	Type      string               `json:"type"`
	ID        string               `json:"id,omitempty"`
	Text      string               `json:"text,omitempty"`
	Class     string               `json:"class,omitempty"`
	Frame     *charts.Frame        `json:"frame,omitempty"`
	Alert     *models.Notification `json:"alert,omitempty"`
	Container *Container           `json:"container,omitempty"`
}

// Patch types.
const (
	PatchText        = "text"
	PatchAddClass    = "class.add"
	PatchRemoveClass = "class.remove"
	PatchChart       = "chart"
	PatchContainer   = "container"
	PatchAlertAdd    = "alert.add"
	PatchAlertRemove = "alert.remove"
)

type element struct {
	text       string
	classes    map[string]struct{}
	autoUpdate bool
}

// Page is safe for concurrent use.
type Page struct {
	mu        sync.RWMutex
	elements  map[string]*element
	mounts    map[string]*mount
	container *Container
	out       Broadcaster
	log       logrus.FieldLogger
}

// Option configures a Page.
type Option func(*Page)

// WithMounts declares the chart mount points present on the page.
func WithMounts(names ...string) Option {
	return func(p *Page) {
		for _, n := range names {
			if n == "" {
				continue
			}
			p.mounts[n] = &mount{name: n, page: p}
		}
	}
}

// WithElement declares a labelled element. autoUpdate marks it for the
// highlight pulse after each refresh.
func WithElement(id, text string, autoUpdate bool) Option {
	return func(p *Page) {
		p.elements[id] = &element{text: text, classes: map[string]struct{}{}, autoUpdate: autoUpdate}
	}
}

// New builds a page. out may be nil when nobody listens.
func New(out Broadcaster, log logrus.FieldLogger, opts ...Option) *Page {
	if log == nil {
		log = logrus.StandardLogger()
	}
	p := &Page{
		elements: make(map[string]*element),
		mounts:   make(map[string]*mount),
		out:      out,
		log:      log.WithField("component", "page"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Page) emit(patch Patch) {
	if p.out == nil {
		return
	}
	msg, err := json.Marshal(patch)
	if err != nil {
		p.log.WithError(err).Warn("failed to encode page patch")
		return
	}
	p.out.Broadcast(msg)
}

// SetText replaces an element's text. It returns false when the element is
// not on the page.
func (p *Page) SetText(id, text string) bool {
	p.mu.Lock()
	el, ok := p.elements[id]
	if ok {
		el.text = text
	}
	p.mu.Unlock()
	if ok {
		p.emit(Patch{Type: PatchText, ID: id, Text: text})
	}
	return ok
}

// Text returns an element's text.
func (p *Page) Text(id string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	el, ok := p.elements[id]
	if !ok {
		return "", false
	}
	return el.text, true
}

// AutoUpdateIDs lists elements carrying the auto-update marker, sorted.
func (p *Page) AutoUpdateIDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]string, 0, len(p.elements))
	for id, el := range p.elements {
		if el.autoUpdate {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// AddClass adds a class to an element.
func (p *Page) AddClass(id, class string) {
	if p.toggleClass(id, class, true) {
		p.emit(Patch{Type: PatchAddClass, ID: id, Class: class})
	}
}

// RemoveClass removes a class from an element.
func (p *Page) RemoveClass(id, class string) {
	if p.toggleClass(id, class, false) {
		p.emit(Patch{Type: PatchRemoveClass, ID: id, Class: class})
	}
}

// HasClass reports whether an element currently carries class.
func (p *Page) HasClass(id, class string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	el, ok := p.elements[id]
	if !ok {
		return false
	}
	_, has := el.classes[class]
	return has
}

func (p *Page) toggleClass(id, class string, on bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.elements[id]
	if !ok {
		return false
	}
	if on {
		el.classes[class] = struct{}{}
	} else {
		delete(el.classes, class)
	}
	return true
}

// Snapshot returns a deep copy of the page state.
func (p *Page) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	snap := Snapshot{Elements: make([]Element, 0, len(p.elements)), Charts: []charts.Frame{}}
	for id, el := range p.elements {
		classes := make([]string, 0, len(el.classes))
		for c := range el.classes {
			classes = append(classes, c)
		}
		sort.Strings(classes)
		snap.Elements = append(snap.Elements, Element{ID: id, Text: el.text, Classes: classes, AutoUpdate: el.autoUpdate})
	}
	sort.Slice(snap.Elements, func(i, j int) bool { return snap.Elements[i].ID < snap.Elements[j].ID })
	names := make([]string, 0, len(p.mounts))
	for n := range p.mounts {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if f, ok := p.mounts[n].latest(); ok {
			snap.Charts = append(snap.Charts, f)
		}
	}
	if p.container != nil {
		c := *p.container
		c.Alerts = append([]models.Notification(nil), p.container.Alerts...)
		snap.Container = &c
	}
	return snap
}

// SnapshotJSON encodes a snapshot patch for a newly connected client.
func (p *Page) SnapshotJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string   `json:"type"`
		Page Snapshot `json:"page"`
	}{Type: "snapshot", Page: p.Snapshot()})
}
