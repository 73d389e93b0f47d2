package page

import (
	"sync"

	"dashsync/internal/charts"
)

// mount is a chart mount point. It remembers the last frame so late clients
// and the SVG endpoint can redraw it.
type mount struct {
	name  string
	page  *Page
	mu    sync.Mutex
	frame *charts.Frame
}

func (m *mount) Draw(f charts.Frame) error {
	f.Mount = m.name
	m.mu.Lock()
	cp := f
	cp.Labels = append([]string(nil), f.Labels...)
	cp.Values = append([]float64(nil), f.Values...)
	if f.Tooltips != nil {
		cp.Tooltips = append([]string(nil), f.Tooltips...)
	}
	m.frame = &cp
	m.mu.Unlock()
	m.page.emit(Patch{Type: PatchChart, ID: m.name, Frame: &cp})
	return nil
}

func (m *mount) latest() (charts.Frame, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.frame == nil {
		return charts.Frame{}, false
	}
	return *m.frame, true
}

// Mount implements charts.Host.
func (p *Page) Mount(name string) (charts.Renderer, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	m, ok := p.mounts[name]
	if !ok {
		return nil, false
	}
	return m, true
}

// Frame returns the last frame drawn at a mount point.
func (p *Page) Frame(name string) (charts.Frame, bool) {
	p.mu.RLock()
	m, ok := p.mounts[name]
	p.mu.RUnlock()
	if !ok {
		return charts.Frame{}, false
	}
	return m.latest()
}
