package page

import "dashsync/internal/models"

// EnsureContainer creates the notification container on first use. It is
// looked up by identity, so repeated calls reuse the same container.
func (p *Page) EnsureContainer() bool {
	p.mu.Lock()
	if p.container != nil {
		p.mu.Unlock()
		return false
	}
	p.container = &Container{ID: NotificationContainer, Class: ContainerClass, ZIndex: ContainerZIndex}
	c := *p.container
	p.mu.Unlock()
	p.emit(Patch{Type: PatchContainer, ID: c.ID, Container: &c})
	return true
}

// AppendAlert adds an alert at the visual end of the container.
func (p *Page) AppendAlert(n models.Notification) {
	p.EnsureContainer()
	p.mu.Lock()
	p.container.Alerts = append(p.container.Alerts, n)
	p.mu.Unlock()
	p.emit(Patch{Type: PatchAlertAdd, ID: n.ID, Alert: &n})
}

// RemoveAlert removes the alert with the given id. It returns false when the
// alert is no longer present.
func (p *Page) RemoveAlert(id string) bool {
	p.mu.Lock()
	removed := false
	if p.container != nil {
		alerts := p.container.Alerts
		for i := range alerts {
			if alerts[i].ID == id {
				p.container.Alerts = append(alerts[:i:i], alerts[i+1:]...)
				removed = true
				break
			}
		}
	}
	p.mu.Unlock()
	if removed {
		p.emit(Patch{Type: PatchAlertRemove, ID: id})
	}
	return removed
}

// Alerts returns the alerts currently shown, in visual order.
func (p *Page) Alerts() []models.Notification {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.container == nil {
		return nil
	}
	return append([]models.Notification(nil), p.container.Alerts...)
}
