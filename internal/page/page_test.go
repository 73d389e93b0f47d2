package page

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashsync/internal/charts"
	"dashsync/internal/models"
)

type captureBroadcaster struct {
	mu       sync.Mutex
	messages [][]byte
}

func (c *captureBroadcaster) Broadcast(msg []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

func (c *captureBroadcaster) patches(t *testing.T) []Patch {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Patch, 0, len(c.messages))
	for _, m := range c.messages {
		var p Patch
		require.NoError(t, json.Unmarshal(m, &p))
		out = append(out, p)
	}
	return out
}

func TestMountPresenceAndFrames(t *testing.T) {
	out := &captureBroadcaster{}
	p := New(out, nil, WithMounts(charts.ActivityMount))

	r, ok := p.Mount(charts.ActivityMount)
	require.True(t, ok)
	_, ok = p.Mount(charts.DeviceMount)
	assert.False(t, ok)

	require.NoError(t, r.Draw(charts.Frame{Kind: charts.KindLine, Values: []float64{1, 2}}))
	f, ok := p.Frame(charts.ActivityMount)
	require.True(t, ok)
	assert.Equal(t, charts.ActivityMount, f.Mount)
	assert.Equal(t, []float64{1, 2}, f.Values)

	patches := out.patches(t)
	require.Len(t, patches, 1)
	assert.Equal(t, PatchChart, patches[0].Type)
	require.NotNil(t, patches[0].Frame)
}

func TestSetTextOnlyTouchesKnownElements(t *testing.T) {
	out := &captureBroadcaster{}
	p := New(out, nil, WithElement(WebhookCountID, "0", true))

	assert.True(t, p.SetText(WebhookCountID, "42"))
	assert.False(t, p.SetText("missing", "x"))
	text, ok := p.Text(WebhookCountID)
	require.True(t, ok)
	assert.Equal(t, "42", text)
	assert.Len(t, out.patches(t), 1)
}

func TestClassToggling(t *testing.T) {
	p := New(nil, nil, WithElement("a", "", true), WithElement("b", "", false))
	assert.Equal(t, []string{"a"}, p.AutoUpdateIDs())

	p.AddClass("a", HighlightClass)
	assert.True(t, p.HasClass("a", HighlightClass))
	p.RemoveClass("a", HighlightClass)
	assert.False(t, p.HasClass("a", HighlightClass))
	p.AddClass("nope", HighlightClass)
	assert.False(t, p.HasClass("nope", HighlightClass))
}

func TestContainerCreatedOnceAndAlertsRemovedById(t *testing.T) {
	out := &captureBroadcaster{}
	p := New(out, nil)
	assert.Nil(t, p.Alerts())

	assert.True(t, p.EnsureContainer())
	assert.False(t, p.EnsureContainer())

	now := time.Now()
	p.AppendAlert(models.Notification{ID: "1", Message: "one", CreatedAt: now})
	p.AppendAlert(models.Notification{ID: "2", Message: "two", CreatedAt: now})
	p.AppendAlert(models.Notification{ID: "3", Message: "three", CreatedAt: now})

	assert.True(t, p.RemoveAlert("2"))
	assert.False(t, p.RemoveAlert("2"))
	alerts := p.Alerts()
	require.Len(t, alerts, 2)
	assert.Equal(t, "1", alerts[0].ID)
	assert.Equal(t, "3", alerts[1].ID)

	containerPatches := 0
	for _, patch := range out.patches(t) {
		if patch.Type == PatchContainer {
			containerPatches++
		}
	}
	assert.Equal(t, 1, containerPatches)
}

func TestSnapshotIncludesEverything(t *testing.T) {
	p := New(nil, nil, WithMounts(charts.ActivityMount, charts.DeviceMount), WithElement(WebhookCountID, "7", true))
	r, _ := p.Mount(charts.DeviceMount)
	require.NoError(t, r.Draw(charts.Frame{Kind: charts.KindDoughnut, Labels: []string{"A"}, Values: []float64{1}}))
	p.AppendAlert(models.Notification{ID: "x", Message: "hi"})

	snap := p.Snapshot()
	require.Len(t, snap.Elements, 1)
	assert.Equal(t, "7", snap.Elements[0].Text)
	require.Len(t, snap.Charts, 1)
	assert.Equal(t, charts.DeviceMount, snap.Charts[0].Mount)
	require.NotNil(t, snap.Container)
	assert.Equal(t, NotificationContainer, snap.Container.ID)
	assert.Len(t, snap.Container.Alerts, 1)

	raw, err := p.SnapshotJSON()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"snapshot"`)
}
