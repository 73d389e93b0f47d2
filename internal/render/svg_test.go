package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"dashsync/internal/charts"
)

func TestRenderLineFrame(t *testing.T) {
	var buf bytes.Buffer
	frame := charts.Frame{
		Mount:  charts.ActivityMount,
		Kind:   charts.KindLine,
		Title:  "Data Points",
		Labels: charts.HourLabels(),
		Values: make([]float64, 24),
	}
	frame.Values[4] = 10
	if err := (SVG{Width: 640, Height: 240}).Render(&buf, frame); err != nil {
		t.Fatalf("render line: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Fatalf("expected svg output, got %q", buf.String())
	}
}

func TestRenderAllZeroLineFrame(t *testing.T) {
	var buf bytes.Buffer
	frame := charts.Frame{Kind: charts.KindLine, Labels: charts.HourLabels(), Values: make([]float64, 24)}
	if err := (SVG{}).Render(&buf, frame); err != nil {
		t.Fatalf("all-zero series should still render: %v", err)
	}
}

func TestRenderDoughnutFrame(t *testing.T) {
	var buf bytes.Buffer
	frame := charts.Frame{Kind: charts.KindDoughnut, Labels: []string{"A", "B"}, Values: []float64{1, 3}}
	if err := (SVG{}).Render(&buf, frame); err != nil {
		t.Fatalf("render doughnut: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Fatalf("expected svg output")
	}
}

func TestRenderRejectsUndrawableFrames(t *testing.T) {
	var buf bytes.Buffer
	if err := (SVG{}).Render(&buf, charts.Frame{Kind: charts.KindLine}); !errors.Is(err, ErrEmptyFrame) {
		t.Fatalf("expected ErrEmptyFrame, got %v", err)
	}
	if err := (SVG{}).Render(&buf, charts.Frame{Kind: "radar", Values: []float64{1}}); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestRenderDoughnutShowsPercentTooltips(t *testing.T) {
	var buf bytes.Buffer
	frame := charts.Frame{
		Kind:     charts.KindDoughnut,
		Labels:   []string{"A", "B", "C"},
		Values:   []float64{1, 1, 2},
		Tooltips: []string{"A: 1 (25.0%)", "B: 1 (25.0%)", "C: 2 (50.0%)"},
	}
	if err := (SVG{}).Render(&buf, frame); err != nil {
		t.Fatalf("render doughnut: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<title>A: 1 (25.0%)") || !strings.Contains(out, "C: 2 (50.0%)") {
		t.Fatalf("tooltips missing from svg: %s", out)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Fatalf("tooltips must be inside the svg root")
	}
}

func TestRenderZeroTotalDoughnutKeepsNaN(t *testing.T) {
	var buf bytes.Buffer
	frame := charts.Frame{
		Kind:     charts.KindDoughnut,
		Labels:   []string{"A", "B"},
		Values:   []float64{0, 0},
		Tooltips: []string{"A: 0 (NaN%)", "B: 0 (NaN%)"},
	}
	if err := (SVG{}).Render(&buf, frame); err != nil {
		t.Fatalf("zero total should still render: %v", err)
	}
	if !strings.Contains(buf.String(), "A: 0 (NaN%)") {
		t.Fatalf("expected NaN tooltip in svg")
	}
}

func TestRenderLineTooltipPerPoint(t *testing.T) {
	var buf bytes.Buffer
	values := make([]float64, 24)
	tips := make([]string, 24)
	for i := range tips {
		tips[i] = "Hour " + charts.HourLabels()[i] + "\n0 data points"
	}
	frame := charts.Frame{Kind: charts.KindLine, Labels: charts.HourLabels(), Values: values, Tooltips: tips}
	if err := (SVG{}).Render(&buf, frame); err != nil {
		t.Fatalf("render line: %v", err)
	}
	if n := strings.Count(buf.String(), "<title>"); n != 24 {
		t.Fatalf("expected 24 tooltip titles, got %d", n)
	}
	if !strings.Contains(buf.String(), "<title>Hour 07:00") {
		t.Fatalf("hour tooltip missing")
	}
}
