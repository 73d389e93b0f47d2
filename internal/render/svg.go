// Package render draws chart frames as SVG images.
package render

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"dashsync/internal/charts"
)

var (
	// ErrEmptyFrame is returned for frames without any drawable value.
	ErrEmptyFrame = errors.New("frame has nothing to draw")
	// ErrUnknownKind is returned for frames of an unsupported chart kind.
	ErrUnknownKind = errors.New("unknown chart kind")
)

// Palette mirrors the dashboard's theme colors in slice order.
var Palette = []drawing.Color{
	drawing.ColorFromHex("0d6efd"),
	drawing.ColorFromHex("198754"),
	drawing.ColorFromHex("0dcaf0"),
	drawing.ColorFromHex("ffc107"),
	drawing.ColorFromHex("dc3545"),
	drawing.ColorFromHex("6c757d"),
	drawing.ColorFromHex("f8f9fa"),
	drawing.ColorFromHex("212529"),
}

// SVG renders frames with go-chart.
type SVG struct {
	Width  int
	Height int
}

// Render writes f to w as an SVG document. The frame's tooltips become
// <title> elements: one hover column per point on line charts, one area
// over the whole doughnut.
func (s SVG) Render(w io.Writer, f charts.Frame) error {
	if len(f.Values) == 0 {
		return ErrEmptyFrame
	}
	var buf bytes.Buffer
	var err error
	switch f.Kind {
	case charts.KindLine:
		err = s.line(&buf, f)
	case charts.KindDoughnut:
		err = s.doughnut(&buf, f)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, f.Kind)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(s.withTooltips(buf.Bytes(), f))
	return err
}

func (s SVG) withTooltips(doc []byte, f charts.Frame) []byte {
	if len(f.Tooltips) == 0 {
		return doc
	}
	width, height := s.size()
	var g bytes.Buffer
	g.WriteString(`<g class="tooltips">`)
	switch f.Kind {
	case charts.KindLine:
		col := float64(width) / float64(len(f.Values))
		for i := range f.Values {
			if i >= len(f.Tooltips) {
				break
			}
			fmt.Fprintf(&g, `<rect x="%.2f" y="0" width="%.2f" height="%d" fill="#000" fill-opacity="0"><title>`, float64(i)*col, col, height)
			_ = xml.EscapeText(&g, []byte(f.Tooltips[i]))
			g.WriteString(`</title></rect>`)
		}
	default:
		fmt.Fprintf(&g, `<rect x="0" y="0" width="%d" height="%d" fill="#000" fill-opacity="0"><title>`, width, height)
		_ = xml.EscapeText(&g, []byte(strings.Join(f.Tooltips, "\n")))
		g.WriteString(`</title></rect>`)
	}
	g.WriteString(`</g>`)

	end := bytes.LastIndex(doc, []byte("</svg>"))
	if end < 0 {
		return append(doc, g.Bytes()...)
	}
	out := make([]byte, 0, len(doc)+g.Len())
	out = append(out, doc[:end]...)
	out = append(out, g.Bytes()...)
	return append(out, doc[end:]...)
}

func (s SVG) size() (int, int) {
	width, height := s.Width, s.Height
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 300
	}
	return width, height
}

func (s SVG) line(w io.Writer, f charts.Frame) error {
	width, height := s.size()
	xs := make([]float64, len(f.Values))
	ticks := make([]chart.Tick, 0, len(f.Values))
	maxY := 1.0
	for i, v := range f.Values {
		xs[i] = float64(i)
		if v > maxY {
			maxY = v
		}
		if i < len(f.Labels) && i%3 == 0 {
			ticks = append(ticks, chart.Tick{Value: float64(i), Label: f.Labels[i]})
		}
	}
	primary := Palette[0]
	graph := chart.Chart{
		Width:  width,
		Height: height,
		XAxis:  chart.XAxis{Ticks: ticks},
		// go-chart refuses a zero-height range, which an all-zero series would produce.
		YAxis: chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: maxY}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    f.Title,
				XValues: xs,
				YValues: f.Values,
				Style: chart.Style{
					StrokeColor: primary,
					StrokeWidth: 2,
					FillColor:   primary.WithAlpha(26),
					DotWidth:    3,
					DotColor:    primary,
				},
			},
		},
	}
	return graph.Render(chart.SVG, w)
}

func (s SVG) doughnut(w io.Writer, f charts.Frame) error {
	width, height := s.size()
	var total float64
	for _, v := range f.Values {
		total += v
	}
	values := make([]chart.Value, 0, len(f.Values))
	for i, v := range f.Values {
		label := ""
		if i < len(f.Tooltips) {
			label = f.Tooltips[i]
		} else if i < len(f.Labels) {
			label = f.Labels[i]
		}
		// A non-positive total has no proportions; slices are drawn evenly
		// and keep their (NaN) tooltip text.
		if total <= 0 {
			v = 1
		}
		values = append(values, chart.Value{
			Value: v,
			Label: label,
			Style: chart.Style{FillColor: Palette[i%len(Palette)]},
		})
	}
	donut := chart.DonutChart{
		Width:  width,
		Height: height,
		Values: values,
	}
	return donut.Render(chart.SVG, w)
}
