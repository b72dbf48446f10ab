// Package chart draws usage reports with gonum/plot.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"strconv"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"

	"usage-report/internal/usage"
)

// Options sets the page geometry. Zero values fall back to a 10x6 inch page at 100 DPI.
type Options struct {
	Width  vg.Length
	Height vg.Length
	DPI    int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 10 * vg.Inch
	}
	if o.Height <= 0 {
		o.Height = 6 * vg.Inch
	}
	if o.DPI <= 0 {
		o.DPI = 100
	}
	return o
}

// Renderer turns a chart specification into PNG and PDF documents.
type Renderer struct {
	opts Options
}

func NewRenderer(opts Options) *Renderer {
	return &Renderer{opts: opts.withDefaults()}
}

// Render returns the PNG preview and the PDF export of spec.
func (r *Renderer) Render(spec usage.ChartSpec) (png []byte, pdf []byte, err error) {
	png, err = r.PNG(spec)
	if err != nil {
		return nil, nil, err
	}
	pdf, err = r.PDF(spec)
	if err != nil {
		return nil, nil, err
	}
	return png, pdf, nil
}

func (r *Renderer) PNG(spec usage.ChartSpec) ([]byte, error) {
	c := vgimg.NewWith(vgimg.UseWH(r.opts.Width, r.opts.Height), vgimg.UseDPI(r.opts.DPI))
	if err := r.draw(draw.New(c), spec); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) PDF(spec usage.ChartSpec) ([]byte, error) {
	c := vgpdf.New(r.opts.Width, r.opts.Height)
	if err := r.draw(draw.New(c), spec); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) draw(dc draw.Canvas, spec usage.ChartSpec) error {
	p, err := newPlot(spec)
	if err != nil {
		return err
	}

	p.Draw(dc)
	drawAnnotation(p.DataCanvas(dc), spec.Annotation)
	return nil
}

func newPlot(spec usage.ChartSpec) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel
	p.BackgroundColor = color.White

	values := make(plotter.Values, len(spec.Bars))
	names := make([]string, len(spec.Bars))
	points := make(plotter.XYs, len(spec.Bars))
	labels := make([]string, len(spec.Bars))
	maxY := 0.0
	for i, b := range spec.Bars {
		values[i] = b.Minutes
		names[i] = strconv.Itoa(b.Hour)
		points[i] = plotter.XY{X: float64(i), Y: b.Minutes}
		labels[i] = strconv.Itoa(int(b.Minutes))
		if b.Minutes > maxY {
			maxY = b.Minutes
		}
	}
	if len(values) == 0 {
		return nil, errors.New("chart has no bars")
	}

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = colornames.Blue
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)

	// Bar values
	valueLabels, err := plotter.NewLabels(plotter.XYLabels{XYs: points, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("bar labels: %w", err)
	}
	for i := range valueLabels.TextStyle {
		valueLabels.TextStyle[i].XAlign = text.XCenter
		valueLabels.TextStyle[i].YAlign = text.YBottom
		valueLabels.TextStyle[i].Font.Size = vg.Points(8)
	}
	valueLabels.Offset = vg.Point{Y: vg.Points(2)}
	p.Add(valueLabels)

	avg := spec.Average
	line := plotter.NewFunction(func(float64) float64 { return avg })
	line.Color = colornames.Red
	line.Width = vg.Points(1.5)
	line.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("Média: %.2f min", avg), line)
	p.Legend.Top = true

	p.Y.Min = 0
	if maxY < avg {
		maxY = avg
	}
	if maxY <= 0 {
		maxY = 1
	}
	// Headroom for the value labels.
	p.Y.Max = maxY * 1.15
	return p, nil
}

const (
	annotationFontSize = 10
	minAnnotationSize  = 3
	annotationPad      = 6
)

// drawAnnotation puts the summary block in a wheat box at the bottom-left of the data area.
func drawAnnotation(da draw.Canvas, annotation string) {
	if annotation == "" {
		return
	}
	pad := vg.Points(annotationPad)
	width := da.Max.X - da.Min.X
	height := da.Max.Y - da.Min.Y
	origin := vg.Point{
		X: da.Min.X + 0.02*width + pad,
		Y: da.Min.Y + 0.02*height + pad,
	}
	sty := fitAnnotation(annotationStyle(), annotation, da.Max.X-origin.X-2*pad)

	w := sty.Width(annotation)
	h := sty.Height(annotation)
	box := []vg.Point{
		{X: origin.X - pad, Y: origin.Y - pad},
		{X: origin.X + w + pad, Y: origin.Y - pad},
		{X: origin.X + w + pad, Y: origin.Y + h + pad},
		{X: origin.X - pad, Y: origin.Y + h + pad},
	}
	da.FillPolygon(colornames.Wheat, box)
	da.FillText(sty, origin, annotation)
}

func annotationStyle() text.Style {
	fnt := plot.DefaultFont
	fnt.Size = vg.Points(annotationFontSize)
	return text.Style{
		Color:   color.Black,
		Font:    fnt,
		XAlign:  text.XLeft,
		YAlign:  text.YBottom,
		Handler: plot.DefaultTextHandler,
	}
}

// fitAnnotation shrinks the font until the block is at most maxWidth wide.
// The size never drops below minAnnotationSize points.
func fitAnnotation(sty text.Style, annotation string, maxWidth vg.Length) text.Style {
	minSize := vg.Points(minAnnotationSize)
	for i := 0; i < 8; i++ {
		w := sty.Width(annotation)
		if w <= maxWidth || sty.Font.Size <= minSize || w <= 0 {
			break
		}
		size := sty.Font.Size * maxWidth / w * 0.98
		if size < minSize {
			size = minSize
		}
		sty.Font.Size = size
	}
	return sty
}
