package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"qualigap/internal/fileutil"
)

// Style controls figure geometry and colors. Sizes are in inches and font
// sizes in points, converted to pixels through DPI.
type Style struct {
	WidthInches   float64
	HeightInches  float64
	DPI           float64
	FontSize      float64
	TitleFontSize float64
	BarColor      string
	Background    string
}

// Data is the content of one bar chart.
type Data struct {
	Title  string
	YLabel string
	Labels []string
	Values []float64
}

const (
	// DefaultYLabel is the value axis caption.
	DefaultYLabel = "Average Qualifying Gap to Teammate (s)"

	barWidthFraction  = 0.8
	annotationDivisor = 25
	targetTicks       = 6
)

var (
	textColor     = color.White
	zeroLineColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}

	loadFont = sync.OnceValues(func() (*truetype.Font, error) {
		return truetype.Parse(goregular.TTF)
	})
)

// Render draws the chart as PNG to w.
func Render(w io.Writer, data Data, style Style) error {
	if len(data.Labels) != len(data.Values) {
		return fmt.Errorf("chart has %d labels for %d values", len(data.Labels), len(data.Values))
	}
	if style.WidthInches <= 0 || style.HeightInches <= 0 || style.DPI <= 0 {
		return errors.New("chart size and dpi must be positive")
	}
	if style.FontSize <= 0 || style.TitleFontSize <= 0 {
		return errors.New("chart font sizes must be positive")
	}
	barColor, err := ParseColor(style.BarColor)
	if err != nil {
		return fmt.Errorf("bar color: %w", err)
	}
	background, err := ParseColor(style.Background)
	if err != nil {
		return fmt.Errorf("background color: %w", err)
	}
	regular, err := loadFont()
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}

	r := &renderer{
		style:     style,
		data:      data,
		limit:     AxisLimit(data.Values),
		barColor:  barColor,
		textFace:  truetype.NewFace(regular, &truetype.Options{Size: style.FontSize, DPI: style.DPI, Hinting: font.HintingFull}),
		titleFace: truetype.NewFace(regular, &truetype.Options{Size: style.TitleFontSize, DPI: style.DPI, Hinting: font.HintingFull}),
	}
	width := int(math.Round(style.WidthInches * style.DPI))
	height := int(math.Round(style.HeightInches * style.DPI))
	r.dc = gg.NewContext(width, height)
	r.dc.SetColor(background)
	r.dc.Clear()

	if err := r.layout(); err != nil {
		return err
	}
	r.drawBars()
	r.drawAxes()
	r.drawAnnotations()
	r.drawTitles()
	return r.dc.EncodePNG(w)
}

// RenderFile renders the chart to path, replacing any previous file
// atomically.
func RenderFile(path string, data Data, style Style) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Render(w, data, style)
	})
}

type renderer struct {
	dc        *gg.Context
	style     Style
	data      Data
	limit     float64
	barColor  color.Color
	textFace  font.Face
	titleFace font.Face

	ticks     []float64
	tickStep  float64
	pad       float64
	tickLen   float64
	lineWidth float64

	// plot area in pixels
	left, right, top, bottom float64
}

func (r *renderer) px(points float64) float64 {
	return points * r.style.DPI / 72
}

func (r *renderer) layout() error {
	dc := r.dc
	r.pad = r.px(6)
	r.tickLen = r.px(3.5)
	r.lineWidth = r.px(0.8)
	r.ticks, r.tickStep = Ticks(r.limit, targetTicks)

	dc.SetFontFace(r.textFace)
	textHeight := dc.FontHeight()
	var tickWidth float64
	for _, tick := range r.ticks {
		if w, _ := dc.MeasureString(FormatTick(tick, r.tickStep)); w > tickWidth {
			tickWidth = w
		}
	}
	var labelExtent float64
	for _, label := range r.data.Labels {
		w, h := dc.MeasureString(label)
		if extent := (w + h) * math.Sqrt2 / 2; extent > labelExtent {
			labelExtent = extent
		}
	}
	dc.SetFontFace(r.titleFace)
	titleHeight := dc.FontHeight()

	r.left = r.pad + textHeight + 2*r.pad + tickWidth + r.tickLen
	r.right = float64(dc.Width()) - 2*r.pad
	r.top = r.pad + titleHeight + 2*r.pad
	r.bottom = float64(dc.Height()) - (r.tickLen + 2*r.pad + labelExtent)
	if r.right-r.left < 1 || r.bottom-r.top < 1 {
		return fmt.Errorf("figure %gx%g in too small for its labels", r.style.WidthInches, r.style.HeightInches)
	}
	return nil
}

// y maps a value to a pixel row: zero sits on the bottom edge and the axis
// limit on the top edge.
func (r *renderer) y(value float64) float64 {
	return r.bottom - (value/r.limit)*(r.bottom-r.top)
}

func (r *renderer) slot() float64 {
	return (r.right - r.left) / float64(len(r.data.Values))
}

func (r *renderer) barCenter(i int) float64 {
	return r.left + r.slot()*(float64(i)+0.5)
}

func (r *renderer) drawBars() {
	if len(r.data.Values) == 0 {
		return
	}
	dc := r.dc
	dc.Push()
	dc.DrawRectangle(r.left, r.top, r.right-r.left, r.bottom-r.top)
	dc.Clip()
	barWidth := r.slot() * barWidthFraction
	dc.SetColor(r.barColor)
	for i, value := range r.data.Values {
		end := r.y(value)
		top := math.Min(end, r.bottom)
		dc.DrawRectangle(r.barCenter(i)-barWidth/2, top, barWidth, math.Abs(r.bottom-end))
		dc.Fill()
	}
	dc.ResetClip()
	dc.Pop()
}

func (r *renderer) drawAxes() {
	dc := r.dc
	dc.SetLineWidth(r.lineWidth)

	dc.SetColor(textColor)
	dc.DrawRectangle(r.left, r.top, r.right-r.left, r.bottom-r.top)
	dc.Stroke()

	dc.SetColor(zeroLineColor)
	dc.DrawLine(r.left, r.y(0), r.right, r.y(0))
	dc.Stroke()

	dc.SetFontFace(r.textFace)
	dc.SetColor(textColor)
	for _, tick := range r.ticks {
		py := r.y(tick)
		dc.DrawLine(r.left-r.tickLen, py, r.left, py)
		dc.Stroke()
		dc.DrawStringAnchored(FormatTick(tick, r.tickStep), r.left-r.tickLen-r.pad, py, 1, 0.5)
	}

	for i, label := range r.data.Labels {
		cx := r.barCenter(i)
		dc.DrawLine(cx, r.bottom, cx, r.bottom+r.tickLen)
		dc.Stroke()

		w, h := dc.MeasureString(label)
		cy := r.bottom + r.tickLen + r.pad + (w+h)*math.Sqrt2/4
		dc.Push()
		dc.RotateAbout(gg.Radians(-45), cx, cy)
		dc.DrawStringAnchored(label, cx, cy, 0.5, 0.5)
		dc.Pop()
	}
}

func (r *renderer) drawAnnotations() {
	dc := r.dc
	dc.SetFontFace(r.textFace)
	dc.SetColor(textColor)
	offset := r.limit / annotationDivisor
	for i, value := range r.data.Values {
		dc.DrawStringAnchored(FormatValue(value), r.barCenter(i), r.y(value+offset), 0.5, 1)
	}
}

func (r *renderer) drawTitles() {
	dc := r.dc
	dc.SetColor(textColor)

	dc.SetFontFace(r.titleFace)
	dc.DrawStringAnchored(r.data.Title, (r.left+r.right)/2, r.pad, 0.5, 1)

	if r.data.YLabel == "" {
		return
	}
	dc.SetFontFace(r.textFace)
	cx := r.pad + dc.FontHeight()/2
	cy := (r.top + r.bottom) / 2
	dc.Push()
	dc.RotateAbout(gg.Radians(-90), cx, cy)
	dc.DrawStringAnchored(r.data.YLabel, cx, cy, 0.5, 0.5)
	dc.Pop()
}
