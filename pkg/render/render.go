// pkg/render/render.go
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/David-Botos/cocoa-report/pkg/model"
)

// Fixed colors per (country, metric) panel
var (
	ColorGhanaYield      = color.RGBA{R: 0x00, G: 0x64, B: 0x00, A: 0xff} // #006400
	ColorIvoryCoastYield = color.RGBA{R: 0xff, G: 0x8c, B: 0x00, A: 0xff} // #FF8C00
	ColorGhanaArea       = color.RGBA{R: 0x3c, G: 0xb3, B: 0x71, A: 0xff} // #3CB371
	ColorIvoryCoastArea  = color.RGBA{R: 0xdc, G: 0x14, B: 0x3c, A: 0xff} // #DC143C
)

// Figure dimensions
const (
	FigureWidth  = 16 * vg.Inch
	FigureHeight = 14 * vg.Inch
)

const (
	figureTitleBase = "Comparative Cocoa Production Analysis: Ghana vs. Ivory Coast"
	typeface        = font.Typeface("Liberation")
	variant         = font.Variant("Sans")
)

// Figure is a 2x2 grid of panels under one bold title
type Figure struct {
	Title  string
	Panels [][]*plot.Plot // [row][col]
	Width  vg.Length
	Height vg.Length
}

// Renderer builds the comparative figure
type Renderer struct {
	logger *zap.Logger
}

// NewRenderer creates a new Renderer
func NewRenderer(logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{logger: logger}
}

// Build assembles the four panels for the Ghana and Ivory Coast series
// Empty series produce empty panels.
func (r *Renderer) Build(ghana, ivoryCoast []model.CleanRecord) (*Figure, error) {
	ghanaYield, err := yieldPanel("Ghana: Cocoa Yield (hg/ha) Over Time", ghana, ColorGhanaYield)
	if err != nil {
		return nil, fmt.Errorf("failed to build Ghana yield panel: %w", err)
	}
	ivoryYield, err := yieldPanel("Ivory Coast: Cocoa Yield (hg/ha) Over Time", ivoryCoast, ColorIvoryCoastYield)
	if err != nil {
		return nil, fmt.Errorf("failed to build Ivory Coast yield panel: %w", err)
	}
	ghanaArea, err := areaPanel("Ghana: Cocoa Area Harvested (ha) by Year", ghana, ColorGhanaArea)
	if err != nil {
		return nil, fmt.Errorf("failed to build Ghana area panel: %w", err)
	}
	ivoryArea, err := areaPanel("Ivory Coast: Cocoa Area Harvested (ha) by Year", ivoryCoast, ColorIvoryCoastArea)
	if err != nil {
		return nil, fmt.Errorf("failed to build Ivory Coast area panel: %w", err)
	}

	minYear, maxYear, ok := model.YearRange(ghana, ivoryCoast)
	figure := &Figure{
		Title: FigureTitle(minYear, maxYear, ok),
		Panels: [][]*plot.Plot{
			{ghanaYield, ivoryYield},
			{ghanaArea, ivoryArea},
		},
		Width:  FigureWidth,
		Height: FigureHeight,
	}

	r.logger.Debug("Built figure",
		zap.String("title", figure.Title),
		zap.Int("ghanaPoints", len(ghana)),
		zap.Int("ivoryCoastPoints", len(ivoryCoast)))

	return figure, nil
}

// FigureTitle returns the figure title, with the year range when one is known
func FigureTitle(minYear, maxYear int, ok bool) string {
	if !ok {
		return figureTitleBase
	}
	return fmt.Sprintf("%s (%d - %d)", figureTitleBase, minYear, maxYear)
}

// Render draws the figure in the given format ("pdf", "png" or "svg") and writes it to w
func (f *Figure) Render(w io.Writer, format string) error {
	if len(f.Panels) == 0 {
		return errors.New("figure has no panels")
	}

	c, err := newCanvas(format, f.Width, f.Height)
	if err != nil {
		return err
	}

	f.draw(draw.New(c))

	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s figure: %w", format, err)
	}
	return nil
}

// draw paints the title band and the panel grid onto dc
func (f *Figure) draw(dc draw.Canvas) {
	titleBand := vg.Inch

	registerTitleFont()

	title := text.Style{
		Color:   color.Black,
		Font:    font.From(titleFont, vg.Points(22)),
		XAlign:  draw.XCenter,
		YAlign:  draw.YCenter,
		Handler: plot.DefaultTextHandler,
	}
	dc.FillText(title, vg.Point{
		X: (dc.Min.X + dc.Max.X) / 2,
		Y: dc.Max.Y - titleBand/2,
	}, f.Title)

	tiles := draw.Tiles{
		Rows:      len(f.Panels),
		Cols:      len(f.Panels[0]),
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(16),
		PadLeft:   vg.Points(16),
		PadRight:  vg.Points(24),
		PadX:      vg.Points(40),
		PadY:      vg.Points(40),
	}

	body := draw.Crop(dc, 0, 0, 0, -titleBand)
	canvases := plot.Align(f.Panels, tiles, body)
	for i := range f.Panels {
		for j, p := range f.Panels[i] {
			p.Draw(canvases[i][j])
		}
	}
}

// newPanel creates a plot with the shared panel styling
func newPanel(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.Padding = vg.Points(8)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = yLabel

	for _, sty := range []*text.Style{
		&p.Title.TextStyle,
		&p.X.Label.TextStyle,
		&p.Y.Label.TextStyle,
		&p.X.Tick.Label,
		&p.Y.Tick.Label,
	} {
		sty.Font.Typeface = typeface
		sty.Font.Variant = variant
	}
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)

	return p
}

// yieldPanel plots yield against year as points, with full gridlines
func yieldPanel(title string, records []model.CleanRecord, c color.Color) (*plot.Plot, error) {
	p := newPanel(title, "Yield (hg/ha)")
	p.Add(plotter.NewGrid())

	if len(records) == 0 {
		return p, nil
	}

	points := make(plotter.XYs, len(records))
	for i, r := range records {
		points[i].X = float64(r.Year)
		points[i].Y = r.Yield
	}

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyle.Color = c
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(3.5)
	p.Add(scatter)

	return p, nil
}

// areaPanel plots area harvested per year as bars, with horizontal gridlines only
func areaPanel(title string, records []model.CleanRecord, c color.Color) (*plot.Plot, error) {
	p := newPanel(title, "Area Harvested (ha)")

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)

	if len(records) == 0 {
		return p, nil
	}

	values := make(plotter.Values, len(records))
	labels := make([]string, len(records))
	for i, r := range records {
		values[i] = r.AreaHarvested
		labels[i] = strconv.Itoa(r.Year)
	}

	bars, err := plotter.NewBarChart(values, barWidth(len(records)))
	if err != nil {
		return nil, err
	}
	bars.Color = c
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return p, nil
}

// barWidth sizes bars so that n of them fit a panel
func barWidth(n int) vg.Length {
	const panelData = 5.5 * vg.Inch
	w := panelData / vg.Length(n) * 0.8
	if limit := vg.Points(20); w > limit {
		return limit
	}
	return w
}
