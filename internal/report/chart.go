package report

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/jskimlam/iranwar-simulation/internal/models"
)

// Palette matching the dashboard the CSV feeds.
var (
	colorMarket = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	colorCost   = color.RGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff}
	colorTarget = color.RGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}
	colorMargin = color.RGBA{R: 0x10, G: 0xb9, B: 0x81, A: 0xff}
)

// WriteChart renders the two-panel profitability chart as a PNG at the given
// DPI. Panel one compares the SM market price against the manufacturing
// cost; panel two compares the target margin against the actual margin with
// a dashed reference line at the target. Rendering or write failures are
// returned to the caller and are fatal to the run.
func WriteChart(path string, dpi int, snap *models.Snapshot, targetMargin float64) error {
	left, err := barPanel(
		fmt.Sprintf("SM Profitability | Margin %+.1f $/t", snap.Margin),
		[2]string{"SM Market Price", "SM Mfg Cost"},
		[2]float64{snap.SMMarket, snap.SMCost},
		[2]color.Color{colorMarket, colorCost},
	)
	if err != nil {
		return fmt.Errorf("failed to build price panel: %w", err)
	}

	marginColor := color.Color(colorMargin)
	if snap.Margin < targetMargin {
		marginColor = colorCost
	}
	right, err := barPanel(
		fmt.Sprintf("Margin vs Target (%s)", snap.Status),
		[2]string{"Target Margin", "Actual Margin"},
		[2]float64{targetMargin, snap.Margin},
		[2]color.Color{colorTarget, marginColor},
	)
	if err != nil {
		return fmt.Errorf("failed to build margin panel: %w", err)
	}

	target, err := plotter.NewLine(plotter.XYs{{X: -0.5, Y: targetMargin}, {X: 1.5, Y: targetMargin}})
	if err != nil {
		return fmt.Errorf("failed to build target line: %w", err)
	}
	target.LineStyle.Color = colorTarget
	target.LineStyle.Width = vg.Points(1)
	target.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	right.Add(target)

	img := vgimg.NewWith(vgimg.UseWH(12*vg.Inch, 5*vg.Inch), vgimg.UseDPI(dpi))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1, Cols: 2,
		PadX:    vg.Millimeter * 4,
		PadTop:  vg.Millimeter * 2,
		PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
	}
	canvases := plot.Align([][]*plot.Plot{{left, right}}, tiles, dc)
	left.Draw(canvases[0][0])
	right.Draw(canvases[0][1])

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode chart: %w", err)
	}
	return f.Close()
}

// barPanel builds one two-bar panel with one-decimal value labels. Each bar
// is drawn by its own BarChart padded with a zero-height slot so the two
// bars can carry distinct colors on the shared nominal axis.
func barPanel(title string, names [2]string, values [2]float64, colors [2]color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "$/mt"

	width := vg.Points(45)
	for i := 0; i < 2; i++ {
		padded := make(plotter.Values, 2)
		padded[i] = values[i]
		bars, err := plotter.NewBarChart(padded, width)
		if err != nil {
			return nil, err
		}
		bars.Color = colors[i]
		bars.LineStyle.Width = 0
		p.Add(bars)
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs: []plotter.XY{
			{X: 0, Y: values[0]},
			{X: 1, Y: values[1]},
		},
		Labels: []string{
			fmt.Sprintf("%.1f", values[0]),
			fmt.Sprintf("%.1f", values[1]),
		},
	})
	if err != nil {
		return nil, err
	}
	p.Add(labels)

	p.NominalX(names[0], names[1])
	return p, nil
}
