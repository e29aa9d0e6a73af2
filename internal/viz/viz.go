// Package viz renders enumeration runs for debugging: an ECharts HTML
// scatter of candidate grasp points and a gonum/plot PNG of the sweep.
package viz

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/gantry-robotics/graspgen/internal/grasp"
)

// viridis ramp, dark to light
var rampColors = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// ScatterHTML writes an HTML scatter of the candidates' target positions
// projected onto the planning-frame XY plane, colored by rotation angle.
func ScatterHTML(cands []*grasp.Candidate, w io.Writer) error {
	if len(cands) == 0 {
		return fmt.Errorf("no candidates to render")
	}

	data := make([]opts.ScatterData, 0, len(cands))
	maxAbs := 0.0
	minTheta, maxTheta := math.Inf(1), math.Inf(-1)
	for _, c := range cands {
		p := c.Target.Pose.T
		if math.Abs(p.X) > maxAbs {
			maxAbs = math.Abs(p.X)
		}
		if math.Abs(p.Y) > maxAbs {
			maxAbs = math.Abs(p.Y)
		}
		minTheta = math.Min(minTheta, c.Theta)
		maxTheta = math.Max(maxTheta, c.Theta)
		data = append(data, opts.ScatterData{Value: []interface{}{p.X, p.Y, c.Theta}})
	}

	// pad so edge points stay visible; force a square plot
	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}
	if maxTheta == minTheta {
		maxTheta = minTheta + 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Grasp Candidates", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Candidate link poses (XY)", Subtitle: fmt.Sprintf("candidates=%d", len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(minTheta),
			Max:        float32(maxTheta),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: rampColors},
		}),
	)
	scatter.AddSeries("candidates", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	return scatter.Render(w)
}

// SweepPNG saves a PNG plotting the candidates' target X and Y against the
// rotation angle.
func SweepPNG(cands []*grasp.Candidate, path string) error {
	if len(cands) == 0 {
		return fmt.Errorf("no candidates to plot")
	}

	p := plot.New()
	p.Title.Text = "Grasp sweep"
	p.X.Label.Text = "angle (rad)"
	p.Y.Label.Text = "link position (m)"

	xs := make(plotter.XYs, 0, len(cands))
	ys := make(plotter.XYs, 0, len(cands))
	for _, c := range cands {
		xs = append(xs, plotter.XY{X: c.Theta, Y: c.Target.Pose.T.X})
		ys = append(ys, plotter.XY{X: c.Theta, Y: c.Target.Pose.T.Y})
	}

	xLine, err := plotter.NewLine(xs)
	if err != nil {
		return fmt.Errorf("failed to build X series: %w", err)
	}
	xLine.Width = vg.Points(1)
	yLine, err := plotter.NewLine(ys)
	if err != nil {
		return fmt.Errorf("failed to build Y series: %w", err)
	}
	yLine.Width = vg.Points(1)
	yLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(xLine, yLine)
	p.Legend.Add("x", xLine)
	p.Legend.Add("y", yLine)

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
