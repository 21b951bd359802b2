package monitor

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/stride-data/gait.report/internal/gait"
)

// SignalPlotter writes PNG plots of engine results for offline tuning runs,
// one file per engine label. Unlike the HTML chart it needs no browser, so it
// slots into batch comparisons over recorded walks.
type SignalPlotter struct {
	outputDir string
}

// NewSignalPlotter creates the output directory if needed.
func NewSignalPlotter(outputDir string) (*SignalPlotter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &SignalPlotter{outputDir: outputDir}, nil
}

// Plot renders one result to <outputDir>/signal_<engine>.png and returns the
// file path.
func (sp *SignalPlotter) Plot(res *gait.Result) (string, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Ankle separation (%s)", res.Engine)
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "normalized separation"

	rawPts := make(plotter.XYs, 0, len(res.Signal))
	for _, s := range res.Signal {
		rawPts = append(rawPts, plotter.XY{X: s.TimeSecs, Y: s.Value})
	}
	smoothPts := make(plotter.XYs, 0, len(res.Smoothed))
	for _, s := range res.Smoothed {
		smoothPts = append(smoothPts, plotter.XY{X: s.TimeSecs, Y: s.Value})
	}
	peakPts := make(plotter.XYs, 0, len(res.Peaks))
	for _, pk := range res.Peaks {
		peakPts = append(peakPts, plotter.XY{X: pk.TimeSecs, Y: pk.Value})
	}

	rawLine, err := plotter.NewLine(rawPts)
	if err != nil {
		return "", fmt.Errorf("raw line: %w", err)
	}
	rawLine.Width = vg.Points(1)
	rawLine.Color = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	p.Add(rawLine)
	p.Legend.Add("signal", rawLine)

	smoothLine, err := plotter.NewLine(smoothPts)
	if err != nil {
		return "", fmt.Errorf("smoothed line: %w", err)
	}
	smoothLine.Width = vg.Points(1.5)
	smoothLine.Color = color.RGBA{R: 30, G: 90, B: 200, A: 255}
	p.Add(smoothLine)
	p.Legend.Add("smoothed", smoothLine)

	duration := res.Signal.Duration()
	thLine, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: res.Threshold},
		{X: duration, Y: res.Threshold},
	})
	if err != nil {
		return "", fmt.Errorf("threshold line: %w", err)
	}
	thLine.Width = vg.Points(1)
	thLine.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	thLine.Color = color.RGBA{R: 200, G: 160, B: 0, A: 255}
	p.Add(thLine)
	p.Legend.Add("threshold", thLine)

	if len(peakPts) > 0 {
		peakScatter, err := plotter.NewScatter(peakPts)
		if err != nil {
			return "", fmt.Errorf("peak scatter: %w", err)
		}
		peakScatter.Radius = vg.Points(3)
		peakScatter.Color = color.RGBA{R: 220, G: 50, B: 50, A: 255}
		p.Add(peakScatter)
		p.Legend.Add("peaks", peakScatter)
	}

	out := filepath.Join(sp.outputDir, fmt.Sprintf("signal_%s.png", res.Engine))
	if err := p.Save(14*vg.Inch, 6*vg.Inch, out); err != nil {
		return "", fmt.Errorf("save plot: %w", err)
	}
	return out, nil
}
