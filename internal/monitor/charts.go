// Package monitor renders diagnostic views of the detection pipeline: an
// HTML chart of the normalized signal with its threshold and accepted peaks,
// and PNG plots for offline tuning runs.
package monitor

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/stride-data/gait.report/internal/gait"
)

const echartsAssetsPrefix = "https://go-echarts.github.io/go-echarts-assets/assets/"

// SignalChartHandler renders the most recent analysis as an ECharts page:
// raw and smoothed separation signals as lines, the adaptive threshold as a
// flat reference line, and accepted peaks as a scatter overlay. This is a
// debugging-only endpoint (no auth) to eyeball detector behaviour without a
// frontend.
func SignalChartHandler(last func() *gait.Result) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := last()
		if res == nil || len(res.Signal) == 0 {
			http.Error(w, "no analysis available yet", http.StatusNotFound)
			return
		}

		chart, err := RenderSignalChart(res)
		if err != nil {
			Logf("failed to render signal chart: %v", err)
			http.Error(w, fmt.Sprintf("failed to render chart: %v", err), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(chart)
	}
}

// RenderSignalChart builds the HTML document for one result.
func RenderSignalChart(res *gait.Result) ([]byte, error) {
	raw := make([]opts.LineData, 0, len(res.Signal))
	for _, s := range res.Signal {
		raw = append(raw, opts.LineData{Value: []interface{}{s.TimeSecs, s.Value}})
	}
	smoothed := make([]opts.LineData, 0, len(res.Smoothed))
	for _, s := range res.Smoothed {
		smoothed = append(smoothed, opts.LineData{Value: []interface{}{s.TimeSecs, s.Value}})
	}

	duration := res.Signal.Duration()
	threshold := []opts.LineData{
		{Value: []interface{}{0.0, res.Threshold}},
		{Value: []interface{}{duration, res.Threshold}},
	}

	peaks := make([]opts.ScatterData, 0, len(res.Peaks))
	for _, p := range res.Peaks {
		peaks = append(peaks, opts.ScatterData{Value: []interface{}{p.TimeSecs, p.Value}})
	}

	subtitle := fmt.Sprintf("engine=%s steps=%d cadence=%d/min fft=%.2fHz",
		res.Engine, res.Metrics.StepCount, res.Metrics.CadencePerMin, res.Spectral.DominantFreqHz)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Gait Signal", Theme: "dark", Width: "1200px", Height: "600px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: "Ankle Separation Signal", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "t (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "normalized separation", NameLocation: "middle", NameGap: 40}),
	)
	line.AddSeries("signal", raw)
	line.AddSeries("smoothed", smoothed)
	line.AddSeries("threshold", threshold)

	scatter := charts.NewScatter()
	scatter.AddSeries("peaks", peaks,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ff5252"}),
	)
	line.Overlap(scatter)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
