// Command engine-compare runs every configured detector tuning over one
// recorded walk and prints the per-engine metrics side by side, so threshold
// and spacing changes can be evaluated offline before touching the service
// config.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/stride-data/gait.report/internal/config"
	"github.com/stride-data/gait.report/internal/gait"
	"github.com/stride-data/gait.report/internal/monitor"
	"github.com/stride-data/gait.report/internal/units"
)

func main() {
	input := flag.String("in", "walk.json", "recording JSON path")
	tuningPath := flag.String("config", "", "tuning config JSON (defaults to built-in tunings)")
	plotDir := flag.String("plot", "", "write per-engine PNG plots to this directory")
	lengthUnits := flag.String("units", units.CM, "display units for spatial metrics ("+units.GetValidUnitsString()+")")
	flag.Parse()

	if !units.IsValid(*lengthUnits) {
		log.Fatalf("invalid units %q, valid values: %s", *lengthUnits, units.GetValidUnitsString())
	}

	rec, err := loadRecording(*input)
	if err != nil {
		log.Fatalf("load recording: %v", err)
	}

	tuning := config.EmptyTuningConfig()
	if *tuningPath != "" {
		tuning, err = config.LoadTuningConfig(*tuningPath)
		if err != nil {
			log.Fatalf("load tuning: %v", err)
		}
	}
	primary, secondary := tuning.EngineConfigs()

	results := make([]gait.Result, 0, 2)
	for _, cfg := range []gait.Config{primary, secondary} {
		res, err := gait.Analyze(rec, cfg)
		if err != nil {
			log.Fatalf("engine %q: %v", cfg.Label, err)
		}
		results = append(results, res)
	}
	reconciled := gait.ReconcileHighest(results)

	fmt.Printf("%-8s %6s %8s %10s %10s %9s %9s %8s\n",
		"engine", "steps", "cadence", "interval_s", "var_ms",
		"bos_"+*lengthUnits, "heel_"+*lengthUnits, "fft_hz")
	for _, res := range results {
		printRow(res, *lengthUnits)
	}
	fmt.Println("---")
	fmt.Printf("reconciled: %s (%d steps)\n", reconciled.Engine, reconciled.Metrics.StepCount)

	if *plotDir != "" {
		sp, err := monitor.NewSignalPlotter(*plotDir)
		if err != nil {
			log.Fatalf("plotter: %v", err)
		}
		for i := range results {
			out, err := sp.Plot(&results[i])
			if err != nil {
				log.Fatalf("plot %q: %v", results[i].Engine, err)
			}
			log.Printf("✓ Wrote: %s", out)
		}
	}
}

func printRow(res gait.Result, lengthUnits string) {
	m := res.Metrics
	fmt.Printf("%-8s %6d %8d %10.3f %10.1f %9.1f %9.1f %8.2f\n",
		res.Engine, m.StepCount, m.CadencePerMin, m.MeanStepIntervalSecs,
		m.StepTimeVariabilityMs,
		units.ConvertLength(m.AvgBaseOfSupportCm, lengthUnits),
		units.ConvertLength(m.AvgHeelLiftCm, lengthUnits),
		res.Spectral.DominantFreqHz)
}

func loadRecording(path string) (gait.Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return gait.Recording{}, err
	}
	defer f.Close()

	var rec gait.Recording
	if err := json.NewDecoder(f).Decode(&rec); err != nil {
		return gait.Recording{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return rec, nil
}
