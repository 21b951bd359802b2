// Command gen-walk generates synthetic walk recordings for testing the
// analysis pipeline without a pose-estimation frontend.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math"
	"math/rand"
	"os"

	"github.com/stride-data/gait.report/internal/gait"
)

func main() {
	output := flag.String("o", "walk.json", "output path")
	cadence := flag.Float64("cadence", 100, "steps per minute")
	duration := flag.Float64("duration", 20, "recording length in seconds")
	fps := flag.Float64("fps", 30, "frames per second")
	height := flag.Float64("height", 170, "subject height in cm")
	noise := flag.Float64("noise", 0, "uniform coordinate noise amplitude")
	occludeFrom := flag.Float64("occlude-from", -1, "start of ankle occlusion window in seconds (-1 disables)")
	occludeTo := flag.Float64("occlude-to", -1, "end of ankle occlusion window in seconds")
	seed := flag.Int64("seed", 1, "noise RNG seed")
	flag.Parse()

	rec := generate(*cadence, *duration, *fps, *height, *noise, *occludeFrom, *occludeTo, *seed)

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("create %s: %v", *output, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", " ")
	if err := enc.Encode(rec); err != nil {
		log.Fatalf("encode recording: %v", err)
	}
	log.Printf("✓ Created: %s (%d frames, %.1fs at %.0f/min)", *output, len(rec.Frames), *duration, *cadence)
}

// generate builds a clean rectified-sine walk: ankle separation oscillates at
// the step frequency, heels alternate lifting with each stride.
func generate(cadencePerMin, durationSecs, fps, heightCm, noise, occludeFrom, occludeTo float64, seed int64) gait.Recording {
	stepHz := cadencePerMin / 60.0
	strideHz := stepHz / 2
	rng := rand.New(rand.NewSource(seed))
	jitter := func() float64 {
		if noise == 0 {
			return 0
		}
		return (rng.Float64()*2 - 1) * noise
	}

	n := int(durationSecs * fps)
	frames := make([]gait.Frame, n)
	for i := 0; i < n; i++ {
		t := float64(i) / fps
		swing := 0.06 * math.Abs(math.Sin(math.Pi*stepHz*t))

		ankleVis := 0.9
		if occludeFrom >= 0 && t >= occludeFrom && t < occludeTo {
			ankleVis = 0.1
		}

		frames[i] = gait.Frame{
			Index:         i,
			TimestampSecs: t,
			Landmarks: map[gait.Landmark]gait.Point{
				gait.Nose:          {X: 0.5 + jitter(), Y: 0.20 + jitter(), Visibility: 0.95},
				gait.LeftShoulder:  {X: 0.42 + jitter(), Y: 0.35 + jitter(), Visibility: 0.95},
				gait.RightShoulder: {X: 0.58 + jitter(), Y: 0.35 + jitter(), Visibility: 0.95},
				gait.LeftHip:       {X: 0.45 + jitter(), Y: 0.55 + jitter(), Visibility: 0.9},
				gait.RightHip:      {X: 0.55 + jitter(), Y: 0.55 + jitter(), Visibility: 0.9},
				gait.LeftAnkle:     {X: 0.5 - (0.04 + swing/2) + jitter(), Y: 0.88 + jitter(), Visibility: ankleVis},
				gait.RightAnkle:    {X: 0.5 + (0.04 + swing/2) + jitter(), Y: 0.88 + jitter(), Visibility: ankleVis},
				gait.LeftHeel:      {X: 0.46 + jitter(), Y: 0.88 - math.Max(0, 0.03*math.Sin(2*math.Pi*strideHz*t)) + jitter(), Visibility: 0.9},
				gait.RightHeel:     {X: 0.54 + jitter(), Y: 0.88 - math.Max(0, -0.03*math.Sin(2*math.Pi*strideHz*t)) + jitter(), Visibility: 0.9},
			},
		}
	}
	return gait.Recording{Frames: frames, SubjectHeightCm: heightCm, DurationSecs: durationSecs}
}
