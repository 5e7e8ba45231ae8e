// Command vibdiag analyzes accelerometer waveforms and prints a bearing
// fault verdict as JSON.
//
// Usage:
//
//	vibdiag [flags]
//
// Waveforms are CSV files with one acceleration sample (in g) per line;
// supply one file per axis. Without any file the command analyzes a built-in
// demo signal on the horizontal axis.
//
// Examples:
//
//	vibdiag -horizontal h.csv -vertical v.csv -axial a.csv -rpm 2950
//	vibdiag -horizontal h.csv -class III -fmax 1000
//	vibdiag -demo -pretty
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cezzan12/fault-detection/analysis"
	"github.com/cezzan12/fault-detection/dsp/signal"
	"github.com/cezzan12/fault-detection/internal/config"
	"github.com/cezzan12/fault-detection/measure/severity"
)

func main() {
	configFile := flag.String("config", "", "optional config file (overrides environment)")
	horizontal := flag.String("horizontal", "", "CSV waveform for the horizontal axis")
	vertical := flag.String("vertical", "", "CSV waveform for the vertical axis")
	axial := flag.String("axial", "", "CSV waveform for the axial axis")
	rpm := flag.Float64("rpm", 0, "shaft speed in RPM (default from environment)")
	rate := flag.Float64("rate", 0, "sample rate in Hz (default from environment)")
	class := flag.String("class", "", "ISO 10816-3 machine class I-IV (default from environment)")
	fmax := flag.Float64("fmax", 0, "upper spectrum bound in Hz (default from environment)")
	demo := flag.Bool("demo", false, "analyze a built-in demo signal instead of files")
	pretty := flag.Bool("pretty", false, "indent the JSON output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vibdiag [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Analyzes accelerometer waveforms and prints a bearing fault verdict.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := config.Load(*configFile); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	if level, err := zerolog.ParseLevel(config.LogLevel()); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	if *rpm <= 0 {
		*rpm = config.RPM()
	}

	if *rate <= 0 {
		*rate = config.SampleRate()
	}

	if *class == "" {
		*class = config.MachineClass()
	}

	if *fmax <= 0 {
		*fmax = config.FMax()
	}

	base := analysis.Input{
		SampleRate:             *rate,
		RPM:                    *rpm,
		MachineClass:           severity.ParseClass(strings.ToUpper(*class)),
		CutoffHz:               config.CutoffHz(),
		FMax:                   *fmax,
		Calibration:            config.Calibration(),
		FloorNoiseThresholdPct: config.FloorNoiseThresholdPct(),
		FloorNoiseAttenuation:  config.FloorNoiseAttenuation(),
	}

	var in analysis.BearingInput

	if *demo || (*horizontal == "" && *vertical == "" && *axial == "") {
		log.Info().Float64("rpm", *rpm).Float64("rate", *rate).Msg("no waveform files, using demo signal")

		demoIn := base
		demoIn.Samples = demoSignal(*rate, *rpm)
		in.Horizontal = &demoIn
	} else {
		in.Horizontal = loadAxis(*horizontal, base)
		in.Vertical = loadAxis(*vertical, base)
		in.Axial = loadAxis(*axial, base)
	}

	result := analysis.AnalyzeBearing(in)

	for _, axis := range result.Axes {
		if axis.Available {
			log.Info().
				Str("axis", string(axis.Axis)).
				Str("zone", axis.Analysis.Severity.Zone.String()).
				Str("fault", axis.Analysis.Diagnosis.Fault.String()).
				Float64("rms", axis.Analysis.Severity.RMS).
				Msg("axis analyzed")
		} else {
			log.Warn().
				Str("axis", string(axis.Axis)).
				Str("reason", axis.Reason).
				Msg("axis unavailable")
		}
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}

	if err := enc.Encode(result); err != nil {
		log.Fatal().Err(err).Msg("encode result")
	}
}

// loadAxis reads a waveform file into an axis input, or returns nil when no
// path was given. A bad file aborts the run; analysis should never start
// from partially read data.
func loadAxis(path string, base analysis.Input) *analysis.Input {
	if path == "" {
		return nil
	}

	samples, err := readWaveform(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("read waveform")
	}

	log.Debug().Str("file", path).Int("samples", len(samples)).Msg("waveform loaded")

	in := base
	in.Samples = samples

	return &in
}

// readWaveform parses one acceleration sample per line, taking the first
// comma-separated field and skipping blank lines.
func readWaveform(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var samples []float64

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		if i := strings.IndexByte(text, ','); i >= 0 {
			text = text[:i]
		}

		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}

		samples = append(samples, v)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

// demoSignal synthesizes an unbalanced machine: a strong 1x tone with a
// weak 2x and broadband noise.
func demoSignal(sampleRate, rpm float64) []float64 {
	const samples = 20000

	gen, err := signal.NewGenerator(sampleRate, signal.WithSeed(1))
	if err != nil {
		log.Fatal().Err(err).Msg("demo generator")
	}

	running := rpm / 60.0

	fundamental, err := gen.Sine(running, 0.05, samples)
	if err != nil {
		log.Fatal().Err(err).Msg("demo signal")
	}

	second, err := gen.Sine(2*running, 0.005, samples)
	if err != nil {
		log.Fatal().Err(err).Msg("demo signal")
	}

	noise, err := gen.WhiteNoise(0.001, samples)
	if err != nil {
		log.Fatal().Err(err).Msg("demo signal")
	}

	out := make([]float64, samples)
	for i := range out {
		out[i] = fundamental[i] + second[i] + noise[i]
	}

	return out
}
