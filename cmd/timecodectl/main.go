package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/dvstimecode/timecode"
	"github.com/dvstimecode/timecode/internal/pacing"
	"github.com/dvstimecode/timecode/internal/scope"
	"github.com/dvstimecode/timecode/internal/wavio"
)

func main() {
	app := cli.NewApp()
	app.Name = "timecodectl"
	app.Description = "Generate and decode timecode vinyl / DVS control signals"
	app.Usage = "timecodectl <generate|decode> [options]"
	app.Version = "1.0.0"
	app.Commands = []cli.Command{
		{
			Name:  "generate",
			Usage: "synthesize a timecode signal to a WAV file",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "format", Value: "serato", Usage: "timecode format (only \"serato\" is built in)"},
				cli.IntFlag{Name: "rate", Value: 44100, Usage: "sample rate in Hz"},
				cli.Float64Flag{Name: "seconds", Value: 5, Usage: "duration to generate, in seconds"},
				cli.StringFlag{Name: "out", Usage: "output WAV path"},
			},
			Action: runGenerate,
		},
		{
			Name:  "decode",
			Usage: "decode a timecode WAV file and print position/direction/pitch events",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "in", Usage: "input WAV path"},
				cli.StringFlag{Name: "format", Value: "serato", Usage: "timecode format (only \"serato\" is built in)"},
				cli.BoolFlag{Name: "scope", Usage: "show a live terminal goniometer instead of printing events"},
			},
			Action: runDecode,
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("timecodectl failed", "error", err)
		os.Exit(1)
	}
}

func resolveFormat(name string) (timecode.TimecodeFormat, error) {
	switch name {
	case "", "serato":
		return timecode.SeratoControlCD100, nil
	default:
		return timecode.TimecodeFormat{}, fmt.Errorf("unknown format %q", name)
	}
}

func runGenerate(c *cli.Context) error {
	format, err := resolveFormat(c.String("format"))
	if err != nil {
		return err
	}

	outPath := c.String("out")
	if outPath == "" {
		cli.ShowCommandHelp(c, "generate")
		return errors.New("no output path provided")
	}

	sampleRate := uint32(c.Int("rate"))
	seconds := c.Float64("seconds")

	gen, err := timecode.NewGenerator(format, float64(sampleRate))
	if err != nil {
		return fmt.Errorf("constructing generator: %w", err)
	}

	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer file.Close()

	w, err := wavio.NewWriter(file, sampleRate)
	if err != nil {
		return fmt.Errorf("writing WAV header: %w", err)
	}

	totalSamples := int(seconds * float64(sampleRate))
	limiter := pacing.NewNoOpLimiter()

	slog.Info("generating timecode signal", "format", c.String("format"), "rate", sampleRate, "seconds", seconds, "out", outPath)

	for i := 0; i < totalSamples; i++ {
		left, right := gen.NextSample()
		if err := w.Write(left, right); err != nil {
			return fmt.Errorf("writing frame %d: %w", i, err)
		}
		limiter.WaitForNextBlock()
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing WAV header: %w", err)
	}

	slog.Info("generation complete", "frames", totalSamples)
	return nil
}

func runDecode(c *cli.Context) error {
	format, err := resolveFormat(c.String("format"))
	if err != nil {
		return err
	}

	inPath := c.String("in")
	if inPath == "" {
		cli.ShowCommandHelp(c, "decode")
		return errors.New("no input path provided")
	}

	file, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inPath, err)
	}
	defer file.Close()

	r, err := wavio.NewReader(file)
	if err != nil {
		return fmt.Errorf("reading WAV header: %w", err)
	}

	dec, err := timecode.New(format, float64(r.SampleRate()))
	if err != nil {
		return fmt.Errorf("constructing decoder: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if c.Bool("scope") {
		return decodeWithScope(ctx, dec, r)
	}
	return decodeToStdout(ctx, dec, r)
}

func decodeToStdout(ctx context.Context, dec *timecode.Timecode, r *wavio.Reader) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		left, right, ok := r.Next()
		if !ok {
			return nil
		}

		ev, fired := dec.ProcessChannels(left, right)
		if !fired {
			continue
		}

		position := "-"
		if ev.HasPosition {
			position = fmt.Sprintf("%d", ev.Position)
		}
		fmt.Printf("bit=%v position=%s direction=%s pitch=%.3f\n", ev.Bit, position, dec.Direction(), dec.Pitch())
	}
}

func decodeWithScope(ctx context.Context, dec *timecode.Timecode, r *wavio.Reader) error {
	sc, err := scope.New()
	if err != nil {
		return fmt.Errorf("opening terminal scope: %w", err)
	}
	defer sc.Close()

	limiter := pacing.NewAdaptiveLimiter(pacing.BlockDuration(64, float64(r.SampleRate())))

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if sc.PollQuit() {
			return nil
		}

		left, right, ok := r.Next()
		if !ok {
			return nil
		}

		ev, _ := dec.ProcessChannels(left, right)
		sc.Draw(scope.DrawEvent{
			Left:        left,
			Right:       right,
			Position:    ev.Position,
			HasPosition: ev.HasPosition,
			Direction:   dec.Direction(),
			Pitch:       dec.Pitch(),
		})
		limiter.WaitForNextBlock()
	}
}
