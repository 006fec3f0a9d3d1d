package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/justestif/moodtunes/internal/capture"
	"github.com/justestif/moodtunes/internal/detect"
	"github.com/justestif/moodtunes/internal/mood"
	"github.com/justestif/moodtunes/internal/playlist"
	"github.com/justestif/moodtunes/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the detection API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if addr == "" {
				addr = a.cfg.HTTPAddress
			}

			server, err := web.NewServer(web.ServerConfig{
				Addr:    addr,
				Service: svc,
				Logger:  a.logger,
			})
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}

			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http_address)")
	return cmd
}

func newTextCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "text [sentence...]",
		Short: "Detect a mood from text",
		Long: `Detect a mood from a sentence. The sentence is read from the arguments,
or from standard input when none are given.`,
		Example: `  moodtunes text "I am so happy today"
  echo "feeling a bit down" | moodtunes text`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(a.in)
				if err != nil {
					return fmt.Errorf("reading text: %w", err)
				}
				text = string(data)
			}

			svc, cleanup, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := svc.FromText(text)
			if err != nil {
				return err
			}
			return printResponse(cmd.Context(), a.out, resp, format)
		},
	}

	cmd.Flags().StringVar(&format, "link-format", playlist.YouTubeWatchURL, "printf format turning a content id into a link")
	return cmd
}

func newFaceCmd(a *app) *cobra.Command {
	var (
		file   string
		noFace bool
		delay  time.Duration
		format string
	)

	cmd := &cobra.Command{
		Use:   "face",
		Short: "Detect a mood from facial expression probabilities",
		Long: `Detect a mood from the output of a facial-expression model, given as JSON:
either {"happy": 0.9, "neutral": 0.1} or
[{"expression": "happy", "probability": 0.9}].

The signal is read once after the capture delay, like a webcam snapshot.`,
		Example: `  moodtunes face --file snapshot.json
  moodtunes face --delay 0 < snapshot.json
  moodtunes face --no-face`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if noFace {
				fmt.Fprintln(a.out, "No face detected. Please try again.")
				return nil
			}

			if !cmd.Flags().Changed("delay") {
				delay = a.cfg.CaptureDelay
			}

			svc, cleanup, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			scheduler := capture.New(capture.WithDelay(delay))
			if delay > 0 {
				a.logger.Info().Dur("delay", delay).Msg("Capturing...")
			}

			return scheduler.Trigger(cmd.Context(), func(ctx context.Context) error {
				signal, err := a.readSignal(file)
				if err != nil {
					return err
				}

				resp, err := svc.FromExpressions(signal)
				if err != nil {
					return err
				}
				return printResponse(ctx, a.out, resp, format)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "signal JSON file, - for standard input")
	cmd.Flags().BoolVar(&noFace, "no-face", false, "report that no face was found")
	cmd.Flags().DurationVar(&delay, "delay", capture.DefaultDelay, "wait before capturing (defaults to capture_delay)")
	cmd.Flags().StringVar(&format, "link-format", playlist.YouTubeWatchURL, "printf format turning a content id into a link")
	return cmd
}

// readSignal decodes an expression signal from path, or from stdin for "-".
func (a *app) readSignal(path string) (mood.ExpressionSignal, error) {
	r := a.in
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening signal: %w", err)
		}
		defer f.Close()
		r = f
	}

	var signal mood.ExpressionSignal
	if err := json.NewDecoder(r).Decode(&signal); err != nil {
		return nil, fmt.Errorf("decoding signal: %w", err)
	}
	return signal, nil
}

// printResponse writes the detected mood followed by its content links.
func printResponse(ctx context.Context, w io.Writer, resp detect.Response, format string) error {
	r := resp.Result
	fmt.Fprintf(w, "Detected mood: %s %s (via %s)", r.Mood.Title(), r.Mood.Emoji(), r.Source.Label())
	if r.Confidence != nil {
		fmt.Fprintf(w, ", confidence %.0f%%", *r.Confidence*100)
	}
	fmt.Fprintln(w)

	_, err := playlist.NewLinkSink(w, format).Publish(ctx, r.Mood, resp.Content)
	return err
}
