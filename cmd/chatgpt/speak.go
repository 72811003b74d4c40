package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dv-team/chatgpt-go/pkg/provider/openai"
)

func newSpeakCmd(a *app) *cobra.Command {
	var (
		voice        string
		speed        float64
		format       string
		instructions string
		model        string
		out          string
	)

	cmd := &cobra.Command{
		Use:   "speak <text>",
		Short: "Convert text to speech",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oa, err := newOpenAI(a.cfg, a.logger)
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			audio, err := oa.TextToSpeech(ctx, strings.Join(args, " "),
				openai.WithSpeed(speed),
				openai.WithVoice(voice),
				openai.WithAudioFormat(format),
				openai.WithInstructions(instructions),
				openai.WithSpeechModel(model),
			)
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(audio)
				return err
			}
			if err := os.WriteFile(out, audio, 0o644); err != nil {
				return fmt.Errorf("failed to write audio: %w", err)
			}
			a.logger.WithField("bytes", len(audio)).Infof("audio written to %s", out)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&voice, "voice", "", "Voice (default alloy)")
	f.Float64Var(&speed, "speed", 1.0, "Speed between 0.25 and 4.0")
	f.StringVar(&format, "format", "", "Audio format: wav, mp3, opus, aac, flac, pcm")
	f.StringVar(&instructions, "instructions", "", "Speaking style instructions")
	f.StringVar(&model, "model", "", "Speech model")
	f.StringVarP(&out, "out", "o", "", "Output file (default: stdout)")
	return cmd
}
