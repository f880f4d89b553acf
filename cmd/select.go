// SPDX-License-Identifier: MIT
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"audiotrim/internal/audio"
	applog "audiotrim/internal/log"
	"audiotrim/internal/presets"
	"audiotrim/internal/trim"
	"audiotrim/internal/tui"
	"audiotrim/internal/wav"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var errNoTerminal = errors.New("select needs an interactive terminal")

func newSelectCommand(a *app) *cobra.Command {
	var (
		wf         windowFlags
		savePreset string
		noAudio    bool
	)

	cmd := &cobra.Command{
		Use:   "select <input.wav>",
		Short: "Choose a window interactively, then export or save it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return errNoTerminal
			}

			input := args[0]
			sig, err := wav.DecodeFile(input)
			if err != nil {
				return err
			}
			initial, err := a.resolveWindow(cmd.Context(), cmd, &wf, sig)
			if err != nil {
				return err
			}

			opts := tui.Options{
				Width:   a.cfg.TUI.WaveformWidth,
				Step:    a.cfg.TUI.StepSeconds,
				Initial: &initial,
				Export: func(w trim.Window) (string, error) {
					path, _, err := a.writeTrim(input, sig, w, "")
					return path, err
				},
			}

			if !noAudio {
				if err := audio.Initialize(); err != nil {
					applog.Warnf("select: preview disabled: %v", err)
				} else {
					defer audio.Terminate()
					if p, err := audio.NewPlayer(a.cfg.Audio); err != nil {
						applog.Warnf("select: preview disabled: %v", err)
					} else {
						opts.Play = func(w trim.Window) error {
							return playWindow(cmd.Context(), p, sig, w)
						}
					}
				}
			}

			final, err := tui.Run(tui.NewRangeModel(filepath.Base(input), sig, opts))
			if err != nil {
				return err
			}

			w := final.Window()
			fmt.Fprintf(cmd.OutOrStdout(), "selected %v (%.3fs)\n", w, w.Seconds())
			if savePreset != "" {
				return a.savePreset(cmd.Context(), savePreset, w)
			}
			return nil
		},
	}

	wf.register(cmd)
	cmd.Flags().StringVar(&savePreset, "save-preset", "", "Save the final selection under this preset name")
	cmd.Flags().BoolVar(&noAudio, "no-audio", false, "Disable playback preview")
	return cmd
}

func (a *app) savePreset(ctx context.Context, name string, w trim.Window) error {
	store, err := presets.Open(a.cfg.Presets.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Save(ctx, presets.Preset{Name: name, Window: w})
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
