// SPDX-License-Identifier: MIT
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	applog "audiotrim/internal/log"
	"audiotrim/internal/pcm"
	"audiotrim/internal/presets"
	"audiotrim/internal/trim"
	"audiotrim/internal/wav"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// windowFlags are the --start/--end/--preset flags shared by trim, play and select.
type windowFlags struct {
	start  float64
	end    float64
	preset string
}

func (wf *windowFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&wf.start, "start", "s", 0, "Window start in seconds")
	cmd.Flags().Float64VarP(&wf.end, "end", "e", -1, "Window end in seconds (default end of file)")
	cmd.Flags().StringVarP(&wf.preset, "preset", "p", "", "Use a saved window; --start/--end override its bounds")
}

// resolveWindow combines the preset (if any) with explicitly set flags. A negative
// or missing end selects the end of the signal.
func (a *app) resolveWindow(ctx context.Context, cmd *cobra.Command, wf *windowFlags, sig *pcm.Signal) (trim.Window, error) {
	w := trim.Window{Start: 0, End: sig.Seconds()}

	if wf.preset != "" {
		store, err := presets.Open(a.cfg.Presets.Path)
		if err != nil {
			return w, err
		}
		defer store.Close()

		p, err := store.Get(ctx, wf.preset)
		if err != nil {
			return w, err
		}
		w = p.Window
	}

	if cmd.Flags().Changed("start") {
		w.Start = wf.start
	}
	if cmd.Flags().Changed("end") {
		w.End = wf.end
		if wf.end < 0 {
			w.End = sig.Seconds()
		}
	}
	return w, nil
}

func newTrimCommand(a *app) *cobra.Command {
	var (
		wf     windowFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "trim <input.wav>",
		Short: "Write a window of a WAV file as a new 16-bit PCM WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			sig, err := wav.DecodeFile(input)
			if err != nil {
				return err
			}
			w, err := a.resolveWindow(cmd.Context(), cmd, &wf, sig)
			if err != nil {
				return err
			}

			path, out, err := a.writeTrim(input, sig, w, output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d frames, %.3fs)\n",
				path, humanize.Bytes(uint64(len(out.Bytes))), out.Frames, w.Clamp(sig.Seconds()).Seconds())
			return nil
		},
	}

	wf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"Output file (default <output_dir>/<name>-<start>s-<end>s.wav)")
	return cmd
}

// writeTrim trims sig to w and writes the result, acting as the download
// sink of the command line. An empty output path derives the file name from
// the input name and the window.
func (a *app) writeTrim(input string, sig *pcm.Signal, w trim.Window, output string) (string, *trim.Output, error) {
	out, err := trim.Trim(sig, w)
	if err != nil {
		return "", nil, err
	}

	path := output
	if path == "" {
		path = filepath.Join(a.cfg.Trim.OutputDir, trim.OutputName(input, w.Clamp(sig.Seconds())))
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !a.cfg.Trim.Overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return "", nil, fmt.Errorf("%s already exists (set trim.overwrite to replace it)", path)
	}
	if err != nil {
		return "", nil, err
	}
	if _, err := f.Write(out.Bytes); err != nil {
		f.Close()
		return "", nil, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", nil, err
	}

	applog.Infof("trim: %s %v -> %s", input, w, path)
	return path, out, nil
}
