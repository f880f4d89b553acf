// SPDX-License-Identifier: MIT
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"audiotrim/internal/audio"
	"audiotrim/internal/config"
	applog "audiotrim/internal/log"
	"audiotrim/internal/pcm"
	"audiotrim/internal/trim"
	"audiotrim/internal/wav"

	"github.com/spf13/cobra"
)

func newPlayCommand(a *app) *cobra.Command {
	var (
		wf     windowFlags
		device int
		volume float64
	)

	cmd := &cobra.Command{
		Use:   "play <input.wav>",
		Short: "Preview a window of a WAV file on an output device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := wav.DecodeFile(args[0])
			if err != nil {
				return err
			}
			w, err := a.resolveWindow(cmd.Context(), cmd, &wf, sig)
			if err != nil {
				return err
			}

			audioCfg := a.cfg.Audio
			if cmd.Flags().Changed("device") {
				audioCfg.OutputDevice = device
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return withPlayer(audioCfg, func(p *audio.Player) error {
				p.SetVolume(volume)
				fmt.Fprintf(cmd.OutOrStdout(), "playing %s %v on %s\n", args[0], w, p.DeviceName())
				return playWindow(ctx, p, sig, w)
			})
		},
	}

	wf.register(cmd)
	cmd.Flags().IntVarP(&device, "device", "d", config.MinDeviceID,
		"Output device ID. Use the 'devices' command to see available devices.")
	cmd.Flags().Float64Var(&volume, "volume", 1, "Playback gain from 0 to 1")
	return cmd
}

// withPlayer initializes PortAudio for the duration of fn.
func withPlayer(cfg config.AudioConfig, fn func(*audio.Player) error) error {
	if err := audio.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := audio.Terminate(); err != nil {
			applog.Warnf("audio: %v", err)
		}
	}()

	p, err := audio.NewPlayer(cfg)
	if err != nil {
		return err
	}
	return fn(p)
}

func playWindow(ctx context.Context, p *audio.Player, sig *pcm.Signal, w trim.Window) error {
	cut, err := trim.Cut(sig, w)
	if err != nil {
		return err
	}
	return p.Play(ctx, cut)
}

func newDevicesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available audio devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := audio.Initialize(); err != nil {
				return err
			}
			defer audio.Terminate()

			return audio.ListDevices(cmd.OutOrStdout())
		},
	}
}
