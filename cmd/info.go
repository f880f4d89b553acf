// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"os"
	"time"

	"audiotrim/internal/spectrum"
	"audiotrim/internal/wav"
	"audiotrim/internal/waveform"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newInfoCommand(a *app) *cobra.Command {
	var buckets, fftSize int

	cmd := &cobra.Command{
		Use:   "info <input.wav>",
		Short: "Show format, duration and levels of a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			st, err := os.Stat(input)
			if err != nil {
				return err
			}
			sig, err := wav.DecodeFile(input)
			if err != nil {
				return err
			}
			stats := waveform.Measure(sig)

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.SetStyle(table.StyleLight)
			tw.AppendRows([]table.Row{
				{"File", input},
				{"Size", humanize.Bytes(uint64(st.Size()))},
				{"Sample rate", fmt.Sprintf("%d Hz", sig.SampleRate)},
				{"Channels", sig.NumChannels()},
				{"Frames", humanize.Comma(int64(sig.Frames()))},
				{"Duration", sig.Duration().Round(time.Millisecond).String()},
				{"Peak", fmt.Sprintf("%.4f (%.1f dBFS)", stats.Peak, waveform.Decibels(stats.Peak))},
				{"RMS", fmt.Sprintf("%.4f (%.1f dBFS)", stats.RMS, waveform.Decibels(stats.RMS))},
				{"Dominant", fmt.Sprintf("%.1f Hz", spectrum.NewAnalyzer(fftSize).Dominant(sig))},
			})
			tw.Render()

			if buckets > 0 {
				bt := table.NewWriter()
				bt.SetOutputMirror(cmd.OutOrStdout())
				bt.SetStyle(table.StyleLight)
				bt.AppendHeader(table.Row{"#", "From (s)", "Min", "Max"})
				summary := waveform.Summarize(sig, buckets)
				for i, b := range summary {
					from := float64(i) * sig.Seconds() / float64(len(summary))
					bt.AppendRow(table.Row{i, fmt.Sprintf("%.3f", from), fmt.Sprintf("%.4f", b.Min), fmt.Sprintf("%.4f", b.Max)})
				}
				bt.Render()
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&buckets, "buckets", "b", 0, "Also print a min/max summary with this many buckets")
	cmd.Flags().IntVar(&fftSize, "fft-size", spectrum.DefaultSize, "FFT length for the dominant frequency (rounded up to a power of two)")
	return cmd
}
