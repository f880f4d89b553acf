// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"

	"audiotrim/internal/presets"
	"audiotrim/internal/trim"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newPresetCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage saved trim windows",
	}

	var start, end float64
	saveCmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a window under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := trim.Window{Start: start, End: end}
			if err := a.savePreset(cmd.Context(), args[0], w); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s %v\n", args[0], w)
			return nil
		},
	}
	saveCmd.Flags().Float64VarP(&start, "start", "s", 0, "Window start in seconds")
	saveCmd.Flags().Float64VarP(&end, "end", "e", 0, "Window end in seconds")
	_ = saveCmd.MarkFlagRequired("end")

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved windows",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := presets.Open(a.cfg.Presets.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no presets")
				return nil
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.SetStyle(table.StyleLight)
			tw.AppendHeader(table.Row{"Name", "Start (s)", "End (s)", "Length (s)", "Updated"})
			for _, p := range list {
				tw.AppendRow(table.Row{
					p.Name,
					fmt.Sprintf("%.3f", p.Window.Start),
					fmt.Sprintf("%.3f", p.Window.End),
					fmt.Sprintf("%.3f", p.Window.Seconds()),
					humanize.Time(p.UpdatedAt),
				})
			}
			tw.Render()
			return nil
		},
	}

	rmCmd := &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"delete"},
		Short:   "Delete a saved window",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := presets.Open(a.cfg.Presets.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(saveCmd, listCmd, rmCmd)
	return cmd
}
