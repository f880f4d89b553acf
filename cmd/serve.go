// SPDX-License-Identifier: MIT
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	applog "audiotrim/internal/log"
	"audiotrim/internal/metrics"
	"audiotrim/internal/presets"
	"audiotrim/internal/server"
	"audiotrim/internal/transport"
	"audiotrim/internal/transport/udp"

	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP trim service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Server
			if addr != "" {
				cfg.Address = addr
			}

			store, err := presets.Open(a.cfg.Presets.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			events := transport.Multi{transport.NewLoggingTransport()}
			var ws *transport.WebSocketTransport
			if cfg.Events {
				ws = transport.NewWebSocketTransport(256)
				events = append(events, ws)
			}
			if cfg.UDPEvents != "" {
				sender, err := udp.NewUDPSender(cfg.UDPEvents)
				if err != nil {
					return err
				}
				pub, err := udp.NewPublisher(sender)
				if err != nil {
					return err
				}
				events = append(events, pub)
			}
			defer func() {
				if err := events.Close(); err != nil {
					applog.Warnf("serve: close event transports: %v", err)
				}
			}()

			srv := server.New(cfg, server.Options{
				Presets:   store,
				Events:    events,
				WebSocket: ws,
				Metrics:   metrics.NewMetrics(),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides server.address)")
	return cmd
}
