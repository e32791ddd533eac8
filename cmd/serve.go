// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"net"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"plugctl/cli/internal/gateway"
)

var (
	serveGRPCAddr string
	serveHTTPAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the command catalog over gRPC and HTTP",
	Long: `serve lets other home-automation processes dispatch plug commands.

  gRPC  plugctl.v1.Relay/ListCommands, plugctl.v1.Relay/Dispatch
  HTTP  GET  /commands
        POST /devices/<host>/commands/<COMMAND>  {"dry_run":false,"values":{}}

Missing parameters are never prompted for; they fail the request. Set an
address to "" to disable that transport.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		grpcAddr, httpAddr := cfg.Gateway.GRPCAddr, cfg.Gateway.HTTPAddr
		if cmd.Flags().Changed("grpc-addr") {
			grpcAddr = serveGRPCAddr
		}
		if cmd.Flags().Changed("http-addr") {
			httpAddr = serveHTTPAddr
		}

		var grpcLn, httpLn net.Listener
		var err error
		if grpcAddr != "" {
			if grpcLn, err = net.Listen("tcp", grpcAddr); err != nil {
				return err
			}
		}
		if httpAddr != "" {
			if httpLn, err = net.Listen("tcp", httpAddr); err != nil {
				if grpcLn != nil {
					grpcLn.Close()
				}
				return err
			}
		}

		pub := newPublisher(ctx)
		defer pub.Close()

		svc := gateway.NewService(newExecutor(), pub, logger)
		if grpcLn != nil {
			pterm.Info.Printf("gRPC listening on %s\n", grpcLn.Addr())
		}
		if httpLn != nil {
			pterm.Info.Printf("HTTP listening on %s\n", httpLn.Addr())
		}
		return gateway.NewServer(svc).Serve(ctx, grpcLn, httpLn)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveGRPCAddr, "grpc-addr", "", "gRPC listen address (overrides gateway.grpc_addr)")
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http-addr", "", "HTTP listen address (overrides gateway.http_addr)")
	rootCmd.AddCommand(serveCmd)
}
