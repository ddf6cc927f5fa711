package main

import (
	"fmt"
	"log"
	"os"

	"github.com/aretw0/phocus/internal/cli"
	"github.com/aretw0/phocus/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the engine as an MCP Server so agents can inspect shortcuts, move
focus and dispatch chords as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")
		baseURL, _ := cmd.Flags().GetString("base-url")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		// Handler output must not corrupt JSON-RPC on stdout.
		cmd.SetOut(os.Stderr)
		log.SetOutput(os.Stderr)

		engine, cleanup, err := loadEngine(sigCtx, cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		logger, err := cli.CreateLogger(optionsFromFlags(cmd).LogLevel)
		if err != nil {
			return err
		}
		srv := mcp.NewServer(engine, logger)

		switch transport {
		case "stdio":
			logger.Info("Starting Phocus MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			if baseURL == "" {
				baseURL = "http://localhost" + addr
			}
			return srv.ServeSSE(sigCtx, addr, baseURL)
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", ":8081", "Address to listen on (only for SSE)")
	mcpCmd.Flags().String("base-url", "", "Public base URL for SSE clients (default http://localhost<addr>)")
}
