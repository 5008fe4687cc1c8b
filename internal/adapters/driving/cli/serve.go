package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc/internal/adapters/driving/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI",
	Long: `Start the local web UI.

The page offers a text box, a file upload and a question box. Paste text or
pick a .txt, .png, .jpeg/.jpg or .pdf file, type a question and press
"Get Answer".

The listen address comes from --addr, then ASKDOC_ADDR, then server.addr in
the config file.

Endpoints:
  GET  /          the UI
  POST /api/ask   multipart form: text, file, question
  GET  /healthz   liveness
  GET  /metrics   Prometheus metrics`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (host:port)")
	serveCmd.Flags().Int("max-upload-mb", 0, "Largest accepted upload in MB")
	rootCmd.AddCommand(serveCmd)
}

// serverConfig merges flags over the effective configuration.
// Flags are only read when the command defines them.
func serverConfig(cmd *cobra.Command) (web.Config, error) {
	cfg := web.Config{
		Addr:        appConfig.Server.Addr,
		MaxUploadMB: appConfig.Server.MaxUploadMB,
		Version:     version,
	}

	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		cfg.Addr = f.Value.String()
	}
	if f := cmd.Flags().Lookup("max-upload-mb"); f != nil && f.Changed {
		mb, err := cmd.Flags().GetInt("max-upload-mb")
		if err != nil {
			return cfg, fmt.Errorf("getting max-upload-mb flag: %w", err)
		}
		cfg.MaxUploadMB = mb
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	if askService == nil {
		return ErrNoAskService
	}

	cfg, err := serverConfig(cmd)
	if err != nil {
		return err
	}

	server, err := web.NewServer(askService, cfg)
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}

	cmd.Printf("askdoc %s listening on http://%s\n", version, server.Addr())
	return server.Run(cmd.Context())
}
