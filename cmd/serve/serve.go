// Package serve provides the "ttreport serve" command.
package serve

import (
	"github.com/spf13/cobra"

	"github.com/deeemdeeem/tt-report-automation/internal/config"
	"github.com/deeemdeeem/tt-report-automation/internal/server"
)

// NewCommand creates the "serve" command.
func NewCommand() *cobra.Command {
	var (
		addr          string
		templatePath  string
		worksheetPath string
		layoutPath    string
		maxUploadMB   int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the upload-and-download web service",
		Long: `Serves the TT report workflow over HTTP:

  GET  /                   upload page
  GET  /download-template  blank worksheet (TT_worksheet.xlsm)
  POST /generate           multipart field "xlsm" → populated .pptx
  GET  /healthz            liveness probe

Example:
  ttreport serve --addr :5000 -t TT_report.pptx --worksheet TT_worksheet.xlsm`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			l, err := cfg.LoadLayout(layoutPath)
			if err != nil {
				return err
			}
			if maxUploadMB <= 0 {
				maxUploadMB = cfg.Server.MaxUploadMB
			}

			srv := server.New(server.Options{
				Addr:          config.Pick(addr, cfg.Server.Addr),
				TemplatePath:  config.Pick(templatePath, cfg.Template),
				WorksheetPath: config.Pick(worksheetPath, cfg.Worksheet),
				Layout:        l,
				MaxUploadMB:   maxUploadMB,
				History:       cfg.HistoryStore(),
			})
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: config 'server.addr')")
	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Report template .pptx (default: config 'template')")
	cmd.Flags().StringVar(&worksheetPath, "worksheet", "", "Blank worksheet served at /download-template")
	cmd.Flags().StringVar(&layoutPath, "layout", "", "Layout YAML overriding the built-in bindings and rules")
	cmd.Flags().Int64Var(&maxUploadMB, "max-upload-mb", 0, "Upload size limit in MB (default: config 'server.max_upload_mb')")

	return cmd
}
