package main

import (
	"github.com/spf13/cobra"

	"github.com/askiada/macsima-report/internal/server"
	"github.com/askiada/macsima-report/pkg/report"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the converter over HTTP",
	Long: `Start an HTTP server with an upload form. Posting a run record to
/upload returns the converted workbook as an attachment.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":5000", "Listen address")
}

func runServe(_ *cobra.Command, _ []string) error {
	assembler := report.NewAssembler(report.WithLogger(logger))

	return server.New(assembler, logger).ListenAndServe(serveAddr)
}
