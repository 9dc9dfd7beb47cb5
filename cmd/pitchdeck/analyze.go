package main

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thywilljoshua/pitchdeck/internal/agents"
	"github.com/thywilljoshua/pitchdeck/internal/report"
)

func analyzeCmd(st *state) *cobra.Command {
	var (
		out    string
		pdfOut string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <pdf|->",
		Short: "Extract a pitch deck and run every analysis stage over it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ec := st.cfg.Extraction

			path, cleanup, err := openInput(args[0], cmd.InOrStdin(), ec.TempDir)
			if err != nil {
				return err
			}
			defer cleanup()

			m, err := st.models(ctx)
			if err != nil {
				return err
			}
			pipeline, err := st.pipeline(m)
			if err != nil {
				return err
			}
			res, err := st.orchestrator(m.documents, ec.MaxPagesPerChunk, ec.Concurrency).Run(ctx, path)
			if err != nil {
				return err
			}
			if res.SuspectedRefusal {
				st.log.Warn("extracted text looks like a refusal, analysis may be meaningless")
			}

			analysis, err := pipeline.Run(ctx, res.Text)
			if err != nil {
				return err
			}

			if pdfOut != "" {
				if err := writeReportPDF(pdfOut, analysis.Research.CompanyName, analysis.Report); err != nil {
					return err
				}
				st.log.Info("report pdf written", zap.String("path", pdfOut))
			}

			data := []byte(analysis.Report + "\n")
			if asJSON {
				if data, err = json.MarshalIndent(analysis, "", "  "); err != nil {
					return err
				}
				data = append(data, '\n')
			}
			return writeOutput(cmd.OutOrStdout(), out, data)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the markdown report to this file instead of stdout")
	cmd.Flags().StringVar(&pdfOut, "pdf", "", "also render the report as a PDF at this path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print every stage output as JSON")
	return cmd
}

func reportTitle(company string) string {
	if company == "" || company == agents.CompanyNotFound {
		return "Business Analysis Report"
	}
	return company + " - Business Analysis Report"
}

func writeReportPDF(path, company, markdown string) error {
	var buf bytes.Buffer
	if err := report.WritePDF(&buf, reportTitle(company), markdown); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
