package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pitchdeck/internal/agents"
)

func reportCmd(st *state) *cobra.Command {
	var (
		pitchDeck, product, research, market string
		company, out, pdfOut                 string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Merge saved stage outputs into one report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := agents.ReportInput{CompanyName: company}
			for _, f := range []struct {
				path string
				dst  *string
			}{
				{pitchDeck, &in.PitchDeck},
				{product, &in.Product},
				{research, &in.Research},
				{market, &in.Market},
			} {
				b, err := os.ReadFile(f.path)
				if err != nil {
					return fmt.Errorf("read stage output: %w", err)
				}
				*f.dst = string(b)
			}

			m, err := st.models(cmd.Context())
			if err != nil {
				return err
			}
			text, err := agents.NewReport(m.analysis, st.log).Generate(cmd.Context(), in)
			if err != nil {
				return err
			}

			if pdfOut != "" {
				if err := writeReportPDF(pdfOut, company, text); err != nil {
					return err
				}
			}
			return writeOutput(cmd.OutOrStdout(), out, []byte(text+"\n"))
		},
	}
	cmd.Flags().StringVar(&pitchDeck, "pitchdeck", "", "file holding the pitch deck analysis")
	cmd.Flags().StringVar(&product, "product", "", "file holding the product analysis")
	cmd.Flags().StringVar(&research, "research", "", "file holding the web research")
	cmd.Flags().StringVar(&market, "market", "", "file holding the market size analysis")
	cmd.Flags().StringVar(&company, "company", "", "company name")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the markdown report to this file instead of stdout")
	cmd.Flags().StringVar(&pdfOut, "pdf", "", "also render the report as a PDF at this path")
	for _, name := range []string{"pitchdeck", "product", "research", "market"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
