package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func extractCmd(st *state) *cobra.Command {
	var (
		out         string
		maxPages    int
		concurrency int
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "extract <pdf|->",
		Short: "Extract the text of a PDF through the remote document service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("max-pages") {
				maxPages = st.cfg.Extraction.MaxPagesPerChunk
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = st.cfg.Extraction.Concurrency
			}
			if err := validateExtractionFlags(maxPages, concurrency); err != nil {
				return err
			}

			path, cleanup, err := openInput(args[0], cmd.InOrStdin(), st.cfg.Extraction.TempDir)
			if err != nil {
				return err
			}
			defer cleanup()

			m, err := st.models(ctx)
			if err != nil {
				return err
			}
			res, err := st.orchestrator(m.documents, maxPages, concurrency).Run(ctx, path)
			if err != nil {
				return err
			}

			data := []byte(res.Text + "\n")
			if asJSON {
				if data, err = json.MarshalIndent(res, "", "  "); err != nil {
					return err
				}
				data = append(data, '\n')
			}
			return writeOutput(cmd.OutOrStdout(), out, data)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the result to this file instead of stdout")
	cmd.Flags().IntVar(&maxPages, "max-pages", 20, "maximum pages sent to the service in one request")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "chunks extracted at the same time")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result, including per-chunk refusal flags, as JSON")
	return cmd
}
