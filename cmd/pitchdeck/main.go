package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	st := &state{}

	root := &cobra.Command{
		Use:           "pitchdeck",
		Short:         "Extract and analyze startup pitch decks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			st.close()
		},
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&st.provider, "provider", "", "model provider: openai|gemini (overrides config)")
	root.PersistentFlags().StringVar(&st.logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")

	root.AddCommand(extractCmd(st), analyzeCmd(st), reportCmd(st))
	return root
}
