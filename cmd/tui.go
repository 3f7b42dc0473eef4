package cmd

import (
	"holskywallet/pkg/tui"

	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive wallet view (default)",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	if err := setupLogger(true); err != nil {
		return err
	}
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	return tui.Start(ctx, tui.Services{
		Controller: a.controller,
		Query:      a.query,
		Transfer:   a.transfer,
		Config:     cfg,
		ConfigPath: cfgPath,
	}, Version)
}
