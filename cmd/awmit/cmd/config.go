package cmd

import (
	"fmt"

	"github.com/corey/awmit/internal/app"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the effective serve settings after .env and environment defaults. Accepts the serve flags.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	addServeFlags(configCmd.Flags())
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := serveConfig()

	content := cfg.ContentDir
	if content == "" {
		content = "embedded"
	}
	db := cfg.DBPath
	if db == "" {
		db = app.NewPaths(workDir()).DB
	}
	gaps := fmt.Sprintf("%s✓ on%s", colorGreen, colorReset)
	if cfg.NoGaps {
		gaps = fmt.Sprintf("%s✗ off%s", colorYellow, colorReset)
	}

	fmt.Printf("%s⚡ awmit config%s\n", colorBold, colorReset)
	fmt.Printf("  Addr:       %s\n", cfg.Addr)
	fmt.Printf("  Content:    %s\n", content)
	fmt.Printf("  Watch:      %t\n", cfg.Watch)
	fmt.Printf("  Gap log:    %s  %s\n", gaps, db)
	fmt.Printf("  Log:        %s / %s\n", cfg.LogMode, cfg.LogLevel)
	return nil
}
