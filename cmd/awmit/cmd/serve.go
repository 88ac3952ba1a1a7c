package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/corey/awmit/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	serveAddr     string
	serveWatch    bool
	serveDB       string
	serveLogMode  string
	serveLogLevel string
	serveNoGaps   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API",
	Long:  "Serves the chat JSON API over HTTP until interrupted. Unanswered queries are recorded in the gap log unless --no-gaps is set.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	addServeFlags(serveCmd.Flags())
}

// addServeFlags binds the serve settings to f.
func addServeFlags(f *pflag.FlagSet) {
	f.StringVar(&serveAddr, "addr", app.DefaultAddr, "Listen address [$AWMIT_ADDR]")
	f.BoolVar(&serveWatch, "watch", false, "Reload when files in --content-dir change")
	f.StringVar(&serveDB, "db", "", "Gap log database (default .awmit/gaps.db) [$AWMIT_DB]")
	f.StringVar(&serveLogMode, "log-mode", "dev", "Log format: dev or prod [$AWMIT_LOG_MODE]")
	f.StringVar(&serveLogLevel, "log-level", "info", "Log level [$AWMIT_LOG_LEVEL]")
	f.BoolVar(&serveNoGaps, "no-gaps", false, "Do not record unanswered queries")
}

func serveConfig() app.Config {
	return app.Config{
		Addr:       serveAddr,
		ContentDir: contentDir,
		Watch:      serveWatch,
		DBPath:     serveDB,
		NoGaps:     serveNoGaps,
		LogMode:    serveLogMode,
		LogLevel:   serveLogLevel,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := app.New(serveConfig())
	if err != nil {
		if isDBLockError(err) {
			return fmt.Errorf("cannot serve: %s", dbLockHint(serveDB))
		}
		return fmt.Errorf("init: %w", err)
	}

	if err := a.Start(); err != nil {
		a.Stop()
		return err
	}

	fmt.Printf("⚡ awmit serving at %s\n", a.Server.URL())

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\n⚡ shutting down...")
	return a.Stop()
}
