package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// envBindings maps flag names to the environment variables that default them.
var envBindings = map[string]string{
	"addr":        "AWMIT_ADDR",
	"content-dir": "AWMIT_CONTENT_DIR",
	"db":          "AWMIT_DB",
	"log-mode":    "AWMIT_LOG_MODE",
	"log-level":   "AWMIT_LOG_LEVEL",
}

// getEnv returns the value of key, or fallback when unset or empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// applyEnv sets every bound flag of cmd that was not given on the command
// line from its environment variable. Explicit flags win.
func applyEnv(cmd *cobra.Command) error {
	for name, key := range envBindings {
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		v := getEnv(key, "")
		if v == "" {
			continue
		}
		if err := f.Value.Set(v); err != nil {
			return fmt.Errorf("%s=%q: %w", key, v, err)
		}
	}
	return nil
}
