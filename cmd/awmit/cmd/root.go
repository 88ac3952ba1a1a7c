package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// envFile is loaded from the working directory when present.
const envFile = ".env"

var contentDir string

var rootCmd = &cobra.Command{
	Use:           "awmit",
	Short:         "awmit: learning-portal chat agent",
	Long:          "Keyword-matched chat answers for the AWMIT learning portal, with content tooling.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnvFile(envFile); err != nil {
			return err
		}
		return applyEnv(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", colorRed, colorReset, err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&contentDir, "content-dir", "", "Content directory (default: embedded content) [$AWMIT_CONTENT_DIR]")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(gapsCmd)
	rootCmd.AddCommand(configCmd)
}

// workDir returns the working directory.
func workDir() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// loadEnvFile loads path into the environment. A missing file is not an
// error; variables already set win over the file.
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
