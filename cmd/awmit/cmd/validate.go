package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/corey/awmit/internal/adapters/ahocorasick"
	"github.com/corey/awmit/internal/app"
	"github.com/corey/awmit/internal/domain/bank"
	"github.com/spf13/cobra"
)

var (
	validateStrict bool
	validateJSON   bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check content integrity and lint it",
	Long: `Loads the content and reports integrity problems (unknown answer
references, duplicate ids, malformed entries). When the content loads, it is
linted for style and reachability. Lint findings fail the command only with
--strict.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat lint findings as errors")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print lint findings as JSON")
}

func runValidate(cmd *cobra.Command, args []string) error {
	reg, err := app.LoadContent(contentDir)
	if err != nil {
		printIntegrity(err)
		return err
	}

	pm, err := ahocorasick.New(nil)
	if err != nil {
		return fmt.Errorf("create matcher: %w", err)
	}
	findings := bank.Lint(reg, pm)

	if validateJSON {
		if findings == nil {
			findings = []bank.Finding{}
		}
		data, err := json.MarshalIndent(findings, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		src := contentDir
		if src == "" {
			src = "embedded"
		}
		fmt.Printf("%s✓ content ok%s %s(%s)%s\n", colorGreen, colorReset, colorGray, src, colorReset)
		fmt.Print(formatStats(reg.Stats()))
		fmt.Print(formatFindings(findings))
	}

	if validateStrict && len(findings) > 0 {
		return fmt.Errorf("%d lint findings", len(findings))
	}
	return nil
}
