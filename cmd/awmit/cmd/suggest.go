package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	suggestModule string
	suggestLimit  int
	suggestJSON   bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <text...>",
	Short: "Show autocomplete suggestions for partial input",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggest,
}

func init() {
	suggestCmd.Flags().StringVarP(&suggestModule, "module", "m", "", "Course slug to scope suggestions to")
	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 0, "Maximum suggestions (default 5)")
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "Print suggestions as JSON")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	e, err := loadEngine()
	if err != nil {
		return err
	}

	rows := e.Autocomplete(strings.Join(args, " "), suggestModule, suggestLimit)
	if suggestJSON {
		data, err := json.Marshal(rows)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	fmt.Print(formatSuggestions(rows))
	return nil
}
