package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/corey/awmit/internal/domain/engine"
	"github.com/spf13/cobra"
)

var (
	askModule string
	askThen   []string
	askJSON   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [message...]",
	Short: "Resolve a chat message locally",
	Long: `Resolves a message against the content without a server. The message
is read from stdin when no arguments are given. Each --then message is
sent as the next turn, carrying the follow-up of the previous one.`,
	Example: `  awmit ask hello
  awmit ask "can you recommend a course" --then copilot
  awmit ask --module stratos-setup how do I install`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askModule, "module", "m", "", "Course slug to scope the conversation to")
	askCmd.Flags().StringArrayVar(&askThen, "then", nil, "Follow-up message (repeatable)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print responses as JSON")
}

func runAsk(cmd *cobra.Command, args []string) error {
	message := strings.Join(args, " ")
	if message == "" && isStdinPipe() {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read stdin: %w", err)
		}
		message = strings.TrimSpace(line)
	}
	if message == "" {
		return errors.New("message required")
	}

	e, err := loadEngine()
	if err != nil {
		return err
	}

	var pending *engine.FollowUpState
	for _, msg := range append([]string{message}, askThen...) {
		resp := e.Resolve(msg, pending, askModule)
		pending = resp.Pending()

		if askJSON {
			data, err := json.Marshal(resp)
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			continue
		}
		fmt.Printf("%s› %s%s\n", colorGray, msg, colorReset)
		fmt.Print(formatResponse(resp))
	}
	return nil
}
