package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive assistant session",
	Long: `Start an interactive session. Type a task or a question; the
assistant routes it to the right agent or answers from the knowledge
base. Type "exit", "quit" or "sair" to leave.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	router, repo, err := newAssistant(newRetriever())
	if err != nil {
		return err
	}
	defer repo.Close()

	fmt.Println("KalebBot ready. Type a task or question (exit/quit/sair to leave).")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "exit", "quit", "sair":
			fmt.Println("Bye!")
			return nil
		}

		res := router.Handle(line)
		if !res.Success {
			fmt.Printf("Error: %s\n", res.Error)
			continue
		}
		fmt.Println(res.Result)
	}
	return scanner.Err()
}
