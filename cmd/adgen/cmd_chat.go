package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat about a saved campaign",
	Long: `Opens an interactive conversation grounded in the selected campaign
(latest by default). Ask for rewrites, critique, or platform advice.
Type /quit to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := assetApp()
		if err != nil {
			return err
		}
		defer a.close()

		snap := a.orch.Snapshot()
		fmt.Println(subtleStyle.Render(fmt.Sprintf("Chatting about: %s", snap.AdCopy.Headline)))

		reader := bufio.NewReader(os.Stdin)
		for {
			fmt.Print("> ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return nil
			}
			message := strings.TrimSpace(line)
			if message == "" {
				continue
			}
			if message == "/quit" || message == "/exit" {
				return nil
			}

			reply, err := a.orch.Chat(cmd.Context(), message)
			if err != nil {
				fmt.Println(errorStyle.Render("error: " + err.Error()))
				continue
			}
			fmt.Println(reply)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
