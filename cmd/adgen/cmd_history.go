package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"adgen/internal/types"
)

var historyClearYes bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and manage saved campaigns",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved campaigns, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.close()

		items, err := a.store.Load()
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("No saved campaigns yet. Run `adgen generate` first.")
			return nil
		}
		for _, item := range items {
			fmt.Println(renderHistoryLine(item))
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one saved campaign in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.close()

		item, err := findHistoryItem(a, args[0])
		if err != nil {
			return err
		}
		a.orch.LoadHistoryItem(*item)
		fmt.Println(renderCampaign(a.orch.Snapshot()))
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete one saved campaign",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all saved campaigns",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.close()

		if !historyClearYes && !confirm("Delete ALL saved campaigns?") {
			fmt.Println("Aborted.")
			return nil
		}
		if err := a.store.Clear(); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	},
}

// findHistoryItem resolves "latest" or an id to a saved campaign.
func findHistoryItem(a *app, id string) (*types.HistoryItem, error) {
	items, err := a.store.Load()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("history is empty; run `adgen generate` first")
	}
	if id == "" || id == "latest" {
		return &items[0], nil
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("no saved campaign with id %s", id)
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	historyClearCmd.Flags().BoolVar(&historyClearYes, "yes", false, "skip the confirmation prompt")
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
