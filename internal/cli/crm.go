package cli

import (
	"context"
	"fmt"

	"github.com/saiborg-ai/saiborg/internal/config"
	"github.com/saiborg-ai/saiborg/internal/monday"
	"github.com/spf13/cobra"
)

var crmCmd = &cobra.Command{
	Use:   "crm",
	Short: "Monday CRM commands",
	Long: `Read-only commands against the configured Monday board.

Requires MONDAY_API_KEY; the board defaults to MONDAY_CUSTOMER_BOARD_ID.`,
}

var crmPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the Monday API connection",
	Args:  cobra.NoArgs,
	RunE:  runCRMPing,
}

var crmSearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Search board items by name or column text",
	Args:  cobra.ExactArgs(1),
	RunE:  runCRMSearch,
}

var crmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every item on the board",
	Args:  cobra.NoArgs,
	RunE:  runCRMList,
}

func init() {
	crmCmd.AddCommand(crmPingCmd)
	crmCmd.AddCommand(crmSearchCmd)
	crmCmd.AddCommand(crmListCmd)
}

// requireCRM validates the CRM credential and builds the client.
func requireCRM() (*monday.Client, error) {
	if err := cfg.Validate(config.ModeCRM); err != nil {
		return nil, err
	}
	return newCRM()
}

func runCRMPing(cmd *cobra.Command, args []string) error {
	client, err := requireCRM()
	if err != nil {
		return err
	}

	account, err := client.Me(context.Background())
	if err != nil {
		return fmt.Errorf("monday connection failed: %w", err)
	}

	fmt.Printf("OK! Logged in as: %s (%s)\n", account.Name, account.Email)
	return nil
}

func runCRMSearch(cmd *cobra.Command, args []string) error {
	client, err := requireCRM()
	if err != nil {
		return err
	}

	items, err := client.Search(context.Background(), args[0])
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No matching items.")
		return nil
	}
	printItems(items)
	return nil
}

func runCRMList(cmd *cobra.Command, args []string) error {
	client, err := requireCRM()
	if err != nil {
		return err
	}

	items, err := client.ListAll(context.Background())
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("Board is empty.")
		return nil
	}
	printItems(items)
	return nil
}

func printItems(items []monday.Item) {
	for _, item := range items {
		fmt.Printf("%s (id %s)\n", item.Name, item.ID)
		for _, cv := range item.ColumnValues {
			if cv.Text == "" {
				continue
			}
			fmt.Printf("  %s: %s\n", cv.ID, cv.Text)
		}
	}
}
