package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agencia-digital/agencia/internal/db"
)

var billingCmd = &cobra.Command{
	Use:     "billing",
	Aliases: []string{"bill", "cuentas"},
	Short:   "Manage billing accounts",
}

var billingAddCmd = &cobra.Command{
	Use:   "add [client] [concept] [amount]",
	Short: "Issue a billing account to a client",
	Long: `Issue a pending billing account. The client is an id or a name.

Examples:
  agencia billing add "Café Andino" "Anticipo web" 4500000 --due 30/05/2026
  agencia billing add 3 Hosting 120 --currency USD --due 2weeks`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := db.FindClient(ctx, args[0])
		if err != nil {
			return err
		}
		amount, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[2])
		}
		req := db.BillingRequest{ClientID: client.ID, Concept: args[1], Amount: amount}
		req.Currency, _ = cmd.Flags().GetString("currency")
		if req.DueDate, err = dateFlag(cmd, "due"); err != nil {
			return err
		}

		account, err := db.CreateBillingAccount(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🧾 Issued #%d to %s: %s %.2f %s\n",
			account.ID, client.Name, account.Concept, account.Amount, account.Currency)
		return nil
	},
}

var billingListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List billing accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var opts db.BillingQueryOptions
		opts.Status, _ = cmd.Flags().GetString("status")
		if ref, _ := cmd.Flags().GetString("client"); ref != "" {
			client, err := db.FindClient(ctx, ref)
			if err != nil {
				return err
			}
			opts.ClientID = &client.ID
		}

		accounts, err := db.GetBillingAccounts(ctx, opts)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(accounts))
		for _, a := range accounts {
			client := "-"
			if a.Client != nil {
				client = a.Client.Name
			}
			rows = append(rows, []string{
				strconv.Itoa(int(a.ID)), client, a.Concept,
				fmt.Sprintf("%.2f %s", a.Amount, a.Currency), a.Status, formatDate(a.DueDate),
			})
		}
		printTable(cmd.OutOrStdout(), "No billing accounts found.", []string{"ID", "Cliente", "Concepto", "Monto", "Estado", "Vence"}, rows)
		return nil
	},
}

var billingPayCmd = &cobra.Command{
	Use:   "pay [id]",
	Short: "Mark a billing account as paid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		account, err := db.MarkBillingPaid(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "💰 Marked #%d as paid on %s\n", account.ID, formatDate(account.PaidAt))
		return nil
	},
}

var billingRmCmd = &cobra.Command{
	Use:     "rm [id]",
	Aliases: []string{"delete"},
	Short:   "Delete a billing account",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := db.DeleteBillingAccount(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted billing account #%d\n", id)
		return nil
	},
}

func init() {
	billingAddCmd.Flags().String("currency", "", "currency code (default COP)")
	billingAddCmd.Flags().String("due", "", "due date")

	billingListCmd.Flags().String("client", "", "filter by client (id or name)")
	billingListCmd.Flags().String("status", "", "Pendiente, Pagada or Vencida")

	billingCmd.AddCommand(billingAddCmd, billingListCmd, billingPayCmd, billingRmCmd)
}
