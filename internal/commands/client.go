package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agencia-digital/agencia/internal/db"
)

var clientCmd = &cobra.Command{
	Use:     "client",
	Aliases: []string{"clients", "cliente"},
	Short:   "Manage clients",
}

var clientAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a client",
	Long: `Add a client.

Examples:
  agencia client add "Café Andino" --company "Andino SAS" --email hola@andino.co`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := db.ClientRequest{Name: args[0]}
		req.Company, _ = cmd.Flags().GetString("company")
		req.Email, _ = cmd.Flags().GetString("email")
		req.Phone, _ = cmd.Flags().GetString("phone")
		req.Notes, _ = cmd.Flags().GetString("notes")

		client, err := db.CreateClient(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Created client #%d: %s\n", client.ID, client.Name)
		return nil
	},
}

var clientListCmd = &cobra.Command{
	Use:     "ls [query]",
	Aliases: []string{"list"},
	Short:   "List clients",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		clients, err := db.GetClients(cmd.Context(), query)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(clients))
		for _, c := range clients {
			rows = append(rows, []string{strconv.Itoa(int(c.ID)), c.Name, c.Company, c.Email, c.Phone})
		}
		printTable(cmd.OutOrStdout(), "No clients yet.", []string{"ID", "Nombre", "Empresa", "Email", "Teléfono"}, rows)
		return nil
	},
}

var clientRmCmd = &cobra.Command{
	Use:     "rm [id]",
	Aliases: []string{"delete"},
	Short:   "Delete a client",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := db.DeleteClient(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted client #%d\n", id)
		return nil
	},
}

func init() {
	clientAddCmd.Flags().String("company", "", "company name")
	clientAddCmd.Flags().String("email", "", "contact email")
	clientAddCmd.Flags().String("phone", "", "contact phone")
	clientAddCmd.Flags().String("notes", "", "free-form notes")

	clientCmd.AddCommand(clientAddCmd, clientListCmd, clientRmCmd)
}
