package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agencia-digital/agencia/internal/db"
)

var personnelCmd = &cobra.Command{
	Use:     "personnel",
	Aliases: []string{"staff", "personal"},
	Short:   "Manage agency staff",
}

var personnelAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a staff member",
	Long: `Add a staff member.

Examples:
  agencia personnel add "Luisa Gómez" --email luisa@agencia.co --position Diseñadora --rate 45000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := db.PersonnelRequest{Name: args[0]}
		req.Email, _ = cmd.Flags().GetString("email")
		req.Position, _ = cmd.Flags().GetString("position")
		req.HourlyRate, _ = cmd.Flags().GetFloat64("rate")
		if cmd.Flags().Changed("inactive") {
			inactive, _ := cmd.Flags().GetBool("inactive")
			active := !inactive
			req.Active = &active
		}

		person, err := db.CreatePersonnel(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Added #%d: %s\n", person.ID, person.Name)
		return nil
	},
}

var personnelListCmd = &cobra.Command{
	Use:     "ls [query]",
	Aliases: []string{"list"},
	Short:   "List staff",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		all, _ := cmd.Flags().GetBool("all")

		staff, err := db.GetPersonnel(cmd.Context(), query, !all)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(staff))
		for _, p := range staff {
			active := "sí"
			if !p.Active {
				active = "no"
			}
			rows = append(rows, []string{
				strconv.Itoa(int(p.ID)), p.Name, p.EmailAddress(), p.Position,
				strconv.FormatFloat(p.HourlyRate, 'f', 0, 64), active,
			})
		}
		printTable(cmd.OutOrStdout(), "No staff found.", []string{"ID", "Nombre", "Email", "Cargo", "Tarifa/h", "Activo"}, rows)
		return nil
	},
}

var personnelRmCmd = &cobra.Command{
	Use:     "rm [id]",
	Aliases: []string{"delete"},
	Short:   "Delete a staff member",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := db.DeletePersonnel(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted staff member #%d\n", id)
		return nil
	},
}

func init() {
	personnelAddCmd.Flags().String("email", "", "work email")
	personnelAddCmd.Flags().String("position", "", "job title")
	personnelAddCmd.Flags().Float64("rate", 0, "hourly rate")
	personnelAddCmd.Flags().Bool("inactive", false, "add as inactive")

	personnelListCmd.Flags().BoolP("all", "a", false, "include inactive staff")

	personnelCmd.AddCommand(personnelAddCmd, personnelListCmd, personnelRmCmd)
}
