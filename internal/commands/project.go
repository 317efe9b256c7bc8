package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agencia-digital/agencia/internal/db"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects", "proyecto"},
	Short:   "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a project",
	Long: `Add a project, optionally owned by a client (id or name).

Examples:
  agencia project add "Web corporativa" --client "Café Andino" --budget 12000000
  agencia project add Branding --client 3 --start 2026-05-01 --end 30/06/2026`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		req := db.ProjectRequest{Name: args[0]}
		req.Description, _ = cmd.Flags().GetString("desc")
		req.Status, _ = cmd.Flags().GetString("status")
		req.Budget, _ = cmd.Flags().GetFloat64("budget")

		var err error
		if req.StartDate, err = dateFlag(cmd, "start"); err != nil {
			return err
		}
		if req.EndDate, err = dateFlag(cmd, "end"); err != nil {
			return err
		}
		if ref, _ := cmd.Flags().GetString("client"); ref != "" {
			client, err := db.FindClient(ctx, ref)
			if err != nil {
				return err
			}
			req.ClientID = &client.ID
		}

		project, err := db.CreateProject(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Created project #%d: %s (%s)\n", project.ID, project.Name, project.Status)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:     "ls [query]",
	Aliases: []string{"list"},
	Short:   "List projects",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var opts db.ProjectQueryOptions
		if len(args) == 1 {
			opts.Query = args[0]
		}
		opts.Status, _ = cmd.Flags().GetString("status")
		if ref, _ := cmd.Flags().GetString("client"); ref != "" {
			client, err := db.FindClient(ctx, ref)
			if err != nil {
				return err
			}
			opts.ClientID = &client.ID
		}

		projects, err := db.GetProjects(ctx, opts)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(projects))
		for _, p := range projects {
			client := "-"
			if p.Client != nil {
				client = p.Client.Name
			}
			rows = append(rows, []string{
				strconv.Itoa(int(p.ID)), p.Name, client, p.Status,
				strconv.FormatFloat(p.Budget, 'f', 0, 64), formatDate(p.EndDate),
			})
		}
		printTable(cmd.OutOrStdout(), "No projects found.", []string{"ID", "Nombre", "Cliente", "Estado", "Presupuesto", "Fin"}, rows)
		return nil
	},
}

var projectRmCmd = &cobra.Command{
	Use:     "rm [id]",
	Aliases: []string{"delete"},
	Short:   "Delete a project",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := db.DeleteProject(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted project #%d\n", id)
		return nil
	},
}

func init() {
	projectAddCmd.Flags().String("client", "", "owning client (id or name)")
	projectAddCmd.Flags().String("desc", "", "description")
	projectAddCmd.Flags().String("status", "", "Activo, En Pausa or Finalizado")
	projectAddCmd.Flags().Float64("budget", 0, "budget amount")
	projectAddCmd.Flags().String("start", "", "start date")
	projectAddCmd.Flags().String("end", "", "end date")

	projectListCmd.Flags().String("client", "", "filter by client (id or name)")
	projectListCmd.Flags().String("status", "", "filter by status")

	projectCmd.AddCommand(projectAddCmd, projectListCmd, projectRmCmd)
}
