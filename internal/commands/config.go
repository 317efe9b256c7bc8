package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agencia-digital/agencia/internal/config"
	apperrors "github.com/agencia-digital/agencia/internal/errors"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Manage agencia configuration",
	Annotations: map[string]string{skipDB: "true"},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a default config file to ~/.agencia/config.yaml, or to
./.agencia/config.yaml with --project.`,
	Annotations: map[string]string{skipDB: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		project, _ := cmd.Flags().GetBool("project")
		force, _ := cmd.Flags().GetBool("force")

		path := config.GlobalConfigPath()
		if project {
			path = config.ProjectConfigPath()
		}
		if _, err := os.Stat(path); err == nil && !force {
			return apperrors.NewConflictError(fmt.Sprintf("%s already exists (use --force to overwrite)", path))
		}
		if err := config.WriteDefault(path); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Print the effective configuration",
	Annotations: map[string]string{skipDB: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configInitCmd.Flags().Bool("project", false, "write ./.agencia/config.yaml instead of the global file")
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")

	configCmd.AddCommand(configInitCmd, configShowCmd)
}
