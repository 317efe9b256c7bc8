package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/agencia-digital/agencia/internal/db"
	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/parser"
)

// parseID parses a positional id argument
func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(arg, "#"), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.NewInvalidInputError("id", arg, "must be a positive number")
	}
	return uint(id), nil
}

// dateFlag parses a date flag with the due date syntax
func dateFlag(cmd *cobra.Command, name string) (*time.Time, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return nil, nil
	}
	t, err := parser.ParseDueDate(raw, db.Clock.Now())
	if err != nil {
		return nil, apperrors.NewInvalidInputError(name, raw, err.Error())
	}
	return t, nil
}

// truncate shortens s to n runes with an ellipsis
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02/01/2006")
}

// printTable renders rows as a bordered table, or a placeholder when empty
func printTable(w io.Writer, empty string, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeader
			}
			return tableCell
		})
	fmt.Fprintln(w, t.Render())
}

var (
	tableHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#00D4AA"))
	tableCell   = lipgloss.NewStyle().Padding(0, 1)
)
