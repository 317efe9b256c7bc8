package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/agencia-digital/agencia/internal/commands"
	apperrors "github.com/agencia-digital/agencia/internal/errors"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersion(version, commit, date)
	if err := commands.Execute(context.Background()); err != nil {
		if apperrors.ShouldLogError(err) {
			slog.Error("command failed", "error", err)
		}
		fmt.Fprintln(os.Stderr, "Error:", apperrors.GetUserMessage(err))
		os.Exit(1)
	}
}
