package commands

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/agencia-digital/agencia/internal/auth"
	"github.com/agencia-digital/agencia/internal/db"
	"github.com/agencia-digital/agencia/internal/logging"
	"github.com/agencia-digital/agencia/internal/scheduler"
	"github.com/agencia-digital/agencia/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the background jobs",
	Long: `Run the JSON API. Requests identify the caller with the X-User-ID
header; roles come from auth.users in the config and are synced into
the users table. The overdue digest and the role cache purge run on
the configured schedule.

Examples:
  agencia serve
  agencia serve --addr :9090`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		addr := cfg.Server.Addr
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			addr = v
		}
		if !logging.DebugEnabled() {
			gin.SetMode(gin.ReleaseMode)
		}

		provider := auth.NewConfigProvider(cfg.Auth.Users)
		syncer := auth.NewSyncer(provider, db.UserStore{}, cfg.Auth.CacheTTL, db.Clock)

		sched := scheduler.New(time.Local)
		if err := scheduler.Register(sched, cfg.Scheduler, syncer); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		slog.Info("scheduler started", "jobs", len(sched.Entries()))

		return web.NewServer(syncer).Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address, overrides server.addr")
}
