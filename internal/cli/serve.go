package cli

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-companion/internal/logging"
	"github.com/smokyabdulrahman/ramadan-companion/internal/server"
)

func (a *app) newServeCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for the web client",
		Long:  "Serve the JSON API used by the web client.\nSettings come from flags, RAMADAN_* environment variables (or .env) and the config file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := a.deps.LogOutput
			if out == nil {
				out = os.Stdout
			}
			a.flush()
			a.flush = logging.Setup(logging.Options{
				Level:     "info",
				Verbose:   a.flags.verbose,
				JSON:      true,
				Output:    out,
				SentryDSN: a.env.SentryDSN,
			})
			gin.SetMode(gin.ReleaseMode)

			if cmd.Flags().Changed("listen") {
				a.cfg.Listen = listen
			}

			db, err := a.store()
			if err != nil {
				return err
			}
			srv := server.New(server.Deps{
				Store:    db,
				Prayers:  a.resolver(),
				Schedule: a.deps.Schedule,
				Quran:    a.deps.Quran,
			}, server.Options{
				SessionSecret: a.env.SessionSecret,
				Origins:       a.cfg.Origins(),
				Coordinates:   a.location(cmd.Context()).Coordinates,
				Now:           a.deps.Now,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info().Str("database", redactDSN(a.cfg.Database)).Msg("serving")
			return srv.Run(ctx, a.cfg.Listen)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (overrides RAMADAN_LISTEN and config)")

	return cmd
}

// redactDSN hides credentials in a postgres URL; file paths are returned as given.
func redactDSN(dsn string) string {
	if !isURL(dsn) {
		return dsn
	}
	if at := strings.LastIndexByte(dsn, '@'); at != -1 {
		if scheme := strings.Index(dsn, "://"); scheme != -1 && scheme < at {
			return dsn[:scheme+3] + "***" + dsn[at:]
		}
	}
	return dsn
}
