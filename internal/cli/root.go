package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/ramadan-companion/internal/api"
	"github.com/smokyabdulrahman/ramadan-companion/internal/cache"
	"github.com/smokyabdulrahman/ramadan-companion/internal/config"
	"github.com/smokyabdulrahman/ramadan-companion/internal/geo"
	"github.com/smokyabdulrahman/ramadan-companion/internal/locale"
	"github.com/smokyabdulrahman/ramadan-companion/internal/logging"
	"github.com/smokyabdulrahman/ramadan-companion/internal/prayer"
	"github.com/smokyabdulrahman/ramadan-companion/internal/schedule"
	"github.com/smokyabdulrahman/ramadan-companion/internal/session"
	"github.com/smokyabdulrahman/ramadan-companion/internal/store"
)

// QuranSource lists the surahs of the Quran and serves their text.
type QuranSource interface {
	Surahs(ctx context.Context) ([]api.Surah, error)
	Surah(ctx context.Context, number int) (*api.SurahText, error)
}

// Deps are the outside-world services the commands use. Zero fields get real implementations.
type Deps struct {
	Timings  prayer.TimingSource
	Quran    QuranSource
	Schedule *schedule.Table
	Now      func() time.Time
	// LogOutput receives log lines; defaults to stderr.
	LogOutput io.Writer
}

// flags shared across all subcommands.
type flags struct {
	latitude  float64
	longitude float64
	method    int
	lang      string
	json      bool
	dataDir   string
	database  string
	verbose   bool
}

// app is the state built in PersistentPreRunE and shared by the command handlers.
type app struct {
	deps  Deps
	flags flags
	cfg   *config.Config
	env   config.Env
	flush func()

	db *store.Store
}

// Execute runs the ramadan CLI against os.Args. The database is closed and
// buffered error reports are flushed once the command returns, failed or not.
// The version parameter is set by the calling binary via ldflags.
func Execute(ctx context.Context, version string) error {
	a := newApp(Deps{})
	return a.execute(ctx, a.command(version))
}

func newApp(deps Deps) *app {
	return &app{deps: deps, flush: func() {}}
}

func (a *app) execute(ctx context.Context, cmd *cobra.Command) error {
	defer a.close()
	return cmd.ExecuteContext(ctx)
}

// command builds the root command and its subcommands around a.
func (a *app) command(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ramadan",
		Short:   "Ramadan companion: prayer times, sehri/iftar schedule and daily trackers",
		Long:    "A Ramadan companion powered by the Al Adhan API.\nShows today's prayers, the Ramadan sehri/iftar schedule, and keeps fasting, journal, water, checklist and Quran records.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		// Default action: show today's prayer schedule.
		RunE:          a.runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.Float64Var(&a.flags.latitude, "latitude", 0, "Override latitude")
	pf.Float64Var(&a.flags.longitude, "longitude", 0, "Override longitude")
	pf.IntVar(&a.flags.method, "method", -1, "Override calculation method (0-23)")
	pf.StringVar(&a.flags.lang, "lang", "", "Output language: bn or en (overrides config)")
	pf.BoolVar(&a.flags.json, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "Data directory for the session and database (default: ~/.local/share/ramadan/)")
	pf.StringVar(&a.flags.database, "database", "", "SQLite path or postgres:// URL (overrides config)")
	pf.BoolVar(&a.flags.verbose, "verbose", false, "Log debug output to stderr")

	rootCmd.AddCommand(a.newNextCmd())
	rootCmd.AddCommand(a.newCalendarCmd())
	rootCmd.AddCommand(a.newScheduleCmd())
	rootCmd.AddCommand(a.newSignupCmd(), a.newLoginCmd(), a.newLogoutCmd(), a.newWhoamiCmd())
	rootCmd.AddCommand(a.newFastingCmd())
	rootCmd.AddCommand(a.newJournalCmd())
	rootCmd.AddCommand(a.newWaterCmd())
	rootCmd.AddCommand(a.newChecklistCmd())
	rootCmd.AddCommand(a.newQuranCmd())
	rootCmd.AddCommand(a.newOverrideCmd())
	rootCmd.AddCommand(a.newAdminCmd())
	rootCmd.AddCommand(a.newServeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	a.env = config.LoadEnv()
	a.flush = logging.Setup(logging.Options{
		Verbose:   a.flags.verbose,
		Output:    a.deps.LogOutput,
		SentryDSN: a.env.SentryDSN,
	})

	cfg, err := config.Load()
	if err != nil {
		if !underConfigCmd(cmd) {
			return fmt.Errorf("failed to load config: %w", err)
		}
		// `config reset` must still work on a broken file.
		log.Warn().Err(err).Msg("ignoring unreadable config file")
		cfg = nil
	}
	a.cfg = effectiveConfig(cmd, cfg, a.env, a.flags)

	if a.deps.Now == nil {
		a.deps.Now = time.Now
	}
	if a.deps.Schedule == nil {
		a.deps.Schedule = schedule.Default
	}
	if a.deps.Timings == nil {
		client := api.NewClient()
		if a.env.APIBase != "" {
			client.BaseURL = a.env.APIBase
		}
		a.deps.Timings = withCache(client)
	}
	if a.deps.Quran == nil {
		a.deps.Quran = api.NewQuranClient()
	}
	return nil
}

// withCache puts the on-disk offline cache in front of src. Without a usable
// cache directory src is returned unchanged.
func withCache(src prayer.TimingSource) prayer.TimingSource {
	c, err := cache.New("", src)
	if err != nil {
		log.Debug().Err(err).Msg("timings cache disabled")
		return src
	}
	return c
}

func underConfigCmd(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" {
			return true
		}
	}
	return false
}

// close releases what setup and store acquired. It is safe to call more than once.
func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Debug().Err(err).Msg("closing database")
		}
		a.db = nil
	}
	a.flush()
	a.flush = func() {}
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > environment > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set.
func effectiveConfig(cmd *cobra.Command, loaded *config.Config, env config.Env, f flags) *config.Config {
	cfg := loaded
	if cfg == nil {
		empty := config.Config{}
		cfg = &empty
	}
	cfg.ApplyEnv(env)

	defaults := config.Defaults()
	local := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if flagWasSet(local, root, "latitude") {
		cfg.Latitude = f.latitude
	}
	if flagWasSet(local, root, "longitude") {
		cfg.Longitude = f.longitude
	}
	if flagWasSet(local, root, "method") {
		method := f.method
		cfg.Method = &method
	} else if cfg.Method == nil {
		cfg.Method = defaults.Method
	}
	if flagWasSet(local, root, "lang") {
		cfg.Lang = f.lang
	}
	if cfg.Lang == "" {
		cfg.Lang = defaults.Lang
	}
	if flagWasSet(local, root, "data-dir") {
		cfg.DataDir = f.dataDir
	}
	if flagWasSet(local, root, "database") {
		cfg.Database = f.database
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaults.TimeFormat
	}
	if cfg.Listen == "" {
		cfg.Listen = defaults.Listen
	}

	return cfg
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

// lang returns the output language; an invalid config value falls back to Bengali.
func (a *app) lang() locale.Lang {
	l, err := locale.ParseLang(a.cfg.Lang)
	if err != nil {
		log.Warn().Err(err).Msg("using default language")
		return locale.Bengali
	}
	return l
}

// clockLayout is the Go layout for the configured time format.
func (a *app) clockLayout() string {
	if a.cfg.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

func (a *app) dataDir() (string, error) {
	return a.cfg.DataDirOrDefault()
}

// store opens the database on first use and migrates it.
func (a *app) store() (*store.Store, error) {
	if a.db != nil {
		return a.db, nil
	}

	dsn, err := a.cfg.DatabaseOrDefault()
	if err != nil {
		return nil, err
	}
	if !isURL(dsn) {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("cannot create data directory: %w", err)
		}
	}

	gdb, err := store.Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(gdb); err != nil {
		return nil, err
	}
	a.db = store.New(gdb)
	return a.db, nil
}

func isURL(dsn string) bool {
	for _, prefix := range []string{"postgres://", "postgresql://", "file:"} {
		if strings.HasPrefix(dsn, prefix) {
			return true
		}
	}
	return false
}

// pointer is the on-disk record of who is signed in.
func (a *app) pointer() (*session.File, error) {
	dir, err := a.dataDir()
	if err != nil {
		return nil, err
	}
	return session.NewFile(dir), nil
}

// session returns the signed-in user's store session, refreshed from the
// database so role changes apply. A profile that no longer exists signs out.
func (a *app) session(ctx context.Context) (store.Session, error) {
	ptr, err := a.pointer()
	if err != nil {
		return store.Session{}, err
	}
	p, err := ptr.Load()
	if err != nil || p == nil {
		return store.Session{}, err
	}

	db, err := a.store()
	if err != nil {
		return store.Session{}, err
	}
	fresh, err := db.Profiles.ByID(ctx, p.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Warn().Str("user", p.ID).Msg("signed-in profile no longer exists, signing out")
		_ = ptr.Clear()
		return store.Session{}, nil
	case err != nil:
		log.Warn().Err(err).Msg("could not refresh profile, using saved session")
		return p.Session(), nil
	}
	return fresh.Session(), nil
}

// requireSession is session for commands that write records.
func (a *app) requireSession(ctx context.Context) (store.Session, error) {
	sess, err := a.session(ctx)
	if err != nil {
		return sess, err
	}
	if !sess.LoggedIn() {
		return sess, errors.New("not signed in; run `ramadan signup <name>` or `ramadan login <name>`")
	}
	return sess, nil
}

// resolver builds the prayer-time resolver with overrides from the store.
// A database that cannot be opened only disables overrides.
func (a *app) resolver() *prayer.Resolver {
	opts := []prayer.Option{
		prayer.WithMethod(a.cfg.MethodOrDefault(config.DefaultMethod)),
		prayer.WithClock(a.deps.Now),
	}
	db, err := a.store()
	if err != nil {
		log.Warn().Err(err).Msg("overrides unavailable")
		return prayer.NewResolver(a.deps.Timings, nil, opts...)
	}
	return prayer.NewResolver(a.deps.Timings, db.Overrides, opts...)
}

// location resolves coordinates: flags/config, cached detection, detection, fallback.
func (a *app) location(ctx context.Context) geo.Resolved {
	if a.cfg.HasCoordinates() {
		return geo.Resolve(ctx, &geo.Coordinates{Latitude: a.cfg.Latitude, Longitude: a.cfg.Longitude}, nil)
	}
	locCache, err := geo.NewCache("")
	if err != nil {
		log.Debug().Err(err).Msg("location cache disabled")
		locCache = nil
	}
	return geo.Resolve(ctx, nil, locCache)
}
