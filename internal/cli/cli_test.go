package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-companion/internal/api"
	"github.com/smokyabdulrahman/ramadan-companion/internal/config"
	"github.com/smokyabdulrahman/ramadan-companion/internal/display"
	"github.com/smokyabdulrahman/ramadan-companion/internal/identity"
	"github.com/smokyabdulrahman/ramadan-companion/internal/locale"
	"github.com/smokyabdulrahman/ramadan-companion/internal/store"
)

var testNow = time.Date(2026, time.February, 21, 16, 30, 0, 0, time.UTC)

type fakeTimings struct {
	err error
}

func (f *fakeTimings) FetchByTimestamp(context.Context, time.Time, float64, float64, int) (*api.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &api.Response{Code: 200, Status: "OK", Data: testDay("21 Feb 2026")}, nil
}

func (f *fakeTimings) FetchCalendar(context.Context, int, int, float64, float64, int) (*api.CalendarResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &api.CalendarResponse{Code: 200, Status: "OK", Data: []api.Data{
		testDay("01 Mar 2026"),
		testDay("02 Mar 2026"),
	}}, nil
}

type fakeSurahs struct{}

func (fakeSurahs) Surahs(context.Context) ([]api.Surah, error) {
	return []api.Surah{{Number: 18, EnglishName: "Al-Kahf"}}, nil
}

// Surah serves Al-Ikhlas (112) as a four-ayah surah; any other number fails.
func (fakeSurahs) Surah(_ context.Context, n int) (*api.SurahText, error) {
	if n != 112 {
		return nil, errors.New("surah unavailable")
	}
	text := &api.SurahText{Surah: api.Surah{Number: 112, EnglishName: "Al-Ikhlaas", EnglishNameTranslation: "Sincerity", NumberOfAyahs: 4}}
	lines := []struct{ arabic, bengali, translit string }{
		{"قُلْ هُوَ ٱللَّهُ أَحَدٌ", "বলুন, তিনি আল্লাহ, এক", "Qul huwa Allahu ahad"},
		{"ٱللَّهُ ٱلصَّمَدُ", "আল্লাহ অমুখাপেক্ষী", "Allahu alssamad"},
		{"لَمْ يَلِدْ وَلَمْ يُولَدْ", "তিনি কাউকে জন্ম দেননি এবং কেউ তাঁকে জন্ম দেয়নি", "Lam yalid walam yoolad"},
		{"وَلَمْ يَكُن لَّهُۥ كُفُوًا أَحَدٌۢ", "এবং তাঁর সমতুল্য কেউ নেই", "Walam yakun lahu kufuwan ahad"},
	}
	for i, l := range lines {
		text.Ayahs = append(text.Ayahs, api.Ayah{
			Number: 6222 + i, NumberInSurah: i + 1,
			Arabic: l.arabic, Bengali: l.bengali, Transliteration: l.translit,
		})
	}
	return text, nil
}

func testDay(readable string) api.Data {
	return api.Data{
		Date: api.DateInfo{Readable: readable},
		Timings: api.Timings{
			Fajr: "05:04", Sunrise: "06:19", Dhuhr: "12:13", Asr: "15:30",
			Sunset: "17:56", Maghrib: "17:56", Isha: "19:10",
		},
	}
}

// testCLI runs commands in-process against isolated XDG directories.
type testCLI struct {
	timings *fakeTimings
	dataDir string
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	display.SetEnabled(false)

	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "cache"))
	for _, key := range []string{
		config.EnvDatabaseURL, config.EnvListen, config.EnvCORSOrigins,
		config.EnvAPIBase, config.EnvSentryDSN, config.EnvSessionSecret,
	} {
		t.Setenv(key, "")
	}

	return &testCLI{timings: &fakeTimings{}, dataDir: filepath.Join(base, "data", "ramadan")}
}

// run executes one command line and returns everything written to stdout.
func (c *testCLI) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := c.app()
	root := a.command("v1.2.3-test")

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := a.execute(context.Background(), root)
	return out.String(), err
}

func (c *testCLI) app() *app {
	return newApp(Deps{
		Timings:   c.timings,
		Quran:     fakeSurahs{},
		Now:       func() time.Time { return testNow },
		LogOutput: io.Discard,
	})
}

// mustRun is run for commands expected to succeed.
func (c *testCLI) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := c.run(t, args...)
	if err != nil {
		t.Fatalf("ramadan %s: %v", strings.Join(args, " "), err)
	}
	return out
}

// at appends fixed coordinates so no command reaches for IP geolocation.
func at(args ...string) []string {
	return append(args, "--latitude=23.8103", "--longitude=90.4125")
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// ---------------------------------------------------------------------------
// Root, version, help
// ---------------------------------------------------------------------------

func TestVersionFlag(t *testing.T) {
	c := newTestCLI(t)
	out := c.mustRun(t, "--version")

	got := strings.TrimSpace(out)
	want := "ramadan version v1.2.3-test"
	if got != want {
		t.Errorf("--version = %q, want %q", got, want)
	}
}

func TestHelpFlag(t *testing.T) {
	c := newTestCLI(t)
	out := c.mustRun(t, "--help")

	for _, sub := range []string{
		"next", "calendar", "schedule", "signup", "login", "logout", "whoami",
		"fasting", "journal", "water", "checklist", "quran", "override",
		"admin", "serve", "config", "methods",
	} {
		if !strings.Contains(out, sub) {
			t.Errorf("help output missing subcommand %q", sub)
		}
	}
	for _, flag := range []string{"--lang", "--json", "--latitude", "--longitude", "--method", "--data-dir", "--database", "--verbose"} {
		if !strings.Contains(out, flag) {
			t.Errorf("help output missing flag %q", flag)
		}
	}
}

func TestMethodsSubcommand(t *testing.T) {
	c := newTestCLI(t)
	out := c.mustRun(t, "methods")

	assertContains(t, out,
		"ISNA",
		"Muslim World League",
		"Umm Al-Qura",
		"Jafari",
		"Ministry of Awqaf, Jordan",
		"method 2",
	)
}

func TestCalculationMethods_NoDuplicateIDs(t *testing.T) {
	seen := make(map[int]bool)
	for _, m := range CalculationMethods {
		if seen[m.ID] {
			t.Errorf("duplicate method ID %d", m.ID)
		}
		seen[m.ID] = true
	}
}

func TestCalculationMethods_IDsAreValid(t *testing.T) {
	for _, m := range CalculationMethods {
		if m.ID < 0 || m.ID > 23 {
			t.Errorf("method ID %d out of range 0-23", m.ID)
		}
		if m.Name == "" {
			t.Errorf("method ID %d has empty name", m.ID)
		}
	}
}

func TestExecute_CleansUpAfterFailedCommand(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun(t, "signup", "Amina")

	a := c.app()
	root := a.command("test")

	var opened *store.Store
	flushes := 0
	setup := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := setup(cmd, args); err != nil {
			return err
		}
		flush := a.flush
		a.flush = func() { flushes++; flush() }
		var err error
		opened, err = a.store()
		return err
	}
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"fasting", "mark", "31"})

	if err := a.execute(context.Background(), root); !errors.Is(err, store.ErrInvalid) {
		t.Fatalf("fasting mark 31 error = %v, want %v", err, store.ErrInvalid)
	}
	if flushes != 1 {
		t.Errorf("log flush ran %d times, want 1", flushes)
	}
	if a.db != nil {
		t.Error("database handle kept after the command failed")
	}
	if _, err := opened.Overrides.All(context.Background()); err == nil {
		t.Error("database still usable after the command failed, want it closed")
	}

	// A second close must not flush again.
	a.close()
	if flushes != 1 {
		t.Errorf("log flush ran %d times after a second close, want 1", flushes)
	}
}

// ---------------------------------------------------------------------------
// effectiveConfig
// ---------------------------------------------------------------------------

func TestEffectiveConfig_Priority(t *testing.T) {
	root := newApp(Deps{}).command("test")
	if err := root.PersistentFlags().Set("lang", "en"); err != nil {
		t.Fatal(err)
	}

	file := &config.Config{Lang: "bn", Database: "file.db", TimeFormat: "12h"}
	env := config.Env{DatabaseURL: "postgres://env/ramadan"}
	cfg := effectiveConfig(root, file, env, flags{lang: "en"})

	if cfg.Lang != "en" {
		t.Errorf("Lang = %q, want flag value %q", cfg.Lang, "en")
	}
	if cfg.Database != "postgres://env/ramadan" {
		t.Errorf("Database = %q, want env value", cfg.Database)
	}
	if cfg.TimeFormat != "12h" {
		t.Errorf("TimeFormat = %q, want file value %q", cfg.TimeFormat, "12h")
	}
	if cfg.MethodOrDefault(-1) != config.DefaultMethod {
		t.Errorf("Method = %d, want default %d", cfg.MethodOrDefault(-1), config.DefaultMethod)
	}
	if cfg.Listen != config.DefaultListen {
		t.Errorf("Listen = %q, want default %q", cfg.Listen, config.DefaultListen)
	}
}

func TestEffectiveConfig_FlagBeatsEnv(t *testing.T) {
	root := newApp(Deps{}).command("test")
	if err := root.PersistentFlags().Set("database", "/tmp/flag.db"); err != nil {
		t.Fatal(err)
	}
	if err := root.PersistentFlags().Set("method", "0"); err != nil {
		t.Fatal(err)
	}

	cfg := effectiveConfig(root, nil, config.Env{DatabaseURL: "postgres://env/ramadan"}, flags{database: "/tmp/flag.db", method: 0})

	if cfg.Database != "/tmp/flag.db" {
		t.Errorf("Database = %q, want flag value", cfg.Database)
	}
	if cfg.MethodOrDefault(-1) != 0 {
		t.Errorf("Method = %d, want explicit 0", cfg.MethodOrDefault(-1))
	}
	if cfg.Lang != "bn" {
		t.Errorf("Lang = %q, want default %q", cfg.Lang, "bn")
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		dsn  string
		want bool
	}{
		{"postgres://u:p@localhost/ramadan", true},
		{"postgresql://localhost/ramadan", true},
		{"file:test?mode=memory", true},
		{"/home/me/.local/share/ramadan/ramadan.db", false},
		{"ramadan.db", false},
	}
	for _, tt := range tests {
		if got := isURL(tt.dsn); got != tt.want {
			t.Errorf("isURL(%q) = %v, want %v", tt.dsn, got, tt.want)
		}
	}
}

func TestRedactDSN(t *testing.T) {
	tests := []struct {
		dsn, want string
	}{
		{"postgres://user:secret@db:5432/ramadan", "postgres://***@db:5432/ramadan"},
		{"postgres://db/ramadan", "postgres://db/ramadan"},
		{"/data/ramadan.db", "/data/ramadan.db"},
	}
	for _, tt := range tests {
		if got := redactDSN(tt.dsn); got != tt.want {
			t.Errorf("redactDSN(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Today, next, calendar, schedule
// ---------------------------------------------------------------------------

func TestToday_English(t *testing.T) {
	c := newTestCLI(t)
	out := c.mustRun(t, at("--lang=en")...)

	assertContains(t, out,
		"Prayer Times",
		"23.8103, 90.4125 (config)",
		"21 Feb 2026",
		"Ramadan day 3",
		"Rahmat",
		"Fajr",
		"05:04",
		"Maghrib",
		"17:56  <- 1h 26m",
	)
}

func TestToday_BengaliDefault(t *testing.T) {
	c := newTestCLI(t)
	out := c.mustRun(t, at()...)

	assertContains(t, out, "নামাজের সময়", "মাগরিব", "১৭:৫৬", "১ঘ ২৬মি")
	if strings.Contains(out, "17:56") {
		t.Errorf("Bengali output still has Western digits:\n%s", out)
	}
}

func TestToday_TwelveHour(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun(t, "config", "set", "time_format", "12h")

	out := c.mustRun(t, at("--lang=en")...)
	assertContains(t, out, "5:56 PM")
}

func TestToday_BengaliTwelveHour(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun(t, "config", "set", "time_format", "12h")

	out := c.mustRun(t, at()...)
	assertContains(t, out, "বিকেল ৫:৫৬", "ভোর ৫:০৪")
	if strings.Contains(out, "PM") {
		t.Errorf("Bengali 12h output still has AM/PM:\n%s", out)
	}
}

func TestToday_Unavailable(t *testing.T) {
	c := newTestCLI(t)
	c.timings.err = errors.New("connection refused")

	out, err := c.run(t, at("--lang=en")...)
	if err != nil {
		t.Fatalf("today should not fail when offline: %v", err)
	}
	assertContains(t, out, placeholder, "unavailable")
}

func TestToday_JSON(t *testing.T) {
	c := newTestCLI(t)
	out := c.mustRun(t, at("--json")...)

	assertContains(t, out,
		`"date": "21 Feb 2026"`,
		`"Maghrib": "17:56"`,
		`"name": "Maghrib"`,
		`"minutesLeft": 86`,
		`"phase": "ramadan"`,
		`"source": "config"`,
	)
}

func TestToday_AppliesOverride(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun(t, "signup", "Amina")
	c.mustRun(t, "admin", "promote", "Amina")
	c.mustRun(t, "override", "set", "21 Feb 2026", "05:10", "18:01")

	out := c.mustRun(t, at("--lang=en")...)
	assertContains(t, out, "05:10", "18:01  <- 1h 31m")
}

func TestNext_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"name-and-remaining", "Maghrib 1h 26m"},
		{"name-and-time", "Maghrib 17:56"},
		{"short-name-and-time", "M 17:56"},
		{"time-remaining", "1h 26m"},
		{"{{.Name}} in {{.Hours}}h", "Maghrib in 1h"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			c := newTestCLI(t)
			out := c.mustRun(t, at("next", "--lang=en", "--format="+tt.format)...)
			if out != tt.want {
				t.Errorf("next --format=%s = %q, want %q", tt.format, out, tt.want)
			}
		})
	}
}

func TestNext_Bengali(t *testing.T) {
	c := newTestCLI(t)
	out := c.mustRun(t, at("next", "--format=name-and-time")...)
	if out != "মাগরিব ১৭:৫৬" {
		t.Errorf("next = %q, want %q", out, "মাগরিব ১৭:৫৬")
	}
}

func TestNext_Unavailable(t *testing.T) {
	c := newTestCLI(t)
	c.timings.err = errors.New("timeout")

	out, err := c.run(t, at("next")...)
	if err != nil {
		t.Fatalf("next should not fail when offline: %v", err)
	}
	if out != placeholder {
		t.Errorf("next = %q, want %q", out, placeholder)
	}
}

func TestNext_WatchStopsOnCancel(t *testing.T) {
	c := newTestCLI(t)
	a := c.app()
	root := a.command("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(at("next", "--watch", "--lang=en", "--format=name-and-remaining"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.execute(ctx, root); err != nil {
		t.Fatalf("next --watch: %v", err)
	}
	assertContains(t, out.String(), "\r\033[KMaghrib 1h 26m")
}

func TestCalendar(t *testing.T) {
	c := newTestCLI(t)
	out := c.mustRun(t, at("calendar", "--lang=en", "--month=3", "--year=2026")...)

	assertContains(t, out, "March 2026", "Sun 01 Mar", "Mon 02 Mar", "Sehri", "Iftar", "17:56")
}

func TestCalendar_InvalidMonth(t *testing.T) {
	c := newTestCLI(t)
	if _, err := c.run(t, at("calendar", "--month=13")...); err == nil {
		t.Error("expected an error for month 13")
	}
}

func TestCalendar_Unavailable(t *testing.T) {
	c := newTestCLI(t)
	c.timings.err = errors.New("timeout")

	out, err := c.run(t, at("calendar", "--lang=en")...)
	if err != nil {
		t.Fatalf("calendar should not fail when offline: %v", err)
	}
	assertContains(t, out, "calendar unavailable")
}

func TestSchedule(t *testing.T) {
	c := newTestCLI(t)
	out := c.mustRun(t, "schedule", "--lang=en")

	assertContains(t, out, "Rahmat", "Maghfirat", "Najat", "19 Feb 2026", "Sehri", "Iftar")
}

func TestScheduleToday(t *testing.T) {
	c := newTestCLI(t)

	out := c.mustRun(t, "schedule", "today", "--lang=en")
	assertContains(t, out, "Ramadan day 3", "Rahmat")

	out = c.mustRun(t, "schedule", "today")
	assertContains(t, out, "রমজান ৩", "রহমত")
}

// ---------------------------------------------------------------------------
// Accounts
// ---------------------------------------------------------------------------

func TestAccountFlow(t *testing.T) {
	c := newTestCLI(t)

	if out := c.mustRun(t, "whoami"); !strings.Contains(out, "Not signed in") {
		t.Errorf("whoami before signup = %q", out)
	}

	assertContains(t, c.mustRun(t, "signup", "Amina", "Rahman"), "Welcome, Amina Rahman.")
	assertContains(t, c.mustRun(t, "whoami"), "Amina Rahman (user)")

	if _, err := os.Stat(filepath.Join(c.dataDir, "avex_user.json")); err != nil {
		t.Errorf("session pointer not written: %v", err)
	}

	if _, err := c.run(t, "signup", "Amina Rahman"); !errors.Is(err, identity.ErrDuplicateIdentity) {
		t.Errorf("duplicate signup error = %v, want %v", err, identity.ErrDuplicateIdentity)
	}

	assertContains(t, c.mustRun(t, "logout"), "Signed out.")
	assertContains(t, c.mustRun(t, "whoami"), "Not signed in")

	assertContains(t, c.mustRun(t, "login", "  Amina Rahman "), "Signed in, Amina Rahman.")

	if _, err := c.run(t, "login", "Nobody"); !errors.Is(err, identity.ErrIdentityNotFound) {
		t.Errorf("unknown login error = %v, want %v", err, identity.ErrIdentityNotFound)
	}
}

// ---------------------------------------------------------------------------
// Trackers
// ---------------------------------------------------------------------------

func TestTrackers_LoggedOut(t *testing.T) {
	c := newTestCLI(t)

	assertContains(t, c.mustRun(t, "fasting"), "Fasted 0/30 days")
	assertContains(t, c.mustRun(t, "water"), "0/8 glasses")
	assertContains(t, c.mustRun(t, "checklist"), "Pray 5 Times", "Taraweeh")
	assertContains(t, c.mustRun(t, "journal"), "No journal entries yet.")

	for _, args := range [][]string{
		{"fasting", "mark", "1"},
		{"water", "add"},
		{"checklist", "toggle", "1"},
		{"journal", "add", "hello"},
		{"quran", "bookmark", "1", "1"},
	} {
		if _, err := c.run(t, args...); err == nil || !strings.Contains(err.Error(), "not signed in") {
			t.Errorf("ramadan %s logged out: err = %v, want not signed in", strings.Join(args, " "), err)
		}
	}
}

func TestFasting(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun(t, "signup", "Amina")

	c.mustRun(t, "fasting", "mark", "1", "2", "3")
	out := c.mustRun(t, "fasting", "unmark", "2")
	assertContains(t, out, "Fasted 2/30 days")

	out = c.mustRun(t, "fasting", "--json")
	if strings.Join(strings.Fields(out), "") != "[1,3]" {
		t.Errorf("fasting --json = %q, want [1,3]", out)
	}

	if _, err := c.run(t, "fasting", "mark", "31"); !errors.Is(err, store.ErrInvalid) {
		t.Errorf("mark 31 error = %v, want %v", err, store.ErrInvalid)
	}
	if _, err := c.run(t, "fasting", "mark", "x"); err == nil {
		t.Error("expected an error for a non-numeric day")
	}
}

func TestJournal(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun(t, "signup", "Amina")

	out := c.mustRun(t, "journal", "add", "--mood=grateful", "<b>Alhamdulillah</b>", "for", "today")
	assertContains(t, out, "Saved entry for 21 Feb 2026.")

	out = c.mustRun(t, "journal")
	assertContains(t, out, "Alhamdulillah for today", "grateful", "21 Feb 2026")
	if strings.Contains(out, "<b>") {
		t.Errorf("journal kept markup:\n%s", out)
	}

	if _, err := c.run(t, "journal", "add", "--mood=angry", "text"); !errors.Is(err, store.ErrInvalid) {
		t.Errorf("bad mood error = %v, want %v", err, store.ErrInvalid)
	}
	if _, err := c.run(t, "journal", "add", "<i></i>"); err == nil {
		t.Error("expected an error for text that is empty after cleaning")
	}
}

func TestWater(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun(t, "signup", "Amina")

	c.mustRun(t, "water", "add", "2")
	assertContains(t, c.mustRun(t, "water", "add"), "3/8 glasses")
	assertContains(t, c.mustRun(t, "water", "set", "5", "--goal=10"), "5/10 glasses")
	assertContains(t, c.mustRun(t, "water"), "5/10 glasses")

	if _, err := c.run(t, "water", "set", "-1"); err == nil {
		t.Error("expected an error for negative glasses")
	}
}

func TestChecklist(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun(t, "signup", "Amina")

	out := c.mustRun(t, "checklist", "toggle", "1")
	assertContains(t, out, "[x] 1")

	out = c.mustRun(t, "checklist", "add", "Make", "dua<script>alert(1)</script>")
	assertContains(t, out, "Make dua", "[x] 1")
	if strings.Contains(out, "script") {
		t.Errorf("checklist kept markup:\n%s", out)
	}

	out = c.mustRun(t, "checklist", "reset")
	if strings.Contains(out, "[x]") {
		t.Errorf("reset left items done:\n%s", out)
	}
	assertContains(t, out, "Make dua")

	if _, err := c.run(t, "checklist", "toggle", "99"); err == nil {
		t.Error("expected an error for an unknown item")
	}
}

func TestQuran(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun(t, "signup", "Amina")

	assertContains(t, c.mustRun(t, "quran"), "No bookmark yet.", "Paras completed: 0/30")
	assertContains(t, c.mustRun(t, "quran", "bookmark", "18", "10", "--lang=en"), "Bookmarked 18. Al-Kahf, ayah 10")

	c.mustRun(t, "quran", "para", "done", "1", "2")
	assertContains(t, c.mustRun(t, "quran", "para", "undo", "1"), "Paras completed: 1/30")
	assertContains(t, c.mustRun(t, "quran", "--lang=en"), "Last read: 18. Al-Kahf, ayah 10", "Paras completed: 1/30")

	// Bengali output adds the transliterated name.
	assertContains(t, c.mustRun(t, "quran"), "Al-Kahf ("+locale.Phonetic("Al-Kahf")+")")

	if _, err := c.run(t, "quran", "bookmark", "115", "1"); !errors.Is(err, store.ErrInvalid) {
		t.Errorf("surah 115 error = %v, want %v", err, store.ErrInvalid)
	}
}

func TestQuranRead(t *testing.T) {
	c := newTestCLI(t)

	out := c.mustRun(t, "quran", "read", "112", "--lang=en")
	assertContains(t, out,
		"112. Al-Ikhlaas · Sincerity",
		"[1] قُلْ هُوَ ٱللَّهُ أَحَدٌ",
		"Qul huwa Allahu ahad",
		"বলুন, তিনি আল্লাহ, এক",
		"[4] وَلَمْ يَكُن",
	)

	// Bengali output numbers the ayahs in Bengali and spells the pronunciation in Bengali script.
	out = c.mustRun(t, "quran", "read", "112", "--from=2", "--to=3")
	assertContains(t, out, "[২] ٱللَّهُ ٱلصَّمَدُ", locale.Phonetic("Allahu alssamad"), "[৩]")
	if strings.Contains(out, "[১]") || strings.Contains(out, "[৪]") {
		t.Errorf("output outside --from/--to range:\n%s", out)
	}
	if strings.Contains(out, "Allahu alssamad") {
		t.Errorf("Bengali output kept the romanized pronunciation:\n%s", out)
	}
}

func TestQuranRead_JSON(t *testing.T) {
	c := newTestCLI(t)

	out := c.mustRun(t, "quran", "read", "112", "--from=4", "--json")
	assertContains(t, out,
		`"englishName": "Al-Ikhlaas"`,
		`"numberInSurah": 4`,
		`"transliteration": "Walam yakun lahu kufuwan ahad"`,
		`"phonetic": "`+locale.Phonetic("Walam yakun lahu kufuwan ahad")+`"`,
	)
	if strings.Contains(out, `"numberInSurah": 3`) {
		t.Errorf("JSON includes ayahs before --from:\n%s", out)
	}
}

func TestQuranRead_Bookmark(t *testing.T) {
	c := newTestCLI(t)

	if _, err := c.run(t, "quran", "read", "112", "--bookmark"); err == nil {
		t.Error("quran read --bookmark succeeded while signed out")
	}

	c.mustRun(t, "signup", "Amina")
	assertContains(t, c.mustRun(t, "quran", "read", "112", "--to=3", "--bookmark", "--lang=en"), "Bookmarked 112. Al-Ikhlaas, ayah 3")
	assertContains(t, c.mustRun(t, "quran", "--lang=en"), "Last read: 112. Al-Ikhlaas, ayah 3")
}

func TestQuranRead_Errors(t *testing.T) {
	c := newTestCLI(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"not a number", []string{"quran", "read", "abc"}, "invalid surah"},
		{"surah out of range", []string{"quran", "read", "115"}, "invalid surah 115"},
		{"from past the end", []string{"quran", "read", "112", "--from=5"}, "surah 112 has 4 ayahs"},
		{"to before from", []string{"quran", "read", "112", "--from=3", "--to=2"}, "invalid ayah range 3-2"},
		{"fetch failure", []string{"quran", "read", "18"}, "could not load surah 18"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Overrides and admin
// ---------------------------------------------------------------------------

func TestOverride_RequiresAdmin(t *testing.T) {
	c := newTestCLI(t)

	if _, err := c.run(t, "override", "set", "21 Feb 2026", "05:10", "18:01"); err == nil {
		t.Error("override set succeeded while signed out")
	}

	c.mustRun(t, "signup", "Amina")
	if _, err := c.run(t, "override", "set", "21 Feb 2026", "05:10", "18:01"); !errors.Is(err, errNotAdmin) {
		t.Errorf("non-admin override error = %v, want %v", err, errNotAdmin)
	}
	if _, err := c.run(t, "admin", "stats"); !errors.Is(err, errNotAdmin) {
		t.Errorf("non-admin stats error = %v, want %v", err, errNotAdmin)
	}
}

func TestOverride_Lifecycle(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun(t, "signup", "Amina")
	assertContains(t, c.mustRun(t, "admin", "promote", "Amina"), "Amina is now an admin.")
	assertContains(t, c.mustRun(t, "whoami"), "Amina (admin)")

	if _, err := c.run(t, "override", "set", "21 Feb 2026", "25:00", "18:01"); !errors.Is(err, store.ErrInvalid) {
		t.Errorf("bad time error = %v, want %v", err, store.ErrInvalid)
	}

	file := filepath.Join(t.TempDir(), "overrides.json")
	body := `[{"date":"02 Mar 2026","fajr":"04:50","maghrib":"18:05"},{"date":"20 Feb 2026","fajr":"05:05","maghrib":"17:55"}]`
	if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	assertContains(t, c.mustRun(t, "override", "import", file), "Imported 2 overrides.")

	out := c.mustRun(t, "override", "list")
	first, second := strings.Index(out, "20 Feb 2026"), strings.Index(out, "02 Mar 2026")
	if first == -1 || second == -1 || first > second {
		t.Errorf("override list not in date order:\n%s", out)
	}

	out = c.mustRun(t, at("calendar", "--lang=en", "--month=3", "--year=2026")...)
	assertContains(t, out, "04:50", "18:05")

	c.mustRun(t, "override", "delete", "02 Mar 2026")
	out = c.mustRun(t, "override", "list")
	if strings.Contains(out, "02 Mar 2026") {
		t.Errorf("deleted override still listed:\n%s", out)
	}
}

func TestOverride_ImportBadFile(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun(t, "signup", "Amina")
	c.mustRun(t, "admin", "promote", "Amina")

	file := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(file, []byte(`{"not":"a list"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := c.run(t, "override", "import", file); !errors.Is(err, store.ErrInvalid) {
		t.Errorf("import error = %v, want %v", err, store.ErrInvalid)
	}
	if _, err := c.run(t, "override", "import", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestAdminPromote_UnknownName(t *testing.T) {
	c := newTestCLI(t)
	if _, err := c.run(t, "admin", "promote", "Nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("promote error = %v, want %v", err, store.ErrNotFound)
	}
}

func TestAdminStats(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun(t, "signup", "Bilal")
	c.mustRun(t, "fasting", "mark", "1", "2")
	c.mustRun(t, "signup", "Amina")
	c.mustRun(t, "fasting", "mark", "1")
	c.mustRun(t, "admin", "promote", "Amina")

	out := c.mustRun(t, "admin", "stats", "--json")
	assertContains(t, out, `"totalUsers": 2`, `"totalFasts": 3`, `"activeUsers": 1`, `"totalTasbih": 200`)
}

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

func TestConfigCommands(t *testing.T) {
	c := newTestCLI(t)

	assertContains(t, c.mustRun(t, "config", "set", "lang", "en"), "Set lang = en")
	if got := strings.TrimSpace(c.mustRun(t, "config", "get", "lang")); got != "en" {
		t.Errorf("config get lang = %q, want %q", got, "en")
	}

	c.mustRun(t, "config", "set", "method", "1")
	assertContains(t, c.mustRun(t, "config"), "University of Islamic Sciences, Karachi", "(not set)")

	path := strings.TrimSpace(c.mustRun(t, "config", "path"))
	if !strings.HasSuffix(path, filepath.Join("ramadan", "config.json")) {
		t.Errorf("config path = %q", path)
	}

	// The saved language now drives output.
	assertContains(t, c.mustRun(t, "schedule", "today"), "Ramadan day 3")

	assertContains(t, c.mustRun(t, "config", "reset"), "reset to defaults")
	if got := strings.TrimSpace(c.mustRun(t, "config", "get", "lang")); got != "" {
		t.Errorf("config get lang after reset = %q, want empty", got)
	}

	if _, err := c.run(t, "config", "set", "nope", "1"); err == nil {
		t.Error("expected an error for an unknown key")
	}
}

func TestConfigReset_CorruptFile(t *testing.T) {
	c := newTestCLI(t)
	path := strings.TrimSpace(c.mustRun(t, "config", "path"))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := c.run(t, "schedule"); err == nil {
		t.Error("expected other commands to report the broken config")
	}
	c.mustRun(t, "config", "reset")
	c.mustRun(t, "schedule")
}
