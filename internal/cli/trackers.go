package cli

import (
	"fmt"
	"html"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-companion/internal/api"
	"github.com/smokyabdulrahman/ramadan-companion/internal/display"
	"github.com/smokyabdulrahman/ramadan-companion/internal/locale"
	"github.com/smokyabdulrahman/ramadan-companion/internal/store"
)

var textPolicy = bluemonday.StrictPolicy()

// cleanText strips markup so the web client can render stored text safely.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// intArgs parses every arg as an integer.
func intArgs(args []string, what string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: must be a number", what, a)
		}
		out = append(out, n)
	}
	return out, nil
}

// --- Fasting ---

func (a *app) newFastingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fasting",
		Short: "Show or update which Ramadan days you fasted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			db, err := a.store()
			if err != nil {
				return err
			}
			days := db.Fasting.Get(cmd.Context(), sess)
			if a.flags.json {
				return printJSON(cmd.OutOrStdout(), days)
			}
			printFasting(cmd.OutOrStdout(), days)
			return nil
		},
	}

	update := func(mark bool) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			days, err := intArgs(args, "day")
			if err != nil {
				return err
			}
			sess, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			db, err := a.store()
			if err != nil {
				return err
			}

			current := db.Fasting.Get(cmd.Context(), sess)
			for _, d := range days {
				if mark {
					current = append(current, d)
				} else {
					current = slices.DeleteFunc(current, func(c int) bool { return c == d })
				}
			}
			if err := db.Fasting.Save(cmd.Context(), sess, current); err != nil {
				return err
			}
			printFasting(cmd.OutOrStdout(), db.Fasting.Get(cmd.Context(), sess))
			return nil
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "mark <day>...",
		Short: "Mark Ramadan days (1-30) as fasted",
		Args:  cobra.MinimumNArgs(1),
		RunE:  update(true),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "unmark <day>...",
		Short: "Clear fasted Ramadan days",
		Args:  cobra.MinimumNArgs(1),
		RunE:  update(false),
	})

	return cmd
}

func printFasting(w io.Writer, days []int) {
	done := make(map[int]bool, len(days))
	for _, d := range days {
		done[d] = true
	}

	var b strings.Builder
	for d := 1; d <= store.RamadanDays; d++ {
		cell := fmt.Sprintf("%3d", d)
		if done[d] {
			cell = display.Green(cell)
		} else {
			cell = display.Dim(cell)
		}
		b.WriteString(cell)
		if d%10 == 0 {
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(w, "Fasted %d/%d days\n%s", len(days), store.RamadanDays, b.String())
}

// --- Journal ---

func (a *app) newJournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List your Ramadan reflections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			db, err := a.store()
			if err != nil {
				return err
			}
			entries := db.Journal.List(cmd.Context(), sess)
			out := cmd.OutOrStdout()
			if a.flags.json {
				return printJSON(out, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No journal entries yet.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s\n  %s\n", display.Bold(e.Date), display.Dim(string(e.Mood)), e.Text)
			}
			return nil
		},
	}

	var mood string
	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Write a reflection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := cleanText(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("journal text must not be empty")
			}
			sess, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			db, err := a.store()
			if err != nil {
				return err
			}

			entry := store.NewJournalEntry(a.deps.Now(), store.Mood(mood), text)
			if err := db.Journal.Add(cmd.Context(), sess, entry); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved entry for %s.\n", entry.Date)
			return nil
		},
	}
	add.Flags().StringVar(&mood, "mood", string(store.MoodNeutral), "Mood: happy, grateful, neutral, tired or sad")
	cmd.AddCommand(add)

	return cmd
}

// --- Water ---

func (a *app) newWaterCmd() *cobra.Command {
	var goal int

	show := func(cmd *cobra.Command, entry store.WaterLog) error {
		if a.flags.json {
			return printJSON(cmd.OutOrStdout(), entry)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d glasses\n", entry.Date, entry.Glasses, entry.Goal)
		return nil
	}

	// write applies change to today's log; a --goal flag replaces the goal.
	write := func(cmd *cobra.Command, change func(*store.WaterLog)) error {
		sess, err := a.requireSession(cmd.Context())
		if err != nil {
			return err
		}
		db, err := a.store()
		if err != nil {
			return err
		}
		entry := db.Water.Today(cmd.Context(), sess)
		change(&entry)
		if cmd.Flags().Changed("goal") {
			entry.Goal = goal
		}
		if err := db.Water.Update(cmd.Context(), sess, entry); err != nil {
			return err
		}
		return show(cmd, entry)
	}

	cmd := &cobra.Command{
		Use:   "water",
		Short: "Show or update today's water intake",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("goal") {
				return write(cmd, func(*store.WaterLog) {})
			}
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			db, err := a.store()
			if err != nil {
				return err
			}
			return show(cmd, db.Water.Today(cmd.Context(), sess))
		},
	}
	cmd.PersistentFlags().IntVar(&goal, "goal", store.DefaultWaterGoal, "Daily goal in glasses")

	cmd.AddCommand(&cobra.Command{
		Use:   "add [n]",
		Short: "Add glasses (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 1
			if len(args) == 1 {
				parsed, err := intArgs(args, "count")
				if err != nil {
					return err
				}
				n = parsed[0]
			}
			return write(cmd, func(e *store.WaterLog) { e.Glasses += n })
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <n>",
		Short: "Set today's glasses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := intArgs(args, "count")
			if err != nil {
				return err
			}
			return write(cmd, func(e *store.WaterLog) { e.Glasses = parsed[0] })
		},
	})

	return cmd
}

// --- Checklist ---

func (a *app) newChecklistCmd() *cobra.Command {
	// edit loads the list, applies change and saves it back.
	edit := func(cmd *cobra.Command, change func([]store.ChecklistItem) ([]store.ChecklistItem, error)) error {
		sess, err := a.requireSession(cmd.Context())
		if err != nil {
			return err
		}
		db, err := a.store()
		if err != nil {
			return err
		}
		items, err := change(db.Checklist.Get(cmd.Context(), sess))
		if err != nil {
			return err
		}
		if err := db.Checklist.Save(cmd.Context(), sess, items); err != nil {
			return err
		}
		printChecklist(cmd.OutOrStdout(), db.Checklist.Get(cmd.Context(), sess))
		return nil
	}

	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Show your daily acts checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			db, err := a.store()
			if err != nil {
				return err
			}
			items := db.Checklist.Get(cmd.Context(), sess)
			if a.flags.json {
				return printJSON(cmd.OutOrStdout(), items)
			}
			printChecklist(cmd.OutOrStdout(), items)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle an item done or not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(cmd, func(items []store.ChecklistItem) ([]store.ChecklistItem, error) {
				for i := range items {
					if items[i].ID == args[0] {
						items[i].Completed = !items[i].Completed
						return items, nil
					}
				}
				return nil, fmt.Errorf("no checklist item with id %q", args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <text>",
		Short: "Add a custom item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := cleanText(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("checklist text must not be empty")
			}
			return edit(cmd, func(items []store.ChecklistItem) ([]store.ChecklistItem, error) {
				return append(items, store.ChecklistItem{ID: uuid.NewString()[:8], Text: text}), nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Clear every item for a new day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(cmd, func(items []store.ChecklistItem) ([]store.ChecklistItem, error) {
				for i := range items {
					items[i].Completed = false
				}
				return items, nil
			})
		},
	})

	return cmd
}

func printChecklist(w io.Writer, items []store.ChecklistItem) {
	for _, item := range items {
		mark := "[ ]"
		line := item.Text
		if item.Completed {
			mark = display.Green("[x]")
			line = display.Dim(line)
		}
		fmt.Fprintf(w, "%s %-8s %s\n", mark, item.ID, line)
	}
}

// --- Quran ---

func (a *app) newQuranCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quran",
		Short: "Show your reading bookmark and completed paras",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			db, err := a.store()
			if err != nil {
				return err
			}
			last := db.Quran.LastRead(cmd.Context(), sess)
			paras := db.Quran.Paras(cmd.Context(), sess)
			out := cmd.OutOrStdout()
			if a.flags.json {
				return printJSON(out, map[string]any{"lastRead": last, "paras": paras})
			}
			if last == nil {
				fmt.Fprintln(out, "No bookmark yet.")
			} else {
				fmt.Fprintf(out, "Last read: %d. %s, ayah %d\n", last.SurahNumber, a.surahLabel(last.SurahName), last.AyahNumber)
			}
			fmt.Fprintf(out, "Paras completed: %d/%d\n", len(paras), store.RamadanDays)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "bookmark <surah> <ayah>",
		Short: "Save where you stopped reading",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums, err := intArgs(args, "number")
			if err != nil {
				return err
			}
			sess, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			db, err := a.store()
			if err != nil {
				return err
			}

			surahs, err := a.deps.Quran.Surahs(cmd.Context())
			if err != nil {
				log.Warn().Err(err).Msg("could not load surah index")
			}
			progress := store.QuranProgress{
				SurahNumber: nums[0],
				SurahName:   api.SurahName(surahs, nums[0]),
				AyahNumber:  nums[1],
				Timestamp:   a.deps.Now().UnixMilli(),
			}
			if err := db.Quran.SaveLastRead(cmd.Context(), sess, progress); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bookmarked %d. %s, ayah %d\n", progress.SurahNumber, a.surahLabel(progress.SurahName), progress.AyahNumber)
			return nil
		},
	})

	cmd.AddCommand(a.newQuranReadCmd())

	para := &cobra.Command{
		Use:   "para",
		Short: "Mark paras (1-30) as completed or not",
	}
	setParas := func(done bool) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			nums, err := intArgs(args, "para")
			if err != nil {
				return err
			}
			sess, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			db, err := a.store()
			if err != nil {
				return err
			}
			paras := db.Quran.Paras(cmd.Context(), sess)
			for _, n := range nums {
				if done {
					paras = append(paras, n)
				} else {
					paras = slices.DeleteFunc(paras, func(p int) bool { return p == n })
				}
			}
			if err := db.Quran.SaveParas(cmd.Context(), sess, paras); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Paras completed: %d/%d\n", len(db.Quran.Paras(cmd.Context(), sess)), store.RamadanDays)
			return nil
		}
	}
	para.AddCommand(&cobra.Command{
		Use:   "done <n>...",
		Short: "Mark paras completed",
		Args:  cobra.MinimumNArgs(1),
		RunE:  setParas(true),
	})
	para.AddCommand(&cobra.Command{
		Use:   "undo <n>...",
		Short: "Unmark paras",
		Args:  cobra.MinimumNArgs(1),
		RunE:  setParas(false),
	})
	cmd.AddCommand(para)

	return cmd
}

// readAyah is one verse as the reader prints it.
type readAyah struct {
	api.Ayah
	Phonetic string `json:"phonetic,omitempty"`
}

func (a *app) newQuranReadCmd() *cobra.Command {
	var from, to int
	var bookmark bool

	cmd := &cobra.Command{
		Use:   "read <surah>",
		Short: "Read a surah in Arabic with Bengali meaning and pronunciation",
		Example: `  ramadan quran read 112
  ramadan quran read 18 --from 10 --to 20 --bookmark`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums, err := intArgs(args, "surah")
			if err != nil {
				return err
			}
			number := nums[0]
			if number < 1 || number > store.MaxSurah {
				return fmt.Errorf("invalid surah %d: must be 1-%d", number, store.MaxSurah)
			}

			var sess store.Session
			if bookmark {
				if sess, err = a.requireSession(cmd.Context()); err != nil {
					return err
				}
			}

			text, err := a.deps.Quran.Surah(cmd.Context(), number)
			if err != nil {
				return fmt.Errorf("could not load surah %d: %w", number, err)
			}
			total := len(text.Ayahs)
			last := to
			if last == 0 {
				last = total
			}
			if from < 1 || from > total || last < from || last > total {
				return fmt.Errorf("invalid ayah range %d-%d: surah %d has %d ayahs", from, last, number, total)
			}

			ayahs := make([]readAyah, 0, last-from+1)
			for _, ay := range text.Ayahs[from-1 : last] {
				ayahs = append(ayahs, readAyah{Ayah: ay, Phonetic: locale.Phonetic(ay.Transliteration)})
			}

			out := cmd.OutOrStdout()
			if a.flags.json {
				if err := printJSON(out, map[string]any{"surah": text.Surah, "ayahs": ayahs}); err != nil {
					return err
				}
			} else {
				a.printSurah(out, text.Surah, ayahs)
			}

			if !bookmark {
				return nil
			}
			db, err := a.store()
			if err != nil {
				return err
			}
			progress := store.QuranProgress{
				SurahNumber: number,
				SurahName:   text.EnglishName,
				AyahNumber:  last,
				Timestamp:   a.deps.Now().UnixMilli(),
			}
			if err := db.Quran.SaveLastRead(cmd.Context(), sess, progress); err != nil {
				return err
			}
			if !a.flags.json {
				fmt.Fprintf(out, "Bookmarked %d. %s, ayah %d\n", progress.SurahNumber, a.surahLabel(progress.SurahName), progress.AyahNumber)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&from, "from", 1, "First ayah to show")
	cmd.Flags().IntVar(&to, "to", 0, "Last ayah to show (default: end of the surah)")
	cmd.Flags().BoolVar(&bookmark, "bookmark", false, "Save the last ayah shown as your reading bookmark")
	return cmd
}

// printSurah prints each ayah as its Arabic text, its pronunciation and its Bengali meaning.
// English output keeps the romanized pronunciation; Bengali output spells it in Bengali script.
func (a *app) printSurah(w io.Writer, s api.Surah, ayahs []readAyah) {
	lang := a.lang()
	header := fmt.Sprintf("%s. %s", lang.Digits(strconv.Itoa(s.Number)), a.surahLabel(s.EnglishName))
	if s.EnglishNameTranslation != "" {
		header += " · " + s.EnglishNameTranslation
	}
	fmt.Fprintln(w, display.Bold(header))

	for _, ay := range ayahs {
		fmt.Fprintf(w, "\n[%s] %s\n", lang.Digits(strconv.Itoa(ay.NumberInSurah)), ay.Arabic)
		pron := ay.Transliteration
		if lang == locale.Bengali {
			pron = ay.Phonetic
		}
		if pron != "" {
			fmt.Fprintf(w, "    %s\n", display.Dim(pron))
		}
		if ay.Bengali != "" {
			fmt.Fprintf(w, "    %s\n", ay.Bengali)
		}
	}
}

// surahLabel adds the Bengali reading of a romanized surah name.
func (a *app) surahLabel(name string) string {
	if a.lang() != locale.Bengali || name == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, locale.Phonetic(name))
}
