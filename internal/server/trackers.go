package server

import (
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/ramadan-companion/internal/api"
	"github.com/smokyabdulrahman/ramadan-companion/internal/locale"
	"github.com/smokyabdulrahman/ramadan-companion/internal/store"
)

// clean strips markup from user text. StrictPolicy escapes entities, which we undo for JSON.
func (s *Server) clean(text string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(text)))
}

// --- Fasting ---

type daysBody struct {
	Days []int `json:"days"`
}

func (s *Server) getFasting(c *gin.Context) {
	c.JSON(http.StatusOK, daysBody{Days: s.deps.Store.Fasting.Get(c.Request.Context(), currentSession(c))})
}

func (s *Server) putFasting(c *gin.Context) {
	var req daysBody
	if !bindJSON(c, &req, "request body must be {\"days\": [...]}") {
		return
	}
	ctx, sess := c.Request.Context(), currentSession(c)
	if err := s.deps.Store.Fasting.Save(ctx, sess, req.Days); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, daysBody{Days: s.deps.Store.Fasting.Get(ctx, sess)})
}

// --- Journal ---

type journalRequest struct {
	Mood store.Mood `json:"mood"`
	Text string     `json:"text"`
}

func (s *Server) listJournal(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Store.Journal.List(c.Request.Context(), currentSession(c)))
}

func (s *Server) addJournal(c *gin.Context) {
	var req journalRequest
	if !bindJSON(c, &req, "request body must be {\"mood\": ..., \"text\": ...}") {
		return
	}
	text := s.clean(req.Text)
	if text == "" {
		respondError(c, http.StatusBadRequest, "journal text must not be empty")
		return
	}

	entry := store.NewJournalEntry(s.opts.Now(), req.Mood, text)
	if err := s.deps.Store.Journal.Add(c.Request.Context(), currentSession(c), entry); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// --- Water ---

type waterRequest struct {
	Date    string `json:"date"`
	Glasses int    `json:"glasses"`
	Goal    int    `json:"goal"`
}

func (s *Server) getWater(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Store.Water.Today(c.Request.Context(), currentSession(c)))
}

func (s *Server) putWater(c *gin.Context) {
	var req waterRequest
	if !bindJSON(c, &req, "request body must be {\"glasses\": n, \"goal\": n}") {
		return
	}
	ctx, sess := c.Request.Context(), currentSession(c)
	if req.Goal == 0 {
		req.Goal = s.deps.Store.Water.Today(ctx, sess).Goal
	}

	entry := store.WaterLog{Date: req.Date, Glasses: req.Glasses, Goal: req.Goal}
	if err := s.deps.Store.Water.Update(ctx, sess, entry); err != nil {
		respondErr(c, err)
		return
	}
	if entry.Date == "" {
		entry.Date = s.deps.Store.Water.TodayKey()
	}
	c.JSON(http.StatusOK, entry)
}

// --- Checklist ---

func (s *Server) getChecklist(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Store.Checklist.Get(c.Request.Context(), currentSession(c)))
}

func (s *Server) putChecklist(c *gin.Context) {
	var items []store.ChecklistItem
	if !bindJSON(c, &items, "request body must be a list of checklist items") {
		return
	}
	for i := range items {
		items[i].Text = s.clean(items[i].Text)
	}

	ctx, sess := c.Request.Context(), currentSession(c)
	if err := s.deps.Store.Checklist.Save(ctx, sess, items); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, s.deps.Store.Checklist.Get(ctx, sess))
}

// --- Quran ---

type parasBody struct {
	Paras []int `json:"paras"`
}

type surahAyah struct {
	api.Ayah
	Phonetic string `json:"phonetic,omitempty"`
}

type surahBody struct {
	Surah api.Surah   `json:"surah"`
	Ayahs []surahAyah `json:"ayahs"`
}

// getSurah serves a surah in Arabic with its Bengali meaning, its romanized
// pronunciation and that pronunciation in Bengali script.
func (s *Server) getSurah(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 || n > store.MaxSurah {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("surah must be a number from 1 to %d", store.MaxSurah))
		return
	}
	if s.deps.Quran == nil {
		respondError(c, http.StatusServiceUnavailable, "quran text is not configured")
		return
	}

	text, err := s.deps.Quran.Surah(c.Request.Context(), n)
	if err != nil {
		log.Warn().Err(err).Int("surah", n).Msg("could not load surah")
		respondError(c, http.StatusServiceUnavailable, fmt.Sprintf("surah %d is unavailable right now", n))
		return
	}

	body := surahBody{Surah: text.Surah, Ayahs: make([]surahAyah, 0, len(text.Ayahs))}
	for _, ay := range text.Ayahs {
		body.Ayahs = append(body.Ayahs, surahAyah{Ayah: ay, Phonetic: locale.Phonetic(ay.Transliteration)})
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) getLastRead(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Store.Quran.LastRead(c.Request.Context(), currentSession(c)))
}

func (s *Server) putLastRead(c *gin.Context) {
	var req store.QuranProgress
	if !bindJSON(c, &req, "request body must be {\"surahNumber\": n, \"ayahNumber\": n}") {
		return
	}
	ctx := c.Request.Context()
	if req.SurahName == "" && s.deps.Quran != nil {
		surahs, err := s.deps.Quran.Surahs(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("could not load surah index")
		}
		req.SurahName = api.SurahName(surahs, req.SurahNumber)
	}
	req.SurahName = s.clean(req.SurahName)
	req.Timestamp = s.opts.Now().UnixMilli()

	if err := s.deps.Store.Quran.SaveLastRead(ctx, currentSession(c), req); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (s *Server) getParas(c *gin.Context) {
	c.JSON(http.StatusOK, parasBody{Paras: s.deps.Store.Quran.Paras(c.Request.Context(), currentSession(c))})
}

func (s *Server) putParas(c *gin.Context) {
	var req parasBody
	if !bindJSON(c, &req, "request body must be {\"paras\": [...]}") {
		return
	}
	ctx, sess := c.Request.Context(), currentSession(c)
	if err := s.deps.Store.Quran.SaveParas(ctx, sess, req.Paras); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, parasBody{Paras: s.deps.Store.Quran.Paras(ctx, sess)})
}
