// Package export writes a learner's word bank for parents: an indented
// JSON document or an XLSX workbook.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/sensei/internal/progress"
	"github.com/abhisek/sensei/internal/xp"
)

// Formats.
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// Sheet names in the workbook.
const (
	WordsSheet   = "Words"
	SummarySheet = "Summary"
)

var kanjiRE = regexp.MustCompile(`[\x{4e00}-\x{9faf}]`)

// Document is the JSON export.
type Document struct {
	ExportedAt    time.Time            `json:"exportedAt"`
	KnownVocab    []string             `json:"knownVocab"`
	KnownKanji    []string             `json:"knownKanji"`
	XP            int                  `json:"xp"`
	Level         int                  `json:"level"`
	TotalSessions int                  `json:"totalSessions"`
	DailyDate     string               `json:"dailyDate"`
	DailyXP       int                  `json:"dailyXp"`
	DailySessions int                  `json:"dailySessions"`
	Words         []progress.WordEntry `json:"words"`
}

// NewDocument builds the export for st. Every ledger term is known
// vocabulary; terms with at least one kanji are also listed as known kanji.
func NewDocument(st progress.State, now time.Time) Document {
	doc := Document{
		ExportedAt:    now.UTC(),
		KnownVocab:    []string{},
		KnownKanji:    []string{},
		XP:            st.XP,
		Level:         xp.LevelOf(st.XP).Number,
		TotalSessions: st.TotalSessions,
		DailyDate:     st.DailyDate,
		DailyXP:       st.DailyXP,
		DailySessions: st.DailySessions,
		Words:         st.Words,
	}
	if doc.Words == nil {
		doc.Words = []progress.WordEntry{}
	}
	for _, w := range st.Words {
		doc.KnownVocab = append(doc.KnownVocab, w.Term)
		if kanjiRE.MatchString(w.Term) {
			doc.KnownKanji = append(doc.KnownKanji, w.Term)
		}
	}
	return doc
}

// JSON writes the export as two-space indented JSON.
func JSON(w io.Writer, st progress.State, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(st, now)); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

var wordHeader = []any{"Term", "Romaji", "English", "Count", "Last seen", "Next review"}

// XLSX writes a workbook with a Words sheet (one row per ledger entry) and
// a Summary sheet.
func XLSX(w io.Writer, st progress.State, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", WordsSheet)
	if err := f.SetSheetRow(WordsSheet, "A1", &wordHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, word := range st.Words {
		row := []any{
			word.Term,
			word.Romaji,
			word.English,
			word.Count,
			word.LastSeen.UTC().Format(time.RFC3339),
			word.NextReviewAt.UTC().Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(WordsSheet, cell, &row); err != nil {
			return fmt.Errorf("write word %q: %w", word.Term, err)
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}
	level := xp.LevelOf(st.XP)
	summary := [][]any{
		{"Exported at", now.UTC().Format(time.RFC3339)},
		{"XP", st.XP},
		{"Level", level.Number},
		{"Level progress %", level.Percent},
		{"Total sessions", st.TotalSessions},
		{"Today", st.DailyDate},
		{"XP today", st.DailyXP},
		{"Sessions today", st.DailySessions},
		{"Words", len(st.Words)},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Write dispatches on format.
func Write(w io.Writer, format string, st progress.State, now time.Time) error {
	switch format {
	case "", FormatJSON:
		return JSON(w, st, now)
	case FormatXLSX:
		return XLSX(w, st, now)
	default:
		return fmt.Errorf("unknown export format: %q", format)
	}
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/json"
}

// Filename returns the download name for format.
func Filename(format string) string {
	if format == FormatXLSX {
		return "japanese-progress.xlsx"
	}
	return "japanese-progress.json"
}
