package parser

import (
	"fmt"
	"strings"
	"time"

	"coachsync/internal/domain"
)

// ColumnLayout names the fixed column positions the coach spreadsheets use.
// The layout is a contract with the spreadsheet authors; if their template
// drifts, only this table has to change.
type ColumnLayout struct {
	MuscleGroup int
	Name        int
	Video       int
	Sets        int
	Reps        int
	RIR         int
	Rest        int
	// MinCells is the minimum cell count a row needs before it is
	// considered at all.
	MinCells int
}

// DefaultColumnLayout matches the template coaches are given.
func DefaultColumnLayout() ColumnLayout {
	return ColumnLayout{
		MuscleGroup: 2,
		Name:        3,
		Video:       4,
		Sets:        5,
		Reps:        6,
		RIR:         7,
		Rest:        8,
		MinCells:    9,
	}
}

const (
	// headerScanWindow bounds how far down the sheet we look for the start
	// of the exercise section.
	headerScanWindow = 50
	// headerToken marks the section header row in the muscle-group column.
	headerToken = "EXERCISES"
)

// Parser turns raw spreadsheet rows into a structured exercise record set.
// Sheets are human-maintained and inconsistently formatted (merged header
// text, blank separator rows, stray asterisked notes), so the parser locates
// the exercise section heuristically and filters row by row instead of
// failing outright.
type Parser struct {
	layout ColumnLayout
}

func New(layout ColumnLayout) *Parser {
	return &Parser{layout: layout}
}

// Parse extracts exercise records from raw rows. An empty or malformed sheet
// yields zero records together with metadata; it is never an error.
// Parsing is deterministic for a given row sequence apart from ParsedAt.
func (p *Parser) Parse(rows [][]string) ([]domain.ExerciseRecord, domain.PlanMetadata) {
	records := []domain.ExerciseRecord{}
	groups := []string{}
	seenGroups := map[string]bool{}

	start, found := p.locateStart(rows)
	if found {
		for i := start; i < len(rows); i++ {
			row := rows[i]
			if len(row) < p.layout.MinCells {
				continue
			}

			rec, ok := p.extractRow(row, i)
			if !ok {
				continue
			}

			records = append(records, rec)
			if !seenGroups[rec.MuscleGroup] {
				seenGroups[rec.MuscleGroup] = true
				groups = append(groups, rec.MuscleGroup)
			}
		}
	}

	meta := domain.PlanMetadata{
		TotalCount:   len(records),
		MuscleGroups: groups,
		ParsedAt:     time.Now().UTC(),
	}
	return records, meta
}

// locateStart finds the row the exercise section begins at. It first scans
// for the section header row; failing that, it falls back to the first row
// that plausibly names an exercise. The header row itself is returned as the
// start and later rejected by the name filter.
func (p *Parser) locateStart(rows [][]string) (int, bool) {
	limit := len(rows)
	if limit > headerScanWindow {
		limit = headerScanWindow
	}

	for i := 0; i < limit; i++ {
		marker := strings.ToUpper(strings.TrimSpace(cellAt(rows[i], p.layout.MuscleGroup)))
		if marker != "" && len(marker) < 50 && strings.Contains(marker, headerToken) {
			return i, true
		}
	}

	// Fallback: no header row found, look for the first plausible
	// exercise name instead.
	for i := 0; i < limit; i++ {
		name := strings.TrimSpace(cellAt(rows[i], p.layout.Name))
		if len(name) > 2 && !strings.Contains(name, "**") {
			return i, true
		}
	}

	return 0, false
}

// extractRow validates and normalizes one candidate row. Header leftovers,
// asterisked notes and rows without a set count are rejected.
func (p *Parser) extractRow(row []string, rawIndex int) (domain.ExerciseRecord, bool) {
	rawName := cellAt(row, p.layout.Name)
	if !isExerciseName(rawName) {
		return domain.ExerciseRecord{}, false
	}

	sets := leadingInt(strings.TrimSpace(cellAt(row, p.layout.Sets)))
	if sets == 0 {
		// Stray header or separator row, not an exercise.
		return domain.ExerciseRecord{}, false
	}

	return domain.ExerciseRecord{
		RecordID:    fmt.Sprintf("ex-%d", rawIndex),
		MuscleGroup: normalizeMuscleGroup(cellAt(row, p.layout.MuscleGroup)),
		Name:        cleanCell(rawName),
		VideoRef:    cleanCell(cellAt(row, p.layout.Video)),
		SetCount:    sets,
		RepsSpec:    cleanCell(cellAt(row, p.layout.Reps)),
		RIR:         ExtractRIR(cellAt(row, p.layout.RIR)),
		RestSpec:    cleanCell(cellAt(row, p.layout.Rest)),
	}, true
}

// isExerciseName filters out header rows and notes that survive the
// positional checks: generic header words in either language, asterisked
// markup, and too-short fragments.
func isExerciseName(raw string) bool {
	name := strings.TrimSpace(raw)
	if len(name) < 2 {
		return false
	}
	if strings.Contains(strings.ToUpper(name), "EXERCISE") {
		return false
	}
	if strings.Contains(name, "**") {
		return false
	}
	if strings.Contains(strings.ToLower(name), "ejercicio") {
		return false
	}
	return true
}

// cellAt returns the cell at idx, tolerating ragged rows.
func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}
