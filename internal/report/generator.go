// Package report renders a day's journal entry as a printable HTML page
// and stores it in the reports directory.
package report

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/atinyakov/DietJournal/internal/models"
	"github.com/atinyakov/DietJournal/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Supported report formats. Every format currently carries the HTML rendering.
const (
	FormatHTML  = "html"
	FormatPDF   = "pdf"
	FormatExcel = "excel"
)

//go:embed templates/daily.html.tmpl
var templates embed.FS

var dailyTemplate = template.Must(template.ParseFS(templates, "templates/daily.html.tmpl"))

var reportName = regexp.MustCompile(`^report_[0-9]+_[0-9]{4}-[0-9]{2}-[0-9]{2}\.(html|pdf|excel)$`)

// EntryFinder looks up a user's entry for a date, returning nil when there is none.
type EntryFinder interface {
	GetByDate(ctx context.Context, userID int64, date string) (*models.Entry, error)
}

// StageFinder looks up a stage by id.
type StageFinder interface {
	Get(ctx context.Context, stageID int64) (*models.Stage, error)
}

// Generator renders daily reports into dir.
type Generator struct {
	entries EntryFinder
	stages  StageFinder
	dir     string
	log     *zap.Logger
}

// NewGenerator constructs a Generator writing into dir.
func NewGenerator(entries EntryFinder, stages StageFinder, dir string, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{entries: entries, stages: stages, dir: dir, log: log}
}

type mealRow struct {
	Time, Food, Mass, Kcal string
}

type page struct {
	Stage, Day, Date               string
	Weight, NextWeight, LostWeight string
	Waist, Hips                    string
	TotalGrams, TotalKcal          string
	KcalDensity                    string
	Edema, CycleDay, Stool         string
	Meals                          []mealRow
}

// Generate renders the user's entry for date and writes it as
// report_<userID>_<date>.<format>, returning the file name.
// An existing report for the same day and format is replaced.
func (g *Generator) Generate(ctx context.Context, userID int64, date, format string) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("%w: user_id is required", service.ErrValidation)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "":
		format = FormatHTML
	case FormatHTML, FormatPDF, FormatExcel:
	default:
		return "", fmt.Errorf("%w: unsupported report format %q", service.ErrValidation, format)
	}

	entry, err := g.entries.GetByDate(ctx, userID, date)
	if err != nil {
		return "", err
	}
	if entry == nil {
		return "", fmt.Errorf("%w: no entry for %s", service.ErrNotFound, date)
	}

	var buf bytes.Buffer
	if err := dailyTemplate.Execute(&buf, g.page(ctx, entry)); err != nil {
		return "", fmt.Errorf("%w: render report: %w", service.ErrInternal, err)
	}

	name := fmt.Sprintf("report_%d_%s.%s", userID, entry.EntryDate, format)
	if err := g.write(name, buf.Bytes()); err != nil {
		return "", fmt.Errorf("%w: %w", service.ErrInternal, err)
	}
	g.log.Debug("report written", zap.String("file", name), zap.Int("bytes", buf.Len()))
	return name, nil
}

// Path resolves a generated report's file name to its location on disk.
// Names that were not produced by Generate are rejected.
func (g *Generator) Path(filename string) (string, error) {
	if !reportName.MatchString(filename) {
		return "", fmt.Errorf("%w: invalid report name %q", service.ErrValidation, filename)
	}
	path := filepath.Join(g.dir, filename)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: report %s", service.ErrNotFound, filename)
		}
		return "", fmt.Errorf("%w: %w", service.ErrInternal, err)
	}
	return path, nil
}

func (g *Generator) page(ctx context.Context, e *models.Entry) page {
	p := e.DailyParams
	out := page{
		Stage:       string(p.StageType),
		Day:         p.ProgramDay.String(),
		Date:        e.EntryDate,
		Weight:      p.MorningWeight.String(),
		NextWeight:  p.NextMorningWeight.String(),
		LostWeight:  p.WeightLost.String(),
		Waist:       p.Waist.String(),
		Hips:        p.Hips.String(),
		TotalGrams:  p.TotalGrams.String(),
		TotalKcal:   p.TotalKcal.String(),
		KcalDensity: p.KcalDensity.String(),
		Edema:       string(p.Edema),
		CycleDay:    string(p.CycleDay),
		Stool:       string(p.Stool),
		Meals:       make([]mealRow, 0, len(e.Meals)),
	}
	for _, m := range e.Meals {
		out.Meals = append(out.Meals, mealRow{Time: m.Time, Food: m.Food, Mass: m.Mass.String(), Kcal: m.Kcal.String()})
	}

	if out.Stage != "" && out.Day != "" {
		return out
	}
	stage, err := g.stages.Get(ctx, e.StageID)
	if err != nil {
		g.log.Debug("report stage lookup failed", zap.Int64("stage_id", e.StageID), zap.Error(err))
		return out
	}
	if out.Stage == "" {
		out.Stage = stage.StageType
	}
	if out.Day == "" {
		if day, ok := programDay(stage.StartDate, e.EntryDate); ok {
			out.Day = strconv.Itoa(day)
		}
	}
	return out
}

// programDay numbers date relative to start, the start date being day 1.
func programDay(start, date string) (int, bool) {
	s, err := time.Parse(models.DateLayout, start)
	if err != nil {
		return 0, false
	}
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return 0, false
	}
	day := int(d.Sub(s).Hours()/24) + 1
	if day < 1 {
		return 0, false
	}
	return day, true
}

func (g *Generator) write(name string, data []byte) error {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}
	tmp := filepath.Join(g.dir, ".tmp-"+uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(g.dir, name)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("move report into place: %w", err)
	}
	return nil
}
