package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cujae-dev/horarios-api/internal/models"
	appErrors "github.com/cujae-dev/horarios-api/pkg/errors"
	"github.com/cujae-dev/horarios-api/pkg/export"
)

// Export grid bounds: hourly rows from 07:00 through 22:00 inclusive,
// columns Monday through Saturday. Sunday never appears on exports.
const (
	gridStartHour = 7
	gridEndHour   = 22
	gridDays      = 6

	exportCachePrefix = "export:"
)

// Export formats accepted by the timetable endpoints.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

var gridHeaders = []string{"Hora", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

var exportContentTypes = map[string]string{
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatCSV:  "text/csv",
	FormatPDF:  "application/pdf",
}

type timetableScheduleRepository interface {
	ListActiveBySemester(ctx context.Context, semester, teacherID string) ([]models.Schedule, error)
}

type exportCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type gridRenderer interface {
	Render(grid export.Grid, title string) ([]byte, error)
}

type csvGridRenderer interface {
	Render(grid export.Grid) ([]byte, error)
}

// ExportFile is a rendered timetable ready for download.
type ExportFile struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Payload     []byte `json:"payload"`
}

// TimetableConfig tunes export caching.
type TimetableConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// TimetableService assembles the weekly day/hour grid for a semester and
// renders it for download.
type TimetableService struct {
	schedules  timetableScheduleRepository
	subjects   subjectFinder
	classTypes classTypeFinder
	classrooms classroomFinder
	teachers   teacherFinder
	xlsx       gridRenderer
	csv        csvGridRenderer
	pdf        gridRenderer
	cache      exportCache
	metrics    *MetricsService
	cfg        TimetableConfig
	logger     *zap.Logger
}

// NewTimetableService constructs a TimetableService. cache and metrics
// may be nil; nil renderers fall back to the package defaults.
func NewTimetableService(schedules timetableScheduleRepository, subjects subjectFinder, classTypes classTypeFinder, classrooms classroomFinder, teachers teacherFinder, xlsx gridRenderer, csv csvGridRenderer, pdf gridRenderer, cache exportCache, metrics *MetricsService, cfg TimetableConfig, logger *zap.Logger) *TimetableService {
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		schedules:  schedules,
		subjects:   subjects,
		classTypes: classTypes,
		classrooms: classrooms,
		teachers:   teachers,
		xlsx:       xlsx,
		csv:        csv,
		pdf:        pdf,
		cache:      cache,
		metrics:    metrics,
		cfg:        cfg,
		logger:     logger,
	}
}

// TimeSlots returns the hourly row labels of an export grid.
func TimeSlots() []string {
	slots := make([]string, 0, gridEndHour-gridStartHour+1)
	for h := gridStartHour; h <= gridEndHour; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h))
	}
	return slots
}

// BuildGrid assembles the day/hour grid of active slots for a semester,
// optionally restricted to one teacher. Slots land in the cell whose
// label equals their start time; a slot not starting on the hour is
// silently left off the grid. Sunday slots never appear.
func (s *TimetableService) BuildGrid(ctx context.Context, semester, teacherID string) (export.Grid, error) {
	if teacherID != "" {
		if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
			if err == sql.ErrNoRows {
				return export.Grid{}, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
			}
			return export.Grid{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
		}
	}

	schedules, err := s.schedules.ListActiveBySemester(ctx, semester, teacherID)
	if err != nil {
		return export.Grid{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semester schedules")
	}
	if len(schedules) == 0 {
		if teacherID != "" {
			return export.Grid{}, appErrors.Clone(appErrors.ErrNotFound, "no schedules found for this teacher in this semester")
		}
		return export.Grid{}, appErrors.Clone(appErrors.ErrNotFound, "no schedules found for this semester")
	}

	grid := export.Grid{Headers: gridHeaders}
	for _, slot := range TimeSlots() {
		row := export.GridRow{Label: slot, Cells: make([][]string, gridDays)}
		for _, sched := range schedules {
			if sched.DayOfWeek < 0 || sched.DayOfWeek >= gridDays {
				continue
			}
			if sched.StartTime != slot {
				continue
			}
			entry, err := s.formatEntry(ctx, sched, teacherID != "")
			if err != nil {
				return export.Grid{}, err
			}
			if entry == "" {
				continue
			}
			row.Cells[sched.DayOfWeek] = append(row.Cells[sched.DayOfWeek], entry)
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid, nil
}

// Export renders the semester grid in the requested format. Rendered
// payloads are cached; schedule mutations invalidate the semester's keys.
func (s *TimetableService) Export(ctx context.Context, semester, teacherID, format string) (*ExportFile, error) {
	if format == "" {
		format = FormatXLSX
	}
	contentType, ok := exportContentTypes[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	key := exportCacheKey(semester, teacherID, format)
	if s.cfg.CacheEnabled && s.cache != nil {
		var cached ExportFile
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordExportCache(true)
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("export cache read failed", zap.String("key", key), zap.Error(err))
		}
		s.metrics.RecordExportCache(false)
	}

	title := fmt.Sprintf("Horario Semanal %s", semester)
	filename := fmt.Sprintf("horario_semanal_%s.%s", semester, format)
	if teacherID != "" {
		teacher, err := s.teachers.FindByID(ctx, teacherID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
		}
		title = fmt.Sprintf("Horario %s", teacher.FullName())
		filename = fmt.Sprintf("horario_%s_%s.%s", strings.ReplaceAll(teacher.FullName(), " ", "_"), semester, format)
	}

	grid, err := s.BuildGrid(ctx, semester, teacherID)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch format {
	case FormatXLSX:
		payload, err = s.xlsx.Render(grid, title)
	case FormatCSV:
		payload, err = s.csv.Render(grid)
	case FormatPDF:
		payload, err = s.pdf.Render(grid, title)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}

	file := &ExportFile{Filename: filename, ContentType: contentType, Payload: payload}
	if s.cfg.CacheEnabled && s.cache != nil {
		if err := s.cache.Set(ctx, key, file, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("export cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return file, nil
}

func (s *TimetableService) formatEntry(ctx context.Context, sched models.Schedule, omitTeacher bool) (string, error) {
	subject, err := s.subjects.FindByID(ctx, sched.SubjectID)
	if err != nil {
		return "", s.entryLookupErr(err, "subject", sched.ID)
	}
	classType, err := s.classTypes.FindByID(ctx, sched.ClassTypeID)
	if err != nil {
		return "", s.entryLookupErr(err, "class type", sched.ID)
	}
	classroom, err := s.classrooms.FindByID(ctx, sched.ClassroomID)
	if err != nil {
		return "", s.entryLookupErr(err, "classroom", sched.ID)
	}

	lines := []string{fmt.Sprintf("%s - %s", subject.Acronym, classType.Acronym)}
	if !omitTeacher {
		teacher, err := s.teachers.FindByID(ctx, sched.TeacherID)
		if err != nil {
			return "", s.entryLookupErr(err, "teacher", sched.ID)
		}
		lines = append(lines, teacher.FullName())
	}
	lines = append(lines, classroom.Code)
	return strings.Join(lines, "\n"), nil
}

func (s *TimetableService) entryLookupErr(err error, kind, scheduleID string) error {
	if err == sql.ErrNoRows {
		// A slot referencing a missing row is a data integrity problem,
		// not a user error.
		s.logger.Error("schedule references missing record", zap.String("schedule_id", scheduleID), zap.String("kind", kind))
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to load %s for schedule", kind))
}

func exportCacheKey(semester, teacherID, format string) string {
	if teacherID == "" {
		return exportCachePrefix + semester + ":weekly:" + format
	}
	return exportCachePrefix + semester + ":teacher:" + teacherID + ":" + format
}
