package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/campusone/timetable-api/internal/dto"
	"github.com/campusone/timetable-api/internal/models"
	"github.com/campusone/timetable-api/internal/repository"
	"github.com/campusone/timetable-api/internal/timetable"
	appErrors "github.com/campusone/timetable-api/pkg/errors"
	"github.com/campusone/timetable-api/pkg/export"
)

type timetableStore interface {
	CreateVersioned(ctx context.Context, exec sqlx.ExtContext, timetable *models.Timetable) error
	InsertEntries(ctx context.Context, exec sqlx.ExtContext, rows []models.TimetableRow) error
	List(ctx context.Context) ([]models.Timetable, error)
	FindByID(ctx context.Context, id string) (*models.Timetable, error)
	ListEntries(ctx context.Context, timetableID string) ([]models.TimetableRow, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.TimetableStatus) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// ExportFormat selects the rendering of a stored timetable.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// TimetableServiceConfig governs generation behaviour.
type TimetableServiceConfig struct {
	ProposalTTL time.Duration
	MaxEntities int
}

// TimetableService runs the generation engine over request payloads and
// manages the persisted timetable lifecycle.
type TimetableService struct {
	repo        timetableStore
	cache       *CacheService
	tx          txProvider
	validator   *validator.Validate
	logger      *zap.Logger
	metrics     *MetricsService
	store       *proposalStore
	maxEntities int
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
}

// NewTimetableService wires the generation pipeline dependencies.
func NewTimetableService(
	repo timetableStore,
	cache *CacheService,
	tx txProvider,
	validate *validator.Validate,
	logger *zap.Logger,
	metrics *MetricsService,
	cfg TimetableServiceConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ProposalTTL <= 0 {
		cfg.ProposalTTL = 30 * time.Minute
	}
	if cfg.MaxEntities <= 0 {
		cfg.MaxEntities = 256
	}
	return &TimetableService{
		repo:        repo,
		cache:       cache,
		tx:          tx,
		validator:   validate,
		logger:      logger,
		metrics:     metrics,
		store:       newProposalStore(cfg.ProposalTTL),
		maxEntities: cfg.MaxEntities,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
	}
}

// Generate runs the placement passes over the request payload and
// returns the proposal together with its validation report. The
// proposal stays in memory until saved or expired.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable generation payload")
	}
	if err := s.ensurePayloadSize(req); err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	data := timetable.NewDataset(
		mapFaculties(req.Faculties),
		mapSubjects(req.Subjects),
		mapClasses(req.Classes),
		mapResources(req.Resources),
	)

	started := time.Now()
	result := timetable.NewGenerator(data, rng).Generate()
	report := timetable.Validate(data, result)
	elapsed := time.Since(started)

	satisfied := report.OK()
	if s.metrics != nil {
		s.metrics.ObserveGeneration(satisfied, elapsed)
		s.metrics.RecordValidationFindings(report)
	}
	s.logger.Info("timetable generated",
		zap.Int64("seed", seed),
		zap.Int("entries", len(result.Entries)),
		zap.Bool("satisfied", satisfied),
		zap.Duration("duration", elapsed),
	)

	proposal := timetableProposal{
		ProposalID:  uuid.NewString(),
		Seed:        seed,
		Entries:     result.Entries,
		Report:      report,
		Satisfied:   satisfied,
		RequestedAt: time.Now().UTC(),
	}
	s.store.Save(proposal)

	return &dto.GenerateTimetableResponse{
		ProposalID: proposal.ProposalID,
		Seed:       seed,
		Entries:    entriesToPayload(result.Entries),
		Report:     report,
		Satisfied:  satisfied,
	}, nil
}

// Save persists a generated proposal as a versioned timetable. Publish
// transitions the record out of draft in the same transaction.
func (s *TimetableService) Save(ctx context.Context, req dto.SaveTimetableRequest) (*models.Timetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save timetable payload")
	}
	proposal, ok := s.store.Get(req.ProposalID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	metaPayload := map[string]any{
		"seed":      proposal.Seed,
		"satisfied": proposal.Satisfied,
		"report":    proposal.Report,
		"generated": proposal.RequestedAt,
	}
	metaBytes, marshalErr := json.Marshal(metaPayload)
	if marshalErr != nil {
		err = appErrors.Wrap(marshalErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode timetable metadata")
		return nil, err
	}

	record := &models.Timetable{
		Status: models.TimetableStatusDraft,
		Meta:   types.JSONText(metaBytes),
	}
	if err = s.repo.CreateVersioned(ctx, tx, record); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable")
		return nil, err
	}

	rows := make([]models.TimetableRow, 0, len(proposal.Entries))
	for i, entry := range proposal.Entries {
		rows = append(rows, models.TimetableRow{
			TimetableID: record.ID,
			Seq:         i,
			Day:         entry.Day,
			StartTime:   entry.Slot.Start,
			EndTime:     entry.Slot.End,
			SubjectID:   entry.SubjectID,
			FacultyID:   entry.FacultyID,
			ResourceID:  entry.ResourceID,
			ClassID:     entry.ClassID,
			Batch:       entry.Batch,
		})
	}
	if err = s.repo.InsertEntries(ctx, tx, rows); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist timetable entries")
		return nil, err
	}

	if req.Publish {
		if err = s.repo.UpdateStatus(ctx, tx, record.ID, models.TimetableStatusPublished); err != nil {
			err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish timetable")
			return nil, err
		}
		record.Status = models.TimetableStatusPublished
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable transaction")
		return nil, err
	}

	s.store.Delete(req.ProposalID)
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, repository.TimetableCachePattern)
	}
	return record, nil
}

// List returns stored timetables, newest version first.
func (s *TimetableService) List(ctx context.Context) ([]models.Timetable, error) {
	var cached []models.Timetable
	if s.cache != nil {
		if hit, _ := s.cache.Get(ctx, repository.TimetableListCacheKey, &cached); hit {
			return cached, nil
		}
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetables")
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, repository.TimetableListCacheKey, list, 0)
	}
	return list, nil
}

// Entries returns the stored entry sequence of one timetable.
func (s *TimetableService) Entries(ctx context.Context, timetableID string) ([]models.TimetableRow, error) {
	if timetableID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "timetable id is required")
	}
	var cached []models.TimetableRow
	key := repository.TimetableEntriesCacheKey(timetableID)
	if s.cache != nil {
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return cached, nil
		}
	}
	if _, err := s.repo.FindByID(ctx, timetableID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	rows, err := s.repo.ListEntries(ctx, timetableID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable entries")
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, rows, 0)
	}
	return rows, nil
}

// Delete removes a draft timetable and its entries.
func (s *TimetableService) Delete(ctx context.Context, timetableID string) error {
	record, err := s.repo.FindByID(ctx, timetableID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	if record.Status != models.TimetableStatusDraft {
		return appErrors.Clone(appErrors.ErrConflict, "only draft timetables can be deleted")
	}
	if err := s.repo.Delete(ctx, timetableID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable")
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, repository.TimetableCachePattern)
	}
	return nil
}

// Export renders a stored timetable as CSV or PDF and returns the bytes
// with the matching content type.
func (s *TimetableService) Export(ctx context.Context, timetableID, format string) ([]byte, string, error) {
	record, err := s.repo.FindByID(ctx, timetableID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	rows, err := s.repo.ListEntries(ctx, timetableID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable entries")
	}

	table := buildExportTable(record, rows)
	switch format {
	case ExportFormatCSV, "":
		payload, renderErr := s.csv.Render(table)
		if renderErr != nil {
			return nil, "", appErrors.Wrap(renderErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return payload, "text/csv", nil
	case ExportFormatPDF:
		payload, renderErr := s.pdf.Render(table)
		if renderErr != nil {
			return nil, "", appErrors.Wrap(renderErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func (s *TimetableService) ensurePayloadSize(req dto.GenerateTimetableRequest) error {
	for name, size := range map[string]int{
		"faculties": len(req.Faculties),
		"subjects":  len(req.Subjects),
		"classes":   len(req.Classes),
		"resources": len(req.Resources),
	} {
		if size > s.maxEntities {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s exceeds the limit of %d entries", name, s.maxEntities))
		}
	}
	return nil
}

// --- Payload mapping ---

func mapFaculties(payloads []dto.FacultyPayload) []models.Faculty {
	faculties := make([]models.Faculty, 0, len(payloads))
	for _, p := range payloads {
		availability := make(map[string][]models.TimeSlot, len(p.Availability))
		for day, windows := range p.Availability {
			slots := make([]models.TimeSlot, 0, len(windows))
			for _, w := range windows {
				slots = append(slots, models.TimeSlot{Start: w.Start, End: w.End})
			}
			availability[day] = slots
		}
		faculties = append(faculties, models.Faculty{
			ID:           p.ID,
			Name:         p.Name,
			Position:     models.FacultyPosition(p.Position),
			Subjects:     p.Subjects,
			Availability: availability,
		})
	}
	return faculties
}

func mapSubjects(payloads []dto.SubjectPayload) []models.Subject {
	subjects := make([]models.Subject, 0, len(payloads))
	for _, p := range payloads {
		subjects = append(subjects, models.Subject{
			ID:         p.ID,
			Name:       p.Name,
			IsLab:      p.IsLab,
			FacultyIDs: p.FacultyIDs,
		})
	}
	return subjects
}

func mapClasses(payloads []dto.ClassPayload) []models.ClassGroup {
	classes := make([]models.ClassGroup, 0, len(payloads))
	for _, p := range payloads {
		classes = append(classes, models.ClassGroup{
			ID:       p.ID,
			Name:     p.Name,
			Subjects: p.Subjects,
			Batches:  p.Batches,
		})
	}
	return classes
}

func mapResources(payloads []dto.ResourcePayload) []models.Resource {
	resources := make([]models.Resource, 0, len(payloads))
	for _, p := range payloads {
		resources = append(resources, models.Resource{
			ID:       p.ID,
			Name:     p.Name,
			Kind:     models.ResourceKind(p.Type),
			Capacity: p.Capacity,
		})
	}
	return resources
}

func entriesToPayload(entries []models.TimetableEntry) []dto.EntryPayload {
	payloads := make([]dto.EntryPayload, 0, len(entries))
	for _, entry := range entries {
		payloads = append(payloads, dto.EntryPayload{
			Day:        entry.Day,
			StartTime:  entry.Slot.Start,
			EndTime:    entry.Slot.End,
			SubjectID:  entry.SubjectID,
			FacultyID:  entry.FacultyID,
			ResourceID: entry.ResourceID,
			ClassID:    entry.ClassID,
			Batch:      entry.Batch,
		})
	}
	return payloads
}

// buildExportTable lays out stored entries day by day, then class, then
// start time, so the rendered document reads like a weekly grid.
func buildExportTable(record *models.Timetable, rows []models.TimetableRow) export.Table {
	dayOrder := make(map[string]int, len(timetable.Days))
	for i, day := range timetable.Days {
		dayOrder[day] = i
	}

	sorted := make([]models.TimetableRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if dayOrder[sorted[i].Day] != dayOrder[sorted[j].Day] {
			return dayOrder[sorted[i].Day] < dayOrder[sorted[j].Day]
		}
		if sorted[i].ClassID != sorted[j].ClassID {
			return sorted[i].ClassID < sorted[j].ClassID
		}
		return sorted[i].StartTime < sorted[j].StartTime
	})

	body := make([][]string, 0, len(sorted))
	for _, row := range sorted {
		batch := ""
		if row.Batch != nil {
			batch = *row.Batch
		}
		body = append(body, []string{
			row.Day,
			row.StartTime + " - " + row.EndTime,
			row.ClassID,
			batch,
			row.SubjectID,
			row.FacultyID,
			row.ResourceID,
		})
	}

	return export.Table{
		Title:   fmt.Sprintf("Timetable v%d (%s)", record.Version, record.Status),
		Columns: []string{"Day", "Time", "Class", "Batch", "Subject", "Faculty", "Room"},
		Rows:    body,
	}
}

// --- Proposal cache ---

type timetableProposal struct {
	ProposalID  string
	Seed        int64
	Entries     []models.TimetableEntry
	Report      timetable.Report
	Satisfied   bool
	RequestedAt time.Time
}

type proposalStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]timetableProposal
}

func newProposalStore(ttl time.Duration) *proposalStore {
	return &proposalStore{
		ttl:   ttl,
		items: make(map[string]timetableProposal),
	}
}

func (s *proposalStore) Save(proposal timetableProposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[proposal.ProposalID] = proposal
}

func (s *proposalStore) Get(id string) (timetableProposal, bool) {
	s.mu.RLock()
	proposal, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return timetableProposal{}, false
	}
	if time.Since(proposal.RequestedAt) > s.ttl {
		s.Delete(id)
		return timetableProposal{}, false
	}
	return proposal, true
}

func (s *proposalStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
