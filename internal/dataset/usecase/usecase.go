package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/Mayukh-Jain/equipviz/internal/dataset/entity"
	"github.com/Mayukh-Jain/equipviz/internal/dataset/report"
	"github.com/Mayukh-Jain/equipviz/internal/dataset/store"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkgerror"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkguid"
)

// ErrMissingFile is returned when an upload request carries no file payload.
var ErrMissingFile = errors.New("file is required")

// DefaultMaxUploadBytes bounds uploads when no limit is configured.
const DefaultMaxUploadBytes int64 = 5 << 20

// Store persists dataset records and their backing files, and enforces the
// retention window inside Create.
type Store interface {
	Create(ctx context.Context, name string, file []byte, summary entity.Summary) (created entity.Dataset, evicted *entity.Dataset, err error)
	Get(ctx context.Context, id int64) (entity.Dataset, error)
	ListRecent(ctx context.Context) ([]entity.Dataset, error)
	OpenFile(ctx context.Context, id int64) (io.ReadCloser, error)
}

// Renderer produces the PDF report for a dataset from its stored summary.
type Renderer interface {
	Render(ds entity.Dataset) ([]byte, error)
}

// EventPublisher receives eviction audit events.
type EventPublisher interface {
	Publish(ctx context.Context, event entity.EvictionEvent) error
}

type Dependency struct {
	Store          Store
	Renderer       Renderer
	Events         EventPublisher
	ID             pkguid.StringID
	MaxUploadBytes int64
}

// Usecase orchestrates ingestion: parse an upload into a summary, persist it
// with eviction applied, and serve the read paths (listing, rows, report).
type Usecase struct {
	store          Store
	renderer       Renderer
	events         EventPublisher
	id             pkguid.StringID
	maxUploadBytes int64
}

func New(dep Dependency) *Usecase {
	maxBytes := dep.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}

	return &Usecase{
		store:          dep.Store,
		renderer:       dep.Renderer,
		events:         dep.Events,
		id:             dep.ID,
		maxUploadBytes: maxBytes,
	}
}

// Upload ingests one file: summarize, persist, evict, respond. It runs to
// completion synchronously; a failure at any step leaves the store untouched.
func (u *Usecase) Upload(ctx context.Context, name string, r io.Reader) (DatasetView, error) {
	if r == nil {
		return DatasetView{}, pkgerror.NewValidation(ErrMissingFile)
	}

	data, err := io.ReadAll(io.LimitReader(r, u.maxUploadBytes+1))
	if err != nil {
		return DatasetView{}, pkgerror.NewServer(fmt.Errorf("read upload: %w", err))
	}
	if int64(len(data)) > u.maxUploadBytes {
		return DatasetView{}, pkgerror.NewValidation(
			fmt.Errorf("file exceeds maximum upload size of %d bytes", u.maxUploadBytes))
	}
	if len(data) == 0 {
		return DatasetView{}, pkgerror.NewValidation(ErrMissingFile)
	}

	summary, err := Summarize(bytes.NewReader(data))
	if err != nil {
		return DatasetView{}, mapSummarizeErr(err)
	}

	name = filepath.Base(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "upload.csv"
	}

	created, evicted, err := u.store.Create(ctx, name, data, summary)
	if err != nil {
		return DatasetView{}, normalizeErr(err)
	}

	if evicted != nil {
		u.auditEviction(ctx, created.ID, *evicted)
	}

	return toView(created), nil
}

// List returns the retained datasets, newest first.
func (u *Usecase) List(ctx context.Context) ([]DatasetView, error) {
	datasets, err := u.store.ListRecent(ctx)
	if err != nil {
		return nil, normalizeErr(err)
	}

	views := make([]DatasetView, 0, len(datasets))
	for _, ds := range datasets {
		views = append(views, toView(ds))
	}

	return views, nil
}

// Get returns a single dataset's public view.
func (u *Usecase) Get(ctx context.Context, id int64) (DatasetView, error) {
	ds, err := u.store.Get(ctx, id)
	if err != nil {
		return DatasetView{}, mapStoreErr(err)
	}

	return toView(ds), nil
}

// Rows re-opens the stored file and re-parses it live. It deliberately does
// not trust any cached row set derived at ingestion time.
func (u *Usecase) Rows(ctx context.Context, id int64) ([]map[string]any, error) {
	rc, err := u.store.OpenFile(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			slog.WarnContext(ctx, "failed to close dataset file", "dataset_id", id, "error", cerr)
		}
	}()

	rows, err := ParseRows(rc)
	if err != nil {
		return nil, mapSummarizeErr(err)
	}

	return rows, nil
}

// Report renders the PDF report from the stored summary.
func (u *Usecase) Report(ctx context.Context, id int64) (ReportResult, error) {
	ds, err := u.store.Get(ctx, id)
	if err != nil {
		return ReportResult{}, mapStoreErr(err)
	}

	pdf, err := u.renderer.Render(ds)
	if err != nil {
		var incomplete *report.IncompleteSummaryError
		if errors.As(err, &incomplete) {
			slog.ErrorContext(ctx, "stored summary is incomplete", "dataset_id", id, "reason", incomplete.Reason)
		}
		return ReportResult{}, normalizeErr(err)
	}

	return ReportResult{Name: ds.Name, PDF: pdf}, nil
}

func (u *Usecase) auditEviction(ctx context.Context, createdID int64, evicted entity.Dataset) {
	slog.InfoContext(ctx, "retention window enforced",
		"evicted_id", evicted.ID,
		"evicted_name", evicted.Name,
		"created_id", createdID,
	)

	if u.events == nil {
		return
	}

	event := entity.EvictionEvent{
		DatasetID:  evicted.ID,
		Name:       evicted.Name,
		UploadedAt: evicted.UploadedAt.Unix(),
		EvictedFor: createdID,
	}
	if u.id != nil {
		event.EventID = u.id.Generate()
	}

	if err := u.events.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish eviction event",
			"dataset_id", evicted.ID, "event_id", event.EventID, "error", err)
	}
}

func mapSummarizeErr(err error) error {
	var malformed *MalformedInputError
	if errors.As(err, &malformed) {
		return pkgerror.NewInvalidFormat(err)
	}

	// Missing columns and bad numeric cells are both caller mistakes.
	return pkgerror.NewValidation(err)
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewBusiness("dataset not found", pkgerror.CodeNotFound)
	}
	if errors.Is(err, store.ErrBlobGone) {
		return pkgerror.NewBusiness("dataset file was evicted", pkgerror.CodeGone)
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}
