package inbound

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/Mayukh-Jain/equipviz/internal/dataset/usecase"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkgerror"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkgrouter"
)

type HTTPEndpoint struct {
	uc uc
}

// Upload handles POST /datasets/: a multipart form with a "file" field.
func (h *HTTPEndpoint) Upload(ctx context.Context, r *http.Request) (any, error) {
	file, name, cleanup, err := extractUploadFile(r)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result, err := h.uc.Upload(ctx, name, file)
	if err != nil {
		return nil, err
	}

	return toCreatedResponse(result), nil
}

// List handles GET /datasets/.
func (h *HTTPEndpoint) List(ctx context.Context, r *http.Request) (any, error) {
	results, err := h.uc.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]DatasetResponse, 0, len(results))
	for _, result := range results {
		out = append(out, toDatasetResponse(result))
	}

	return out, nil
}

// Detail handles GET /datasets/:id and dispatches the two static actions
// that share its path segment (see RegisterHTTPEndpoint).
func (h *HTTPEndpoint) Detail(ctx context.Context, r *http.Request) (any, error) {
	switch pkgrouter.GetParam(ctx, "id") {
	case "data":
		return h.data(ctx, r)
	case "generate_report":
		return h.generateReport(ctx, r)
	}

	id, err := parseID(pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return toDatasetResponse(result), nil
}

// data handles GET /datasets/data/?id=<id>: the full re-parsed row listing.
func (h *HTTPEndpoint) data(ctx context.Context, r *http.Request) (any, error) {
	id, err := queryID(r)
	if err != nil {
		return nil, err
	}

	rows, err := h.uc.Rows(ctx, id)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// generateReport handles GET /datasets/generate_report/?id=<id>.
func (h *HTTPEndpoint) generateReport(ctx context.Context, r *http.Request) (any, error) {
	id, err := queryID(r)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Report(ctx, id)
	if err != nil {
		return nil, err
	}

	return &pkgrouter.Binary{
		ContentType: "application/pdf",
		Filename:    result.Name + "_report.pdf",
		Data:        result.PDF,
	}, nil
}

func queryID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("id"))
	if raw == "" {
		return 0, pkgerror.NewValidation(errors.New("dataset id is required"))
	}

	return parseID(raw)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, pkgerror.NewBusiness("dataset not found", pkgerror.CodeNotFound)
	}
	return id, nil
}

func extractUploadFile(r *http.Request) (io.Reader, string, func(), error) {
	noop := func() {}

	contentType := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.EqualFold(mediaType, "multipart/form-data") {
		return nil, "", noop, pkgerror.NewValidation(errors.New("multipart form with a file field is required"))
	}

	reader, err := r.MultipartReader()
	if err != nil {
		return nil, "", noop, pkgerror.NewInvalidFormat(err)
	}

	for {
		part, err := reader.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, "", noop, pkgerror.NewValidation(usecase.ErrMissingFile)
			}
			return nil, "", noop, pkgerror.NewInvalidFormat(err)
		}

		if part.FormName() == "file" {
			return part, part.FileName(), func() { _ = part.Close() }, nil
		}
		_ = part.Close()
	}
}
