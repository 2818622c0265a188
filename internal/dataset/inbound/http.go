package inbound

import (
	"context"
	"io"

	"github.com/Mayukh-Jain/equipviz/internal/dataset/usecase"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkgrouter"
)

type uc interface {
	Upload(ctx context.Context, name string, r io.Reader) (usecase.DatasetView, error)
	List(ctx context.Context) ([]usecase.DatasetView, error)
	Get(ctx context.Context, id int64) (usecase.DatasetView, error)
	Rows(ctx context.Context, id int64) ([]map[string]any, error)
	Report(ctx context.Context, id int64) (usecase.ReportResult, error)
}

// RegisterHTTPEndpoint mounts the dataset API. Creation is guarded by the
// auth middleware; all read endpoints are open.
func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, authMW pkgrouter.Middleware) {
	end := &HTTPEndpoint{uc: uc}

	if authMW != nil {
		r.POST("/datasets/", end.Upload, authMW)
	} else {
		r.POST("/datasets/", end.Upload)
	}

	r.GET("/datasets/", end.List)

	// httprouter rejects static siblings of a wildcard segment, so
	// /datasets/data/ and /datasets/generate_report/ are dispatched from the
	// :id handler.
	r.GET("/datasets/:id", end.Detail)
}
