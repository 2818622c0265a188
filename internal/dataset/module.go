// Package dataset wires the equipment-parameter dataset module: CSV
// ingestion and summarization, bounded retention with eviction, row listing,
// and PDF report generation.
package dataset

import (
	"context"
	"time"

	"github.com/Mayukh-Jain/equipviz/internal/dataset/event"
	"github.com/Mayukh-Jain/equipviz/internal/dataset/inbound"
	"github.com/Mayukh-Jain/equipviz/internal/dataset/report"
	"github.com/Mayukh-Jain/equipviz/internal/dataset/store"
	"github.com/Mayukh-Jain/equipviz/internal/dataset/usecase"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkgconfig"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkgrouter"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkgroutine"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkguid"
)

type Dependency struct {
	Config    pkgconfig.Config
	Router    *pkgrouter.Router
	Goroutine *pkgroutine.Manager
	Context   context.Context
	ID        pkguid.StringID
	AuthMW    pkgrouter.Middleware
}

func New(dep Dependency) (func(context.Context) error, error) {
	ids, err := pkguid.NewSnowflake()
	if err != nil {
		return nil, err
	}

	storage, err := store.New(store.Options{
		DBPath:  dep.Config.GetString("dataset.storage.db"),
		BlobDir: dep.Config.GetString("dataset.storage.blobs"),
		IDs:     ids,
		Limit:   int(dep.Config.GetInt("dataset.retention.max")),
	})
	if err != nil {
		return nil, err
	}

	bus := event.NewBus(64)
	consumer := event.NewAuditConsumer(bus, event.LogAuditor{}, dep.Goroutine, event.ConsumerConfig{
		Workers:     1,
		MaxRetries:  3,
		BaseBackoff: 200 * time.Millisecond,
	})
	consumer.Start(dep.Context)

	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}

	uc := usecase.New(usecase.Dependency{
		Store:          storage,
		Renderer:       report.NewPDF(),
		Events:         bus,
		ID:             dep.ID,
		MaxUploadBytes: dep.Config.GetInt("dataset.upload.max_bytes"),
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.AuthMW)

	closer := func(ctx context.Context) error {
		if err := consumer.Stop(ctx); err != nil {
			return err
		}
		return storage.Close()
	}

	return closer, nil
}
