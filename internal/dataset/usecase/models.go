package usecase

import (
	"time"

	"github.com/Mayukh-Jain/equipviz/internal/dataset/entity"
)

// DatasetView is the public view of a dataset: metadata and summary, never
// the raw file content.
type DatasetView struct {
	ID         int64
	Name       string
	UploadedAt time.Time
	Summary    entity.Summary
}

// ReportResult carries a rendered PDF report and the dataset name used to
// build the download filename.
type ReportResult struct {
	Name string
	PDF  []byte
}

func toView(ds entity.Dataset) DatasetView {
	return DatasetView{
		ID:         ds.ID,
		Name:       ds.Name,
		UploadedAt: ds.UploadedAt,
		Summary:    ds.Summary,
	}
}
