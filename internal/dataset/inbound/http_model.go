package inbound

import (
	"net/http"
	"time"

	"github.com/Mayukh-Jain/equipviz/internal/dataset/entity"
	"github.com/Mayukh-Jain/equipviz/internal/dataset/usecase"
)

// DatasetResponse is the public wire shape of a dataset.
type DatasetResponse struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	UploadedAt time.Time      `json:"uploaded_at"`
	Summary    entity.Summary `json:"summary"`
}

// CreatedResponse is DatasetResponse with a 201 status.
type CreatedResponse struct {
	DatasetResponse
}

func (CreatedResponse) StatusCode() int {
	return http.StatusCreated
}

func toDatasetResponse(view usecase.DatasetView) DatasetResponse {
	return DatasetResponse{
		ID:         view.ID,
		Name:       view.Name,
		UploadedAt: view.UploadedAt,
		Summary:    view.Summary,
	}
}

func toCreatedResponse(view usecase.DatasetView) CreatedResponse {
	return CreatedResponse{DatasetResponse: toDatasetResponse(view)}
}
