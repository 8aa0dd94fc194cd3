package handler

import (
	"spruchapi/internal/backup"
	"spruchapi/internal/model"
)

// Response shapes referenced by the swag annotations.

type quoteResponse struct {
	Success bool        `json:"success" example:"true"`
	Data    model.Quote `json:"data"`
}

type quoteListResponse struct {
	Success bool          `json:"success" example:"true"`
	Data    []model.Quote `json:"data"`
}

type backupResponse struct {
	Success bool            `json:"success" example:"true"`
	Data    backup.Snapshot `json:"data"`
}

type healthResponse struct {
	Success bool              `json:"success" example:"true"`
	Data    map[string]string `json:"data"`
}
