package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by key-value and record lookups that find nothing.
var ErrNotFound = errors.New("not found")

const (
	ExportPending   = "pending"
	ExportCompleted = "completed"
	ExportFailed    = "failed"
)

// ExportJob records one PDF export of a session's resume.
type ExportJob struct {
	ID        uuid.UUID              `json:"id"`
	SessionID string                 `json:"session_id"`
	Template  string                 `json:"template"`
	Premium   bool                   `json:"premium"`
	Status    string                 `json:"status"`
	FileName  string                 `json:"file_name"`
	FileSize  int                    `json:"file_size"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}
