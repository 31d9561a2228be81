package model

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentStatus tracks the ingestion state of a document.
type DocumentStatus string

const (
	DocumentStatusPending   DocumentStatus = "pending"
	DocumentStatusProcessed DocumentStatus = "processed"
)

// Document represents a source document in the registry. Content is only a
// staging field for ingestion and is never stored; the chunks carry the text.
type Document struct {
	ID          int64          `json:"id"`
	RID         uuid.UUID      `json:"rid"`
	Name        string         `json:"name"`
	Source      string         `json:"source,omitempty"`
	Content     string         `json:"content,omitempty" db:"-"`
	TotalChunks int            `json:"total_chunks"`
	Status      DocumentStatus `json:"status"`
	Metadata    Metadata       `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewDocumentFromFile reads a file and creates a Document with the file
// content. Name defaults to the filename without extension, source to the
// file path.
func NewDocumentFromFile(filePath string, metadata Metadata) (*Document, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(filePath)
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	if name == "" {
		name = filename
	}

	return &Document{
		Name:     name,
		Source:   filePath,
		Content:  string(content),
		Status:   DocumentStatusPending,
		Metadata: metadata,
	}, nil
}
