package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mlewan/grounder/helper"
	"github.com/mlewan/grounder/model"
	loadSql "github.com/mlewan/grounder/sql"
)

// ErrDocumentNotFound is returned when no document with the given name
// exists in the registry.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentsDBHandler handles document registry operations
type DocumentsDBHandler struct {
	db *helper.Database
}

// NewDocumentsDBHandler creates a new documents database handler.
// If force is true, it will reload the SQL functions even if they already exist.
func NewDocumentsDBHandler(db *helper.Database, force bool) (*DocumentsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	documentsDbHandler := &DocumentsDBHandler{
		db: db,
	}

	err := loadSql.LoadDocumentsSql(documentsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load documents sql", err)
	}

	err = documentsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized DocumentsDBHandler")

	return documentsDbHandler, nil
}

// CreateTable creates the 'documents' table in the database.
// If the table already exists, it does not create it again.
func (h *DocumentsDBHandler) CreateTable() error {
	_, err := h.db.Instance.Exec(`SELECT init_documents();`)
	if err != nil {
		return helper.NewError("initializing documents table", err)
	}

	h.db.Logger.Info("Checked/created table documents")

	return nil
}

// UpsertDocument registers a document by name, resetting its status to
// pending on re-ingestion.
func (h *DocumentsDBHandler) UpsertDocument(ctx context.Context, doc *model.Document) error {
	row := h.db.Instance.QueryRowContext(ctx,
		`SELECT * FROM upsert_document($1, $2, $3)`,
		doc.Name,
		doc.Source,
		doc.Metadata,
	)

	err := h.scanDocument(row.Scan, doc)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectDocument retrieves a document by name.
func (h *DocumentsDBHandler) SelectDocument(ctx context.Context, name string) (*model.Document, error) {
	row := h.db.Instance.QueryRowContext(ctx,
		`SELECT * FROM select_document($1)`,
		name,
	)

	doc := &model.Document{}
	err := h.scanDocument(row.Scan, doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return doc, nil
}

// SelectAllDocuments retrieves all registered documents ordered by name.
func (h *DocumentsDBHandler) SelectAllDocuments(ctx context.Context) ([]*model.Document, error) {
	rows, err := h.db.Instance.QueryContext(ctx, `SELECT * FROM select_all_documents()`)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var docs []*model.Document
	for rows.Next() {
		doc := &model.Document{}
		err := h.scanDocument(rows.Scan, doc)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		docs = append(docs, doc)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return docs, nil
}

// UpdateDocumentStatus sets the chunk count and processing status of a
// registered document.
func (h *DocumentsDBHandler) UpdateDocumentStatus(ctx context.Context, name string, totalChunks int, status model.DocumentStatus) (*model.Document, error) {
	row := h.db.Instance.QueryRowContext(ctx,
		`SELECT * FROM update_document_status($1, $2, $3)`,
		name,
		totalChunks,
		status,
	)

	doc := &model.Document{}
	err := h.scanDocument(row.Scan, doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return doc, nil
}

// DeleteDocument removes a document from the registry. Deleting an unknown
// document is not an error.
func (h *DocumentsDBHandler) DeleteDocument(ctx context.Context, name string) error {
	_, err := h.db.Instance.ExecContext(ctx,
		`SELECT delete_document($1)`,
		name,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

func (h *DocumentsDBHandler) scanDocument(scan func(dest ...any) error, doc *model.Document) error {
	return scan(
		&doc.ID,
		&doc.RID,
		&doc.Name,
		&doc.Source,
		&doc.TotalChunks,
		&doc.Status,
		&doc.Metadata,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
}
