package models

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Document struct {
	ID           string    `json:"id"`
	ShipmentID   string    `json:"shipment_id"`
	DocumentType string    `json:"document_type"`
	FileURL      string    `json:"file_url"`
	OriginalName string    `json:"original_name"`
	FileSize     int64     `json:"file_size"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

type DocumentStore struct {
	pool *pgxpool.Pool
}

func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

func (s *DocumentStore) Create(ctx context.Context, shipmentID, documentType, fileURL, originalName string, fileSize int64) (*Document, error) {
	if documentType == "" {
		documentType = "OTHER"
	}
	var d Document
	err := s.pool.QueryRow(ctx, `
		INSERT INTO documents (shipment_id, document_type, file_url, original_name, file_size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, shipment_id, document_type, file_url, original_name, file_size, uploaded_at`,
		shipmentID, documentType, fileURL, originalName, fileSize).Scan(
		&d.ID, &d.ShipmentID, &d.DocumentType, &d.FileURL, &d.OriginalName, &d.FileSize, &d.UploadedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DocumentStore) ListByShipment(ctx context.Context, shipmentID string) ([]Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, shipment_id, document_type, file_url, original_name, file_size, uploaded_at
		FROM documents WHERE shipment_id = $1 ORDER BY uploaded_at DESC`, shipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.ShipmentID, &d.DocumentType, &d.FileURL, &d.OriginalName, &d.FileSize, &d.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// GetForUser возвращает документ, только если отправление принадлежит пользователю
func (s *DocumentStore) GetForUser(ctx context.Context, documentID, userID string, isAdmin bool) (*Document, error) {
	var d Document
	var ownerID string
	err := s.pool.QueryRow(ctx, `
		SELECT d.id, d.shipment_id, d.document_type, d.file_url, d.original_name, d.file_size, d.uploaded_at, sh.user_id
		FROM documents d JOIN shipments sh ON sh.id = d.shipment_id
		WHERE d.id = $1`, documentID).Scan(
		&d.ID, &d.ShipmentID, &d.DocumentType, &d.FileURL, &d.OriginalName, &d.FileSize, &d.UploadedAt, &ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !isAdmin && ownerID != userID {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (s *DocumentStore) Delete(ctx context.Context, documentID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, documentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
