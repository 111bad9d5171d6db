package models

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/AhmadFauzanZW/wilopo-cargo/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrTrackingCollision – исчерпаны попытки сгенерировать уникальный трек-номер
var ErrTrackingCollision = errors.New("tracking number collision")

const trackingRetries = 3

type Shipment struct {
	ID               string        `json:"id"`
	UserID           string        `json:"user_id"`
	TrackingNumber   string        `json:"tracking_number"`
	Origin           string        `json:"origin"`
	Destination      string        `json:"destination"`
	Status           string        `json:"status"`
	ServiceType      string        `json:"service_type"`
	Weight           float64       `json:"weight"`
	Volume           float64       `json:"volume"`
	EstimatedCost    *float64      `json:"estimated_cost"`
	EstimatedArrival *time.Time    `json:"estimated_arrival"`
	SenderName       *string       `json:"sender_name"`
	SenderAddress    *string       `json:"sender_address"`
	ReceiverName     *string       `json:"receiver_name"`
	ReceiverAddress  *string       `json:"receiver_address"`
	ReceiverPhone    *string       `json:"receiver_phone"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	StatusHistory    []StatusEvent `json:"status_history,omitempty"`
	Documents        []Document    `json:"documents,omitempty"`
}

// StatusEvent – запись истории статусов. Неизменяема после создания.
type StatusEvent struct {
	ID          string    `json:"id"`
	Seq         int64     `json:"-"`
	ShipmentID  string    `json:"shipment_id"`
	Status      string    `json:"status"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	Timestamp   time.Time `json:"timestamp"`
}

type CreateShipmentParams struct {
	UserID          string
	Origin          string
	Destination     string
	Weight          float64
	Volume          float64
	ServiceType     string
	EstimatedCost   *float64
	SenderName      string
	SenderAddress   string
	ReceiverName    string
	ReceiverAddress string
	ReceiverPhone   string
}

type ShipmentStore struct {
	pool *pgxpool.Pool
}

func NewShipmentStore(pool *pgxpool.Pool) *ShipmentStore {
	return &ShipmentStore{pool: pool}
}

const shipmentColumns = `id, user_id, tracking_number, origin, destination, status, service_type,
	weight, volume, estimated_cost, estimated_arrival, sender_name, sender_address,
	receiver_name, receiver_address, receiver_phone, created_at, updated_at`

func scanShipment(row pgx.Row, sh *Shipment) error {
	return row.Scan(
		&sh.ID, &sh.UserID, &sh.TrackingNumber, &sh.Origin, &sh.Destination,
		&sh.Status, &sh.ServiceType, &sh.Weight, &sh.Volume, &sh.EstimatedCost,
		&sh.EstimatedArrival, &sh.SenderName, &sh.SenderAddress, &sh.ReceiverName,
		&sh.ReceiverAddress, &sh.ReceiverPhone, &sh.CreatedAt, &sh.UpdatedAt,
	)
}

// Create создаёт отправление вместе с первым событием PICKED_UP в одной транзакции.
// Коллизия трек-номера (unique violation) повторяется до trackingRetries раз.
func (s *ShipmentStore) Create(ctx context.Context, p CreateShipmentParams) (*Shipment, error) {
	if p.ServiceType == "" {
		p.ServiceType = "LCL"
	}

	var lastErr error
	for attempt := 0; attempt < trackingRetries; attempt++ {
		trackingNumber := utils.GenerateTrackingNumber()

		sh, err := s.createOnce(ctx, p, trackingNumber)
		if err == nil {
			return sh, nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Редкий случай: номер уже занят, пробуем новый
			log.Printf("⚠️ Коллизия трек-номера %s, попытка %d", trackingNumber, attempt+1)
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("%w: %v", ErrTrackingCollision, lastErr)
}

func (s *ShipmentStore) createOnce(ctx context.Context, p CreateShipmentParams, trackingNumber string) (*Shipment, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var sh Shipment
	err = scanShipment(tx.QueryRow(ctx, `
		INSERT INTO shipments (user_id, tracking_number, origin, destination, status, service_type,
			weight, volume, estimated_cost, sender_name, sender_address,
			receiver_name, receiver_address, receiver_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
			NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''), NULLIF($13, ''), NULLIF($14, ''))
		RETURNING `+shipmentColumns,
		p.UserID, trackingNumber, p.Origin, p.Destination, StatusPickedUp, p.ServiceType,
		p.Weight, p.Volume, p.EstimatedCost, p.SenderName, p.SenderAddress,
		p.ReceiverName, p.ReceiverAddress, p.ReceiverPhone), &sh)
	if err != nil {
		return nil, err
	}

	var event StatusEvent
	err = tx.QueryRow(ctx, `
		INSERT INTO status_events (shipment_id, status, description, location)
		VALUES ($1, $2, $3, $4)
		RETURNING id, seq, shipment_id, status, description, location, timestamp`,
		sh.ID, StatusPickedUp, "Shipment has been picked up", p.Origin).Scan(
		&event.ID, &event.Seq, &event.ShipmentID, &event.Status,
		&event.Description, &event.Location, &event.Timestamp)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	sh.StatusHistory = []StatusEvent{event}
	return &sh, nil
}

// AppendStatus добавляет событие и обновляет денормализованный статус отправления.
// Обе записи идут в одной транзакции: читатель никогда не увидит одно без другого.
func (s *ShipmentStore) AppendStatus(ctx context.Context, shipmentID, userID string, isAdmin bool, status, description, location string) (*Shipment, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Блокируем строку отправления: параллельные обновления сериализуются здесь
	var ownerID string
	err = tx.QueryRow(ctx, `SELECT user_id FROM shipments WHERE id = $1 FOR UPDATE`, shipmentID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !isAdmin && ownerID != userID {
		return nil, ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO status_events (shipment_id, status, description, location)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))`,
		shipmentID, status, description, location)
	if err != nil {
		return nil, err
	}

	var sh Shipment
	err = scanShipment(tx.QueryRow(ctx, `
		UPDATE shipments SET status = $1, updated_at = NOW() WHERE id = $2
		RETURNING `+shipmentColumns, status, shipmentID), &sh)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	history, err := s.listEvents(ctx, shipmentID, true)
	if err != nil {
		return nil, err
	}
	sh.StatusHistory = history
	return &sh, nil
}

// listEvents возвращает историю: asc – хронологически, desc – свежие первыми
func (s *ShipmentStore) listEvents(ctx context.Context, shipmentID string, desc bool) ([]StatusEvent, error) {
	order := "ASC"
	if desc {
		order = "DESC"
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, seq, shipment_id, status, description, location, timestamp
		FROM status_events WHERE shipment_id = $1
		ORDER BY timestamp `+order+`, seq `+order, shipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []StatusEvent
	for rows.Next() {
		var e StatusEvent
		if err := rows.Scan(&e.ID, &e.Seq, &e.ShipmentID, &e.Status, &e.Description, &e.Location, &e.Timestamp); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetByID возвращает отправление с полной историей (хронологически) и документами
func (s *ShipmentStore) GetByID(ctx context.Context, shipmentID, userID string, isAdmin bool) (*Shipment, error) {
	var sh Shipment
	err := scanShipment(s.pool.QueryRow(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, shipmentID), &sh)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !isAdmin && sh.UserID != userID {
		return nil, ErrNotFound
	}

	sh.StatusHistory, err = s.listEvents(ctx, shipmentID, false)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, shipment_id, document_type, file_url, original_name, file_size, uploaded_at
		FROM documents WHERE shipment_id = $1 ORDER BY uploaded_at DESC`, shipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.ShipmentID, &d.DocumentType, &d.FileURL, &d.OriginalName, &d.FileSize, &d.UploadedAt); err != nil {
			return nil, err
		}
		sh.Documents = append(sh.Documents, d)
	}
	return &sh, rows.Err()
}

// ListByUser – отправления пользователя, свежие первыми, с последним событием истории
func (s *ShipmentStore) ListByUser(ctx context.Context, userID string, isAdmin bool) ([]Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE user_id = $1 ORDER BY created_at DESC`
	args := []interface{}{userID}
	if isAdmin {
		query = `SELECT ` + shipmentColumns + ` FROM shipments ORDER BY created_at DESC`
		args = nil
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shipments []Shipment
	for rows.Next() {
		var sh Shipment
		if err := scanShipment(rows, &sh); err != nil {
			return nil, err
		}
		shipments = append(shipments, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Последнее событие для каждой строки списка
	for i := range shipments {
		var e StatusEvent
		err := s.pool.QueryRow(ctx, `
			SELECT id, seq, shipment_id, status, description, location, timestamp
			FROM status_events WHERE shipment_id = $1
			ORDER BY timestamp DESC, seq DESC LIMIT 1`, shipments[i].ID).Scan(
			&e.ID, &e.Seq, &e.ShipmentID, &e.Status, &e.Description, &e.Location, &e.Timestamp)
		if err == nil {
			shipments[i].StatusHistory = []StatusEvent{e}
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}
	return shipments, nil
}

type ShipmentStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	InTransit int `json:"inTransit"`
	Delivered int `json:"delivered"`
}

// Stats – счётчики для дашборда пользователя
func (s *ShipmentStore) Stats(ctx context.Context, userID string) (*ShipmentStats, error) {
	var stats ShipmentStats
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = ANY($2)),
		       COUNT(*) FILTER (WHERE status = 'DELIVERED')
		FROM shipments WHERE user_id = $1`,
		userID, ActiveStatuses).Scan(&stats.Total, &stats.InTransit, &stats.Delivered)
	if err != nil {
		return nil, err
	}
	stats.Active = stats.InTransit
	return &stats, nil
}

// Delete удаляет отправление вместе с историей и документами (ON DELETE CASCADE)
func (s *ShipmentStore) Delete(ctx context.Context, shipmentID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM shipments WHERE id = $1`, shipmentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// OwnedBy проверяет, что отправление существует и принадлежит пользователю
func (s *ShipmentStore) OwnedBy(ctx context.Context, shipmentID, userID string, isAdmin bool) (*Shipment, error) {
	var sh Shipment
	err := scanShipment(s.pool.QueryRow(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, shipmentID), &sh)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !isAdmin && sh.UserID != userID {
		return nil, ErrNotFound
	}
	return &sh, nil
}
