package models

import (
	"context"
	"time"
)

// Лёгкая строка для отчётов: дальше группируем в Go, как удобно фронту
type ShipmentSummary struct {
	Status        string
	ServiceType   string
	EstimatedCost float64
	CreatedAt     time.Time
}

// ListSummaries возвращает краткие строки отправлений.
// userID == "" – по всем пользователям (админ); since – нулевое время отключает фильтр.
func (s *ShipmentStore) ListSummaries(ctx context.Context, userID string, since time.Time) ([]ShipmentSummary, error) {
	query := `SELECT status, service_type, COALESCE(estimated_cost, 0), created_at FROM shipments`
	var args []interface{}
	where := ""
	if userID != "" {
		args = append(args, userID)
		where = ` WHERE user_id = $1`
	}
	if !since.IsZero() {
		args = append(args, since)
		if where == "" {
			where = ` WHERE created_at >= $1`
		} else {
			where += ` AND created_at >= $2`
		}
	}

	rows, err := s.pool.Query(ctx, query+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []ShipmentSummary
	for rows.Next() {
		var sm ShipmentSummary
		if err := rows.Scan(&sm.Status, &sm.ServiceType, &sm.EstimatedCost, &sm.CreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, sm)
	}
	return summaries, rows.Err()
}

// CountsByStatus – количество отправлений по каждому статусу
func (s *ShipmentStore) CountsByStatus(ctx context.Context, userID string) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM shipments GROUP BY status`
	var args []interface{}
	if userID != "" {
		query = `SELECT status, COUNT(*) FROM shipments WHERE user_id = $1 GROUP BY status`
		args = append(args, userID)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// DeliveredDurations – полные дни от создания до события DELIVERED,
// только по доставленным отправлениям (среднее считает models.AverageDeliveryDays)
func (s *ShipmentStore) DeliveredDurations(ctx context.Context, userID string) ([]int, error) {
	query := `
		SELECT sh.created_at, MIN(e.timestamp)
		FROM shipments sh
		JOIN status_events e ON e.shipment_id = sh.id AND e.status = 'DELIVERED'
		WHERE sh.status = 'DELIVERED'`
	var args []interface{}
	if userID != "" {
		query += ` AND sh.user_id = $1`
		args = append(args, userID)
	}
	query += ` GROUP BY sh.id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var durations []int
	for rows.Next() {
		var createdAt, deliveredAt time.Time
		if err := rows.Scan(&createdAt, &deliveredAt); err != nil {
			return nil, err
		}
		days := int(deliveredAt.Sub(createdAt).Hours() / 24)
		if days < 0 {
			days = 0
		}
		durations = append(durations, days)
	}
	return durations, rows.Err()
}

// TotalRevenue – сумма estimated_cost (userID == "" – по всем)
func (s *ShipmentStore) TotalRevenue(ctx context.Context, userID string) (float64, error) {
	query := `SELECT COALESCE(SUM(estimated_cost), 0) FROM shipments`
	var args []interface{}
	if userID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	var total float64
	err := s.pool.QueryRow(ctx, query, args...).Scan(&total)
	return total, err
}

// AdminTotals для /api/admin/stats
type AdminTotals struct {
	TotalUsers     int     `json:"totalUsers"`
	TotalShipments int     `json:"totalShipments"`
	TotalRevenue   float64 `json:"totalRevenue"`
}

func (s *ShipmentStore) AdminTotals(ctx context.Context) (*AdminTotals, error) {
	var totals AdminTotals
	err := s.pool.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM users),
		       (SELECT COUNT(*) FROM shipments),
		       (SELECT COALESCE(SUM(estimated_cost), 0) FROM shipments)`).Scan(
		&totals.TotalUsers, &totals.TotalShipments, &totals.TotalRevenue)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
