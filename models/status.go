package models

import "time"

// Статусы отправления. Значения фиксированы – по ним фильтруют отчёты и клиенты.
const (
	StatusPickedUp         = "PICKED_UP"
	StatusInWarehouse      = "IN_WAREHOUSE"
	StatusInTransit        = "IN_TRANSIT"
	StatusAtPort           = "AT_PORT"
	StatusCustomsClearance = "CUSTOMS_CLEARANCE"
	StatusOutForDelivery   = "OUT_FOR_DELIVERY"
	StatusDelivered        = "DELIVERED"
	StatusCancelled        = "CANCELLED"
)

// AllStatuses – типичный порядок прохождения (не навязывается при обновлении)
var AllStatuses = []string{
	StatusPickedUp,
	StatusInWarehouse,
	StatusInTransit,
	StatusAtPort,
	StatusCustomsClearance,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// ActiveStatuses – статусы «в пути» для дашборда
var ActiveStatuses = []string{
	StatusInTransit,
	StatusAtPort,
	StatusCustomsClearance,
	StatusOutForDelivery,
}

// IsValidStatus проверяет только принадлежность к перечислению.
// Порядок переходов не проверяется: любой статус может идти за любым.
func IsValidStatus(status string) bool {
	for _, s := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// LatestEvent возвращает последнее событие по timestamp (при равенстве – по seq).
// Текущий статус отправления всегда совпадает со статусом этого события.
func LatestEvent(events []StatusEvent) *StatusEvent {
	if len(events) == 0 {
		return nil
	}
	latest := &events[0]
	for i := 1; i < len(events); i++ {
		e := &events[i]
		if e.Timestamp.After(latest.Timestamp) ||
			(e.Timestamp.Equal(latest.Timestamp) && e.Seq > latest.Seq) {
			latest = e
		}
	}
	return latest
}

// DeliveryDays – количество полных дней от создания до события DELIVERED.
// Возвращает -1, если отправление ещё не доставлено.
func DeliveryDays(createdAt time.Time, events []StatusEvent) int {
	for i := range events {
		if events[i].Status == StatusDelivered {
			days := int(events[i].Timestamp.Sub(createdAt).Hours() / 24)
			if days < 0 {
				days = 0
			}
			return days
		}
	}
	return -1
}

// AverageDeliveryDays усредняет полные дни доставки только по доставленным отправлениям
func AverageDeliveryDays(durations []int) int {
	if len(durations) == 0 {
		return 0
	}
	total := 0
	for _, d := range durations {
		total += d
	}
	return int(float64(total)/float64(len(durations)) + 0.5)
}
