package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidStatus(t *testing.T) {
	for _, status := range AllStatuses {
		assert.True(t, IsValidStatus(status), status)
	}

	assert.False(t, IsValidStatus("picked_up"), "статусы чувствительны к регистру")
	assert.False(t, IsValidStatus("PENDING"))
	assert.False(t, IsValidStatus(""))
	assert.False(t, IsValidStatus("DELIVERED "))
}

func event(status string, ts time.Time, seq int64) StatusEvent {
	return StatusEvent{Status: status, Timestamp: ts, Seq: seq}
}

func TestLatestEventByTimestamp(t *testing.T) {
	base := time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC)
	events := []StatusEvent{
		event(StatusPickedUp, base, 1),
		event(StatusInTransit, base.Add(48*time.Hour), 3),
		event(StatusInWarehouse, base.Add(24*time.Hour), 2),
	}

	latest := LatestEvent(events)
	require.NotNil(t, latest)
	assert.Equal(t, StatusInTransit, latest.Status)
}

func TestLatestEventTieBrokenByInsertionOrder(t *testing.T) {
	ts := time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC)
	events := []StatusEvent{
		event(StatusAtPort, ts, 5),
		event(StatusCustomsClearance, ts, 6),
	}

	latest := LatestEvent(events)
	require.NotNil(t, latest)
	assert.Equal(t, StatusCustomsClearance, latest.Status)
}

func TestLatestEventEmpty(t *testing.T) {
	assert.Nil(t, LatestEvent(nil))
	assert.Nil(t, LatestEvent([]StatusEvent{}))
}

func TestDeliveryDays(t *testing.T) {
	createdAt := time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC)
	events := []StatusEvent{
		event(StatusPickedUp, createdAt, 1),
		event(StatusInTransit, createdAt.Add(2*24*time.Hour), 2),
		event(StatusDelivered, createdAt.Add(7*24*time.Hour+3*time.Hour), 3),
	}

	assert.Equal(t, 7, DeliveryDays(createdAt, events))
}

func TestDeliveryDaysNotDelivered(t *testing.T) {
	createdAt := time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC)
	events := []StatusEvent{
		event(StatusPickedUp, createdAt, 1),
		event(StatusCancelled, createdAt.Add(24*time.Hour), 2),
	}

	assert.Equal(t, -1, DeliveryDays(createdAt, events))
}

func TestAverageDeliveryDays(t *testing.T) {
	assert.Equal(t, 0, AverageDeliveryDays(nil))
	assert.Equal(t, 5, AverageDeliveryDays([]int{5}))
	assert.Equal(t, 6, AverageDeliveryDays([]int{5, 7}))
	// 4+5+8 = 17/3 = 5.67 → округляем до 6
	assert.Equal(t, 6, AverageDeliveryDays([]int{4, 5, 8}))
}
