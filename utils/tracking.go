package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateTrackingNumber выдаёт номер вида WC-YYYYMMDD-NNNNN,
// NNNNN – случайное пятизначное число [10000, 99999].
// Уникальность гарантирует unique-констрейнт в БД: при коллизии
// создание отправления повторяется с новым номером.
func GenerateTrackingNumber() string {
	date := time.Now().Format("20060102")
	random := 10000 + rand.Intn(90000)
	return fmt.Sprintf("WC-%s-%d", date, random)
}
