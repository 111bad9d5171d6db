package handlers

import (
	"log"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/AhmadFauzanZW/wilopo-cargo/models"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	shipments *models.ShipmentStore
}

func NewAnalyticsHandler(shipments *models.ShipmentStore) *AnalyticsHandler {
	return &AnalyticsHandler{shipments: shipments}
}

// analyticsScope: админ видит всё, пользователь – только своё
func analyticsScope(c *gin.Context) string {
	userID, isAdmin := currentUser(c)
	if isAdmin {
		return ""
	}
	return userID
}

// Overview обрабатывает GET /api/analytics/overview
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	ctx := c.Request.Context()
	scope := analyticsScope(c)

	counts, err := h.shipments.CountsByStatus(ctx, scope)
	if err != nil {
		log.Printf("❌ Ошибка аналитики: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch analytics"})
		return
	}

	total := 0
	byStatus := make([]gin.H, 0, len(counts))
	for _, status := range models.AllStatuses {
		if n, ok := counts[status]; ok {
			total += n
			byStatus = append(byStatus, gin.H{"status": status, "count": n})
		}
	}

	// Выручка по месяцам за полгода
	sixMonthsAgo := time.Now().AddDate(0, -6, 0)
	summaries, err := h.shipments.ListSummaries(ctx, scope, sixMonthsAgo)
	if err != nil {
		log.Printf("❌ Ошибка аналитики: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch analytics"})
		return
	}

	revenueByMonth := make(map[string]float64)
	recentActivity := 0
	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	for _, sm := range summaries {
		month := sm.CreatedAt.Format("Jan 2006")
		revenueByMonth[month] += sm.EstimatedCost
		if sm.CreatedAt.After(sevenDaysAgo) {
			recentActivity++
		}
	}

	months := make([]string, 0, len(revenueByMonth))
	for m := range revenueByMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool {
		ti, _ := time.Parse("Jan 2006", months[i])
		tj, _ := time.Parse("Jan 2006", months[j])
		return ti.Before(tj)
	})
	revenue := make([]gin.H, 0, len(months))
	for _, m := range months {
		revenue = append(revenue, gin.H{"month": m, "revenue": math.Round(revenueByMonth[m]*100) / 100})
	}

	// Среднее время доставки: полные дни, только доставленные
	durations, err := h.shipments.DeliveredDurations(ctx, scope)
	if err != nil {
		log.Printf("❌ Ошибка аналитики: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalShipments":    total,
		"shipmentsByStatus": byStatus,
		"revenueByMonth":    revenue,
		"recentActivity":    recentActivity,
		"avgDeliveryTime":   models.AverageDeliveryDays(durations),
	})
}

// Trends обрабатывает GET /api/analytics/trends – по дням за 30 дней
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	ctx := c.Request.Context()
	scope := analyticsScope(c)

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	summaries, err := h.shipments.ListSummaries(ctx, scope, thirtyDaysAgo)
	if err != nil {
		log.Printf("❌ Ошибка аналитики: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch trends"})
		return
	}

	type dayTrend struct {
		counts map[string]int
		total  int
	}
	trendsByDate := make(map[string]*dayTrend)
	for _, sm := range summaries {
		date := sm.CreatedAt.Format("2006-01-02")
		t, ok := trendsByDate[date]
		if !ok {
			t = &dayTrend{counts: make(map[string]int)}
			trendsByDate[date] = t
		}
		t.counts[sm.Status]++
		t.total++
	}

	dates := make([]string, 0, len(trendsByDate))
	for d := range trendsByDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	trends := make([]gin.H, 0, len(dates))
	for _, d := range dates {
		row := gin.H{"date": d, "total": trendsByDate[d].total}
		for status, n := range trendsByDate[d].counts {
			row[status] = n
		}
		trends = append(trends, row)
	}

	c.JSON(http.StatusOK, trends)
}

// Revenue обрабатывает GET /api/analytics/revenue
func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	ctx := c.Request.Context()
	scope := analyticsScope(c)

	totalRevenue, err := h.shipments.TotalRevenue(ctx, scope)
	if err != nil {
		log.Printf("❌ Ошибка аналитики: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch revenue statistics"})
		return
	}

	summaries, err := h.shipments.ListSummaries(ctx, scope, time.Time{})
	if err != nil {
		log.Printf("❌ Ошибка аналитики: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch revenue statistics"})
		return
	}

	byService := make(map[string]float64)
	now := time.Now()
	thisMonthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := thisMonthStart.AddDate(0, -1, 0)

	var thisMonth, lastMonth float64
	for _, sm := range summaries {
		byService[sm.ServiceType] += sm.EstimatedCost
		if !sm.CreatedAt.Before(thisMonthStart) {
			thisMonth += sm.EstimatedCost
		} else if !sm.CreatedAt.Before(lastMonthStart) {
			lastMonth += sm.EstimatedCost
		}
	}

	revenueByService := make([]gin.H, 0, len(byService))
	for service, revenue := range byService {
		revenueByService = append(revenueByService, gin.H{
			"serviceType": service,
			"revenue":     math.Round(revenue*100) / 100,
		})
	}
	sort.Slice(revenueByService, func(i, j int) bool {
		return revenueByService[i]["serviceType"].(string) < revenueByService[j]["serviceType"].(string)
	})

	growth := 0.0
	if lastMonth > 0 {
		growth = math.Round((thisMonth-lastMonth)/lastMonth*100*100) / 100
	}

	c.JSON(http.StatusOK, gin.H{
		"totalRevenue":     math.Round(totalRevenue*100) / 100,
		"revenueByService": revenueByService,
		"thisMonth":        math.Round(thisMonth*100) / 100,
		"lastMonth":        math.Round(lastMonth*100) / 100,
		"growth":           growth,
	})
}
