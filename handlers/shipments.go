package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/AhmadFauzanZW/wilopo-cargo/models"
	"github.com/AhmadFauzanZW/wilopo-cargo/monitoring"
	"github.com/AhmadFauzanZW/wilopo-cargo/utils"

	"github.com/gin-gonic/gin"
)

type ShipmentHandler struct {
	shipments *models.ShipmentStore
	notifier  *Notifier
}

func NewShipmentHandler(shipments *models.ShipmentStore, notifier *Notifier) *ShipmentHandler {
	return &ShipmentHandler{shipments: shipments, notifier: notifier}
}

func currentUser(c *gin.Context) (userID string, isAdmin bool) {
	if v, ok := c.Get("userID"); ok {
		userID = v.(string)
	}
	if v, ok := c.Get("userRole"); ok {
		isAdmin = strings.EqualFold(v.(string), "ADMIN")
	}
	return userID, isAdmin
}

// List обрабатывает GET /api/shipments
func (h *ShipmentHandler) List(c *gin.Context) {
	userID, isAdmin := currentUser(c)

	shipments, err := h.shipments.ListByUser(c.Request.Context(), userID, isAdmin)
	if err != nil {
		log.Printf("❌ Ошибка получения отправлений: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error fetching shipments"})
		return
	}

	if shipments == nil {
		shipments = []models.Shipment{}
	}
	c.JSON(http.StatusOK, shipments)
}

// GetByID обрабатывает GET /api/shipments/:id
func (h *ShipmentHandler) GetByID(c *gin.Context) {
	userID, isAdmin := currentUser(c)

	shipment, err := h.shipments.GetByID(c.Request.Context(), c.Param("id"), userID, isAdmin)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "shipment not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Ошибка получения отправления: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error fetching shipment"})
		return
	}

	c.JSON(http.StatusOK, shipment)
}

// Create обрабатывает POST /api/shipments
func (h *ShipmentHandler) Create(c *gin.Context) {
	userID, _ := currentUser(c)

	var req struct {
		Origin          string   `json:"origin" binding:"required"`
		Destination     string   `json:"destination" binding:"required"`
		Weight          float64  `json:"weight" binding:"required,gt=0"`
		Volume          float64  `json:"volume" binding:"required,gt=0"`
		Value           float64  `json:"value"`
		ServiceType     string   `json:"service_type"`
		EstimatedCost   *float64 `json:"estimated_cost"`
		SenderName      string   `json:"sender_name"`
		SenderAddress   string   `json:"sender_address"`
		ReceiverName    string   `json:"receiver_name"`
		ReceiverAddress string   `json:"receiver_address"`
		ReceiverPhone   string   `json:"receiver_phone"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	estimatedCost := req.EstimatedCost
	// Если указана стоимость товара – считаем смету сами
	if estimatedCost == nil && req.Value > 0 {
		breakdown, err := utils.CalculateImportCost(utils.CostInput{
			Weight:      req.Weight,
			Volume:      req.Volume,
			Value:       req.Value,
			ServiceType: req.ServiceType,
		})
		if err == nil {
			estimatedCost = &breakdown.TotalCost
		}
	}

	shipment, err := h.shipments.Create(c.Request.Context(), models.CreateShipmentParams{
		UserID:          userID,
		Origin:          req.Origin,
		Destination:     req.Destination,
		Weight:          req.Weight,
		Volume:          req.Volume,
		ServiceType:     req.ServiceType,
		EstimatedCost:   estimatedCost,
		SenderName:      req.SenderName,
		SenderAddress:   req.SenderAddress,
		ReceiverName:    req.ReceiverName,
		ReceiverAddress: req.ReceiverAddress,
		ReceiverPhone:   req.ReceiverPhone,
	})
	if errors.Is(err, models.ErrTrackingCollision) {
		log.Printf("❌ Не удалось подобрать уникальный трек-номер: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error creating shipment, please retry"})
		return
	}
	if err != nil {
		log.Printf("❌ Ошибка создания отправления: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error creating shipment"})
		return
	}

	monitoring.ShipmentsCreatedTotal.Inc()
	c.JSON(http.StatusCreated, shipment)
}

// UpdateStatus обрабатывает PATCH /api/shipments/:id/status
func (h *ShipmentHandler) UpdateStatus(c *gin.Context) {
	userID, isAdmin := currentUser(c)

	var req struct {
		Status      string `json:"status" binding:"required"`
		Description string `json:"description"`
		Location    string `json:"location"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.IsValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status value"})
		return
	}

	shipment, err := h.shipments.AppendStatus(c.Request.Context(), c.Param("id"), userID, isAdmin,
		req.Status, req.Description, req.Location)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "shipment not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Ошибка обновления статуса: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error updating shipment"})
		return
	}

	monitoring.StatusUpdatesTotal.WithLabelValues(req.Status).Inc()

	// Уведомления – в фоне, ответ не ждёт
	go h.notifier.NotifyStatusUpdate(shipment, req.Status)

	c.JSON(http.StatusOK, shipment)
}

// Stats обрабатывает GET /api/shipments/stats
func (h *ShipmentHandler) Stats(c *gin.Context) {
	userID, _ := currentUser(c)

	stats, err := h.shipments.Stats(c.Request.Context(), userID)
	if err != nil {
		log.Printf("❌ Ошибка получения статистики: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error fetching statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
