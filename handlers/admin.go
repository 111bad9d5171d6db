package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/AhmadFauzanZW/wilopo-cargo/models"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	users     *models.UserStore
	shipments *models.ShipmentStore
}

func NewAdminHandler(users *models.UserStore, shipments *models.ShipmentStore) *AdminHandler {
	return &AdminHandler{users: users, shipments: shipments}
}

// ListUsers обрабатывает GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListWithShipmentCounts(c.Request.Context())
	if err != nil {
		log.Printf("❌ Ошибка получения пользователей: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch users"})
		return
	}

	if users == nil {
		users = []models.UserWithCount{}
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUserRole обрабатывает PUT /api/admin/users/:id/role
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid role"})
		return
	}

	if req.Role != "USER" && req.Role != "ADMIN" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid role"})
		return
	}

	user, err := h.users.UpdateRole(c.Request.Context(), c.Param("id"), req.Role)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Ошибка обновления роли: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update user role"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Stats обрабатывает GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	totals, err := h.shipments.AdminTotals(c.Request.Context())
	if err != nil {
		log.Printf("❌ Ошибка получения статистики: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch statistics"})
		return
	}

	c.JSON(http.StatusOK, totals)
}

// DeleteShipment обрабатывает DELETE /api/admin/shipments/:id
// Отправление удаляется целиком: история и документы уходят каскадом
func (h *AdminHandler) DeleteShipment(c *gin.Context) {
	err := h.shipments.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "shipment not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Ошибка удаления отправления: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete shipment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "shipment deleted"})
}
