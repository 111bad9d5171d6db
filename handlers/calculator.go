package handlers

import (
	"net/http"

	"github.com/AhmadFauzanZW/wilopo-cargo/monitoring"
	"github.com/AhmadFauzanZW/wilopo-cargo/utils"

	"github.com/gin-gonic/gin"
)

const costDisclaimer = "This is an estimation. Actual costs may vary based on specific circumstances."

// CalculateCost обрабатывает POST /api/calculate-cost (публичный калькулятор)
func CalculateCost(c *gin.Context) {
	var req struct {
		Weight      float64 `json:"weight"`
		Volume      float64 `json:"volume"`
		Value       float64 `json:"value"`
		ServiceType string  `json:"serviceType"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide weight, volume, and value"})
		return
	}

	if req.Weight == 0 || req.Volume == 0 || req.Value == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide weight, volume, and value"})
		return
	}
	if req.Weight <= 0 || req.Volume <= 0 || req.Value <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Weight, volume, and value must be positive numbers"})
		return
	}

	if req.ServiceType == "" {
		req.ServiceType = "LCL"
	}

	input := utils.CostInput{
		Weight:      req.Weight,
		Volume:      req.Volume,
		Value:       req.Value,
		ServiceType: req.ServiceType,
	}

	estimation, err := utils.CalculateImportCost(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Weight, volume, and value must be positive numbers"})
		return
	}

	monitoring.CostEstimationsTotal.Inc()

	c.JSON(http.StatusOK, gin.H{
		"input":      input,
		"estimation": estimation,
		"currency":   "USD",
		"disclaimer": costDisclaimer,
	})
}
