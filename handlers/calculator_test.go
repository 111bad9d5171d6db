package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calculatorRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/calculate-cost", CalculateCost)
	return r
}

func postCalculate(t *testing.T, r *gin.Engine, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/calculate-cost", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCalculateCostSuccess(t *testing.T) {
	r := calculatorRouter()

	w := postCalculate(t, r, map[string]interface{}{
		"weight": 100, "volume": 2.5, "value": 5000,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Input struct {
			ServiceType string `json:"serviceType"`
		} `json:"input"`
		Estimation struct {
			FreightCost   float64 `json:"freightCost"`
			CustomsDuty   float64 `json:"customsDuty"`
			VAT           float64 `json:"vat"`
			InsuranceCost float64 `json:"insuranceCost"`
			AdminFee      float64 `json:"adminFee"`
			TotalCost     float64 `json:"totalCost"`
			Breakdown     struct {
				WeightCost float64 `json:"weightCost"`
				VolumeCost float64 `json:"volumeCost"`
			} `json:"breakdown"`
		} `json:"estimation"`
		Currency   string `json:"currency"`
		Disclaimer string `json:"disclaimer"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "LCL", resp.Input.ServiceType, "serviceType по умолчанию LCL")
	assert.Equal(t, "USD", resp.Currency)
	assert.NotEmpty(t, resp.Disclaimer)
	assert.Equal(t, 800.00, resp.Estimation.Breakdown.WeightCost)
	assert.Equal(t, 375.00, resp.Estimation.Breakdown.VolumeCost)
	assert.Equal(t, 800.00, resp.Estimation.FreightCost)
	assert.Equal(t, 682.00, resp.Estimation.VAT)
	assert.Equal(t, 1932.00, resp.Estimation.TotalCost)
}

func TestCalculateCostMissingFields(t *testing.T) {
	r := calculatorRouter()

	cases := []map[string]interface{}{
		{},
		{"weight": 100},
		{"weight": 100, "volume": 2.5},
		{"volume": 2.5, "value": 5000},
	}

	for _, body := range cases {
		w := postCalculate(t, r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %+v", body)
	}
}

func TestCalculateCostNonPositiveValues(t *testing.T) {
	r := calculatorRouter()

	cases := []map[string]interface{}{
		{"weight": -1, "volume": 2.5, "value": 5000},
		{"weight": 100, "volume": -2.5, "value": 5000},
		{"weight": 100, "volume": 2.5, "value": -5000},
	}

	for _, body := range cases {
		w := postCalculate(t, r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %+v", body)
	}
}

func TestCalculateCostServiceTypePreserved(t *testing.T) {
	r := calculatorRouter()

	w := postCalculate(t, r, map[string]interface{}{
		"weight": 10, "volume": 5, "value": 1000, "serviceType": "FCL",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Input struct {
			ServiceType string `json:"serviceType"`
		} `json:"input"`
		Estimation struct {
			TotalCost float64 `json:"totalCost"`
		} `json:"estimation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "FCL", resp.Input.ServiceType)
	// FCL пока считается по тем же ставкам, что и LCL
	assert.Equal(t, 1081.30, resp.Estimation.TotalCost)
}
