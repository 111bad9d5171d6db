package utils

import (
	"errors"
	"math"
)

// Базовые ставки (USD). Подгоняются под актуальные тарифы Wilopo Cargo.
const (
	FreightRatePerKg  = 8.0   // USD за кг
	FreightRatePerCbm = 150.0 // USD за кубометр
	CustomsDutyRate   = 0.075 // 7.5% от стоимости товара
	VATRate           = 0.11  // 11% НДС
	InsuranceRate     = 0.005 // 0.5% от стоимости товара
	AdminFee          = 50.0  // USD, фиксированный сбор
)

var ErrInvalidCostInput = errors.New("weight, volume and value must be positive")

type CostInput struct {
	Weight      float64 `json:"weight"`
	Volume      float64 `json:"volume"`
	Value       float64 `json:"value"`
	ServiceType string  `json:"serviceType"`
}

type CostDetails struct {
	WeightCost       float64 `json:"weightCost"`
	VolumeCost       float64 `json:"volumeCost"`
	ChargeableWeight float64 `json:"chargeableWeight"`
	ChargeableVolume float64 `json:"chargeableVolume"`
}

type CostBreakdown struct {
	FreightCost   float64     `json:"freightCost"`
	CustomsDuty   float64     `json:"customsDuty"`
	VAT           float64     `json:"vat"`
	InsuranceCost float64     `json:"insuranceCost"`
	AdminFee      float64     `json:"adminFee"`
	TotalCost     float64     `json:"totalCost"`
	Breakdown     CostDetails `json:"breakdown"`
}

// round2 – округление до 2 знаков, как на калькуляторе: умножить, округлить, поделить
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculateImportCost считает смету импорта. Чистая функция без побочных эффектов.
// Фрахт берётся по большему из весового и объёмного тарифов (chargeable weight).
// ServiceType (LCL/FCL) пока на формулу не влияет – зарезервирован под
// дифференцированные ставки.
func CalculateImportCost(in CostInput) (*CostBreakdown, error) {
	if in.Weight <= 0 || in.Volume <= 0 || in.Value <= 0 {
		return nil, ErrInvalidCostInput
	}

	weightCost := in.Weight * FreightRatePerKg
	volumeCost := in.Volume * FreightRatePerCbm
	freightCost := math.Max(weightCost, volumeCost)

	customsDuty := in.Value * CustomsDutyRate
	insuranceCost := in.Value * InsuranceRate
	taxableAmount := in.Value + freightCost + insuranceCost + customsDuty
	vat := taxableAmount * VATRate

	totalCost := freightCost + customsDuty + vat + insuranceCost + AdminFee

	return &CostBreakdown{
		FreightCost:   round2(freightCost),
		CustomsDuty:   round2(customsDuty),
		VAT:           round2(vat),
		InsuranceCost: round2(insuranceCost),
		AdminFee:      AdminFee,
		TotalCost:     round2(totalCost),
		Breakdown: CostDetails{
			WeightCost:       round2(weightCost),
			VolumeCost:       round2(volumeCost),
			ChargeableWeight: in.Weight,
			ChargeableVolume: in.Volume,
		},
	}, nil
}
