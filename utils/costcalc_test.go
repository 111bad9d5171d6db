package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateImportCostWeightDominant(t *testing.T) {
	result, err := CalculateImportCost(CostInput{Weight: 100, Volume: 2.5, Value: 5000, ServiceType: "LCL"})
	require.NoError(t, err)

	assert.Equal(t, 800.00, result.Breakdown.WeightCost)
	assert.Equal(t, 375.00, result.Breakdown.VolumeCost)
	assert.Equal(t, 800.00, result.FreightCost)
	assert.Equal(t, 375.00, result.CustomsDuty)
	assert.Equal(t, 25.00, result.InsuranceCost)
	assert.Equal(t, 682.00, result.VAT)
	assert.Equal(t, 50.00, result.AdminFee)
	assert.Equal(t, 1932.00, result.TotalCost)
	assert.Equal(t, 100.0, result.Breakdown.ChargeableWeight)
	assert.Equal(t, 2.5, result.Breakdown.ChargeableVolume)
}

func TestCalculateImportCostVolumeDominant(t *testing.T) {
	result, err := CalculateImportCost(CostInput{Weight: 10, Volume: 5, Value: 1000})
	require.NoError(t, err)

	assert.Equal(t, 80.00, result.Breakdown.WeightCost)
	assert.Equal(t, 750.00, result.Breakdown.VolumeCost)
	assert.Equal(t, 750.00, result.FreightCost)
	assert.Equal(t, 75.00, result.CustomsDuty)
	assert.Equal(t, 5.00, result.InsuranceCost)
	assert.Equal(t, 201.30, result.VAT)
	assert.Equal(t, 1081.30, result.TotalCost)
}

func TestCalculateImportCostTotalIsSumOfParts(t *testing.T) {
	cases := []CostInput{
		{Weight: 1, Volume: 0.01, Value: 1},
		{Weight: 55.5, Volume: 1.23, Value: 3300},
		{Weight: 1200, Volume: 18, Value: 95000},
		{Weight: 18.75, Volume: 1, Value: 150},
	}

	for _, in := range cases {
		result, err := CalculateImportCost(in)
		require.NoError(t, err)

		sum := result.FreightCost + result.CustomsDuty + result.VAT + result.InsuranceCost + result.AdminFee
		assert.InDelta(t, sum, result.TotalCost, 0.02, "total must equal sum of components for %+v", in)
		assert.GreaterOrEqual(t, result.TotalCost,
			result.FreightCost+result.CustomsDuty+result.InsuranceCost+result.AdminFee-0.01)
	}
}

func TestCalculateImportCostFreightIsMax(t *testing.T) {
	// Весовой тариф выше
	result, err := CalculateImportCost(CostInput{Weight: 200, Volume: 1, Value: 100})
	require.NoError(t, err)
	assert.Equal(t, result.Breakdown.WeightCost, result.FreightCost)

	// Объёмный тариф выше
	result, err = CalculateImportCost(CostInput{Weight: 1, Volume: 10, Value: 100})
	require.NoError(t, err)
	assert.Equal(t, result.Breakdown.VolumeCost, result.FreightCost)

	// Ничья: 150 кг * 8 == 8 м³ * 150
	result, err = CalculateImportCost(CostInput{Weight: 150, Volume: 8, Value: 100})
	require.NoError(t, err)
	assert.Equal(t, 1200.00, result.FreightCost)
}

func TestCalculateImportCostValueLinearity(t *testing.T) {
	base, err := CalculateImportCost(CostInput{Weight: 50, Volume: 2, Value: 1000})
	require.NoError(t, err)

	scaled, err := CalculateImportCost(CostInput{Weight: 50, Volume: 2, Value: 3000})
	require.NoError(t, err)

	assert.InDelta(t, base.CustomsDuty*3, scaled.CustomsDuty, 0.01)
	assert.InDelta(t, base.InsuranceCost*3, scaled.InsuranceCost, 0.01)
	// Фрахт от стоимости товара не зависит
	assert.Equal(t, base.FreightCost, scaled.FreightCost)
}

func TestCalculateImportCostServiceTypeIsNoop(t *testing.T) {
	lcl, err := CalculateImportCost(CostInput{Weight: 100, Volume: 2.5, Value: 5000, ServiceType: "LCL"})
	require.NoError(t, err)
	fcl, err := CalculateImportCost(CostInput{Weight: 100, Volume: 2.5, Value: 5000, ServiceType: "FCL"})
	require.NoError(t, err)

	assert.Equal(t, lcl.TotalCost, fcl.TotalCost)
}

func TestCalculateImportCostRejectsNonPositive(t *testing.T) {
	invalid := []CostInput{
		{Weight: 0, Volume: 1, Value: 1},
		{Weight: 1, Volume: 0, Value: 1},
		{Weight: 1, Volume: 1, Value: 0},
		{Weight: -5, Volume: 1, Value: 1},
		{Weight: 1, Volume: -1, Value: 100},
		{Weight: 1, Volume: 1, Value: -100},
	}

	for _, in := range invalid {
		_, err := CalculateImportCost(in)
		assert.ErrorIs(t, err, ErrInvalidCostInput, "input %+v must be rejected", in)
	}
}
