package provision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-ops-backend/internal/model"
)

func intp(v int) *int { return &v }

func water(stock, min int) []model.InventoryItem {
	return []model.InventoryItem{{ID: "i1", Name: "Water", CurrentStock: stock, MinStock: min}}
}

func TestReconcileBasicConsumption(t *testing.T) {
	lines := []model.ProvisionLine{{ItemName: "Water", DepartureQty: 10, ArrivalQty: intp(4)}}

	deltas := Reconcile(lines, water(20, 5))
	require.Len(t, deltas, 1)
	assert.Equal(t, 6, deltas[0].Consumed)
	assert.Equal(t, 14, deltas[0].NewStock)
	assert.False(t, deltas[0].LowStock)
}

func TestReconcileLowStockFlag(t *testing.T) {
	lines := []model.ProvisionLine{{ItemName: "Water", DepartureQty: 10, ArrivalQty: intp(4)}}

	deltas := Reconcile(lines, water(20, 20))
	require.Len(t, deltas, 1)
	assert.Equal(t, 14, deltas[0].NewStock)
	assert.True(t, deltas[0].LowStock)
}

func TestReconcileMissingArrivalMeansZeroLeftover(t *testing.T) {
	lines := []model.ProvisionLine{{ItemName: "Water", DepartureQty: 10}}

	deltas := Reconcile(lines, water(20, 5))
	require.Len(t, deltas, 1)
	assert.Equal(t, 10, deltas[0].Consumed)
	assert.Equal(t, 10, deltas[0].NewStock)
}

func TestReconcileNegativeArrivalTreatedAsZero(t *testing.T) {
	lines := []model.ProvisionLine{{ItemName: "Water", DepartureQty: 10, ArrivalQty: intp(-3)}}

	deltas := Reconcile(lines, water(20, 5))
	require.Len(t, deltas, 1)
	assert.Equal(t, 10, deltas[0].Consumed)
}

func TestReconcileArrivalExceedingDepartureAddsNothingBack(t *testing.T) {
	// arrival > departure violates the intended contract; consumption is
	// clamped at zero, never negative.
	lines := []model.ProvisionLine{{ItemName: "Water", DepartureQty: 4, ArrivalQty: intp(10)}}

	assert.Empty(t, Reconcile(lines, water(20, 5)))
}

func TestReconcileStockNeverGoesNegative(t *testing.T) {
	lines := []model.ProvisionLine{{ItemName: "Water", DepartureQty: 50}}

	deltas := Reconcile(lines, water(20, 5))
	require.Len(t, deltas, 1)
	assert.Equal(t, 50, deltas[0].Consumed)
	assert.Equal(t, 0, deltas[0].NewStock)
	assert.True(t, deltas[0].LowStock)
}

func TestReconcileUnknownItemSkipped(t *testing.T) {
	// Ad hoc provisioning with no stock record is legal.
	lines := []model.ProvisionLine{{ItemName: "Birthday Cake", DepartureQty: 1}}

	assert.Empty(t, Reconcile(lines, water(20, 5)))
}

func TestReconcileNameMatchIsCaseSensitive(t *testing.T) {
	lines := []model.ProvisionLine{{ItemName: "water", DepartureQty: 5}}

	assert.Empty(t, Reconcile(lines, water(20, 5)))
}

func TestReconcileMergesLinesForSameItem(t *testing.T) {
	lines := []model.ProvisionLine{
		{ItemName: "Water", DepartureQty: 8, ArrivalQty: intp(2)},
		{ItemName: "Water", DepartureQty: 10, ArrivalQty: intp(6)},
	}

	deltas := Reconcile(lines, water(20, 12))
	require.Len(t, deltas, 1)
	assert.Equal(t, 10, deltas[0].Consumed)
	assert.Equal(t, 10, deltas[0].NewStock)
	assert.True(t, deltas[0].LowStock)
}

func TestReconcileDoesNotMutateInputs(t *testing.T) {
	items := water(20, 5)
	lines := []model.ProvisionLine{{ItemName: "Water", DepartureQty: 10}}

	Reconcile(lines, items)
	assert.Equal(t, 20, items[0].CurrentStock)
}
