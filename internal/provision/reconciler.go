// Package provision reconciles a completed tour's departure/arrival counts
// against the inventory collection.
package provision

import "fleet-ops-backend/internal/model"

// Delta is the computed stock effect on one inventory item. One Delta is
// produced per touched item even when several lines name it.
type Delta struct {
	ItemID   string
	ItemName string
	Consumed int
	OldStock int
	NewStock int
	MinStock int
	LowStock bool
}

// Reconcile computes per-item consumption for a completed tour.
//
// Per line: consumed = departureQty - arrivalQty, with a missing or negative
// arrival treated as zero leftover. That biases consumption estimates high
// on under-specified data, which is intentional policy: stock is depleted
// rather than silently overstated. Consumption is clamped at zero so a line
// violating arrival <= departure never adds stock back. Lines naming no
// inventory item (exact, case-sensitive match) are skipped; ad hoc
// provisioning without a stock record is legal. Stock never goes negative.
func Reconcile(lines []model.ProvisionLine, items []model.InventoryItem) []Delta {
	byName := make(map[string]*model.InventoryItem, len(items))
	for i := range items {
		byName[items[i].Name] = &items[i]
	}

	deltas := make([]Delta, 0, len(lines))
	index := make(map[string]int) // item id -> position in deltas

	for _, line := range lines {
		arrival := 0
		if line.ArrivalQty != nil && *line.ArrivalQty > 0 {
			arrival = *line.ArrivalQty
		}
		consumed := line.DepartureQty - arrival
		if consumed <= 0 {
			continue
		}

		item, ok := byName[line.ItemName]
		if !ok {
			continue
		}

		pos, seen := index[item.ID]
		if !seen {
			deltas = append(deltas, Delta{
				ItemID:   item.ID,
				ItemName: item.Name,
				OldStock: item.CurrentStock,
				NewStock: item.CurrentStock,
				MinStock: item.MinStock,
			})
			pos = len(deltas) - 1
			index[item.ID] = pos
		}

		d := &deltas[pos]
		d.Consumed += consumed
		d.NewStock -= consumed
		if d.NewStock < 0 {
			d.NewStock = 0
		}
		d.LowStock = d.NewStock < d.MinStock
	}

	return deltas
}
