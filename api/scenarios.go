/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	data for testing and demos. Each scenario creates materials, posts
	stock entries, and opens material requests that demonstrate specific
	features.

AVAILABLE SCENARIOS:

	machine-shop:   Full catalog across all stock classes with posted entries
	replenishment:  Low-stock catalog plus an auto-generated purchase request
	audit-trail:    Posted and cancelled entries showing ledger reversals

HOW SCENARIOS WORK:
 1. Create materials via the catalog store
 2. Post stock entries (receipts, issues, transfers)
 3. Optionally cancel entries or open material requests

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "machine-shop"}

NOTE:

	Scenarios append to the current store. Load them against a fresh
	(in-memory or empty) database only; there is no reset.

SEE ALSO:
  - server.go: Scenario routes
  - inventory/poster.go: Entry posting used by the loaders
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/warp/stock-engine/inventory"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioDTO describes one loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// LoadScenarioRequest selects the scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

var scenarios = []ScenarioDTO{
	{
		ID:          "machine-shop",
		Name:        "Machine Shop",
		Description: "Catalog spanning critical/low/safety/over stock with posted receipts and issues",
		Category:    "catalog",
	},
	{
		ID:          "replenishment",
		Name:        "Replenishment",
		Description: "Low-stock catalog plus an auto-generated purchase request",
		Category:    "requests",
	},
	{
		ID:          "audit-trail",
		Name:        "Audit Trail",
		Description: "Posted and cancelled entries showing ledger reversals",
		Category:    "ledger",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario populates the store with one of the demo scenarios.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	var err error
	switch req.ScenarioID {
	case "machine-shop":
		err = h.loadMachineShopScenario(ctx)
	case "replenishment":
		err = h.loadReplenishmentScenario(ctx)
	case "audit-trail":
		err = h.loadAuditTrailScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

type seedMaterial struct {
	partNumber   string
	description  string
	grouping     string
	unit         string
	stock        float64
	reorderPoint float64
	price        float64
}

func (h *Handler) seedCatalog(ctx context.Context, seeds []seedMaterial) ([]inventory.Material, error) {
	out := make([]inventory.Material, 0, len(seeds))
	for _, s := range seeds {
		m, err := h.Store.CreateMaterial(ctx, inventory.Material{
			PartNumber:      s.partNumber,
			Description:     s.description,
			Project:         "Common",
			Grouping:        s.grouping,
			StorageLocation: "General Storage",
			Unit:            s.unit,
			Stock:           inventory.Qty(s.stock),
			ReorderPoint:    inventory.Qty(s.reorderPoint),
			Price:           inventory.Qty(s.price),
		})
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, nil
}

// loadMachineShopScenario seeds a catalog whose reorder points place
// materials in every stock class and every ABC tier, then posts a
// receipt and an issue so the ledger has history.
func (h *Handler) loadMachineShopScenario(ctx context.Context) error {
	mats, err := h.seedCatalog(ctx, []seedMaterial{
		{"BRG-6204", "Deep groove ball bearing 6204", "Bearings", "Nos", 120, 40, 12.50},  // safety
		{"BRG-6305", "Deep groove ball bearing 6305", "Bearings", "Nos", 30, 40, 18.75},   // critical
		{"PLT-MS-10", "Mild steel plate 10mm", "Raw Material", "Kg", 55, 40, 85.00},       // low
		{"ROD-SS-12", "Stainless rod 12mm", "Raw Material", "Mtr", 500, 60, 42.00},        // over
		{"OIL-H68", "Hydraulic oil ISO VG 68", "Consumables", "Ltr", 70, 50, 6.25},        // low
		{"GSK-NBR-3", "NBR gasket sheet 3mm", "Consumables", "Nos", 12, 20, 3.10},         // critical
	})
	if err != nil {
		return err
	}

	// Opening receipt into Stores for every material.
	receipt := inventory.EntryDraft{
		EntryType:       inventory.EntryReceipt,
		TargetWarehouse: "Stores",
		Remarks:         "Opening stock load",
	}
	for _, m := range mats {
		receipt.Items = append(receipt.Items, inventory.ItemDraft{
			MaterialID: m.ID,
			PartNumber: m.PartNumber,
			Quantity:   m.Stock,
			Unit:       m.Unit,
			Rate:       m.Price,
		})
	}
	if _, err := h.Poster.Submit(ctx, receipt); err != nil {
		return err
	}

	// Issue some bearings to production.
	_, err = h.Poster.Submit(ctx, inventory.EntryDraft{
		EntryType:       inventory.EntryIssue,
		SourceWarehouse: "Stores",
		Remarks:         "Issue to line 2",
		Items: []inventory.ItemDraft{
			{MaterialID: mats[0].ID, PartNumber: mats[0].PartNumber, Quantity: inventory.Qty(10), Unit: "Nos", Rate: mats[0].Price},
		},
	})
	return err
}

// loadReplenishmentScenario seeds a mostly-depleted catalog and runs
// the auto-generator so a pending purchase request exists.
func (h *Handler) loadReplenishmentScenario(ctx context.Context) error {
	_, err := h.seedCatalog(ctx, []seedMaterial{
		{"FLT-HYD-20", "Hydraulic filter element", "Spares", "Nos", 5, 15, 48.00},
		{"BLT-M10-40", "Hex bolt M10x40", "Fasteners", "Nos", 80, 200, 0.35},
		{"WLD-ER70", "Welding wire ER70S-6", "Consumables", "Kg", 18, 25, 9.80},
		{"PMP-SEAL-2", "Pump mechanical seal", "Spares", "Nos", 60, 10, 125.00}, // healthy, excluded
	})
	if err != nil {
		return err
	}

	_, _, err = h.Requester.AutoGenerate(ctx)
	return err
}

// loadAuditTrailScenario posts entries and cancels one so the ledger
// shows offsetting reversal movements.
func (h *Handler) loadAuditTrailScenario(ctx context.Context) error {
	mats, err := h.seedCatalog(ctx, []seedMaterial{
		{"CBL-4C-25", "Armoured cable 4Cx25", "Electrical", "Mtr", 300, 100, 14.20},
		{"MCB-32A", "MCB 32A C-curve", "Electrical", "Nos", 45, 30, 7.90},
	})
	if err != nil {
		return err
	}

	if _, err := h.Poster.Submit(ctx, inventory.EntryDraft{
		EntryType:       inventory.EntryReceipt,
		TargetWarehouse: "Stores",
		Remarks:         "Opening stock load",
		Items: []inventory.ItemDraft{
			{MaterialID: mats[0].ID, PartNumber: mats[0].PartNumber, Quantity: inventory.Qty(300), Unit: "Mtr", Rate: mats[0].Price},
			{MaterialID: mats[1].ID, PartNumber: mats[1].PartNumber, Quantity: inventory.Qty(45), Unit: "Nos", Rate: mats[1].Price},
		},
	}); err != nil {
		return err
	}

	// Transfer, then a mistaken issue that gets cancelled.
	if _, err := h.Poster.Submit(ctx, inventory.EntryDraft{
		EntryType:       inventory.EntryTransfer,
		SourceWarehouse: "Stores",
		TargetWarehouse: "Site Store",
		Remarks:         "Transfer for substation job",
		Items: []inventory.ItemDraft{
			{MaterialID: mats[0].ID, PartNumber: mats[0].PartNumber, Quantity: inventory.Qty(120), Unit: "Mtr", Rate: mats[0].Price},
		},
	}); err != nil {
		return err
	}

	mistake, err := h.Poster.Submit(ctx, inventory.EntryDraft{
		EntryType:       inventory.EntryIssue,
		SourceWarehouse: "Stores",
		Remarks:         "Issued against wrong work order",
		Items: []inventory.ItemDraft{
			{MaterialID: mats[1].ID, PartNumber: mats[1].PartNumber, Quantity: inventory.Qty(12), Unit: "Nos", Rate: mats[1].Price},
		},
	})
	if err != nil {
		return err
	}
	_, err = h.Poster.Cancel(ctx, mistake.ID)
	return err
}
