/*
handlers.go - HTTP API handlers for the inventory engine

PURPOSE:
  Exposes the inventory analytics and stock-ledger engine via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to
  domain logic.

ENDPOINTS:
  Materials:
    GET    /api/materials                 List catalog (grouping/search/lowStock filters)
    POST   /api/materials                 Create material
    GET    /api/materials/{id}            Get material
    GET    /api/materials/{id}/adjustments  Adjustment trail
    POST   /api/materials/{id}/adjust     Direct stock adjustment
    GET    /api/materials/{id}/balance    On-ledger balance per warehouse

  Stock entries:
    POST   /api/stock-entries             Post a stock entry
    GET    /api/stock-entries             List entries (type/from/to filters)
    GET    /api/stock-entries/{id}        Get entry
    POST   /api/stock-entries/{id}/cancel Cancel (reverses ledger postings)
    GET    /api/stock-entries/{id}/movements  Movements posted under the voucher

  Ledger:
    GET    /api/ledger                    Ledger rows, newest first, with running balance

  Material requests:
    POST   /api/material-requests         Open a request
    GET    /api/material-requests         List requests (status/type filters)
    GET    /api/material-requests/{id}    Get request
    POST   /api/material-requests/{id}/status  Explicit status change
    PUT    /api/material-requests/{id}/items/{index}  Record ordered/received progress
    POST   /api/material-requests/auto-generate  Purchase request for low-stock materials

  Analytics:
    GET    /api/analytics/dashboard       Full dashboard summary
    GET    /api/analytics/abc-analysis    Ranked ABC report
    GET    /api/analytics/turnover        Turnover (XYZ) report

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (go-playground/validator on request DTOs)
  3. Call domain logic (poster, ledger, requester, aggregator)
  4. Serialize response
  5. Map domain errors to status codes

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 409: Conflict (already cancelled, duplicate part number)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo catalog loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/warp/stock-engine/inventory"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     inventory.Store
	Ledger    inventory.Ledger
	Poster    *inventory.Poster
	Requester *inventory.Requester

	validate *validator.Validate

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler wires the domain components on top of the given store.
func NewHandler(store inventory.Store) *Handler {
	ledger := inventory.NewLedger(store, store)
	return &Handler{
		Store:     store,
		Ledger:    ledger,
		Poster:    inventory.NewPoster(store, ledger),
		Requester: inventory.NewRequester(store, store),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// =============================================================================
// MATERIAL HANDLERS
// =============================================================================

// ListMaterials returns the catalog, optionally filtered.
// GET /api/materials?grouping=&search=&lowStock=true
func (h *Handler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	filter := inventory.MaterialFilter{
		Grouping: r.URL.Query().Get("grouping"),
		Search:   r.URL.Query().Get("search"),
		LowStock: r.URL.Query().Get("lowStock") == "true",
	}
	materials, err := h.Store.ListMaterials(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list materials", err)
		return
	}

	dtos := make([]MaterialDTO, len(materials))
	for i, m := range materials {
		dtos[i] = toMaterialDTO(m)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetMaterial returns a single material.
func (h *Handler) GetMaterial(w http.ResponseWriter, r *http.Request) {
	id := inventory.MaterialID(chi.URLParam(r, "id"))
	m, err := h.Store.GetMaterial(r.Context(), id)
	if err != nil {
		h.domainError(w, err, "Failed to get material")
		return
	}
	writeJSON(w, http.StatusOK, toMaterialDTO(*m))
}

// GetAdjustments returns a material's direct-adjustment trail.
func (h *Handler) GetAdjustments(w http.ResponseWriter, r *http.Request) {
	id := inventory.MaterialID(chi.URLParam(r, "id"))
	m, err := h.Store.GetMaterial(r.Context(), id)
	if err != nil {
		h.domainError(w, err, "Failed to get material")
		return
	}

	dtos := make([]StockAdjustmentDTO, len(m.Adjustments))
	for i, a := range m.Adjustments {
		dtos[i] = StockAdjustmentDTO{
			At:            formatTime(a.At),
			Direction:     string(a.Direction),
			Quantity:      f(a.Quantity),
			Reference:     a.Reference,
			PreviousStock: f(a.PreviousStock),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateMaterial adds a catalog item.
func (h *Handler) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	var req CreateMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	stock, err := toQty(req.Stock)
	if err != nil {
		h.domainError(w, err, "Invalid stock")
		return
	}
	reorder, err := toQty(req.ReorderPoint)
	if err != nil {
		h.domainError(w, err, "Invalid reorder point")
		return
	}
	price, err := toQty(req.Price)
	if err != nil {
		h.domainError(w, err, "Invalid price")
		return
	}

	m := inventory.Material{
		PartNumber:      req.PartNumber,
		Description:     req.Description,
		Project:         req.Project,
		Grouping:        req.Grouping,
		StorageLocation: req.StorageLocation,
		Unit:            req.Unit,
		Stock:           stock,
		ReorderPoint:    reorder,
		Price:           price,
	}
	if m.Project == "" {
		m.Project = "Common"
	}
	if m.StorageLocation == "" {
		m.StorageLocation = "General Storage"
	}

	created, err := h.Store.CreateMaterial(r.Context(), m)
	if err != nil {
		h.domainError(w, err, "Failed to create material")
		return
	}
	writeJSON(w, http.StatusCreated, toMaterialDTO(*created))
}

// AdjustStock applies a direct IN/OUT stock mutation.
func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id := inventory.MaterialID(chi.URLParam(r, "id"))

	var req AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}
	qty, err := toQty(req.Quantity)
	if err != nil {
		h.domainError(w, err, "Invalid quantity")
		return
	}

	m, err := h.Store.AdjustStock(r.Context(), id, inventory.Direction(req.Direction), qty, req.Reference)
	if err != nil {
		h.domainError(w, err, "Failed to adjust stock")
		return
	}
	writeJSON(w, http.StatusOK, toMaterialDTO(*m))
}

// GetBalance returns the on-ledger balance of a material in one warehouse.
// GET /api/materials/{id}/balance?warehouse=Stores
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id := inventory.MaterialID(chi.URLParam(r, "id"))
	warehouse := r.URL.Query().Get("warehouse")
	if warehouse == "" {
		writeError(w, http.StatusBadRequest, "warehouse query parameter is required", nil)
		return
	}

	balance, err := h.Ledger.Balance(r.Context(), id, warehouse)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute balance", err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceDTO{
		MaterialID: string(id),
		Warehouse:  warehouse,
		Balance:    f(balance),
		AsOf:       formatTime(time.Now()),
	})
}

// =============================================================================
// STOCK ENTRY HANDLERS
// =============================================================================

// CreateEntry posts a stock entry and its ledger movements.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	draft := inventory.EntryDraft{
		EntryType:       inventory.EntryType(req.EntryType),
		SourceWarehouse: req.SourceWarehouse,
		TargetWarehouse: req.TargetWarehouse,
		Remarks:         req.Remarks,
		Reference:       req.Reference,
		CreatedBy:       req.CreatedBy,
	}
	for _, it := range req.Items {
		qty, err := toQty(it.Quantity)
		if err != nil {
			h.domainError(w, err, "Invalid quantity")
			return
		}
		rate, err := toQty(it.Rate)
		if err != nil {
			h.domainError(w, err, "Invalid rate")
			return
		}
		draft.Items = append(draft.Items, inventory.ItemDraft{
			MaterialID:  inventory.MaterialID(it.MaterialID),
			PartNumber:  it.PartNumber,
			Description: it.Description,
			Quantity:    qty,
			Unit:        it.Unit,
			Warehouse:   it.Warehouse,
			Rate:        rate,
		})
	}

	entry, err := h.Poster.Submit(r.Context(), draft)
	if err != nil {
		h.domainError(w, err, "Failed to post stock entry")
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTO(*entry))
}

// ListEntries returns stock entries, newest first.
// GET /api/stock-entries?type=Material Receipt&from=2026-01-01&to=2026-02-01
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	filter := inventory.EntryFilter{
		Type: inventory.EntryType(r.URL.Query().Get("type")),
	}
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
			return
		}
		filter.From = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
			return
		}
		filter.To = &t
	}

	entries, err := h.Store.ListEntries(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list stock entries", err)
		return
	}

	dtos := make([]StockEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEntry returns a single stock entry.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := inventory.VoucherNo(chi.URLParam(r, "id"))
	entry, err := h.Store.GetEntry(r.Context(), id)
	if err != nil {
		h.domainError(w, err, "Failed to get stock entry")
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(*entry))
}

// CancelEntry reverses an entry's ledger postings and flips its status.
func (h *Handler) CancelEntry(w http.ResponseWriter, r *http.Request) {
	id := inventory.VoucherNo(chi.URLParam(r, "id"))
	entry, err := h.Poster.Cancel(r.Context(), id)
	if err != nil {
		h.domainError(w, err, "Failed to cancel stock entry")
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(*entry))
}

// GetEntryMovements returns all movements posted under a voucher,
// including reversals.
func (h *Handler) GetEntryMovements(w http.ResponseWriter, r *http.Request) {
	id := inventory.VoucherNo(chi.URLParam(r, "id"))
	mvs, err := h.Store.MovementsByVoucher(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get movements", err)
		return
	}

	dtos := make([]LedgerRowDTO, len(mvs))
	for i, m := range mvs {
		dtos[i] = toLedgerRowDTO(inventory.LedgerRow{StockMovement: m})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// LEDGER HANDLERS
// =============================================================================

// GetLedger returns ledger rows newest first, each with the running
// balance of its (material, warehouse) pair.
// GET /api/ledger?materialId=MAT001&warehouse=Stores
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	filter := inventory.MovementFilter{
		MaterialID: inventory.MaterialID(r.URL.Query().Get("materialId")),
		Warehouse:  r.URL.Query().Get("warehouse"),
	}

	rows, err := h.Ledger.Query(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to query ledger", err)
		return
	}

	dtos := []LedgerRowDTO{}
	for row := range rows {
		dtos = append(dtos, toLedgerRowDTO(row))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// MATERIAL REQUEST HANDLERS
// =============================================================================

// CreateRequest opens a material request.
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	draft := inventory.RequestDraft{
		RequestType: inventory.RequestType(req.RequestType),
		Purpose:     req.Purpose,
		Remarks:     req.Remarks,
		RequestedBy: req.RequestedBy,
	}
	if req.RequiredBy != "" {
		t, err := parseDate(req.RequiredBy)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid requiredBy date (use YYYY-MM-DD)", err)
			return
		}
		draft.RequiredBy = &t
	}
	for _, it := range req.Items {
		qty, err := toQty(it.Quantity)
		if err != nil {
			h.domainError(w, err, "Invalid quantity")
			return
		}
		item := inventory.RequestItem{
			MaterialID:  inventory.MaterialID(it.MaterialID),
			PartNumber:  it.PartNumber,
			Description: it.Description,
			Quantity:    qty,
			Unit:        it.Unit,
			Warehouse:   it.Warehouse,
		}
		if it.RequiredBy != "" {
			t, err := parseDate(it.RequiredBy)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid item requiredBy date (use YYYY-MM-DD)", err)
				return
			}
			item.RequiredBy = t
		}
		// Snapshot current stock for the reviewer, when the material exists.
		if m, err := h.Store.GetMaterial(r.Context(), item.MaterialID); err == nil {
			item.CurrentStock = m.Stock
			if item.Unit == "" {
				item.Unit = m.Unit
			}
			if item.PartNumber == "" {
				item.PartNumber = m.PartNumber
			}
		}
		draft.Items = append(draft.Items, item)
	}

	created, err := h.Requester.Submit(r.Context(), draft)
	if err != nil {
		h.domainError(w, err, "Failed to create material request")
		return
	}
	writeJSON(w, http.StatusCreated, toRequestDTO(*created))
}

// ListRequests returns material requests, newest first.
// GET /api/material-requests?status=Pending&type=Purchase
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter := inventory.RequestFilter{
		Status:      inventory.RequestStatus(r.URL.Query().Get("status")),
		Type:        inventory.RequestType(r.URL.Query().Get("type")),
		RequestedBy: r.URL.Query().Get("requestedBy"),
	}
	requests, err := h.Store.ListRequests(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list material requests", err)
		return
	}

	dtos := make([]MaterialRequestDTO, len(requests))
	for i, req := range requests {
		dtos[i] = toRequestDTO(req)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRequest returns a single material request.
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id := inventory.RequestNo(chi.URLParam(r, "id"))
	req, err := h.Store.GetRequest(r.Context(), id)
	if err != nil {
		h.domainError(w, err, "Failed to get material request")
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(*req))
}

// SetRequestStatus applies an explicit status change.
func (h *Handler) SetRequestStatus(w http.ResponseWriter, r *http.Request) {
	id := inventory.RequestNo(chi.URLParam(r, "id"))

	var req SetRequestStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	updated, err := h.Requester.SetStatus(r.Context(), id, inventory.RequestStatus(req.Status), req.ApprovedBy)
	if err != nil {
		h.domainError(w, err, "Failed to update request status")
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(*updated))
}

// UpdateItemProgress records ordered/received quantities on one
// request line and rolls the status up.
// PUT /api/material-requests/{id}/items/{index}
func (h *Handler) UpdateItemProgress(w http.ResponseWriter, r *http.Request) {
	id := inventory.RequestNo(chi.URLParam(r, "id"))
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item index", err)
		return
	}

	var req UpdateItemProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var ordered, received *decimal.Decimal
	if req.OrderedQty != nil {
		q, err := toQty(*req.OrderedQty)
		if err != nil {
			h.domainError(w, err, "Invalid ordered quantity")
			return
		}
		ordered = &q
	}
	if req.ReceivedQty != nil {
		q, err := toQty(*req.ReceivedQty)
		if err != nil {
			h.domainError(w, err, "Invalid received quantity")
			return
		}
		received = &q
	}

	updated, err := h.Requester.UpdateItemProgress(r.Context(), id, index, ordered, received)
	if err != nil {
		h.domainError(w, err, "Failed to update item progress")
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(*updated))
}

// AutoGenerateRequest creates one Purchase request covering every
// material at or below its reorder point.
func (h *Handler) AutoGenerateRequest(w http.ResponseWriter, r *http.Request) {
	req, count, err := h.Requester.AutoGenerate(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to auto-generate request", err)
		return
	}

	resp := AutoGenerateResponse{Generated: req != nil, ItemCount: count}
	if req != nil {
		dto := toRequestDTO(*req)
		resp.Request = &dto
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// ANALYTICS HANDLERS
// =============================================================================

// GetDashboard returns the full dashboard summary.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	materials, err := h.Store.ListMaterials(r.Context(), inventory.MaterialFilter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list materials", err)
		return
	}
	summary := inventory.BuildSummary(materials, time.Now().UTC())
	writeJSON(w, http.StatusOK, toDashboardDTO(summary))
}

// GetABCAnalysis returns the catalog ranked by value with ABC tiers.
func (h *Handler) GetABCAnalysis(w http.ResponseWriter, r *http.Request) {
	materials, err := h.Store.ListMaterials(r.Context(), inventory.MaterialFilter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list materials", err)
		return
	}

	ranked := inventory.RankByValue(materials)
	dtos := make([]ABCAssignmentDTO, len(ranked))
	for i, a := range ranked {
		dtos[i] = ABCAssignmentDTO{
			MaterialID:        string(a.MaterialID),
			PartNumber:        a.PartNumber,
			TotalValue:        f(a.TotalValue),
			ValuePercent:      f(a.ValuePercent.Round(2)),
			CumulativePercent: f(a.CumulativePercent.Round(2)),
			Class:             string(a.Class),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTurnover returns the turnover (XYZ) report. Days of stock is a
// coarse estimate: the stock/reorder-point ratio scaled to a 30-day
// consumption window.
func (h *Handler) GetTurnover(w http.ResponseWriter, r *http.Request) {
	materials, err := h.Store.ListMaterials(r.Context(), inventory.MaterialFilter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list materials", err)
		return
	}

	dtos := make([]TurnoverRowDTO, len(materials))
	for i, m := range materials {
		ratio := inventory.TurnoverRatio(m.Stock, m.ReorderPoint)
		dtos[i] = TurnoverRowDTO{
			MaterialID:    string(m.ID),
			PartNumber:    m.PartNumber,
			Stock:         f(m.Stock),
			ReorderPoint:  f(m.ReorderPoint),
			TurnoverRatio: f(ratio.Round(2)),
			Class:         string(inventory.ClassifyTurnover(ratio)),
			DaysOfStock:   int(math.Floor(f(ratio) * 30)),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ERROR MAPPING AND RESPONSE HELPERS
// =============================================================================

// domainError maps inventory errors to HTTP status codes. Anything the
// error helpers don't recognize is a 500.
func (h *Handler) domainError(w http.ResponseWriter, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, inventory.ErrValidation):
		writeCodedError(w, http.StatusBadRequest, "validation", err)
	case inventory.IsNotFound(err):
		writeCodedError(w, http.StatusNotFound, "not_found", err)
	case inventory.IsConflict(err):
		writeCodedError(w, http.StatusConflict, "invalid_state", err)
	case errors.Is(err, inventory.ErrDuplicatePartNumber):
		writeCodedError(w, http.StatusConflict, "duplicate", err)
	default:
		writeError(w, http.StatusInternalServerError, fallbackMsg, err)
	}
}

func writeCodedError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed on field " + first.Field(),
			Code:    "validation",
			Details: first.Error(),
		})
		return
	}
	writeError(w, http.StatusBadRequest, "Validation failed", err)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parseDate accepts YYYY-MM-DD or full RFC 3339 timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.RFC3339, s)
}
