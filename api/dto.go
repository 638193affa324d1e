/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

NUMBERS:
  Quantities and prices cross the wire as JSON numbers (float64) and
  are converted to decimal at the boundary. toQty rejects NaN and
  infinities before conversion - decimal.NewFromFloat panics on them.

VALIDATION:
  Request types carry go-playground/validator struct tags; handlers run
  the shared validator before touching domain logic. Domain-level rules
  (entry-type/warehouse combinations, status transitions) stay in the
  inventory package.

SEE ALSO:
  - handlers.go: Uses these types
  - inventory/types.go: Domain model these map onto
*/
package api

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/stock-engine/inventory"
)

// =============================================================================
// MATERIALS
// =============================================================================

// MaterialDTO represents a catalog item in API responses.
type MaterialDTO struct {
	ID              string  `json:"id"`
	PartNumber      string  `json:"partNumber"`
	Description     string  `json:"description"`
	Project         string  `json:"project"`
	Grouping        string  `json:"grouping"`
	StorageLocation string  `json:"storageLocation"`
	Unit            string  `json:"unit"`
	Stock           float64 `json:"stock"`
	ReorderPoint    float64 `json:"reorderPoint"`
	Price           float64 `json:"price"`
	TotalValue      float64 `json:"totalValue"`
	StockClass      string  `json:"stockClass"`
	LastUpdated     string  `json:"lastUpdated"`
}

// CreateMaterialRequest is the request to create a material.
type CreateMaterialRequest struct {
	PartNumber      string  `json:"partNumber" validate:"required"`
	Description     string  `json:"description" validate:"required"`
	Project         string  `json:"project"`
	Grouping        string  `json:"grouping" validate:"required"`
	StorageLocation string  `json:"storageLocation"`
	Unit            string  `json:"unit" validate:"required"`
	Stock           float64 `json:"stock" validate:"gte=0"`
	ReorderPoint    float64 `json:"reorderPoint" validate:"gte=0"`
	Price           float64 `json:"price" validate:"gte=0"`
}

// AdjustStockRequest is the request for a direct stock adjustment.
type AdjustStockRequest struct {
	Direction string  `json:"direction" validate:"required,oneof=IN OUT"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
	Reference string  `json:"reference"`
}

// StockAdjustmentDTO is one entry of a material's adjustment trail.
type StockAdjustmentDTO struct {
	At            string  `json:"at"`
	Direction     string  `json:"direction"`
	Quantity      float64 `json:"quantity"`
	Reference     string  `json:"reference,omitempty"`
	PreviousStock float64 `json:"previousStock"`
}

// =============================================================================
// STOCK ENTRIES
// =============================================================================

// EntryItemDTO is one line of a stock entry.
type EntryItemDTO struct {
	MaterialID  string  `json:"materialId"`
	PartNumber  string  `json:"partNumber"`
	Description string  `json:"description,omitempty"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit,omitempty"`
	Warehouse   string  `json:"warehouse,omitempty"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

// StockEntryDTO represents a stock entry in API responses.
type StockEntryDTO struct {
	ID              string         `json:"id"`
	EntryType       string         `json:"entryType"`
	Items           []EntryItemDTO `json:"items"`
	SourceWarehouse string         `json:"sourceWarehouse,omitempty"`
	TargetWarehouse string         `json:"targetWarehouse,omitempty"`
	TotalAmount     float64        `json:"totalAmount"`
	Remarks         string         `json:"remarks,omitempty"`
	Reference       string         `json:"reference,omitempty"`
	Date            string         `json:"date"`
	Status          string         `json:"status"`
	CancelledAt     *string        `json:"cancelledAt,omitempty"`
	CreatedBy       string         `json:"createdBy"`
}

// CreateEntryItemRequest is one requested line of a new stock entry.
type CreateEntryItemRequest struct {
	MaterialID  string  `json:"materialId" validate:"required"`
	PartNumber  string  `json:"partNumber"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity" validate:"required"`
	Unit        string  `json:"unit"`
	Warehouse   string  `json:"warehouse"`
	Rate        float64 `json:"rate" validate:"gte=0"`
}

// CreateEntryRequest is the request to post a stock entry.
type CreateEntryRequest struct {
	EntryType       string                   `json:"entryType" validate:"required"`
	Items           []CreateEntryItemRequest `json:"items" validate:"required,min=1,dive"`
	SourceWarehouse string                   `json:"sourceWarehouse"`
	TargetWarehouse string                   `json:"targetWarehouse"`
	Remarks         string                   `json:"remarks"`
	Reference       string                   `json:"reference"`
	CreatedBy       string                   `json:"createdBy"`
}

// =============================================================================
// LEDGER
// =============================================================================

// LedgerRowDTO is one rendered stock-ledger line.
type LedgerRowDTO struct {
	ID             string  `json:"id"`
	MaterialID     string  `json:"materialId"`
	PartNumber     string  `json:"partNumber"`
	Warehouse      string  `json:"warehouse"`
	QuantityChange float64 `json:"quantityChange"`
	VoucherType    string  `json:"voucherType"`
	VoucherNo      string  `json:"voucherNo"`
	Direction      string  `json:"direction"`
	Date           string  `json:"date"`
	Remarks        string  `json:"remarks,omitempty"`
	Balance        float64 `json:"balance"`
}

// BalanceDTO is the computed on-ledger balance of a material in one
// warehouse.
type BalanceDTO struct {
	MaterialID string  `json:"materialId"`
	Warehouse  string  `json:"warehouse"`
	Balance    float64 `json:"balance"`
	AsOf       string  `json:"asOf"`
}

// =============================================================================
// MATERIAL REQUESTS
// =============================================================================

// RequestItemDTO is one line of a material request.
type RequestItemDTO struct {
	MaterialID   string  `json:"materialId"`
	PartNumber   string  `json:"partNumber"`
	Description  string  `json:"description,omitempty"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit,omitempty"`
	Warehouse    string  `json:"warehouse,omitempty"`
	RequiredBy   string  `json:"requiredBy"`
	CurrentStock float64 `json:"currentStock"`
	OrderedQty   float64 `json:"orderedQty"`
	ReceivedQty  float64 `json:"receivedQty"`
}

// MaterialRequestDTO represents a material request in API responses.
type MaterialRequestDTO struct {
	ID          string           `json:"id"`
	RequestType string           `json:"requestType"`
	Items       []RequestItemDTO `json:"items"`
	RequiredBy  string           `json:"requiredBy"`
	Purpose     string           `json:"purpose,omitempty"`
	Remarks     string           `json:"remarks,omitempty"`
	RequestedBy string           `json:"requestedBy"`
	Date        string           `json:"date"`
	Status      string           `json:"status"`
	ApprovedBy  string           `json:"approvedBy,omitempty"`
	ApprovedAt  *string          `json:"approvedAt,omitempty"`
	CancelledAt *string          `json:"cancelledAt,omitempty"`
}

// CreateRequestItemRequest is one requested line of a new material request.
type CreateRequestItemRequest struct {
	MaterialID  string  `json:"materialId" validate:"required"`
	PartNumber  string  `json:"partNumber"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	Unit        string  `json:"unit"`
	Warehouse   string  `json:"warehouse"`
	RequiredBy  string  `json:"requiredBy"`
}

// CreateRequestRequest is the request to open a material request.
type CreateRequestRequest struct {
	RequestType string                     `json:"requestType" validate:"required"`
	Items       []CreateRequestItemRequest `json:"items" validate:"required,min=1,dive"`
	RequiredBy  string                     `json:"requiredBy"`
	Purpose     string                     `json:"purpose"`
	Remarks     string                     `json:"remarks"`
	RequestedBy string                     `json:"requestedBy"`
}

// SetRequestStatusRequest is the request to move a material request to
// a new status.
type SetRequestStatusRequest struct {
	Status     string `json:"status" validate:"required"`
	ApprovedBy string `json:"approvedBy"`
}

// UpdateItemProgressRequest records ordered/received quantities on one
// request line. Nil fields leave the stored quantity untouched.
type UpdateItemProgressRequest struct {
	OrderedQty  *float64 `json:"orderedQty"`
	ReceivedQty *float64 `json:"receivedQty"`
}

// AutoGenerateResponse reports the outcome of an auto-replenishment run.
type AutoGenerateResponse struct {
	Generated bool                `json:"generated"`
	ItemCount int                 `json:"itemCount"`
	Request   *MaterialRequestDTO `json:"request,omitempty"`
}

// =============================================================================
// ANALYTICS
// =============================================================================

// ClassMetricDTO is a count plus its share of the catalog in percent.
type ClassMetricDTO struct {
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
}

// StockMetricsDTO buckets the catalog by stock health.
type StockMetricsDTO struct {
	CriticalStock ClassMetricDTO `json:"criticalStock"`
	LowStock      ClassMetricDTO `json:"lowStock"`
	OverStock     ClassMetricDTO `json:"overStock"`
	SafetyStock   ClassMetricDTO `json:"safetyStock"`
}

// ABCXYZDTO tallies ABC tiers and XYZ turnover classes.
type ABCXYZDTO struct {
	A int `json:"A"`
	B int `json:"B"`
	C int `json:"C"`
	X int `json:"X"`
	Y int `json:"Y"`
	Z int `json:"Z"`
}

// SpeedCountsDTO buckets one ABC tier by turnover speed.
type SpeedCountsDTO struct {
	Fast int `json:"fast"`
	Slow int `json:"slow"`
	Non  int `json:"non"`
}

// TurnoverDTO is the dashboard's turnover section.
type TurnoverDTO struct {
	FastMoving int                       `json:"fastMoving"`
	SlowMoving int                       `json:"slowMoving"`
	NonMoving  int                       `json:"nonMoving"`
	ByClass    map[string]SpeedCountsDTO `json:"byClass"`
}

// GroupRollupDTO aggregates the materials sharing one grouping key.
type GroupRollupDTO struct {
	Grouping   string  `json:"grouping"`
	Count      int     `json:"count"`
	TotalStock float64 `json:"totalStock"`
	LowStock   int     `json:"lowStock"`
	Value      float64 `json:"value"`
}

// DashboardDTO is the full dashboard summary payload.
type DashboardDTO struct {
	TotalMaterials         int              `json:"totalMaterials"`
	TotalValue             float64          `json:"totalValue"`
	LowStockItems          int              `json:"lowStockItems"`
	StockMetrics           StockMetricsDTO  `json:"stockMetrics"`
	ABCXYZ                 ABCXYZDTO        `json:"abcXyz"`
	TurnoverClassification TurnoverDTO      `json:"turnoverClassification"`
	Groupings              []GroupRollupDTO `json:"groupings"`
	LastUpdated            string           `json:"lastUpdated"`
}

// ABCAssignmentDTO is one row of the ABC analysis report.
type ABCAssignmentDTO struct {
	MaterialID        string  `json:"materialId"`
	PartNumber        string  `json:"partNumber"`
	TotalValue        float64 `json:"totalValue"`
	ValuePercent      float64 `json:"valuePercent"`
	CumulativePercent float64 `json:"cumulativePercent"`
	Class             string  `json:"class"`
}

// TurnoverRowDTO is one row of the turnover report.
type TurnoverRowDTO struct {
	MaterialID    string  `json:"materialId"`
	PartNumber    string  `json:"partNumber"`
	Stock         float64 `json:"stock"`
	ReorderPoint  float64 `json:"reorderPoint"`
	TurnoverRatio float64 `json:"turnoverRatio"`
	Class         string  `json:"class"`
	DaysOfStock   int     `json:"daysOfStock"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"` // validation | not_found | invalid_state | duplicate
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// toQty converts a wire float to a decimal quantity. NaN and infinite
// values come back as an error instead of panicking inside decimal.
func toQty(v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, &inventory.ValidationError{
			Field:   "quantity",
			Message: "must be a finite number",
		}
	}
	return decimal.NewFromFloat(v), nil
}

func f(d decimal.Decimal) float64 { return d.InexactFloat64() }

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func timePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func toMaterialDTO(m inventory.Material) MaterialDTO {
	return MaterialDTO{
		ID:              string(m.ID),
		PartNumber:      m.PartNumber,
		Description:     m.Description,
		Project:         m.Project,
		Grouping:        m.Grouping,
		StorageLocation: m.StorageLocation,
		Unit:            m.Unit,
		Stock:           f(m.Stock),
		ReorderPoint:    f(m.ReorderPoint),
		Price:           f(m.Price),
		TotalValue:      f(m.TotalValue()),
		StockClass:      string(inventory.ClassifyStock(m.Stock, m.ReorderPoint)),
		LastUpdated:     formatTime(m.LastUpdated),
	}
}

func toEntryDTO(e inventory.StockEntry) StockEntryDTO {
	dto := StockEntryDTO{
		ID:              string(e.ID),
		EntryType:       string(e.EntryType),
		Items:           make([]EntryItemDTO, len(e.Items)),
		SourceWarehouse: e.SourceWarehouse,
		TargetWarehouse: e.TargetWarehouse,
		TotalAmount:     f(e.TotalAmount),
		Remarks:         e.Remarks,
		Reference:       e.Reference,
		Date:            formatTime(e.Date),
		Status:          string(e.Status),
		CancelledAt:     timePtr(e.CancelledAt),
		CreatedBy:       e.CreatedBy,
	}
	for i, it := range e.Items {
		dto.Items[i] = EntryItemDTO{
			MaterialID:  string(it.MaterialID),
			PartNumber:  it.PartNumber,
			Description: it.Description,
			Quantity:    f(it.Quantity),
			Unit:        it.Unit,
			Warehouse:   it.Warehouse,
			Rate:        f(it.Rate),
			Amount:      f(it.Amount),
		}
	}
	return dto
}

func toLedgerRowDTO(row inventory.LedgerRow) LedgerRowDTO {
	return LedgerRowDTO{
		ID:             row.ID,
		MaterialID:     string(row.MaterialID),
		PartNumber:     row.PartNumber,
		Warehouse:      row.Warehouse,
		QuantityChange: f(row.QuantityChange),
		VoucherType:    row.VoucherType,
		VoucherNo:      string(row.VoucherNo),
		Direction:      string(row.Direction),
		Date:           formatTime(row.At),
		Remarks:        row.Remarks,
		Balance:        f(row.Balance),
	}
}

func toRequestDTO(r inventory.MaterialRequest) MaterialRequestDTO {
	dto := MaterialRequestDTO{
		ID:          string(r.ID),
		RequestType: string(r.RequestType),
		Items:       make([]RequestItemDTO, len(r.Items)),
		RequiredBy:  formatTime(r.RequiredBy),
		Purpose:     r.Purpose,
		Remarks:     r.Remarks,
		RequestedBy: r.RequestedBy,
		Date:        formatTime(r.Date),
		Status:      string(r.Status),
		ApprovedBy:  r.ApprovedBy,
		ApprovedAt:  timePtr(r.ApprovedAt),
		CancelledAt: timePtr(r.CancelledAt),
	}
	for i, it := range r.Items {
		dto.Items[i] = RequestItemDTO{
			MaterialID:   string(it.MaterialID),
			PartNumber:   it.PartNumber,
			Description:  it.Description,
			Quantity:     f(it.Quantity),
			Unit:         it.Unit,
			Warehouse:    it.Warehouse,
			RequiredBy:   formatTime(it.RequiredBy),
			CurrentStock: f(it.CurrentStock),
			OrderedQty:   f(it.OrderedQty),
			ReceivedQty:  f(it.ReceivedQty),
		}
	}
	return dto
}

func toDashboardDTO(s inventory.Summary) DashboardDTO {
	metric := func(c inventory.StockClass) ClassMetricDTO {
		m := s.StockMetrics[c]
		return ClassMetricDTO{Count: m.Count, Pct: f(m.Pct)}
	}
	byClass := make(map[string]SpeedCountsDTO, len(s.Turnover.ByClass))
	for tier, counts := range s.Turnover.ByClass {
		byClass[string(tier)] = SpeedCountsDTO{
			Fast: counts.Fast,
			Slow: counts.Slow,
			Non:  counts.Non,
		}
	}
	rollups := make([]GroupRollupDTO, len(s.Groupings))
	for i, g := range s.Groupings {
		rollups[i] = GroupRollupDTO{
			Grouping:   g.Grouping,
			Count:      g.Count,
			TotalStock: f(g.TotalStock),
			LowStock:   g.LowStock,
			Value:      f(g.Value),
		}
	}
	return DashboardDTO{
		TotalMaterials: s.TotalMaterials,
		TotalValue:     f(s.TotalValue),
		LowStockItems:  s.LowStockItems,
		StockMetrics: StockMetricsDTO{
			CriticalStock: metric(inventory.StockCritical),
			LowStock:      metric(inventory.StockLow),
			OverStock:     metric(inventory.StockOver),
			SafetyStock:   metric(inventory.StockSafety),
		},
		ABCXYZ: ABCXYZDTO{
			A: s.ABCXYZ.A, B: s.ABCXYZ.B, C: s.ABCXYZ.C,
			X: s.ABCXYZ.X, Y: s.ABCXYZ.Y, Z: s.ABCXYZ.Z,
		},
		TurnoverClassification: TurnoverDTO{
			FastMoving: s.Turnover.FastMoving,
			SlowMoving: s.Turnover.SlowMoving,
			NonMoving:  s.Turnover.NonMoving,
			ByClass:    byClass,
		},
		Groupings:   rollups,
		LastUpdated: formatTime(s.LastUpdated),
	}
}
