/*
request.go - Material requests (replenishment workflow)

PURPOSE:
  A material request asks for materials to be purchased, transferred,
  issued, or manufactured. Requests track per-item ordered/received
  progress and roll their status up from item state.

STATUS ROLLUP:
  all items received  → Issued
  all items ordered   → Ordered
  some items ordered  → Partially Ordered
  Rollup only runs on item-progress updates; explicit status changes
  (Approved, Rejected, Cancelled) are terminal decisions made by a
  caller and are never overridden by rollup.

AUTO-GENERATION:
  AutoGenerate builds one Purchase request covering every material at
  or below its reorder point, ordering up to twice the reorder point.

DEFAULTS:
  requiredBy defaults to now + 7 days; requestedBy to "System User".
*/
package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TYPES
// =============================================================================

type RequestType string

const (
	RequestPurchase    RequestType = "Purchase"
	RequestTransfer    RequestType = "Material Transfer"
	RequestIssue       RequestType = "Material Issue"
	RequestManufacture RequestType = "Manufacture"
)

func ValidRequestType(t RequestType) bool {
	switch t {
	case RequestPurchase, RequestTransfer, RequestIssue, RequestManufacture:
		return true
	}
	return false
}

type RequestStatus string

const (
	RequestPending          RequestStatus = "Pending"
	RequestApproved         RequestStatus = "Approved"
	RequestRejected         RequestStatus = "Rejected"
	RequestPartiallyOrdered RequestStatus = "Partially Ordered"
	RequestOrdered          RequestStatus = "Ordered"
	RequestIssued           RequestStatus = "Issued"
	RequestTransferred      RequestStatus = "Transferred"
	RequestCancelled        RequestStatus = "Cancelled"
)

func ValidRequestStatus(s RequestStatus) bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected, RequestPartiallyOrdered,
		RequestOrdered, RequestIssued, RequestTransferred, RequestCancelled:
		return true
	}
	return false
}

// RequestItem is one requested line with its fulfilment progress.
type RequestItem struct {
	MaterialID   MaterialID
	PartNumber   string
	Description  string
	Quantity     decimal.Decimal
	Unit         string
	Warehouse    string
	RequiredBy   time.Time
	CurrentStock decimal.Decimal
	OrderedQty   decimal.Decimal
	ReceivedQty  decimal.Decimal
}

// MaterialRequest is the replenishment document.
type MaterialRequest struct {
	ID           RequestNo // sequential, e.g. "MR-000001"
	RequestType  RequestType
	Items        []RequestItem
	RequiredBy   time.Time
	Purpose      string
	Remarks      string
	RequestedBy  string
	Date         time.Time
	Status       RequestStatus
	ApprovedBy   string
	ApprovedAt   *time.Time
	CancelledAt  *time.Time
}

// RollupStatus derives the fulfilment status from item progress.
// Returns the current status unchanged when no rollup applies.
func (r *MaterialRequest) RollupStatus() RequestStatus {
	if len(r.Items) == 0 {
		return r.Status
	}
	allOrdered, someOrdered, allReceived := true, false, true
	for _, it := range r.Items {
		if it.OrderedQty.LessThan(it.Quantity) {
			allOrdered = false
		}
		if it.OrderedQty.IsPositive() {
			someOrdered = true
		}
		if it.ReceivedQty.LessThan(it.Quantity) {
			allReceived = false
		}
	}
	switch {
	case allReceived:
		return RequestIssued
	case allOrdered:
		return RequestOrdered
	case someOrdered:
		return RequestPartiallyOrdered
	}
	return r.Status
}

// =============================================================================
// REQUESTER - Operations over the RequestStore
// =============================================================================

// Requester submits and updates material requests.
type Requester struct {
	Requests RequestStore
	Catalog  CatalogStore
	Now      func() time.Time
}

func NewRequester(requests RequestStore, catalog CatalogStore) *Requester {
	return &Requester{Requests: requests, Catalog: catalog}
}

func (q *Requester) now() time.Time {
	if q.Now != nil {
		return q.Now()
	}
	return time.Now().UTC()
}

// RequestDraft is the caller-supplied input for a new request.
type RequestDraft struct {
	RequestType RequestType
	Items       []RequestItem
	RequiredBy  *time.Time // defaults to now + 7 days
	Purpose     string
	Remarks     string
	RequestedBy string // defaults to "System User"
}

// Submit validates and stores a new request.
func (q *Requester) Submit(ctx context.Context, draft RequestDraft) (*MaterialRequest, error) {
	if !ValidRequestType(draft.RequestType) {
		return nil, &ValidationError{Field: "requestType", Message: "invalid request type"}
	}
	if len(draft.Items) == 0 {
		return nil, &ValidationError{Field: "items", Message: "at least one item is required"}
	}

	at := q.now()
	requiredBy := at.Add(7 * 24 * time.Hour)
	if draft.RequiredBy != nil {
		requiredBy = *draft.RequiredBy
	}

	req := MaterialRequest{
		RequestType: draft.RequestType,
		Items:       make([]RequestItem, len(draft.Items)),
		RequiredBy:  requiredBy,
		Purpose:     draft.Purpose,
		Remarks:     draft.Remarks,
		RequestedBy: draft.RequestedBy,
		Date:        at,
		Status:      RequestPending,
	}
	if req.RequestedBy == "" {
		req.RequestedBy = "System User"
	}
	for i, it := range draft.Items {
		if it.RequiredBy.IsZero() {
			it.RequiredBy = requiredBy
		}
		req.Items[i] = it
	}

	return q.Requests.AppendRequest(ctx, req)
}

// SetStatus applies an explicit status change. Approval records the
// approver; cancellation records the time.
func (q *Requester) SetStatus(ctx context.Context, id RequestNo, status RequestStatus, approvedBy string) (*MaterialRequest, error) {
	if !ValidRequestStatus(status) {
		return nil, &ValidationError{Field: "status", Message: "invalid status"}
	}
	req, err := q.Requests.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	at := q.now()
	req.Status = status
	switch status {
	case RequestApproved:
		req.ApprovedBy = approvedBy
		if req.ApprovedBy == "" {
			req.ApprovedBy = "System User"
		}
		req.ApprovedAt = &at
	case RequestCancelled:
		req.CancelledAt = &at
	}

	if err := q.Requests.UpdateRequest(ctx, *req); err != nil {
		return nil, err
	}
	return req, nil
}

// UpdateItemProgress records ordered/received quantities on one item
// (nil leaves a quantity untouched) and rolls the status up.
func (q *Requester) UpdateItemProgress(ctx context.Context, id RequestNo, itemIndex int, ordered, received *decimal.Decimal) (*MaterialRequest, error) {
	req, err := q.Requests.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if itemIndex < 0 || itemIndex >= len(req.Items) {
		return nil, &ValidationError{Field: "itemIndex", Message: "invalid item index"}
	}

	if ordered != nil {
		req.Items[itemIndex].OrderedQty = *ordered
	}
	if received != nil {
		req.Items[itemIndex].ReceivedQty = *received
	}
	req.Status = req.RollupStatus()

	if err := q.Requests.UpdateRequest(ctx, *req); err != nil {
		return nil, err
	}
	return req, nil
}

// AutoGenerate creates one Purchase request covering every material at
// or below its reorder point. Returns (nil, 0, nil) when nothing is low:
// no request is created in that case.
func (q *Requester) AutoGenerate(ctx context.Context) (*MaterialRequest, int, error) {
	low, err := q.Catalog.ListMaterials(ctx, MaterialFilter{LowStock: true})
	if err != nil {
		return nil, 0, err
	}
	if len(low) == 0 {
		return nil, 0, nil
	}

	at := q.now()
	requiredBy := at.Add(7 * 24 * time.Hour)
	items := make([]RequestItem, len(low))
	for i, m := range low {
		// Order up to twice the reorder point.
		items[i] = RequestItem{
			MaterialID:   m.ID,
			PartNumber:   m.PartNumber,
			Description:  m.Description,
			Quantity:     m.ReorderPoint.Mul(turnoverTwo).Sub(m.Stock),
			Unit:         m.Unit,
			Warehouse:    m.StorageLocation,
			RequiredBy:   requiredBy,
			CurrentStock: m.Stock,
		}
	}

	req, err := q.Requests.AppendRequest(ctx, MaterialRequest{
		RequestType: RequestPurchase,
		Items:       items,
		RequiredBy:  requiredBy,
		Purpose:     "Auto-generated for low stock items",
		Remarks:     "System generated material request based on reorder levels",
		RequestedBy: "System (Auto)",
		Date:        at,
		Status:      RequestPending,
	})
	if err != nil {
		return nil, 0, err
	}
	return req, len(low), nil
}
