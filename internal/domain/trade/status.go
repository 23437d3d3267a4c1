package trade

import (
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusInvoiced  OrderStatus = "invoiced"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusReturned  OrderStatus = "returned"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusPending, OrderStatusConfirmed, OrderStatusApproved,
		OrderStatusInvoiced, OrderStatusShipped, OrderStatusDelivered, OrderStatusReturned,
		OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no event can leave the status
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusReturned
}

// HoldsAllocation reports whether stock has been allocated to an order in this status
func (s OrderStatus) HoldsAllocation() bool {
	switch s {
	case OrderStatusApproved, OrderStatusConfirmed, OrderStatusInvoiced,
		OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

// CountsTowardsCredit reports whether the order's open balance is part of the
// customer's credit exposure
func (s OrderStatus) CountsTowardsCredit() bool {
	return s != OrderStatusCancelled && s != OrderStatusDraft
}

// OrderEvent is a command that moves an order between states
type OrderEvent string

const (
	EventSubmit  OrderEvent = "submit"
	EventApprove OrderEvent = "approve"
	EventInvoice OrderEvent = "invoice"
	EventChallan OrderEvent = "challan"
	EventDeliver OrderEvent = "deliver"
	EventCancel  OrderEvent = "cancel"
	EventReturn  OrderEvent = "return"
)

// Transition is one row of the order state machine
type Transition struct {
	From  OrderStatus
	Event OrderEvent
	To    OrderStatus
}

// Transitions is the complete order state machine. Any pair not listed is rejected.
// confirmed is accepted wherever approved is, for orders confirmed before approval existed.
var Transitions = []Transition{
	{OrderStatusDraft, EventSubmit, OrderStatusPending},
	{OrderStatusDraft, EventCancel, OrderStatusCancelled},
	{OrderStatusPending, EventApprove, OrderStatusApproved},
	{OrderStatusPending, EventCancel, OrderStatusCancelled},
	{OrderStatusApproved, EventInvoice, OrderStatusInvoiced},
	{OrderStatusApproved, EventChallan, OrderStatusShipped},
	{OrderStatusApproved, EventCancel, OrderStatusCancelled},
	{OrderStatusConfirmed, EventInvoice, OrderStatusInvoiced},
	{OrderStatusConfirmed, EventChallan, OrderStatusShipped},
	{OrderStatusConfirmed, EventCancel, OrderStatusCancelled},
	{OrderStatusShipped, EventInvoice, OrderStatusInvoiced},
	{OrderStatusInvoiced, EventDeliver, OrderStatusDelivered},
	{OrderStatusInvoiced, EventReturn, OrderStatusReturned},
	{OrderStatusDelivered, EventReturn, OrderStatusReturned},
}

type transitionKey struct {
	from  OrderStatus
	event OrderEvent
}

var transitionIndex = func() map[transitionKey]OrderStatus {
	idx := make(map[transitionKey]OrderStatus, len(Transitions))
	for _, t := range Transitions {
		idx[transitionKey{t.From, t.Event}] = t.To
	}
	return idx
}()

// NextStatus looks up the target of event from status, failing with STATE
func NextStatus(from OrderStatus, event OrderEvent) (OrderStatus, error) {
	to, ok := transitionIndex[transitionKey{from, event}]
	if !ok {
		return "", shared.NewStateError("cannot %s an order in status %s", event, from).WithDetails(map[string]any{
			"status": from,
			"event":  event,
		})
	}
	return to, nil
}

// Allowed reports whether event may fire from status
func Allowed(from OrderStatus, event OrderEvent) bool {
	_, ok := transitionIndex[transitionKey{from, event}]
	return ok
}
