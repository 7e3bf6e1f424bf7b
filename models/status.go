package models

// OrderStatus is the lifecycle state of an order. Transitions are only
// legal along the edges in orderTransitions; terminal states have none.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
	OrderRejected  OrderStatus = "rejected"
)

var orderTransitions = map[OrderStatus]map[OrderStatus]bool{
	OrderPending: {
		OrderConfirmed: true,
		OrderPreparing: true,
		OrderCancelled: true,
		OrderRejected:  true,
	},
	OrderConfirmed: {
		OrderPreparing: true,
		OrderCancelled: true,
	},
	OrderPreparing: {
		OrderReady: true,
	},
	OrderReady: {
		OrderCompleted: true,
	},
	OrderCompleted: {},
	OrderCancelled: {},
	OrderRejected:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return orderTransitions[s][next]
}

// Terminal reports whether no further transition is permitted.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderCompleted, OrderCancelled, OrderRejected:
		return true
	}
	return false
}

// ActiveOrderStatuses lists every non-terminal status. Occupancy checks
// and "active order" queries filter on this set.
func ActiveOrderStatuses() []OrderStatus {
	return []OrderStatus{OrderPending, OrderConfirmed, OrderPreparing, OrderReady}
}

// StatusesBefore lists the statuses from which next is reachable in one
// step. Conditional updates use this as their WHERE predicate.
func StatusesBefore(next OrderStatus) []OrderStatus {
	var from []OrderStatus
	for s, edges := range orderTransitions {
		if edges[next] {
			from = append(from, s)
		}
	}
	return from
}

type ServiceRequestStatus string

const (
	RequestPending   ServiceRequestStatus = "pending"
	RequestAssigned  ServiceRequestStatus = "assigned"
	RequestCompleted ServiceRequestStatus = "completed"
	RequestCancelled ServiceRequestStatus = "cancelled"
)

func (s ServiceRequestStatus) Terminal() bool {
	return s == RequestCompleted || s == RequestCancelled
}

// ServiceRequestKind is the kind of ancillary help a table asks for.
type ServiceRequestKind string

const (
	RequestWater      ServiceRequestKind = "water"
	RequestCutlery    ServiceRequestKind = "cutlery"
	RequestNapkins    ServiceRequestKind = "napkins"
	RequestCondiments ServiceRequestKind = "condiments"
	RequestBill       ServiceRequestKind = "bill"
	RequestCleanup    ServiceRequestKind = "cleanup"
	RequestAssistance ServiceRequestKind = "assistance"
	RequestOther      ServiceRequestKind = "other"
)

func (k ServiceRequestKind) Valid() bool {
	switch k {
	case RequestWater, RequestCutlery, RequestNapkins, RequestCondiments,
		RequestBill, RequestCleanup, RequestAssistance, RequestOther:
		return true
	}
	return false
}

type TableStatus string

const (
	TableAvailable   TableStatus = "available"
	TableOccupied    TableStatus = "occupied"
	TableReserved    TableStatus = "reserved"
	TableMaintenance TableStatus = "maintenance"
	TableCleaning    TableStatus = "cleaning"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved, TableMaintenance, TableCleaning:
		return true
	}
	return false
}

const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

const (
	RoleChef    = "chef"
	RoleWaiter  = "waiter"
	RoleCleaner = "cleaner"
	RoleManager = "manager"
)
