package order

type Status string

const (
	StatusForming             Status = "FORMING"
	StatusCreated             Status = "CREATED"
	StatusPayed               Status = "PAYED"
	StatusSendToSupplier      Status = "SEND_TO_SUPPLIER"
	StatusInProcess           Status = "IN_PROCESS"
	StatusInDelivery          Status = "IN_DELIVERY"
	StatusDelivered           Status = "DELIVERED"
	StatusCompleted           Status = "COMPLETED"
	StatusCancelledBySupplier Status = "CANCELLED_BY_SUPPLIER"
	StatusCancelledByFactory  Status = "CANCELLED_BY_FACTORY"
)

// validPrevStatuses is the order lifecycle graph: for each target status,
// the set of statuses an order may move from. Anything not listed is an
// invalid transition.
var validPrevStatuses = map[Status][]Status{
	StatusCreated:        {StatusForming},
	StatusPayed:          {StatusCreated},
	StatusSendToSupplier: {StatusCreated},
	StatusInProcess:      {StatusSendToSupplier},
	StatusInDelivery:     {StatusInProcess},
	StatusDelivered:      {StatusInDelivery},
	StatusCompleted:      {StatusDelivered},
	StatusCancelledByFactory: {
		StatusCreated,
		StatusPayed,
		StatusSendToSupplier,
		StatusInProcess,
	},
	StatusCancelledBySupplier: {
		StatusSendToSupplier,
		StatusInProcess,
	},
}

// CanTransition reports whether an order may move from current to target.
// Requesting the current status is not a transition; callers treat it as
// a no-op before consulting the graph.
func CanTransition(current, target Status) bool {
	for _, prev := range validPrevStatuses[target] {
		if prev == current {
			return true
		}
	}
	return false
}

// IsCancellation reports whether s requires a cancel comment.
func (s Status) IsCancellation() bool {
	return s == StatusCancelledByFactory || s == StatusCancelledBySupplier
}

// IsTerminal reports whether no further transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s.IsCancellation()
}

// Valid reports whether s is a member of the closed status enum.
func (s Status) Valid() bool {
	switch s {
	case StatusForming, StatusCreated, StatusPayed, StatusSendToSupplier,
		StatusInProcess, StatusInDelivery, StatusDelivered, StatusCompleted,
		StatusCancelledBySupplier, StatusCancelledByFactory:
		return true
	}
	return false
}
