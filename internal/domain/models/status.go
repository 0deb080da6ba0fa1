package models

// Status - статус заказа
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// PaymentStatus - статус оплаты, отслеживается независимо от статуса заказа
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// transitions - допустимые переходы вперёд (from -> to)
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusDelivered, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// Valid сообщает, известен ли статус
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal - delivered и cancelled
func (s Status) IsTerminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransition проверяет переход.
// Повторный переход в тот же статус разрешён всегда.
// В нестрогом режиме разрешён любой переход между известными статусами.
func CanTransition(from, to Status, strict bool) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to || !strict {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
