package services

import "github.com/Abhiram-Sandhe/TakeAwayBackend/entity"

// transitions is the forward path of the order lifecycle. Cancellation is
// handled separately because its rules depend on who is asking.
var transitions = map[string][]string{
	entity.OrderPending:   {entity.OrderConfirmed, entity.OrderCancelled},
	entity.OrderConfirmed: {entity.OrderPreparing, entity.OrderCancelled},
	entity.OrderPreparing: {entity.OrderReady, entity.OrderCancelled},
	entity.OrderReady:     {entity.OrderDelivered, entity.OrderCancelled},
}

func canTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// customerCancellable statuses: once the kitchen starts, customers cannot
// back out; staff still can until delivery.
func customerCancellable(status string) bool {
	return status == entity.OrderPending || status == entity.OrderConfirmed
}

func staffCancellable(status string) bool {
	return status != entity.OrderDelivered && status != entity.OrderCancelled
}
