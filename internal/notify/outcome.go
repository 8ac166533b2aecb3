package notify

import (
	"errors"
	"storefront-checkout/internal/client"
)

// Outcome is the result of one delivery attempt.
type Outcome int

const (
	Delivered Outcome = iota
	// Unreachable: the transport works but this recipient cannot be messaged.
	Unreachable
	// TransportError: network failure, server error or open circuit breaker.
	TransportError
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case Unreachable:
		return "unreachable"
	case TransportError:
		return "transport_error"
	}
	return "unknown"
}

// Classify maps a send error onto an Outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return Delivered
	case errors.Is(err, client.ErrRecipientUnreachable):
		return Unreachable
	default:
		return TransportError
	}
}
