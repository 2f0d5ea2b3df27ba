package payment

type Status string

const (
	StatusPending   Status = "pending"
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSuccess, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusCancelled
}

// MapGatewayStatus translates the gateway's reported status into a payment
// status. Unrecognized values map to pending, which callback handling treats
// as a no-op.
func MapGatewayStatus(reported string) Status {
	switch reported {
	case "success", "successful", "paid", "completed":
		return StatusSuccess
	case "failed", "error", "rejected":
		return StatusFailed
	case "cancelled", "canceled", "expired":
		return StatusCancelled
	default:
		return StatusPending
	}
}
