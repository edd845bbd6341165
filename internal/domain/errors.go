package domain

// DomainError represents a domain-level error
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Domain errors
var (
	ErrItemNotFound          = &DomainError{Message: "item not found"}
	ErrAlertNotFound         = &DomainError{Message: "alert not found"}
	ErrOrderNotFound         = &DomainError{Message: "purchase order not found"}
	ErrInsufficientStock     = &DomainError{Message: "insufficient stock available"}
	ErrNegativeQuantity      = &DomainError{Message: "quantity must not be negative"}
	ErrNonPositiveQuantity   = &DomainError{Message: "quantity must be positive"}
	ErrQuantityOverflow      = &DomainError{Message: "quantity overflow"}
	ErrInvalidItemType       = &DomainError{Message: "invalid item type"}
	ErrBlankItemName         = &DomainError{Message: "item name must not be blank"}
	ErrOrderNotReceivable    = &DomainError{Message: "purchase order cannot be received in its current status"}
	ErrOrderAlreadyReceived  = &DomainError{Message: "purchase order already received"}
	ErrInvalidScanInterval   = &DomainError{Message: "scan interval must be positive"}
	ErrInvalidThreshold      = &DomainError{Message: "threshold must not be negative"}
	ErrMonitorShutDown       = &DomainError{Message: "stock monitor has been shut down"}
)
