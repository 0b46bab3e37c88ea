package models

import "errors"

// Sentinel errors shared across the store, messaging, and HTTP layers.
var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrNotPendingPayment = errors.New("order is not pending payment")
	ErrDuplicateCustomer = errors.New("customer email or document already exists")
)
