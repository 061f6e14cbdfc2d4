package domain

import (
	"errors"
)

// Typed failures returned by the core. Every state-violating call fails with
// one of these before any mutation becomes visible; callers compare with
// errors.Is.
var (
	ErrStationNotFound     = errors.New("station not found")
	ErrConnectorNotFound   = errors.New("connector not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTariffNotFound      = errors.New("tariff not found")
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrAlreadyOpen         = errors.New("idtag already has an open transaction")
	ErrAccessDenied        = errors.New("access denied")
	ErrInvalidState        = errors.New("invalid state for operation")
	ErrInvalidTariff       = errors.New("invalid tariff definition")
	ErrInvalidMeterValue   = errors.New("meter stop below meter start")
)
