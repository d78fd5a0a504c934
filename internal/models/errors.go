package models

import "errors"

var (
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidBar       = errors.New("invalid bar (OHLC ordering violated)")
	ErrInvalidVolume    = errors.New("invalid volume")
	ErrUnorderedBars    = errors.New("bars must have strictly increasing timestamps")
	ErrInsufficientData = errors.New("insufficient bars for the requested mode")
	ErrNoPredictions    = errors.New("no predictions above confidence threshold")
	ErrUnknownSignal    = errors.New("unknown signal name")
	ErrUnknownVersion   = errors.New("unknown weight version")
)
