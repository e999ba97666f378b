package services

import "errors"

var (
	ErrParsingFailed   = errors.New("dataset parsing failed")
	ErrSessionNotFound = errors.New("audit session not found or expired")
	ErrUnknownDataset  = errors.New("unknown dataset kind")
	ErrNoSalesData     = errors.New("no sales dataset uploaded for this session")
	ErrInvalidMapping  = errors.New("invalid mapping override")
)
