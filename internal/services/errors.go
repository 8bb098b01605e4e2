// Package services defines the business logic for ingestion and the
// dashboard read model. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

var (
	// ErrDuplicateAction is returned when an incoming record hashes to
	// content that is already stored.
	ErrDuplicateAction = errors.New("action already exists")

	// ErrInvalidRecord is returned when a raw record fails validation and
	// cannot be repaired.
	ErrInvalidRecord = errors.New("record failed validation")

	// ErrNoData is returned when a refresh yields no records, so nothing
	// is snapshotted or ingested.
	ErrNoData = errors.New("no records to ingest")
)
