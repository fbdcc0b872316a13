package dispatch

import "errors"

var (
	// ErrNotFound means no request with the given id exists.
	ErrNotFound = errors.New("dispatch request not found")

	// ErrAlreadyResolved means the request left the pending state before
	// this resolve attempt; the stored outcome stands.
	ErrAlreadyResolved = errors.New("dispatch request already resolved")

	// ErrDuplicateRequest means the patient already has a pending request
	// to this hospital.
	ErrDuplicateRequest = errors.New("pending dispatch request already exists for this patient and hospital")

	ErrUnknownAmbulance = errors.New("unknown ambulance")
	ErrUnknownPatient   = errors.New("unknown patient")
)
