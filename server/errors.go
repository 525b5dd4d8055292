// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package server

import (
	"errors"
	"net/http"

	"storj.io/nftmeta/collection"
)

// ErrorResponse is the body of a failed request. It also implements the error interface.
type ErrorResponse struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

var (
	// ErrNotFound is returned for unknown, unrevealed or unminted tokens.
	ErrNotFound = &ErrorResponse{StatusCode: http.StatusNotFound, Message: "not found"}

	// ErrBadGateway is returned when a remote dependency failed.
	ErrBadGateway = &ErrorResponse{StatusCode: http.StatusBadGateway, Message: "upstream service failed"}

	// ErrInternalError is returned when an internal error occurs.
	ErrInternalError = &ErrorResponse{StatusCode: http.StatusInternalServerError, Message: "internal error"}
)

// toErrorResponse maps domain errors onto HTTP responses.
func toErrorResponse(err error) *ErrorResponse {
	var response *ErrorResponse
	switch {
	case errors.As(err, &response):
		return response
	case collection.ErrNotFound.Has(err), collection.ErrInvalidTokenID.Has(err):
		return ErrNotFound
	case collection.ErrExternalService.Has(err):
		return ErrBadGateway
	default:
		return ErrInternalError
	}
}
