package client

import "github.com/pkg/errors"

// ErrNotConnected indicates the operation needs a connected client.
var ErrNotConnected = errors.New("not connected")

// ErrAlreadyConnected indicates Connect was called on a live session.
var ErrAlreadyConnected = errors.New("already connected")

// ErrNotAuthenticated indicates the operation needs an authenticated session.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrTimeout indicates the server did not reply within the receive timeout.
var ErrTimeout = errors.New("request timed out")
