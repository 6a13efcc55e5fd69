package kv

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/dmitrijs2005/gophpress/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// sqlStateConnectionClass is the SQLSTATE class for connection exceptions
// (08xxx).
const sqlStateConnectionClass = "08"

// isConnectivityError reports whether err is a transport-level failure
// (backend unreachable, connection dropped, call timed out) rather than the
// backend rejecting the operation.
func isConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, sqlStateConnectionClass)
	}
	return false
}

// classify maps a raw backend error onto the store's sentinel taxonomy so
// callers can branch with errors.Is without knowing the driver.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isConnectivityError(err) {
		return fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	return fmt.Errorf("%w: %v", common.ErrBackendFailure, err)
}
