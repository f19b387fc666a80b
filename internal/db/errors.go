package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/go-pg/pg/v10"
)

var (
	// ErrConnection means storage could not be reached.
	ErrConnection = errors.New("connection error")
	// ErrMigration means the schema could not be brought to the expected version.
	ErrMigration = errors.New("migration error")
	// ErrDecode means a value could not be coerced to the declared column type.
	ErrDecode = errors.New("decode error")
	// ErrConstraint means storage rejected a write because of a constraint.
	ErrConstraint = errors.New("constraint error")
	// ErrQuery means the query was built incorrectly.
	ErrQuery = errors.New("query error")
	// ErrCanceled means the caller's context was canceled or timed out before storage answered.
	ErrCanceled = errors.New("canceled")
)

// SQLSTATE classes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	sqlStateDataException      = "22"
	sqlStateIntegrityViolation = "23"
)

// wrapErr attaches the error kind to a storage error, keeping the driver error reachable via errors.As.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}

	for _, kind := range []error{ErrConnection, ErrMigration, ErrDecode, ErrConstraint, ErrQuery, ErrCanceled} {
		if errors.Is(err, kind) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return fmt.Errorf("%s: %w: %w", op, kindOf(err), err)
}

func kindOf(err error) error {
	var pgErr pg.Error
	if errors.As(err, &pgErr) {
		code := pgErr.Field('C')
		switch {
		case pgErr.IntegrityViolation(), strings.HasPrefix(code, sqlStateIntegrityViolation):
			return ErrConstraint
		case strings.HasPrefix(code, sqlStateDataException):
			return ErrDecode
		}
		return ErrQuery
	}

	// context.DeadlineExceeded also satisfies net.Error
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrCanceled
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, pg.ErrTxDone) {
		return ErrConnection
	}

	// go-pg reports client-side failures as plain errors prefixed with "pg:"
	if msg := err.Error(); strings.HasPrefix(msg, "pg: ") {
		if strings.Contains(strings.ToLower(msg), "scan") {
			return ErrDecode
		}
		return ErrQuery
	}

	return ErrConnection
}
