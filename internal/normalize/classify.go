package normalize

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/chempath/chempath/internal/api"
	"github.com/chempath/chempath/internal/errors"
)

// Classify maps a raw failure from a lookup (get compound, find paths, list,
// suggest) onto the user-facing buckets:
//   - no response at all: CONNECTIVITY
//   - 400/404: NO_RESULT
//   - undecodable body or invariant violation: MALFORMED_RESPONSE
//   - any other status: UPSTREAM
//
// Existing ChemErrors and caller cancellation pass through unchanged.
// Anything else is INTERNAL.
func Classify(err error) error {
	return classify(err, true)
}

// ClassifyWrite is Classify for create requests. A rejected write is not
// "no result", so every non-2xx status is UPSTREAM.
func ClassifyWrite(err error) error {
	return classify(err, false)
}

func classify(err error, lookup bool) error {
	if err == nil {
		return nil
	}
	if cErr, ok := errors.As(err); ok {
		return cErr
	}
	if stderrors.Is(err, context.Canceled) {
		return err
	}

	var sErr *api.StatusError
	if stderrors.As(err, &sErr) {
		if lookup && (sErr.StatusCode == http.StatusBadRequest || sErr.StatusCode == http.StatusNotFound) {
			return errors.NewNoResult(sErr.StatusCode)
		}
		return errors.NewUpstream(sErr.StatusCode)
	}

	var dErr *api.DecodeError
	if stderrors.As(err, &dErr) {
		return errors.NewMalformedResponse(dErr.Error())
	}

	var urlErr *url.Error
	var netErr net.Error
	if stderrors.As(err, &urlErr) || stderrors.As(err, &netErr) ||
		stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewConnectivity(err)
	}

	return errors.NewInternal(err)
}
