package filterchain

import (
	"context"
	"fmt"

	coreerrors "github.com/naviserver-project/naviserver-sub001/errors"
	"github.com/naviserver-project/naviserver-sub001/httprequest"
	"github.com/naviserver-project/naviserver-sub001/internal/otelspan"
	"github.com/naviserver-project/naviserver-sub001/urlspace"
)

// Handler is the request-procedure signature stored as a
// urlspace.RegisteredProc.Value for the request id space.
type Handler func(arg any, conn *Conn) error

// AuthorizeFunc authorizes a request before the handler runs,
// returning coreerrors.ErrForbidden or coreerrors.ErrUnauthorized to
// reject it, matching NsAuthorizeRequest's three-way outcome.
type AuthorizeFunc func(ctx context.Context, conn *Conn) error

// Dispatcher ties a urlspace registry and a filter chain together to
// implement the request-processing algorithm of nsd/op.c's
// Ns_ConnRunRequest/Ns_ConnRedirect.
type Dispatcher struct {
	Space     *urlspace.Space
	ID        urlspace.IDSpace
	Server    string
	Chain     *Chain
	Authorize AuthorizeFunc
}

// NewDispatcher wires a urlspace registry and filter chain for one
// virtual server.
func NewDispatcher(server string, space *urlspace.Space, id urlspace.IDSpace, chain *Chain) *Dispatcher {
	return &Dispatcher{Space: space, ID: id, Server: server, Chain: chain}
}

// RunRequest runs the full filter/authorize/dispatch/trace/cleanup
// pipeline for one request, per nsd/op.c's Ns_ConnRunRequest. Cleanups
// always run, even when an earlier stage returns an error.
func (d *Dispatcher) RunRequest(ctx context.Context, conn *Conn) (err error) {
	ctx, span := otelspan.Start(ctx, "filterchain", "RunRequest")
	defer func() { otelspan.End(span, err) }()
	defer d.Chain.RunCleanups(conn)

	if st := d.Chain.RunFilters(conn, PreAuth); st != StatusOK {
		return statusToError(st)
	}

	if d.Authorize != nil {
		if authErr := d.Authorize(ctx, conn); authErr != nil {
			return authErr
		}
	}

	if st := d.Chain.RunFilters(conn, PostAuth); st != StatusOK {
		return statusToError(st)
	}

	proc, _, getErr := d.Space.Get(d.Server, conn.Method, conn.URL, d.ID, nil, nil)
	if getErr != nil {
		if conn.Method == httprequest.MethodBad {
			return coreerrors.ErrBadRequest
		}
		return coreerrors.ErrInvalidMethod
	}
	defer proc.DecRef()

	handler, ok := proc.Value.(Handler)
	if !ok {
		return coreerrors.NewInternalError(fmt.Errorf("registered proc value is %T, not filterchain.Handler", proc.Value))
	}

	if err = handler(proc.Arg, conn); err != nil {
		return err
	}

	d.Chain.RunFilters(conn, Trace)
	d.Chain.RunTraces(conn)
	return nil
}

// Redirect re-targets conn at url and reruns the full request
// pipeline, matching Ns_ConnRedirect's re-authorize-and-rerun
// semantics used for FastPath directory defaults and custom
// not-found handlers.
func (d *Dispatcher) Redirect(ctx context.Context, conn *Conn, url string) error {
	conn.URL = url
	return d.RunRequest(ctx, conn)
}

func statusToError(st Status) error {
	switch st {
	case StatusReturn:
		return nil
	case StatusError:
		return coreerrors.NewInternalError(fmt.Errorf("filter chain returned status %v", st))
	default:
		return coreerrors.NewInternalError(fmt.Errorf("filter chain returned unexpected status %v", st))
	}
}
