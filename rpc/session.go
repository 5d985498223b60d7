package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.lsp.dev/jsonrpc2"

	"github.com/signadot/tony-format/nodal/debug"
	"github.com/signadot/tony-format/nodal/encode"
	"github.com/signadot/tony-format/nodal/format"
	"github.com/signadot/tony-format/nodal/ir"
	"github.com/signadot/tony-format/nodal/tree"
)

// Session serves a tree to a single peer.
type Session struct {
	mu      sync.Mutex
	tree    *tree.Tree
	conn    jsonrpc2.Conn
	subs    map[int]func()
	nextSub int
}

func NewSession(t *tree.Tree) *Session {
	return &Session{tree: t, subs: map[int]func(){}}
}

// Serve runs the session over rwc until the peer disconnects or ctx is
// done. A clean disconnect returns nil.
func (s *Session) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	conn.Go(ctx, s.Handler())
	select {
	case <-conn.Done():
	case <-ctx.Done():
		conn.Close()
		<-conn.Done()
	}
	s.unsubscribeAll()
	err := conn.Err()
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || ctx.Err() != nil {
		return nil
	}
	return err
}

// Handler returns the jsonrpc2 handler for the session's methods.
func (s *Session) Handler() jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		if debug.RPC() {
			debug.Logf("rpc <- %s %s\n", req.Method(), string(req.Params()))
		}
		res, err := s.dispatch(ctx, req)
		if debug.RPC() && err != nil {
			debug.Logf("rpc %s: %v\n", req.Method(), err)
		}
		return reply(ctx, res, err)
	}
}

func (s *Session) dispatch(ctx context.Context, req jsonrpc2.Request) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch req.Method() {
	case MethodGet:
		var p PathParams
		w, err := s.at(req, &p, &p.Path)
		if err != nil {
			return nil, err
		}
		return w.Serialize(), nil
	case MethodValue:
		var p PathParams
		w, err := s.at(req, &p, &p.Path)
		if err != nil {
			return nil, err
		}
		return internal(w.GetValue(ctx))
	case MethodSet:
		var p SetParams
		w, err := s.at(req, &p, &p.Path)
		if err != nil {
			return nil, err
		}
		var opts []tree.SetOption
		if p.Silent {
			opts = append(opts, tree.Silent())
		}
		return internal(nil, w.SetValue(p.Value, opts...))
	case MethodChildren:
		var p PathParams
		w, err := s.at(req, &p, &p.Path)
		if err != nil {
			return nil, err
		}
		keys := w.ChildKeys()
		if keys == nil {
			keys = []string{}
		}
		return keys, nil
	case MethodSnapshot:
		var p PathParams
		w, err := s.at(req, &p, &p.Path)
		if err != nil {
			return nil, err
		}
		return internal(w.Snapshot(ctx))
	case MethodValidate:
		var p ValidateParams
		w, err := s.at(req, &p, &p.Path)
		if err != nil {
			return nil, err
		}
		return validate(ctx, w, p.Deep)
	case MethodSerialize:
		var p SerializeParams
		w, err := s.at(req, &p, &p.Path)
		if err != nil {
			return nil, err
		}
		return serialize(w, p.Format)
	case MethodSubscribe:
		var p SubscribeParams
		w, err := s.at(req, &p, &p.Path)
		if err != nil {
			return nil, err
		}
		return s.subscribe(ctx, w, p.Filter), nil
	case MethodUnsubscribe:
		var p UnsubscribeParams
		if err := decode(req, &p); err != nil {
			return nil, err
		}
		cancel, ok := s.subs[p.ID]
		if ok {
			cancel()
			delete(s.subs, p.ID)
		}
		return ok, nil
	default:
		return nil, fmt.Errorf("%q: %w", req.Method(), jsonrpc2.ErrMethodNotFound)
	}
}

func decode(req jsonrpc2.Request, v any) error {
	d := req.Params()
	if len(d) == 0 || string(d) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return jsonrpc2.Errorf(jsonrpc2.InvalidParams, "%s: %v", req.Method(), err)
	}
	return nil
}

// at decodes the params into v and returns the wrapper at *path.
func (s *Session) at(req jsonrpc2.Request, v any, path *[]string) (*tree.Tree, error) {
	if err := decode(req, v); err != nil {
		return nil, err
	}
	w := s.tree.At(*path...)
	if w == nil {
		return nil, jsonrpc2.Errorf(CodeNotFound, "%s: %s", tree.ErrNotFound, ir.Path(*path))
	}
	return w, nil
}

func internal(v any, err error) (any, error) {
	if err != nil {
		return nil, jsonrpc2.Errorf(jsonrpc2.InternalError, "%v", err)
	}
	return v, nil
}

func validate(ctx context.Context, w *tree.Tree, deep bool) (any, error) {
	if deep {
		r, err := w.ValidateDeep(ctx)
		if err != nil {
			return internal(nil, err)
		}
		return &ValidateResult{Valid: r.Valid, Deep: r.Errors}, nil
	}
	r, err := w.Validate(ctx)
	if err != nil {
		return internal(nil, err)
	}
	return &ValidateResult{Valid: r.Valid, Errors: r.Errors}, nil
}

func serialize(w *tree.Tree, f string) (any, error) {
	ff := format.JSONFormat
	if f != "" {
		var err error
		if ff, err = format.ParseFormat(f); err != nil {
			return nil, jsonrpc2.Errorf(jsonrpc2.InvalidParams, "%v", err)
		}
	}
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(w.Node(), buf, encode.EncodeFormat(ff)); err != nil {
		return internal(nil, err)
	}
	return buf.String(), nil
}

func (s *Session) subscribe(ctx context.Context, w *tree.Tree, filter []string) *SubscribeResult {
	s.nextSub++
	id := s.nextSub
	conn := s.conn
	s.subs[id] = w.Subscribe(func(paths []string) {
		if conn == nil {
			return
		}
		if debug.RPC() {
			debug.Logf("rpc -> %s %d %v\n", MethodChanged, id, paths)
		}
		if err := conn.Notify(ctx, MethodChanged, &Changed{ID: id, Paths: paths}); err != nil && debug.RPC() {
			debug.Logf("rpc notify %d: %v\n", id, err)
		}
	}, filter...)
	return &SubscribeResult{ID: id}
}

func (s *Session) unsubscribeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, cancel := range s.subs {
		cancel()
		delete(s.subs, id)
	}
}
