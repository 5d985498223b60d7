package rpc

import (
	"context"
	"encoding/json"
	"io"

	"go.lsp.dev/jsonrpc2"

	"github.com/signadot/tony-format/nodal/ir"
)

// Client is the peer side of a Session.
type Client struct {
	conn jsonrpc2.Conn
}

// Dial starts a client over rwc. onChange, if not nil, receives the
// tree/changed notifications of the client's subscriptions; it runs on
// the connection's read loop and must not call back into the client.
func Dial(ctx context.Context, rwc io.ReadWriteCloser, onChange func(*Changed)) *Client {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	conn.Go(ctx, func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		if req.Method() != MethodChanged {
			return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
		}
		if onChange != nil {
			c := &Changed{}
			if err := json.Unmarshal(req.Params(), c); err == nil {
				onChange(c)
			}
		}
		return reply(ctx, nil, nil)
	})
	return &Client{conn: conn}
}

func (c *Client) Close() error {
	err := c.conn.Close()
	<-c.conn.Done()
	return err
}

func (c *Client) Get(ctx context.Context, path ...string) (*ir.Serial, error) {
	res := &ir.Serial{}
	if _, err := c.conn.Call(ctx, MethodGet, &PathParams{Path: path}, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) Value(ctx context.Context, path ...string) (any, error) {
	var res any
	_, err := c.conn.Call(ctx, MethodValue, &PathParams{Path: path}, &res)
	return res, err
}

func (c *Client) Set(ctx context.Context, v any, path ...string) error {
	_, err := c.conn.Call(ctx, MethodSet, &SetParams{Path: path, Value: v}, nil)
	return err
}

func (c *Client) Children(ctx context.Context, path ...string) ([]string, error) {
	var res []string
	_, err := c.conn.Call(ctx, MethodChildren, &PathParams{Path: path}, &res)
	return res, err
}

func (c *Client) Snapshot(ctx context.Context, path ...string) (any, error) {
	var res any
	_, err := c.conn.Call(ctx, MethodSnapshot, &PathParams{Path: path}, &res)
	return res, err
}

func (c *Client) Validate(ctx context.Context, deep bool, path ...string) (*ValidateResult, error) {
	res := &ValidateResult{}
	if _, err := c.conn.Call(ctx, MethodValidate, &ValidateParams{Path: path, Deep: deep}, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Serialize returns the subtree at path encoded in the named format.
func (c *Client) Serialize(ctx context.Context, format string, path ...string) (string, error) {
	var res string
	_, err := c.conn.Call(ctx, MethodSerialize, &SerializeParams{Path: path, Format: format}, &res)
	return res, err
}

// Subscribe returns the id of a new subscription to changes at or
// below path, restricted to filter when given.
func (c *Client) Subscribe(ctx context.Context, path, filter []string) (int, error) {
	res := &SubscribeResult{}
	if _, err := c.conn.Call(ctx, MethodSubscribe, &SubscribeParams{Path: path, Filter: filter}, res); err != nil {
		return 0, err
	}
	return res.ID, nil
}

func (c *Client) Unsubscribe(ctx context.Context, id int) (bool, error) {
	var ok bool
	_, err := c.conn.Call(ctx, MethodUnsubscribe, &UnsubscribeParams{ID: id}, &ok)
	return ok, err
}
