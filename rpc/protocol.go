// Package rpc exposes a tree over JSON-RPC 2.0.
//
// A Session serves one tree on one connection. Paths are child key
// sequences from the tree's root; an empty path addresses the root.
// Subscriptions push tree/changed notifications to the peer until they
// are cancelled or the connection closes.
package rpc

import (
	"go.lsp.dev/jsonrpc2"

	"github.com/signadot/tony-format/nodal/ir"
)

const (
	MethodGet         = "tree/get"
	MethodValue       = "tree/value"
	MethodSet         = "tree/set"
	MethodChildren    = "tree/children"
	MethodSnapshot    = "tree/snapshot"
	MethodValidate    = "tree/validate"
	MethodSerialize   = "tree/serialize"
	MethodSubscribe   = "tree/subscribe"
	MethodUnsubscribe = "tree/unsubscribe"

	// MethodChanged is sent by the server, as a notification.
	MethodChanged = "tree/changed"
)

// CodeNotFound is returned when a path does not address a node.
const CodeNotFound jsonrpc2.Code = 1

type PathParams struct {
	Path []string `json:"path,omitempty"`
}

type SetParams struct {
	Path   []string `json:"path,omitempty"`
	Value  any      `json:"value"`
	Silent bool     `json:"silent,omitempty"`
}

type ValidateParams struct {
	Path []string `json:"path,omitempty"`
	Deep bool     `json:"deep,omitempty"`
}

// ValidateResult carries a shallow or a deep result, depending on the
// request.
type ValidateResult struct {
	Valid  bool                         `json:"valid"`
	Errors map[string]string            `json:"errors,omitempty"`
	Deep   map[string]map[string]string `json:"deep,omitempty"`
}

type SerializeParams struct {
	Path   []string `json:"path,omitempty"`
	Format string   `json:"format,omitempty"`
}

type SubscribeParams struct {
	Path   []string `json:"path,omitempty"`
	Filter []string `json:"filter,omitempty"`
}

type SubscribeResult struct {
	ID int `json:"id"`
}

type UnsubscribeParams struct {
	ID int `json:"id"`
}

type Changed struct {
	ID    int      `json:"id"`
	Paths []string `json:"paths"`
}

// GetResult is the serialized subtree at a path.
type GetResult = ir.Serial
