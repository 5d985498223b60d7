// Package encode writes nodes, in their serialized form, and plain
// values as YAML or JSON, optionally colored for terminals.
package encode
