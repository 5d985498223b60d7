// Package parse decodes YAML and JSON documents holding serialized
// nodes.
//
// Type ids are turned back into type nodes with a resolver. Bootstrap
// types always resolve to their singletons; other ids are looked up with
// the resolver given by [WithResolver], and otherwise get one fresh type
// node per id and document.
package parse
