// Package format names the document formats nodes are read and written in.
package format
