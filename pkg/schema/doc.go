// Package schema derives JSON schemas of builtin tool parameters from Go types
// and validates parameters against them.
package schema
