// Package builtin provides an in-process tools.BuiltinExecutor serving typed
// Go tools, with parameter schemas derived from the input types.
package builtin
