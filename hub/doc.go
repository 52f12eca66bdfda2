// Package hub provides an in-process tools.ExternalHub: named servers with
// connection state, each serving its own set of tools.
package hub
