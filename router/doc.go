// Package router executes tool invocations on a builtin executor or an
// external hub with deduplication, timeout, abort and structured errors.
//
// Concurrent requests with the same tool ID and message ID are coalesced into
// a single execution, and every caller receives the same result.
package router
