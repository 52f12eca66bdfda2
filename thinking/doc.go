// Package thinking classifies free-text tasks and plans the reasoning
// capabilities to invoke for them.
//
// Complexity, task type and domain are derived from ordered keyword tables,
// capabilities are selected by task type and complexity, and the execution
// plan orders every capability after its prerequisites.
package thinking
