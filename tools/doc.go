// Package tools defines the tool model shared by the scorer, the search index and the execution router, together with the builtin executor and external hub contracts that the router dispatches to.
package tools
