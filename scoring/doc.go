// Package scoring ranks tools against a request context.
//
// A tool score is the weighted mean of the factors whose precondition holds
// for the request: subject mode, project, current file, usage and time of day.
// Absent context sections omit their factor and weight, so the result is never
// diluted by factors that do not apply.
package scoring
