// Package pipeline runs an ordered list of external tool invocations.
//
// A pipeline is a []Step. Each Step names a Tool and its arguments; it is
// rendered to a shell command line only when logged or executed. Runner
// executes the steps strictly in order, one at a time, because each step
// consumes the files written by its predecessor. A failing step is
// classified into a Kind (ToolFailure, MissingDependency, MissingIndex)
// by a Classifier that inspects the captured standard error and exit
// status.
package pipeline
