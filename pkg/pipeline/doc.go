// Package pipeline runs a set of steps connected by channels.
//
// A pipeline starts from one or more root steps, transforms elements through
// one-to-one or one-to-many steps, optionally fans out with a splitter and fans
// back in with a merger, and terminates in sinks. Every step runs in its own
// goroutine; errors are pushed on per-step error channels which Run merges,
// returning on the first error and cancelling the remaining steps through the
// pipeline context.
//
// Options observe the topology as it is built: the drawer renders it to a DOT
// graph, the measure option records per-step timings.
package pipeline
