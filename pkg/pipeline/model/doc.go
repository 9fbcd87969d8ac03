// Package model provides the data structures shared between the pipeline package
// and its options: the steps in the pipeline and the option contract invoked
// around each step.
package model
