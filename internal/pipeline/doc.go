// Package pipeline drives one bundling run through its stages:
//
//	Idle -> Loaded -> GraphBuilt -> ReachabilityComputed -> Flattened -> Emitted -> Done
//
// Each stage consumes only the output of the previous one. Any failure
// moves the run to Failed and is returned as a *StageError naming the
// stage; the output path is written only after every stage succeeded.
package pipeline
