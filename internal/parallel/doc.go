// Package parallel provides the two execution contexts used by the
// gradient animator: a worker pool that renders the frames of one
// transition concurrently, and a serial executor that plays the role of
// the display's main thread.
package parallel
