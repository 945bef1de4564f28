// Package promtest runs an in-process fake of the Prometheus range-query API
// for tests. Replies are served in order (the last one repeats) and every
// request is recorded with its form values and headers.
package promtest
