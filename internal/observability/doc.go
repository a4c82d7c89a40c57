// Package observability groups logging and metrics utilities used across
// the API server and the sync worker.
package observability
