/*
Package observability provides Prometheus instrumentation for the Sieve service.

It bridges the service's lifecycle hooks into metrics: a counter of clean
calls labeled by schema and outcome, and a histogram of clean durations.
Mount the handler wherever the host serves HTTP, or pass it to the built-in
server's WithMetrics option.
*/
package observability
