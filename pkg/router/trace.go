package router

// defaultTracerName is the OpenTelemetry tracer name used unless
// overridden with WithTracerName. Spans are recorded per Navigate call
// with nav.url, nav.outcome and nav.settled attributes; a refused vote
// marks the span with an error status. Without a configured trace
// provider the spans are no-ops.
const defaultTracerName = "vport"
