// Package trace records begin/end events for front-end phases so slow or
// stuck builds can be diagnosed.
//
// Tracers travel through the pipeline in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer span.End("")
//
// Enable from the command line with `fsfront check --trace=- --trace-level=detail`.
package trace
