package ctxutil

import "context"

type traceKey struct{}

// TraceData carries the trace/request identifiers attached by the HTTP
// middleware so logs from any layer can be correlated.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	if td == nil {
		return ctx
	}
	return context.WithValue(ctx, traceKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	td, _ := ctx.Value(traceKey{}).(*TraceData)
	return td
}
