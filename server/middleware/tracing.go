package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/streamkit/observability"
)

// Tracing opens a server span per request, continuing any trace context the
// caller propagated. Run spans started by handlers become its children.
func Tracing() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := observability.StartSpan(ctx, observability.SpanHTTPRequest, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			observability.SetSpanAttribute(ctx, "http.method", r.Method)
			observability.SetSpanAttribute(ctx, "http.target", r.URL.Path)
			observability.SetSpanAttribute(ctx, observability.AttrRequestID, r.Header.Get(HeaderRequestID))

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r.WithContext(ctx))
			observability.SetSpanAttribute(ctx, observability.AttrStatus, sw.status)
		})
	}
}
