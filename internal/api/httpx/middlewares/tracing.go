package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/katana-shop/internal/pkg/requestmeta"
)

const operationName = "katana-shop/http"

// Tracing wraps next in an otelhttp server span that continues any W3C
// traceparent sent by the caller. The span is renamed to the matched chi
// route once the handler returns. It must run after AttachRequestMeta.
func Tracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(nameByRoute(next), operationName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func nameByRoute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span := trace.SpanFromContext(r.Context())
		if id := requestmeta.RequestID(r.Context()); id != "" {
			span.SetAttributes(attribute.String("request.id", id))
		}

		next.ServeHTTP(w, r)

		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				span.SetName(r.Method + " " + pattern)
				span.SetAttributes(semconv.HTTPRoute(pattern))
			}
		}
	})
}
