package middlewares

import (
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jcmexdev/ecommerce-orders/internal/pkg/requestmeta"
)

// AttachRequestMetadata continues any incoming W3C trace context and stores
// a correlation id in the request context. The id is taken from the
// client's X-Request-Id header when present, minted otherwise, echoed back
// on the response, and propagated to the product service on every stock
// call.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		requestID := r.Header.Get(requestmeta.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = requestmeta.WithRequestID(ctx, requestID)
		w.Header().Set(requestmeta.HeaderXRequestID, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
