package middleware

import (
	"net/http"

	"github.com/shrutihere/product-catalog/pkg/correlationid"
)

// CorrelationID reads the correlation ID from the request header, generating
// one when absent, stores it in the request context and echoes it back in the
// response header.
func CorrelationID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(correlationid.Header)
			if id == "" {
				id = correlationid.Generate()
			}

			ctx := correlationid.NewContext(r.Context(), id)
			w.Header().Set(correlationid.Header, id)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
