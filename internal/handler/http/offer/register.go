package offer

import (
	"log/slog"
	"net/http"

	offerUC "offersync/internal/usecase/offer"
)

// Register registers all offer-related HTTP handlers with the given mux.
// The literal segments (active, merchant, type) are registered before the
// {id} wildcard so they never shadow each other.
func Register(mux *http.ServeMux, svc offerUC.Service, logger *slog.Logger) {
	mux.Handle("GET /offers", ListHandler{Svc: svc, Logger: logger})
	mux.Handle("GET /offers/active", ActiveHandler{svc})
	mux.Handle("GET /offers/merchant/{merchant}", MerchantHandler{svc})
	mux.Handle("GET /offers/type/{type}", ByTypeHandler{svc})
	mux.Handle("GET /offers/{id}", GetHandler{svc})
}
