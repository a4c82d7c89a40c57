package offer

import (
	"log/slog"
	"net/http"
	"time"

	"offersync/internal/handler/http/respond"
	"offersync/internal/observability/logging"
	offerUC "offersync/internal/usecase/offer"
)

type ListHandler struct {
	Svc    offerUC.Service
	Logger *slog.Logger
}

// ServeHTTP lists all stored offers.
// @Summary      List offers
// @Description  Returns every stored offer with its derived deal type.
// @Tags         offers
// @Produce      json
// @Success      200 {array} DTO
// @Failure      500 {string} string "server error"
// @Router       /offers [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	logger := logging.WithRequestID(ctx, h.Logger)

	offers, err := h.Svc.List(ctx)
	if err != nil {
		logger.Error("failed to list offers", slog.String("error", respond.SanitizeError(err)))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Info("offer list served",
		slog.Int("count", len(offers)),
		slog.Duration("duration", time.Since(start)))
	respond.JSON(w, http.StatusOK, toDTOs(offers))
}
