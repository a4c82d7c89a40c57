package offer

import (
	"net/http"

	"offersync/internal/handler/http/respond"
	offerUC "offersync/internal/usecase/offer"
)

type ActiveHandler struct{ Svc offerUC.Service }

// ServeHTTP lists offers whose end time has not passed yet.
// @Summary      List active offers
// @Tags         offers
// @Produce      json
// @Success      200 {array} DTO
// @Failure      500 {string} string "server error"
// @Router       /offers/active [get]
func (h ActiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	offers, err := h.Svc.ListActive(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTOs(offers))
}
