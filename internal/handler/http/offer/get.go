package offer

import (
	"errors"
	"net/http"

	"offersync/internal/handler/http/respond"
	offerUC "offersync/internal/usecase/offer"
)

type GetHandler struct{ Svc offerUC.Service }

// ServeHTTP fetches a single offer.
// @Summary      Get offer
// @Description  Returns one offer by its upstream-assigned ID.
// @Tags         offers
// @Produce      json
// @Param        id path string true "Offer ID"
// @Success      200 {object} DTO
// @Failure      400 {string} string "invalid offer ID"
// @Failure      404 {string} string "offer not found"
// @Failure      500 {string} string "server error"
// @Router       /offers/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	offer, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, offerUC.ErrInvalidOfferID) {
			code = http.StatusBadRequest
		} else if errors.Is(err, offerUC.ErrOfferNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(offer))
}
