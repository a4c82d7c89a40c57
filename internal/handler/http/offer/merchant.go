package offer

import (
	"errors"
	"net/http"

	"offersync/internal/handler/http/respond"
	offerUC "offersync/internal/usecase/offer"
)

type MerchantHandler struct{ Svc offerUC.Service }

// ServeHTTP lists offers for one merchant.
// @Summary      List offers by merchant
// @Tags         offers
// @Produce      json
// @Param        merchant path string true "Merchant name"
// @Success      200 {array} DTO
// @Failure      400 {string} string "invalid merchant"
// @Failure      500 {string} string "server error"
// @Router       /offers/merchant/{merchant} [get]
func (h MerchantHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	merchant := r.PathValue("merchant")

	offers, err := h.Svc.ListByMerchant(r.Context(), merchant)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, offerUC.ErrInvalidMerchant) {
			code = http.StatusBadRequest
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTOs(offers))
}
