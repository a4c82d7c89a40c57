package offer

import (
	"errors"
	"net/http"

	"offersync/internal/handler/http/respond"
	offerUC "offersync/internal/usecase/offer"
)

type ByTypeHandler struct{ Svc offerUC.Service }

// ServeHTTP lists offers classified under one deal type.
// @Summary      List offers by deal type
// @Tags         offers
// @Produce      json
// @Param        type path string true "Deal type (deals or coupons)"
// @Success      200 {array} DTO
// @Failure      400 {string} string "invalid deal type"
// @Failure      500 {string} string "server error"
// @Router       /offers/type/{type} [get]
func (h ByTypeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	dealType := r.PathValue("type")

	offers, err := h.Svc.ListByDealType(r.Context(), dealType)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, offerUC.ErrInvalidDealType) {
			code = http.StatusBadRequest
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTOs(offers))
}
