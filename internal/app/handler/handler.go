package handler

import (
	"net/http"

	"github.com/solenergy/solenergy.com/internal/analytics"
	"github.com/solenergy/solenergy.com/internal/app/handler/request"
	"github.com/solenergy/solenergy.com/internal/app/handler/response"
)

type HandlerFunc func(request.Request) (response.Response, error)

/* AsHttp adapts h to net/http. An error returned by h becomes a JSON error
 * body; see errorResponse for the mapping. */
func AsHttp(
	h HandlerFunc, mixpanel *analytics.MixpanelClientWrapper,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h(request.NewRequest(r, mixpanel))
		if err != nil {
			errorResponse(w, r, err)
			return
		}
		resp.Respond(w, r)
	}
}
