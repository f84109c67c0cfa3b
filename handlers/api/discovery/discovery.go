package discovery

import (
	"net/http"

	"pinboard-server/core"
	"pinboard-server/handlers/api/params"
	"pinboard-server/handlers/api/respond"
)

const (
	defaultCount = 10
	maxCount     = 30
)

// HandleDiscovery proxies a batch of random photos from the gateway.
func HandleDiscovery(gateway core.PhotoGateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := params.QueryInt(r, "count", defaultCount, 1, maxCount)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		photos, err := gateway.Random(r.Context(), count)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		if photos == nil {
			photos = []core.UnsplashPhoto{}
		}
		respond.JSON(w, r, http.StatusOK, photos)
	}
}
