package health

import (
	"net/http"

	"pinboard-server/core"
	"pinboard-server/handlers/api/respond"
)

const serviceName = "Pinterest Clone API"

type Status struct {
	OK         bool   `json:"ok"`
	Message    string `json:"message"`
	TotalPosts int    `json:"total_posts"`
	Docs       string `json:"docs"`
}

// HandleHealth reports liveness along with the number of stored posts.
func HandleHealth(store core.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, err := store.Count(r.Context(), "")
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusOK, Status{
			OK:         true,
			Message:    serviceName,
			TotalPosts: total,
			Docs:       "/docs",
		})
	}
}

func HandleFavicon() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}
