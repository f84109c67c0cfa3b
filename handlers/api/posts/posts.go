package posts

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"pinboard-server/core"
	"pinboard-server/handlers/api/params"
	"pinboard-server/handlers/api/respond"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// UserHeader carries the self-asserted name of the caller.
const UserHeader = "X-User"

const (
	defaultLimit = 10
	maxLimit     = 100
)

type (
	CreatePostRequest struct {
		Usuario    *string  `json:"usuario"`
		LinkImagen *string  `json:"link_imagen"`
		Etiquetas  []string `json:"etiquetas"`
	}

	PostsPage struct {
		Total int         `json:"total"`
		Page  int         `json:"page"`
		Limit int         `json:"limit"`
		Posts []core.Post `json:"posts"`
	}
)

func postID(r *http.Request) (int64, error) {
	return params.PathInt64(chi.URLParam(r, "id"), "post_id")
}

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return core.ErrUnprocessable("Invalid request body")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return core.ErrUnprocessable("Invalid request body")
	}
	return nil
}

// authorize checks the caller named in X-User against the post owner.
func authorize(r *http.Request, post *core.Post, action string) error {
	user := r.Header.Get(UserHeader)
	if user == "" {
		return core.ErrAuthRequired(fmt.Sprintf("%s header is required to %s posts", UserHeader, action))
	}
	if user != post.Usuario {
		return core.ErrAuthForbidden(fmt.Sprintf("You are not allowed to %s this post. Only the user who created it can %s it.", action, action))
	}
	return nil
}

// HandleList returns a page of posts, newest first.
func HandleList(store core.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := params.QueryInt(r, "page", 1, 1, math.MaxInt32)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		limit, err := params.QueryInt(r, "limit", defaultLimit, 1, maxLimit)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		minDate := core.NormalizeMinDate(r.URL.Query().Get("min_date"))

		posts, err := store.List(r.Context(), core.ListQuery{
			MinDate: minDate,
			Limit:   limit,
			Offset:  (page - 1) * limit,
		})
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		total, err := store.Count(r.Context(), minDate)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		if posts == nil {
			posts = []core.Post{}
		}
		respond.JSON(w, r, http.StatusOK, PostsPage{Total: total, Page: page, Limit: limit, Posts: posts})
	}
}

// HandleGet returns a single post.
func HandleGet(store core.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := postID(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		post, err := store.FindID(r.Context(), id)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusOK, post)
	}
}

// HandleCreate stores a new post stamped with the server's current time.
func HandleCreate(store core.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreatePostRequest
		if err := decodeBody(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		if req.Usuario == nil {
			respond.Error(w, r, core.ErrUnprocessable("usuario is required"))
			return
		}
		if req.LinkImagen == nil {
			respond.Error(w, r, core.ErrUnprocessable("link_imagen is required"))
			return
		}
		if strings.TrimSpace(*req.Usuario) == "" {
			respond.Error(w, r, core.ErrValidation("usuario is required"))
			return
		}
		if strings.TrimSpace(*req.LinkImagen) == "" {
			respond.Error(w, r, core.ErrValidation("link_imagen is required"))
			return
		}

		etiquetas := req.Etiquetas
		if etiquetas == nil {
			etiquetas = []string{}
		}
		newPost := &core.NewPost{
			Usuario:    *req.Usuario,
			LinkImagen: *req.LinkImagen,
			FechaAlta:  core.Now(),
			Etiquetas:  etiquetas,
		}

		id, err := store.Insert(r.Context(), newPost)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		respond.JSON(w, r, http.StatusCreated, core.Post{
			ID:         id,
			Usuario:    newPost.Usuario,
			LinkImagen: newPost.LinkImagen,
			FechaAlta:  newPost.FechaAlta,
			Etiquetas:  newPost.Etiquetas,
		})
	}
}

// HandleUpdate applies a partial update. Checks run in a fixed order: existence,
// then X-User presence and ownership, then the body's fields.
func HandleUpdate(store core.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := postID(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		var patch core.PostPatch
		if err := decodeBody(r, &patch); err != nil {
			respond.Error(w, r, err)
			return
		}

		post, err := store.FindID(r.Context(), id)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		if err := authorize(r, post, "modify"); err != nil {
			respond.Error(w, r, err)
			return
		}
		if patch.Empty() {
			respond.Error(w, r, core.ErrValidation("No fields provided to update"))
			return
		}
		if patch.Usuario != nil && strings.TrimSpace(*patch.Usuario) == "" {
			respond.Error(w, r, core.ErrValidation("usuario cannot be empty"))
			return
		}
		if patch.LinkImagen != nil && strings.TrimSpace(*patch.LinkImagen) == "" {
			respond.Error(w, r, core.ErrValidation("link_imagen cannot be empty"))
			return
		}

		updated, err := store.Update(r.Context(), id, patch)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		logrus.WithFields(logrus.Fields{
			"post_id": id,
			"user":    post.Usuario,
		}).Debug("Post modified by owner")
		respond.JSON(w, r, http.StatusOK, updated)
	}
}

// HandleDelete removes a post owned by the caller.
func HandleDelete(store core.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := postID(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		post, err := store.FindID(r.Context(), id)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		if err := authorize(r, post, "delete"); err != nil {
			respond.Error(w, r, err)
			return
		}

		if err := store.Delete(r.Context(), id); err != nil {
			respond.Error(w, r, err)
			return
		}

		logrus.WithFields(logrus.Fields{
			"post_id": id,
			"user":    post.Usuario,
		}).Debug("Post deleted by owner")
		w.WriteHeader(http.StatusNoContent)
	}
}
