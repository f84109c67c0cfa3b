package core

import (
	"context"
	"time"
)

type (
	// Post is an image submission on the board.
	Post struct {
		ID         int64     `json:"id"`
		Usuario    string    `json:"usuario"`
		LinkImagen string    `json:"link_imagen"`
		FechaAlta  time.Time `json:"fecha_alta"`
		Etiquetas  []string  `json:"etiquetas"`
	}

	// NewPost carries the fields of a post that is about to be inserted.
	// FechaAlta is stamped by the caller, never taken from a client.
	NewPost struct {
		Usuario    string
		LinkImagen string
		FechaAlta  time.Time
		Etiquetas  []string
	}

	// PostPatch is a partial update. Nil fields are left untouched.
	PostPatch struct {
		Usuario    *string   `json:"usuario"`
		LinkImagen *string   `json:"link_imagen"`
		Etiquetas  *[]string `json:"etiquetas"`
	}

	// ListQuery selects a page window of posts ordered by FechaAlta, newest first.
	ListQuery struct {
		MinDate string
		Limit   int
		Offset  int
	}

	PostStore interface {
		Insert(ctx context.Context, post *NewPost) (int64, error)
		FindID(ctx context.Context, id int64) (*Post, error)
		List(ctx context.Context, query ListQuery) ([]Post, error)
		Count(ctx context.Context, minDate string) (int, error)
		Update(ctx context.Context, id int64, patch PostPatch) (*Post, error)
		Delete(ctx context.Context, id int64) error
		Close() error
	}

	// UnsplashPhoto is the trimmed-down shape of a photo returned by discovery.
	UnsplashPhoto struct {
		ID             string  `json:"id"`
		URL            string  `json:"url"`
		Author         string  `json:"author"`
		AltDescription *string `json:"alt_description"`
	}

	PhotoGateway interface {
		Random(ctx context.Context, count int) ([]UnsplashPhoto, error)
	}
)

// Empty reports whether the patch carries no field at all.
func (p PostPatch) Empty() bool {
	return p.Usuario == nil && p.LinkImagen == nil && p.Etiquetas == nil
}
