package memory

import (
	"context"
	"sort"
	"sync"

	"pinboard-server/core"

	"github.com/sirupsen/logrus"
)

type postStore struct {
	mu     sync.RWMutex
	posts  map[int64]core.Post
	lastID int64
}

func NewPostStore() core.PostStore {
	return &postStore{
		posts: make(map[int64]core.Post),
	}
}

func clonePost(p core.Post) core.Post {
	p.Etiquetas = append([]string{}, p.Etiquetas...)
	return p
}

func (s *postStore) Insert(ctx context.Context, post *core.NewPost) (int64, error) {
	s.mu.Lock()
	s.lastID++
	id := s.lastID
	s.posts[id] = clonePost(core.Post{
		ID:         id,
		Usuario:    post.Usuario,
		LinkImagen: post.LinkImagen,
		FechaAlta:  post.FechaAlta.UTC(),
		Etiquetas:  post.Etiquetas,
	})
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"post_id": id,
		"usuario": post.Usuario,
	}).Info("Post created successfully")
	return id, nil
}

func (s *postStore) FindID(ctx context.Context, id int64) (*core.Post, error) {
	s.mu.RLock()
	post, ok := s.posts[id]
	s.mu.RUnlock()

	if !ok {
		logrus.WithField("post_id", id).Debug("Post with specified ID not found")
		return nil, core.ErrNotFound("Post not found")
	}
	post = clonePost(post)
	return &post, nil
}

// matching returns posts newer than minDate, newest first. Callers hold the lock.
func (s *postStore) matching(minDate string) []core.Post {
	posts := make([]core.Post, 0, len(s.posts))
	for _, post := range s.posts {
		if minDate != "" && core.FormatTimestamp(post.FechaAlta) <= minDate {
			continue
		}
		posts = append(posts, post)
	}

	sort.Slice(posts, func(i, j int) bool {
		if posts[i].FechaAlta.Equal(posts[j].FechaAlta) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].FechaAlta.After(posts[j].FechaAlta)
	})
	return posts
}

func (s *postStore) List(ctx context.Context, query core.ListQuery) ([]core.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := s.matching(query.MinDate)
	if query.Offset >= len(posts) {
		return []core.Post{}, nil
	}
	end := len(posts)
	if query.Limit >= 0 && query.Offset+query.Limit < end {
		end = query.Offset + query.Limit
	}

	page := make([]core.Post, 0, end-query.Offset)
	for _, post := range posts[query.Offset:end] {
		page = append(page, clonePost(post))
	}
	return page, nil
}

func (s *postStore) Count(ctx context.Context, minDate string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.matching(minDate)), nil
}

func (s *postStore) Update(ctx context.Context, id int64, patch core.PostPatch) (*core.Post, error) {
	if patch.Empty() {
		return nil, core.ErrValidation("No fields provided to update")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, core.ErrNotFound("Post not found")
	}
	if patch.Usuario != nil {
		post.Usuario = *patch.Usuario
	}
	if patch.LinkImagen != nil {
		post.LinkImagen = *patch.LinkImagen
	}
	if patch.Etiquetas != nil {
		post.Etiquetas = *patch.Etiquetas
	}
	post = clonePost(post)
	s.posts[id] = post

	logrus.WithField("post_id", id).Info("Post updated successfully")
	post = clonePost(post)
	return &post, nil
}

func (s *postStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return core.ErrNotFound("Post not found")
	}
	delete(s.posts, id)

	logrus.WithField("post_id", id).Info("Post deleted successfully")
	return nil
}

func (s *postStore) Close() error {
	return nil
}
