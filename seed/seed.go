// Package seed fills a post store with fake posts for local development.
package seed

import (
	"context"
	"fmt"
	"time"

	"pinboard-server/core"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/sirupsen/logrus"
)

// Seeder builds fake posts from a seeded faker, so runs with the same seed
// produce the same users, links and tags.
type Seeder struct {
	faker *gofakeit.Faker
	users []string
}

func New(seed int64) *Seeder {
	faker := gofakeit.New(seed)
	users := make([]string, 5)
	for i := range users {
		users[i] = faker.Username()
	}
	return &Seeder{faker: faker, users: users}
}

// NewPost returns a post created at the given time by one of the seeder's users.
func (s *Seeder) NewPost(at time.Time) *core.NewPost {
	tags := make([]string, s.faker.Number(0, 4))
	for i := range tags {
		tags[i] = s.faker.Word()
	}
	return &core.NewPost{
		Usuario:    s.users[s.faker.Number(0, len(s.users)-1)],
		LinkImagen: fmt.Sprintf("https://picsum.photos/seed/%s/800/800", s.faker.UUID()),
		FechaAlta:  at,
		Etiquetas:  tags,
	}
}

// Posts inserts n posts one minute apart, the newest stamped now.
func (s *Seeder) Posts(ctx context.Context, store core.PostStore, n int) ([]int64, error) {
	now := core.Now()
	ids := make([]int64, 0, n)
	for i := n - 1; i >= 0; i-- {
		post := s.NewPost(now.Add(-time.Duration(i) * time.Minute))
		id, err := store.Insert(ctx, post)
		if err != nil {
			return ids, fmt.Errorf("insert seed post: %w", err)
		}
		ids = append(ids, id)
		logrus.WithFields(logrus.Fields{
			"id":      id,
			"usuario": post.Usuario,
		}).Debug("Seeded post")
	}
	return ids, nil
}
