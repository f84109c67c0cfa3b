package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pinboard-server/core"
	"pinboard-server/observability"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

const (
	// DriverPure is the cgo-free modernc.org/sqlite driver.
	DriverPure = "sqlite"
	// DriverCGO is the mattn/go-sqlite3 driver.
	DriverCGO = "sqlite3"
)

const postsTable = `CREATE TABLE IF NOT EXISTS posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	usuario TEXT NOT NULL,
	link_imagen TEXT NOT NULL,
	fecha_alta TEXT NOT NULL,
	etiquetas TEXT
);`

const selectPost = "SELECT id, usuario, link_imagen, fecha_alta, etiquetas FROM posts"

type postStore struct {
	db *sqlx.DB
}

// postRow is a raw row of the posts table.
type postRow struct {
	ID         int64          `db:"id"`
	Usuario    string         `db:"usuario"`
	LinkImagen string         `db:"link_imagen"`
	FechaAlta  string         `db:"fecha_alta"`
	Etiquetas  sql.NullString `db:"etiquetas"`
}

func (r postRow) toPost() (*core.Post, error) {
	fechaAlta, err := core.ParseTimestamp(r.FechaAlta)
	if err != nil {
		return nil, err
	}
	etiquetas, err := core.DeserializeTags(r.Etiquetas.String)
	if err != nil {
		return nil, err
	}
	return &core.Post{
		ID:         r.ID,
		Usuario:    r.Usuario,
		LinkImagen: r.LinkImagen,
		FechaAlta:  fechaAlta,
		Etiquetas:  etiquetas,
	}, nil
}

// NewPostStore opens the database file, creating its directory and the posts table
// when missing.
func NewPostStore(driverName, dataSourceName string) (core.PostStore, error) {
	if err := ensureDir(dataSourceName); err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverName, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// The file store serializes writers anyway; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(postsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create posts table: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"driver":         driverName,
		"dataSourceName": dataSourceName,
	}).Debug("Posts table ready")
	return &postStore{db: db}, nil
}

func ensureDir(dataSourceName string) error {
	path := strings.TrimPrefix(dataSourceName, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database directory %s: %w", dir, err)
	}
	return nil
}

func (s *postStore) Insert(ctx context.Context, post *core.NewPost) (int64, error) {
	defer observability.TrackQuery("insert")()

	log := logrus.WithField("usuario", post.Usuario)
	etiquetas, err := core.SerializeTags(post.Etiquetas)
	if err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO posts (usuario, link_imagen, fecha_alta, etiquetas) VALUES (?, ?, ?, ?)",
		post.Usuario, post.LinkImagen, core.FormatTimestamp(post.FechaAlta), etiquetas)
	if err != nil {
		log.WithError(err).Error("Failed to create post")
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	log.WithField("post_id", id).Info("Post created successfully")
	return id, nil
}

func (s *postStore) FindID(ctx context.Context, id int64) (*core.Post, error) {
	defer observability.TrackQuery("find")()

	log := logrus.WithField("post_id", id)
	log.Debug("Retrieving post by ID")

	var row postRow
	err := s.db.GetContext(ctx, &row, selectPost+" WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("Post with specified ID not found")
			return nil, core.ErrNotFound("Post not found")
		}
		log.WithError(err).Error("Failed to retrieve post")
		return nil, err
	}
	return row.toPost()
}

func (s *postStore) List(ctx context.Context, query core.ListQuery) ([]core.Post, error) {
	defer observability.TrackQuery("list")()

	stmt := selectPost
	var args []any
	if query.MinDate != "" {
		stmt += " WHERE fecha_alta > ?"
		args = append(args, query.MinDate)
	}
	stmt += " ORDER BY fecha_alta DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, query.Limit, query.Offset)

	var rows []postRow
	if err := s.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		logrus.WithError(err).Error("Failed to list posts")
		return nil, err
	}

	posts := make([]core.Post, 0, len(rows))
	for _, row := range rows {
		post, err := row.toPost()
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, nil
}

func (s *postStore) Count(ctx context.Context, minDate string) (int, error) {
	defer observability.TrackQuery("count")()

	stmt := "SELECT COUNT(*) FROM posts"
	var args []any
	if minDate != "" {
		stmt += " WHERE fecha_alta > ?"
		args = append(args, minDate)
	}

	var count int
	if err := s.db.GetContext(ctx, &count, stmt, args...); err != nil {
		logrus.WithError(err).Error("Failed to count posts")
		return 0, err
	}
	return count, nil
}

func (s *postStore) Update(ctx context.Context, id int64, patch core.PostPatch) (*core.Post, error) {
	defer observability.TrackQuery("update")()

	log := logrus.WithField("post_id", id)

	var sets []string
	var args []any
	if patch.Usuario != nil {
		sets = append(sets, "usuario = ?")
		args = append(args, *patch.Usuario)
	}
	if patch.LinkImagen != nil {
		sets = append(sets, "link_imagen = ?")
		args = append(args, *patch.LinkImagen)
	}
	if patch.Etiquetas != nil {
		etiquetas, err := core.SerializeTags(*patch.Etiquetas)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "etiquetas = ?")
		args = append(args, etiquetas)
	}
	if len(sets) == 0 {
		return nil, core.ErrValidation("No fields provided to update")
	}
	args = append(args, id)

	result, err := s.db.ExecContext(ctx, "UPDATE posts SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		log.WithError(err).Error("Failed to update post")
		return nil, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, core.ErrNotFound("Post not found")
	}

	log.Info("Post updated successfully")
	return s.FindID(ctx, id)
}

func (s *postStore) Delete(ctx context.Context, id int64) error {
	defer observability.TrackQuery("delete")()

	log := logrus.WithField("post_id", id)
	result, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		log.WithError(err).Error("Failed to delete post")
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return core.ErrNotFound("Post not found")
	}

	log.Info("Post deleted successfully")
	return nil
}

func (s *postStore) Close() error {
	return s.db.Close()
}
