package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clipstream/backend/internal/db"
	"github.com/clipstream/backend/internal/models"
)

// VideoFilter narrows and orders video listings. Zero fields are ignored so
// the empty filter lists everything, newest first.
type VideoFilter struct {
	Query   string
	OwnerID string
	SortBy  string
	SortAsc bool
}

var videoSortColumns = map[string]string{
	"createdAt": "v.created_at",
	"title":     "v.title",
	"duration":  "v.duration",
	"views":     "v.views",
}

func (f VideoFilter) orderBy() string {
	column, ok := videoSortColumns[f.SortBy]
	if !ok {
		column = "v.created_at"
	}
	direction := "DESC"
	if f.SortAsc {
		direction = "ASC"
	}
	return " ORDER BY " + column + " " + direction
}

// where renders the filter as a WHERE clause with positional args starting at $1.
func (f VideoFilter) where() (string, []any) {
	var clauses []string
	var args []any

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		n := strconv.Itoa(len(args))
		clauses = append(clauses, "(v.title ILIKE $"+n+" OR v.description ILIKE $"+n+")")
	}
	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		clauses = append(clauses, "v.owner_id = $"+strconv.Itoa(len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

const videoColumns = `v.id, v.title, v.description, v.video_url, v.video_key, v.thumbnail_url, v.thumbnail_key,
        v.duration, v.views, v.published, v.owner_id, v.created_at, v.updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(row scanner) (models.Video, error) {
	var v models.Video
	owner := ownerRow{}

	dest := []any{&v.ID, &v.Title, &v.Description, &v.VideoURL, &v.VideoKey, &v.ThumbnailURL, &v.ThumbnailKey,
		&v.Duration, &v.Views, &v.Published, &v.OwnerID, &v.CreatedAt, &v.UpdatedAt}
	dest = append(dest, owner.fields()...)

	if err := row.Scan(dest...); err != nil {
		return models.Video{}, err
	}

	v.CreatedBy = owner.summary()
	return v, nil
}

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Create stores a new video record.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, title, description, video_url, video_key, thumbnail_url, thumbnail_key,
                            duration, views, published, owner_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `, video.ID, video.Title, video.Description, video.VideoURL, video.VideoKey, video.ThumbnailURL, video.ThumbnailKey,
		video.Duration, video.Views, video.Published, video.OwnerID, video.CreatedAt, video.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

// FindByID fetches a video with its owner projection.
func (r *PostgresVideoRepository) FindByID(ctx context.Context, id string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+videoColumns+`, `+ownerColumns+`
        FROM videos v
        LEFT JOIN accounts a ON a.id = v.owner_id
        WHERE v.id = $1
    `, id)

	video, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("select video: %w", err)
	}

	return video, nil
}

// List returns a filtered, sorted page of videos plus the total match count.
func (r *PostgresVideoRepository) List(ctx context.Context, filter VideoFilter, limit, offset int) ([]models.Video, int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	where, args := filter.where()

	listArgs := append(append([]any{}, args...), limit, offset)
	limitParam := strconv.Itoa(len(args) + 1)
	offsetParam := strconv.Itoa(len(args) + 2)

	rows, err := conn.Query(ctx, `
        SELECT `+videoColumns+`, `+ownerColumns+`
        FROM videos v
        LEFT JOIN accounts a ON a.id = v.owner_id
    `+where+filter.orderBy()+` LIMIT $`+limitParam+` OFFSET $`+offsetParam, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate videos: %w", err)
	}

	var total int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM videos v`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	return videos, total, nil
}

// Update modifies the mutable fields of an existing video.
func (r *PostgresVideoRepository) Update(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET title = $2, description = $3, thumbnail_url = $4, thumbnail_key = $5, published = $6, updated_at = $7
        WHERE id = $1
    `, video.ID, video.Title, video.Description, video.ThumbnailURL, video.ThumbnailKey, video.Published, video.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a video record.
func (r *PostgresVideoRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
