package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clipstream/backend/internal/db"
	"github.com/clipstream/backend/internal/models"
)

const playlistColumns = `p.id, p.name, p.description, p.owner_id, p.visibility, p.created_at, p.updated_at,
        (SELECT COUNT(*) FROM playlist_likes pl WHERE pl.playlist_id = p.id)`

// PostgresPlaylistRepository provides PostgreSQL-backed persistence for playlists.
type PostgresPlaylistRepository struct {
	pool db.Pool
}

// NewPostgresPlaylistRepository constructs a playlist repository backed by PostgreSQL.
func NewPostgresPlaylistRepository(pool db.Pool) *PostgresPlaylistRepository {
	return &PostgresPlaylistRepository{pool: pool}
}

// Create stores a new playlist. A second playlist with the same name for the
// same owner is a conflict.
func (r *PostgresPlaylistRepository) Create(ctx context.Context, playlist models.Playlist) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO playlists (id, name, description, owner_id, visibility, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, playlist.ID, playlist.Name, playlist.Description, playlist.OwnerID, playlist.Visibility, playlist.CreatedAt, playlist.UpdatedAt)
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
		return fmt.Errorf("insert playlist: %w", err)
	}

	return nil
}

func scanPlaylist(row scanner) (models.Playlist, error) {
	var p models.Playlist
	owner := ownerRow{}

	dest := []any{&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.Visibility, &p.CreatedAt, &p.UpdatedAt, &p.LikeCount}
	dest = append(dest, owner.fields()...)

	if err := row.Scan(dest...); err != nil {
		return models.Playlist{}, err
	}

	p.CreatedBy = owner.summary()
	return p, nil
}

// FindByID fetches a playlist with its owner projection and contained videos,
// each video carrying its own owner projection.
func (r *PostgresPlaylistRepository) FindByID(ctx context.Context, id string) (models.Playlist, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+playlistColumns+`, `+ownerColumns+`
        FROM playlists p
        LEFT JOIN accounts a ON a.id = p.owner_id
        WHERE p.id = $1
    `, id)

	playlist, err := scanPlaylist(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Playlist{}, ErrNotFound
		}
		return models.Playlist{}, fmt.Errorf("select playlist: %w", err)
	}

	playlist.Videos, err = loadPlaylistVideos(ctx, conn, playlist.ID)
	if err != nil {
		return models.Playlist{}, err
	}

	return playlist, nil
}

// ListByOwner returns every playlist owned by an account, fully projected.
func (r *PostgresPlaylistRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Playlist, error) {
	return r.list(ctx, `WHERE p.owner_id = $1`, ownerID)
}

// ListByVisibility returns playlists at the given access tier, newest first.
func (r *PostgresPlaylistRepository) ListByVisibility(ctx context.Context, visibility models.Visibility) ([]models.Playlist, error) {
	return r.list(ctx, `WHERE p.visibility = $1`, string(visibility))
}

func (r *PostgresPlaylistRepository) list(ctx context.Context, where string, arg any) ([]models.Playlist, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+playlistColumns+`, `+ownerColumns+`
        FROM playlists p
        LEFT JOIN accounts a ON a.id = p.owner_id
        `+where+`
        ORDER BY p.created_at DESC
    `, arg)
	if err != nil {
		return nil, fmt.Errorf("query playlists: %w", err)
	}

	var playlists []models.Playlist
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	rows.Close()

	for i := range playlists {
		playlists[i].Videos, err = loadPlaylistVideos(ctx, conn, playlists[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return playlists, nil
}

func loadPlaylistVideos(ctx context.Context, conn *pgxpool.Conn, playlistID string) ([]models.Video, error) {
	rows, err := conn.Query(ctx, `
        SELECT `+videoColumns+`, `+ownerColumns+`
        FROM playlist_videos pv
        JOIN videos v ON v.id = pv.video_id
        LEFT JOIN accounts a ON a.id = v.owner_id
        WHERE pv.playlist_id = $1
        ORDER BY pv.position ASC
    `, playlistID)
	if err != nil {
		return nil, fmt.Errorf("query playlist videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan playlist video: %w", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlist videos: %w", err)
	}

	return videos, nil
}

// Update replaces the name and description of an existing playlist.
func (r *PostgresPlaylistRepository) Update(ctx context.Context, id, name, description string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE playlists
        SET name = $2, description = $3, updated_at = NOW()
        WHERE id = $1
    `, id, name, description)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("update playlist: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateVisibility changes the access tier of an existing playlist.
func (r *PostgresPlaylistRepository) UpdateVisibility(ctx context.Context, id string, visibility models.Visibility) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE playlists
        SET visibility = $2, updated_at = NOW()
        WHERE id = $1
    `, id, string(visibility))
	if err != nil {
		return fmt.Errorf("update playlist visibility: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a playlist along with its membership and like rows.
func (r *PostgresPlaylistRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// AddVideo appends a video to the end of a playlist. Adding a video that is
// already a member is a conflict; a missing video or playlist is not found.
func (r *PostgresPlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO playlist_videos (playlist_id, video_id, position)
        VALUES ($1, $2, (SELECT COALESCE(MAX(position) + 1, 0) FROM playlist_videos WHERE playlist_id = $1))
    `, playlistID, videoID)
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
		return fmt.Errorf("insert playlist video: %w", err)
	}

	return nil
}

// RemoveVideo removes a video from a playlist. Removing a video that is not
// a member reports not found.
func (r *PostgresPlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM playlist_videos
        WHERE playlist_id = $1 AND video_id = $2
    `, playlistID, videoID)
	if err != nil {
		return fmt.Errorf("delete playlist video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ToggleLike flips the liked state of a playlist for an account.
func (r *PostgresPlaylistRepository) ToggleLike(ctx context.Context, playlistID, accountID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM playlist_likes
        WHERE playlist_id = $1 AND account_id = $2
    `, playlistID, accountID)
	if err != nil {
		return false, fmt.Errorf("delete playlist like: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO playlist_likes (playlist_id, account_id, created_at)
        VALUES ($1, $2, $3)
    `, playlistID, accountID, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return false, ErrConflict
			case "23503":
				return false, ErrNotFound
			}
		}
		return false, fmt.Errorf("insert playlist like: %w", err)
	}

	return true, nil
}
