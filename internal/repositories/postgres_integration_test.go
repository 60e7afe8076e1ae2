package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/cockroachdb/cockroach-go/v2/testserver"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/models"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	server, err := testserver.NewTestServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start cockroach test server: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, server.PGURL().String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to cockroach test server: %v\n", err)
		server.Stop()
		os.Exit(1)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "apply migrations: %v\n", err)
		pool.Close()
		server.Stop()
		os.Exit(1)
	}

	testPool = pool

	code := m.Run()

	pool.Close()
	server.Stop()

	os.Exit(code)
}

func TestPostgresAccountRepository_CreateFindAndUpdate(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresAccountRepository(testPool)

	account := models.Account{
		ID:        uuid.NewString(),
		Username:  "ada",
		FullName:  "Ada Lovelace",
		Email:     "ada@example.com",
		Avatar:    "https://media.local/avatars/ada.png",
		Password:  "secret-hash",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("create account: %v", err)
	}

	dup := account
	dup.ID = uuid.NewString()
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate username/email, got %v", err)
	}

	byEmail, err := repo.FindByLogin(ctx, account.Email, "")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail.ID != account.ID {
		t.Fatalf("unexpected account fetched: %+v", byEmail)
	}

	byUsername, err := repo.FindByLogin(ctx, "", account.Username)
	if err != nil {
		t.Fatalf("find by username: %v", err)
	}
	if byUsername.ID != account.ID {
		t.Fatalf("unexpected account fetched: %+v", byUsername)
	}

	updated := account
	updated.FullName = "Augusta Ada King"
	updated.UpdatedAt = time.Now().UTC()
	if err := repo.Update(ctx, updated); err != nil {
		t.Fatalf("update account: %v", err)
	}

	fetched, err := repo.FindByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if fetched.FullName != updated.FullName {
		t.Fatalf("expected updated name to persist, got %+v", fetched)
	}

	if _, err := repo.FindByID(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown account, got %v", err)
	}
}

func TestPostgresVideoRepository_ListFilterAndPaginate(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	accountRepo := NewPostgresAccountRepository(testPool)
	owner := createTestAccount(t, accountRepo, "owner")
	other := createTestAccount(t, accountRepo, "other")

	repo := NewPostgresVideoRepository(testPool)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		video := models.Video{
			ID:           uuid.NewString(),
			Title:        fmt.Sprintf("go tutorial %d", i),
			Description:  "learning",
			VideoURL:     fmt.Sprintf("https://media.local/videos/%d.mp4", i),
			VideoKey:     fmt.Sprintf("videos/%d.mp4", i),
			ThumbnailURL: fmt.Sprintf("https://media.local/thumbnails/%d.png", i),
			ThumbnailKey: fmt.Sprintf("thumbnails/%d.png", i),
			Duration:     float64(60 + i),
			Published:    true,
			OwnerID:      owner.ID,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(ctx, video); err != nil {
			t.Fatalf("create video %d: %v", i, err)
		}
	}
	stray := models.Video{
		ID:           uuid.NewString(),
		Title:        "cooking show",
		Description:  "dinner",
		VideoURL:     "https://media.local/videos/stray.mp4",
		VideoKey:     "videos/stray.mp4",
		ThumbnailURL: "https://media.local/thumbnails/stray.png",
		ThumbnailKey: "thumbnails/stray.png",
		Published:    true,
		OwnerID:      other.ID,
		CreatedAt:    base.Add(30 * time.Minute),
	}
	if err := repo.Create(ctx, stray); err != nil {
		t.Fatalf("create stray video: %v", err)
	}

	videos, total, err := repo.List(ctx, VideoFilter{OwnerID: owner.ID}, 2, 0)
	if err != nil {
		t.Fatalf("list videos: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(videos) != 2 {
		t.Fatalf("expected page of 2, got %d", len(videos))
	}
	if videos[0].CreatedAt.Before(videos[1].CreatedAt) {
		t.Fatalf("expected newest-first default ordering, got %+v", videos)
	}
	if videos[0].CreatedBy == nil || videos[0].CreatedBy.Username != owner.Username {
		t.Fatalf("expected owner projection, got %+v", videos[0].CreatedBy)
	}

	matched, total, err := repo.List(ctx, VideoFilter{Query: "tutorial"}, 10, 0)
	if err != nil {
		t.Fatalf("list by query: %v", err)
	}
	if total != 5 || len(matched) != 5 {
		t.Fatalf("expected 5 matching videos, got total=%d len=%d", total, len(matched))
	}

	sorted, _, err := repo.List(ctx, VideoFilter{OwnerID: owner.ID, SortBy: "duration", SortAsc: true}, 10, 0)
	if err != nil {
		t.Fatalf("list sorted: %v", err)
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Duration > sorted[i].Duration {
			t.Fatalf("expected ascending durations, got %+v", sorted)
		}
	}
}

func TestPostgresLikeRepository_ToggleIsInvolution(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	accountRepo := NewPostgresAccountRepository(testPool)
	owner := createTestAccount(t, accountRepo, "owner")
	liker := createTestAccount(t, accountRepo, "liker")

	videoRepo := NewPostgresVideoRepository(testPool)
	video := createTestVideo(t, videoRepo, owner.ID, "clip")

	repo := NewPostgresLikeRepository(testPool)
	target, err := models.NewLikeTarget(models.LikeTargetVideo, video.ID)
	if err != nil {
		t.Fatalf("build like target: %v", err)
	}

	liked, err := repo.Toggle(ctx, liker.ID, target)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !liked {
		t.Fatal("first toggle should like")
	}

	likedVideos, err := repo.ListLikedVideos(ctx, liker.ID)
	if err != nil {
		t.Fatalf("list liked videos: %v", err)
	}
	if len(likedVideos) != 1 || likedVideos[0].ID != video.ID {
		t.Fatalf("unexpected liked videos: %+v", likedVideos)
	}

	liked, err = repo.Toggle(ctx, liker.ID, target)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if liked {
		t.Fatal("second toggle should unlike")
	}

	likedVideos, err = repo.ListLikedVideos(ctx, liker.ID)
	if err != nil {
		t.Fatalf("list liked videos after unlike: %v", err)
	}
	if len(likedVideos) != 0 {
		t.Fatalf("expected no liked videos, got %+v", likedVideos)
	}

	ghost, _ := models.NewLikeTarget(models.LikeTargetVideo, uuid.NewString())
	if _, err := repo.Toggle(ctx, liker.ID, ghost); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound liking a missing video, got %v", err)
	}
}

func TestPostgresSubscriptionRepository_ToggleAndList(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	accountRepo := NewPostgresAccountRepository(testPool)
	channel := createTestAccount(t, accountRepo, "channel")
	fan := createTestAccount(t, accountRepo, "fan")

	repo := NewPostgresSubscriptionRepository(testPool)

	subscribed, err := repo.Toggle(ctx, fan.ID, channel.ID)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if !subscribed {
		t.Fatal("first toggle should subscribe")
	}

	subscribers, err := repo.ListSubscribers(ctx, channel.ID)
	if err != nil {
		t.Fatalf("list subscribers: %v", err)
	}
	if len(subscribers) != 1 || subscribers[0].ID != fan.ID {
		t.Fatalf("unexpected subscribers: %+v", subscribers)
	}

	channels, err := repo.ListSubscribedChannels(ctx, fan.ID)
	if err != nil {
		t.Fatalf("list subscribed channels: %v", err)
	}
	if len(channels) != 1 || channels[0].ID != channel.ID {
		t.Fatalf("unexpected channels: %+v", channels)
	}

	subscribed, err = repo.Toggle(ctx, fan.ID, channel.ID)
	if err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if subscribed {
		t.Fatal("second toggle should unsubscribe")
	}
}

func TestPostgresPlaylistRepository_MembershipLifecycle(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	accountRepo := NewPostgresAccountRepository(testPool)
	owner := createTestAccount(t, accountRepo, "owner")

	videoRepo := NewPostgresVideoRepository(testPool)
	first := createTestVideo(t, videoRepo, owner.ID, "first")
	second := createTestVideo(t, videoRepo, owner.ID, "second")

	repo := NewPostgresPlaylistRepository(testPool)
	playlist := models.Playlist{
		ID:          uuid.NewString(),
		Name:        "Favorites",
		Description: "Best clips",
		OwnerID:     owner.ID,
		Visibility:  models.VisibilityPublic,
		CreatedAt:   time.Now().UTC(),
	}
	if err := repo.Create(ctx, playlist); err != nil {
		t.Fatalf("create playlist: %v", err)
	}

	samename := playlist
	samename.ID = uuid.NewString()
	if err := repo.Create(ctx, samename); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate playlist name, got %v", err)
	}

	if err := repo.AddVideo(ctx, playlist.ID, first.ID); err != nil {
		t.Fatalf("add first video: %v", err)
	}
	if err := repo.AddVideo(ctx, playlist.ID, second.ID); err != nil {
		t.Fatalf("add second video: %v", err)
	}
	if err := repo.AddVideo(ctx, playlist.ID, first.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate membership, got %v", err)
	}

	fetched, err := repo.FindByID(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("fetch playlist: %v", err)
	}
	if len(fetched.Videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(fetched.Videos))
	}
	if fetched.Videos[0].ID != first.ID || fetched.Videos[1].ID != second.ID {
		t.Fatalf("expected insertion order preserved, got %+v", fetched.Videos)
	}

	if err := repo.RemoveVideo(ctx, playlist.ID, first.ID); err != nil {
		t.Fatalf("remove first video: %v", err)
	}
	if err := repo.RemoveVideo(ctx, playlist.ID, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound removing twice, got %v", err)
	}

	liked, err := repo.ToggleLike(ctx, playlist.ID, owner.ID)
	if err != nil {
		t.Fatalf("like playlist: %v", err)
	}
	if !liked {
		t.Fatal("first like toggle should like")
	}

	fetched, err = repo.FindByID(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("fetch playlist after like: %v", err)
	}
	if fetched.LikeCount != 1 {
		t.Fatalf("expected like count 1, got %d", fetched.LikeCount)
	}

	if err := repo.UpdateVisibility(ctx, playlist.ID, models.VisibilityUnlisted); err != nil {
		t.Fatalf("update visibility: %v", err)
	}
	unlisted, err := repo.ListByVisibility(ctx, models.VisibilityUnlisted)
	if err != nil {
		t.Fatalf("list by visibility: %v", err)
	}
	if len(unlisted) != 1 || unlisted[0].ID != playlist.ID {
		t.Fatalf("unexpected unlisted playlists: %+v", unlisted)
	}
}

func TestPostgresStatsRepository_EmptyChannelReportsZeroes(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	accountRepo := NewPostgresAccountRepository(testPool)
	channel := createTestAccount(t, accountRepo, "quiet")

	repo := NewPostgresStatsRepository(testPool)

	stats, err := repo.ChannelStats(ctx, channel.ID)
	if err != nil {
		t.Fatalf("channel stats: %v", err)
	}
	if stats.TotalVideos != 0 || stats.TotalSubscribers != 0 || stats.TotalViews != 0 || stats.TotalLikes != 0 {
		t.Fatalf("expected zeroed stats, got %+v", stats)
	}

	tweetStats, err := repo.TweetStats(ctx, channel.ID)
	if err != nil {
		t.Fatalf("tweet stats: %v", err)
	}
	if tweetStats.TotalTweets != 0 || tweetStats.TotalTweetLikes != 0 || tweetStats.TotalRetweets != 0 {
		t.Fatalf("expected zeroed tweet stats, got %+v", tweetStats)
	}
}

func TestPostgresStatsRepository_AggregatesChannelActivity(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	accountRepo := NewPostgresAccountRepository(testPool)
	channel := createTestAccount(t, accountRepo, "busy")
	fan := createTestAccount(t, accountRepo, "fan")

	videoRepo := NewPostgresVideoRepository(testPool)
	video := createTestVideo(t, videoRepo, channel.ID, "hit")

	if _, err := NewPostgresSubscriptionRepository(testPool).Toggle(ctx, fan.ID, channel.ID); err != nil {
		t.Fatalf("subscribe fan: %v", err)
	}

	likeRepo := NewPostgresLikeRepository(testPool)
	target, _ := models.NewLikeTarget(models.LikeTargetVideo, video.ID)
	if _, err := likeRepo.Toggle(ctx, fan.ID, target); err != nil {
		t.Fatalf("like video: %v", err)
	}

	tweetRepo := NewPostgresTweetRepository(testPool)
	tweet := models.Tweet{ID: uuid.NewString(), Content: "announcement", OwnerID: channel.ID, CreatedAt: time.Now().UTC()}
	if err := tweetRepo.Create(ctx, tweet); err != nil {
		t.Fatalf("create tweet: %v", err)
	}
	tweetTarget, _ := models.NewLikeTarget(models.LikeTargetTweet, tweet.ID)
	if _, err := likeRepo.Toggle(ctx, fan.ID, tweetTarget); err != nil {
		t.Fatalf("like tweet: %v", err)
	}

	repo := NewPostgresStatsRepository(testPool)

	stats, err := repo.ChannelStats(ctx, channel.ID)
	if err != nil {
		t.Fatalf("channel stats: %v", err)
	}
	if stats.TotalVideos != 1 || stats.TotalSubscribers != 1 || stats.TotalLikes != 1 {
		t.Fatalf("unexpected channel stats: %+v", stats)
	}

	tweetStats, err := repo.TweetStats(ctx, channel.ID)
	if err != nil {
		t.Fatalf("tweet stats: %v", err)
	}
	if tweetStats.TotalTweets != 1 || tweetStats.TotalTweetLikes != 1 {
		t.Fatalf("unexpected tweet stats: %+v", tweetStats)
	}
}

func TestPostgresCommentRepository_ListByVideo(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	accountRepo := NewPostgresAccountRepository(testPool)
	owner := createTestAccount(t, accountRepo, "owner")
	commenter := createTestAccount(t, accountRepo, "commenter")

	videoRepo := NewPostgresVideoRepository(testPool)
	video := createTestVideo(t, videoRepo, owner.ID, "discussed")

	repo := NewPostgresCommentRepository(testPool)
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		comment := models.Comment{
			ID:        uuid.NewString(),
			Content:   fmt.Sprintf("comment %d", i),
			VideoID:   video.ID,
			OwnerID:   commenter.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(ctx, comment); err != nil {
			t.Fatalf("create comment %d: %v", i, err)
		}
	}

	comments, total, err := repo.ListByVideo(ctx, video.ID, 2, 0)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if total != 3 || len(comments) != 2 {
		t.Fatalf("unexpected page: total=%d len=%d", total, len(comments))
	}
	if comments[0].CreatedAt.Before(comments[1].CreatedAt) {
		t.Fatalf("expected newest-first ordering, got %+v", comments)
	}
	if comments[0].CreatedBy == nil || comments[0].CreatedBy.Username != commenter.Username {
		t.Fatalf("expected owner projection on comments, got %+v", comments[0].CreatedBy)
	}

	orphan := models.Comment{
		ID:        uuid.NewString(),
		Content:   "dangling",
		VideoID:   uuid.NewString(),
		OwnerID:   commenter.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, orphan); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for comment on missing video, got %v", err)
	}
}

func TestPostgresSessionStore_SaveFindAndDelete(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	accountRepo := NewPostgresAccountRepository(testPool)
	account := createTestAccount(t, accountRepo, "holder")

	store := NewPostgresSessionStore(testPool)
	session := auth.Session{
		Token:     uuid.NewString(),
		UserID:    account.ID,
		Kind:      auth.KindRefresh,
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
	}

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save session: %v", err)
	}

	loaded, err := store.Find(ctx, session.Token)
	if err != nil {
		t.Fatalf("find session: %v", err)
	}
	if loaded.UserID != session.UserID || loaded.Kind != auth.KindRefresh {
		t.Fatalf("unexpected session: %+v", loaded)
	}

	rotated := session
	rotated.ExpiresAt = session.ExpiresAt.Add(24 * time.Hour)
	if err := store.Save(ctx, rotated); err != nil {
		t.Fatalf("update session: %v", err)
	}

	if err := store.Delete(ctx, session.Token); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := store.Find(ctx, session.Token); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, session.Token); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound deleting twice, got %v", err)
	}
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir := filepath.Join("..", "..", "migrations")
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(migrationsDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		if _, err := pool.Exec(ctx, string(contents)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func resetDatabase(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	conn, err := testPool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire connection: %v", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "TRUNCATE TABLE playlist_likes, playlist_videos, playlists, subscriptions, likes, tweets, comments, videos, sessions, accounts CASCADE"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func createTestAccount(t *testing.T, repo *PostgresAccountRepository, username string) models.Account {
	t.Helper()
	account := models.Account{
		ID:        uuid.NewString(),
		Username:  username,
		FullName:  username,
		Email:     username + "@example.com",
		Password:  "password-hash",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), account); err != nil {
		t.Fatalf("create test account: %v", err)
	}
	return account
}

func createTestVideo(t *testing.T, repo *PostgresVideoRepository, ownerID, title string) models.Video {
	t.Helper()
	video := models.Video{
		ID:           uuid.NewString(),
		Title:        title,
		Description:  "test video",
		VideoURL:     "https://media.local/videos/" + title + ".mp4",
		VideoKey:     "videos/" + title + ".mp4",
		ThumbnailURL: "https://media.local/thumbnails/" + title + ".png",
		ThumbnailKey: "thumbnails/" + title + ".png",
		Duration:     42,
		Published:    true,
		OwnerID:      ownerID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), video); err != nil {
		t.Fatalf("create test video: %v", err)
	}
	return video
}
