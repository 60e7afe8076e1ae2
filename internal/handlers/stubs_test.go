package handlers

import (
	"context"
	"errors"

	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
	"github.com/clipstream/backend/internal/storage"
)

var errStub = errors.New("stub failure")

type accountStoreStub struct {
	accounts  map[string]models.Account
	created   []models.Account
	createErr error
	loginErr  error
}

func (s *accountStoreStub) Create(ctx context.Context, account models.Account) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, account)
	return nil
}

func (s *accountStoreStub) FindByID(ctx context.Context, id string) (models.Account, error) {
	if account, ok := s.accounts[id]; ok {
		return account, nil
	}
	return models.Account{}, repositories.ErrNotFound
}

func (s *accountStoreStub) FindByLogin(ctx context.Context, email, username string) (models.Account, error) {
	if s.loginErr != nil {
		return models.Account{}, s.loginErr
	}
	for _, account := range s.accounts {
		if (email != "" && account.Email == email) || (username != "" && account.Username == username) {
			return account, nil
		}
	}
	return models.Account{}, repositories.ErrNotFound
}

func (s *accountStoreStub) Update(ctx context.Context, account models.Account) error {
	if _, ok := s.accounts[account.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.accounts[account.ID] = account
	return nil
}

type sessionManagerStub struct {
	tokens   models.SessionTokens
	issueErr error
	actor    string
	authErr  error
	revoked  []string
}

func (s *sessionManagerStub) Issue(ctx context.Context, userID string) (models.SessionTokens, error) {
	return s.tokens, s.issueErr
}

func (s *sessionManagerStub) Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error) {
	return s.tokens, s.issueErr
}

func (s *sessionManagerStub) Authenticate(ctx context.Context, accessToken string) (string, error) {
	return s.actor, s.authErr
}

func (s *sessionManagerStub) Revoke(ctx context.Context, token string) {
	s.revoked = append(s.revoked, token)
}

type videoStoreStub struct {
	videos    map[string]models.Video
	listed    []models.Video
	total     int64
	created   []models.Video
	updated   []models.Video
	deleted   []string
	createErr error
	listErr   error
	updateErr error
	deleteErr error
}

func (s *videoStoreStub) Create(ctx context.Context, video models.Video) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, video)
	return nil
}

func (s *videoStoreStub) FindByID(ctx context.Context, id string) (models.Video, error) {
	if video, ok := s.videos[id]; ok {
		return video, nil
	}
	return models.Video{}, repositories.ErrNotFound
}

func (s *videoStoreStub) List(ctx context.Context, filter repositories.VideoFilter, limit, offset int) ([]models.Video, int64, error) {
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	return s.listed, s.total, nil
}

func (s *videoStoreStub) Update(ctx context.Context, video models.Video) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = append(s.updated, video)
	return nil
}

func (s *videoStoreStub) Delete(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type commentStoreStub struct {
	comments  map[string]models.Comment
	listed    []models.Comment
	total     int64
	created   []models.Comment
	updates   map[string]string
	deleted   []string
	createErr error
}

func (s *commentStoreStub) Create(ctx context.Context, comment models.Comment) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, comment)
	return nil
}

func (s *commentStoreStub) FindByID(ctx context.Context, id string) (models.Comment, error) {
	if comment, ok := s.comments[id]; ok {
		return comment, nil
	}
	return models.Comment{}, repositories.ErrNotFound
}

func (s *commentStoreStub) ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]models.Comment, int64, error) {
	return s.listed, s.total, nil
}

func (s *commentStoreStub) UpdateContent(ctx context.Context, id, content string) error {
	if s.updates == nil {
		s.updates = make(map[string]string)
	}
	s.updates[id] = content
	return nil
}

func (s *commentStoreStub) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type tweetStoreStub struct {
	tweets  map[string]models.Tweet
	listed  []models.Tweet
	total   int64
	created []models.Tweet
	updates map[string]string
	deleted []string
}

func (s *tweetStoreStub) Create(ctx context.Context, tweet models.Tweet) error {
	s.created = append(s.created, tweet)
	return nil
}

func (s *tweetStoreStub) FindByID(ctx context.Context, id string) (models.Tweet, error) {
	if tweet, ok := s.tweets[id]; ok {
		return tweet, nil
	}
	return models.Tweet{}, repositories.ErrNotFound
}

func (s *tweetStoreStub) ListByOwner(ctx context.Context, ownerID, sortBy string, sortAsc bool, limit, offset int) ([]models.Tweet, int64, error) {
	return s.listed, s.total, nil
}

func (s *tweetStoreStub) UpdateContent(ctx context.Context, id, content string) error {
	if s.updates == nil {
		s.updates = make(map[string]string)
	}
	s.updates[id] = content
	return nil
}

func (s *tweetStoreStub) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type likeStoreStub struct {
	liked     bool
	toggleErr error
	targets   []models.LikeTarget
	videos    []models.Video
	listErr   error
}

func (s *likeStoreStub) Toggle(ctx context.Context, likerID string, target models.LikeTarget) (bool, error) {
	if s.toggleErr != nil {
		return false, s.toggleErr
	}
	s.targets = append(s.targets, target)
	return s.liked, nil
}

func (s *likeStoreStub) ListLikedVideos(ctx context.Context, likerID string) ([]models.Video, error) {
	return s.videos, s.listErr
}

type subscriptionStoreStub struct {
	subscribed bool
	toggleErr  error
	pairs      [][2]string
	followers  []models.OwnerSummary
	channels   []models.OwnerSummary
}

func (s *subscriptionStoreStub) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	if s.toggleErr != nil {
		return false, s.toggleErr
	}
	s.pairs = append(s.pairs, [2]string{subscriberID, channelID})
	return s.subscribed, nil
}

func (s *subscriptionStoreStub) ListSubscribers(ctx context.Context, channelID string) ([]models.OwnerSummary, error) {
	return s.followers, nil
}

func (s *subscriptionStoreStub) ListSubscribedChannels(ctx context.Context, subscriberID string) ([]models.OwnerSummary, error) {
	return s.channels, nil
}

type playlistStoreStub struct {
	playlists     map[string]models.Playlist
	created       []models.Playlist
	createErr     error
	byOwner       []models.Playlist
	byVisibility  []models.Playlist
	addErr        error
	removeErr     error
	liked         bool
	updateErr     error
	deleted       []string
	addedVideos   [][2]string
	removedVideos [][2]string
}

func (s *playlistStoreStub) Create(ctx context.Context, playlist models.Playlist) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, playlist)
	return nil
}

func (s *playlistStoreStub) FindByID(ctx context.Context, id string) (models.Playlist, error) {
	if playlist, ok := s.playlists[id]; ok {
		return playlist, nil
	}
	return models.Playlist{}, repositories.ErrNotFound
}

func (s *playlistStoreStub) ListByOwner(ctx context.Context, ownerID string) ([]models.Playlist, error) {
	return s.byOwner, nil
}

func (s *playlistStoreStub) ListByVisibility(ctx context.Context, visibility models.Visibility) ([]models.Playlist, error) {
	return s.byVisibility, nil
}

func (s *playlistStoreStub) Update(ctx context.Context, id, name, description string) error {
	return s.updateErr
}

func (s *playlistStoreStub) UpdateVisibility(ctx context.Context, id string, visibility models.Visibility) error {
	return s.updateErr
}

func (s *playlistStoreStub) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *playlistStoreStub) AddVideo(ctx context.Context, playlistID, videoID string) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.addedVideos = append(s.addedVideos, [2]string{playlistID, videoID})
	return nil
}

func (s *playlistStoreStub) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removedVideos = append(s.removedVideos, [2]string{playlistID, videoID})
	return nil
}

func (s *playlistStoreStub) ToggleLike(ctx context.Context, playlistID, accountID string) (bool, error) {
	return s.liked, nil
}

type statsProviderStub struct {
	channel repositories.ChannelStats
	tweets  repositories.TweetStats
	err     error
}

func (s statsProviderStub) ChannelStats(ctx context.Context, channelID string) (repositories.ChannelStats, error) {
	return s.channel, s.err
}

func (s statsProviderStub) TweetStats(ctx context.Context, channelID string) (repositories.TweetStats, error) {
	return s.tweets, s.err
}

type mediaStoreStub struct {
	uploads   []string
	deletes   []string
	uploadErr error
	deleteErr error
	failAfter int
}

func (s *mediaStoreStub) Upload(ctx context.Context, localPath, keyPrefix string) (storage.Asset, error) {
	if s.uploadErr != nil && (s.failAfter == 0 || len(s.uploads) >= s.failAfter) {
		return storage.Asset{}, s.uploadErr
	}
	key := keyPrefix + "/asset-" + localPath
	s.uploads = append(s.uploads, key)
	return storage.Asset{URL: "https://media.local/" + key, Key: key}, nil
}

func (s *mediaStoreStub) Delete(ctx context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletes = append(s.deletes, key)
	return nil
}

type proberStub struct {
	duration float64
	err      error
}

func (p proberStub) Duration(ctx context.Context, localPath string) (float64, error) {
	return p.duration, p.err
}
