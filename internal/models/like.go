package models

import (
	"errors"
	"time"
)

// LikeTargetKind names the entity kind a like points at.
type LikeTargetKind string

const (
	LikeTargetVideo   LikeTargetKind = "video"
	LikeTargetComment LikeTargetKind = "comment"
	LikeTargetTweet   LikeTargetKind = "tweet"
)

var errInvalidLikeTarget = errors.New("like target requires a known kind and a non-empty id")

// LikeTarget is a tagged variant: exactly one of video, comment or tweet.
// The zero value is invalid; construct via NewLikeTarget.
type LikeTarget struct {
	kind LikeTargetKind
	id   string
}

// NewLikeTarget builds a like target, enforcing the exactly-one invariant at
// construction.
func NewLikeTarget(kind LikeTargetKind, id string) (LikeTarget, error) {
	switch kind {
	case LikeTargetVideo, LikeTargetComment, LikeTargetTweet:
	default:
		return LikeTarget{}, errInvalidLikeTarget
	}
	if id == "" {
		return LikeTarget{}, errInvalidLikeTarget
	}
	return LikeTarget{kind: kind, id: id}, nil
}

// Kind returns the target entity kind.
func (t LikeTarget) Kind() LikeTargetKind { return t.kind }

// ID returns the target entity identifier.
func (t LikeTarget) ID() string { return t.id }

// Zero reports whether the target was never constructed.
func (t LikeTarget) Zero() bool { return t.kind == "" || t.id == "" }

// Like records that an account liked a single target entity. Existence of the
// (liker, target) pair is the liked state; there is no counter.
type Like struct {
	ID        string
	LikerID   string
	Target    LikeTarget
	CreatedAt time.Time
}
