package models

import "testing"

func TestNewLikeTarget(t *testing.T) {
	cases := []struct {
		name    string
		kind    LikeTargetKind
		id      string
		wantErr bool
	}{
		{"video", LikeTargetVideo, "vid-1", false},
		{"comment", LikeTargetComment, "com-1", false},
		{"tweet", LikeTargetTweet, "twt-1", false},
		{"unknownKind", LikeTargetKind("playlist"), "id-1", true},
		{"emptyKind", LikeTargetKind(""), "id-1", true},
		{"emptyID", LikeTargetVideo, "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target, err := NewLikeTarget(tc.kind, tc.id)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for kind=%q id=%q", tc.kind, tc.id)
				}
				if !target.Zero() {
					t.Fatal("failed construction must return the zero target")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if target.Kind() != tc.kind || target.ID() != tc.id {
				t.Fatalf("target mismatch: got (%q,%q)", target.Kind(), target.ID())
			}
		})
	}
}

func TestVisibilityValid(t *testing.T) {
	for _, v := range []Visibility{VisibilityPublic, VisibilityUnlisted, VisibilityPrivate} {
		if !v.Valid() {
			t.Fatalf("expected %q to be valid", v)
		}
	}
	if Visibility("friends-only").Valid() {
		t.Fatal("unknown visibility must be invalid")
	}
}
