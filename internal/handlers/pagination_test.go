package handlers

import (
	"net/url"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
		wantErr   error
	}{
		{name: "defaults", query: "", wantPage: 1, wantLimit: 10},
		{name: "explicit values", query: "page=3&limit=25", wantPage: 3, wantLimit: 25},
		{name: "limit at upper bound", query: "limit=100", wantPage: 1, wantLimit: 100},
		{name: "zero page", query: "page=0", wantErr: errInvalidPage},
		{name: "negative page", query: "page=-2", wantErr: errInvalidPage},
		{name: "non-numeric page", query: "page=abc", wantErr: errInvalidPage},
		{name: "zero limit", query: "limit=0", wantErr: errInvalidLimit},
		{name: "limit too large", query: "limit=101", wantErr: errInvalidLimit},
		{name: "non-numeric limit", query: "limit=ten", wantErr: errInvalidLimit},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values, err := url.ParseQuery(tc.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}

			p, err := ParsePagination(values)
			if tc.wantErr != nil {
				if err != tc.wantErr {
					t.Fatalf("unexpected error: got %v want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Page != tc.wantPage || p.Limit != tc.wantLimit {
				t.Fatalf("unexpected pagination: got %+v want page=%d limit=%d", p, tc.wantPage, tc.wantLimit)
			}
		})
	}
}

func TestParsePaginationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid inputs round-trip and skip matches", prop.ForAll(
		func(page, limit int) bool {
			values := url.Values{}
			values.Set("page", strconv.Itoa(page))
			values.Set("limit", strconv.Itoa(limit))

			p, err := ParsePagination(values)
			if err != nil {
				return false
			}
			return p.Page == page && p.Limit == limit && p.Skip() == (page-1)*limit
		},
		gen.IntRange(1, 10_000),
		gen.IntRange(1, maxLimit),
	))

	properties.Property("out-of-range limits are rejected", prop.ForAll(
		func(limit int) bool {
			values := url.Values{}
			values.Set("limit", strconv.Itoa(limit))

			_, err := ParsePagination(values)
			return err == errInvalidLimit
		},
		gen.OneGenOf(gen.IntRange(-10_000, 0), gen.IntRange(maxLimit+1, 10_000)),
	))

	properties.TestingRun(t)
}
