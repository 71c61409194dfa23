package domain

import "testing"

func TestThumbnails_Best(t *testing.T) {
	tests := []struct {
		name     string
		thumbs   *Thumbnails
		expected string
	}{
		{"nil", nil, ""},
		{"high preferred", &Thumbnails{Default: &Thumbnail{URL: "d"}, High: &Thumbnail{URL: "h"}}, "h"},
		{"medium fallback", &Thumbnails{Default: &Thumbnail{URL: "d"}, Medium: &Thumbnail{URL: "m"}}, "m"},
		{"default only", &Thumbnails{Default: &Thumbnail{URL: "d"}}, "d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.thumbs.Best(); got != tt.expected {
				t.Errorf("Best() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestThumbnails_Avatar(t *testing.T) {
	both := &Thumbnails{Default: &Thumbnail{URL: "d"}, Medium: &Thumbnail{URL: "m"}, High: &Thumbnail{URL: "h"}}
	if got := both.Avatar(); got != "m" {
		t.Errorf("Avatar() = %q, want medium", got)
	}

	defaultOnly := &Thumbnails{Default: &Thumbnail{URL: "d"}}
	if got := defaultOnly.Avatar(); got != "d" {
		t.Errorf("Avatar() = %q, want default", got)
	}

	var none *Thumbnails
	if got := none.Avatar(); got != "" {
		t.Errorf("Avatar() = %q, want empty", got)
	}
}

func TestExtractCandidates(t *testing.T) {
	items := []SearchItem{
		{VideoID: "v1", Snippet: &Snippet{Title: "One", ChannelID: "c1", Thumbnails: &Thumbnails{High: &Thumbnail{URL: "h1"}}}},
		{VideoID: "", Snippet: &Snippet{Title: "channel result"}},
		{VideoID: "v2"},
		{VideoID: "v3", Snippet: &Snippet{Title: "Three"}},
		{VideoID: "v1", Snippet: &Snippet{Title: "One again"}},
	}

	candidates, skipped := ExtractCandidates(items)

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].ID != "v1" || candidates[1].ID != "v3" {
		t.Errorf("unexpected candidate order: %v", VideoIDs(candidates))
	}
	if candidates[0].ThumbnailURL != "h1" {
		t.Errorf("ThumbnailURL = %q, want h1", candidates[0].ThumbnailURL)
	}

	reasons := []SkipReason{SkipMissingVideoID, SkipMissingSnippet, SkipDuplicateResult}
	if len(skipped) != len(reasons) {
		t.Fatalf("expected %d skipped items, got %d", len(reasons), len(skipped))
	}
	for i, r := range reasons {
		if skipped[i].Reason != r {
			t.Errorf("skipped[%d].Reason = %q, want %q", i, skipped[i].Reason, r)
		}
	}
}

func TestChannelIDs_SkipsEmpty(t *testing.T) {
	ids := ChannelIDs([]VideoCandidate{{ID: "v1", ChannelID: "c1"}, {ID: "v2"}, {ID: "v3", ChannelID: "c1"}})
	if len(ids) != 2 || ids[0] != "c1" {
		t.Errorf("ChannelIDs() = %v", ids)
	}
}
