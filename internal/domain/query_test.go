package domain

import (
	"strings"
	"testing"
)

func TestEffectiveQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		focus    bool
		expected string
	}{
		{"plain query augmented", "python", true, "python tutorial"},
		{"already educational", "python tutorial", true, "python tutorial"},
		{"case insensitive match", "Learn Go", true, "Learn Go"},
		{"multi-word term", "How To bake bread", true, "How To bake bread"},
		{"substring match counts", "coursera reviews", true, "coursera reviews"},
		{"focus disabled", "python", false, "python"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveQuery(tt.query, tt.focus, DefaultAugmentationTerms)
			if got != tt.expected {
				t.Errorf("EffectiveQuery(%q, %v) = %q, want %q", tt.query, tt.focus, got, tt.expected)
			}
		})
	}
}

func TestNormalizeQuery(t *testing.T) {
	req := DefaultSearchRequest("python")
	params := NormalizeQuery(req, DefaultSearchDefaults(), DefaultAugmentationTerms)

	expected := map[string]string{
		"part":              "snippet",
		"q":                 "python tutorial",
		"maxResults":        "10",
		"type":              "video",
		"relevanceLanguage": "en",
		"videoEmbeddable":   "true",
		"safeSearch":        "moderate",
		"videoDefinition":   "high",
		"order":             "viewCount",
		"regionCode":        "US",
		"videoDuration":     "any",
	}
	if len(params) != len(expected) {
		t.Fatalf("expected %d params, got %d: %v", len(expected), len(params), params)
	}
	for k, v := range expected {
		if params[k] != v {
			t.Errorf("param %s = %q, want %q", k, params[k], v)
		}
	}
	if _, ok := params["pageToken"]; ok {
		t.Error("pageToken should be absent without a page token")
	}

	req.PageToken = "CAUQAA"
	params = NormalizeQuery(req, DefaultSearchDefaults(), DefaultAugmentationTerms)
	if params["pageToken"] != "CAUQAA" {
		t.Errorf("pageToken = %q, want CAUQAA", params["pageToken"])
	}
}

func TestSearchParams_HashIgnoresInsertionOrder(t *testing.T) {
	a := SearchParams{}
	a["q"] = "go tutorial"
	a["maxResults"] = "5"
	a["order"] = "date"

	b := SearchParams{}
	b["order"] = "date"
	b["maxResults"] = "5"
	b["q"] = "go tutorial"

	if a.Hash() != b.Hash() {
		t.Errorf("hashes differ for identical params: %s vs %s", a.Hash(), b.Hash())
	}
	if len(a.Hash()) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a.Hash()))
	}
}

func TestSearchCacheKey(t *testing.T) {
	req := DefaultSearchRequest("python")
	params := NormalizeQuery(req, DefaultSearchDefaults(), DefaultAugmentationTerms)

	key := SearchCacheKey("python", params)
	if !strings.HasPrefix(key, "search:python:") {
		t.Errorf("key %q lacks readable prefix", key)
	}
	if key != SearchCacheKey("python", NormalizeQuery(req, DefaultSearchDefaults(), DefaultAugmentationTerms)) {
		t.Error("identical requests must derive identical keys")
	}

	other := req
	other.SortBy = SortByDate
	if key == SearchCacheKey("python", NormalizeQuery(other, DefaultSearchDefaults(), DefaultAugmentationTerms)) {
		t.Error("different sort order must derive a different key")
	}

	noFocus := req
	noFocus.EducationalFocus = false
	if key == SearchCacheKey("python", NormalizeQuery(noFocus, DefaultSearchDefaults(), DefaultAugmentationTerms)) {
		t.Error("effective query change must derive a different key")
	}
}

func TestSearchCacheKey_AugmentedAndExplicitShareHash(t *testing.T) {
	focused := DefaultSearchRequest("python")
	explicit := DefaultSearchRequest("python tutorial")

	p1 := NormalizeQuery(focused, DefaultSearchDefaults(), DefaultAugmentationTerms)
	p2 := NormalizeQuery(explicit, DefaultSearchDefaults(), DefaultAugmentationTerms)

	if p1.Hash() != p2.Hash() {
		t.Error("same effective request should hash identically")
	}
	if SearchCacheKey("python", p1) == SearchCacheKey("python tutorial", p2) {
		t.Error("raw query prefix should keep keys distinct")
	}
}

func TestDetailCacheKey(t *testing.T) {
	if got := DetailCacheKey(NamespaceVideoDetail, "v1"); got != "video_detail:v1" {
		t.Errorf("DetailCacheKey() = %q", got)
	}
	if got := DetailCacheKey(NamespaceChannelDetail, "UC1"); got != "channel_detail:UC1" {
		t.Errorf("DetailCacheKey() = %q", got)
	}
}

func TestSearchRequest_Normalize(t *testing.T) {
	req := SearchRequest{Query: "go", MaxResults: 500, MinDuration: -5}
	req.Normalize()

	if req.MaxResults != 50 {
		t.Errorf("MaxResults = %d, want 50", req.MaxResults)
	}
	if req.ContentFilter != ContentFilterModerate {
		t.Errorf("ContentFilter = %q, want moderate", req.ContentFilter)
	}
	if req.SortBy != SortByViewCount {
		t.Errorf("SortBy = %q, want viewCount", req.SortBy)
	}
	if req.MinDuration != 0 {
		t.Errorf("MinDuration = %d, want 0", req.MinDuration)
	}
}
