package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
)

// Cache namespaces. All three share one store.
const (
	NamespaceSearch        = "search"
	NamespaceVideoDetail   = "video_detail"
	NamespaceChannelDetail = "channel_detail"
)

// DefaultAugmentationTerms are the phrases that already signal educational intent.
var DefaultAugmentationTerms = []string{"tutorial", "learn", "course", "education", "how to"}

// AugmentationSuffix is appended to queries lacking educational intent.
const AugmentationSuffix = " tutorial"

// SearchDefaults holds the fixed platform parameters sent with every search.
type SearchDefaults struct {
	Language   string // relevanceLanguage
	Region     string // regionCode
	Definition string // videoDefinition
}

// DefaultSearchDefaults returns the parameters used when none are configured.
func DefaultSearchDefaults() SearchDefaults {
	return SearchDefaults{
		Language:   "en",
		Region:     "US",
		Definition: "high",
	}
}

// SearchParams is the canonical parameter set for one external search call.
// It is both the request sent to the platform and the input of key derivation.
type SearchParams map[string]string

// EffectiveQuery returns the query sent to the platform. With educational focus
// on, a query containing none of terms gets AugmentationSuffix appended.
func EffectiveQuery(query string, educationalFocus bool, terms []string) string {
	if !educationalFocus {
		return query
	}

	lower := strings.ToLower(query)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return query
		}
	}

	return query + AugmentationSuffix
}

// NormalizeQuery builds the canonical parameter set for req.
func NormalizeQuery(req SearchRequest, defaults SearchDefaults, terms []string) SearchParams {
	params := SearchParams{
		"part":              "snippet",
		"q":                 EffectiveQuery(req.Query, req.EducationalFocus, terms),
		"maxResults":        strconv.Itoa(req.MaxResults),
		"type":              "video",
		"relevanceLanguage": defaults.Language,
		"videoEmbeddable":   "true",
		"safeSearch":        string(req.ContentFilter),
		"videoDefinition":   defaults.Definition,
		"order":             string(req.SortBy),
		"regionCode":        defaults.Region,
		"videoDuration":     "any",
	}
	if req.PageToken != "" {
		params["pageToken"] = req.PageToken
	}

	return params
}

// Hash returns the hex SHA-256 of the params serialized with sorted keys.
func (p SearchParams) Hash() string {
	// encoding/json writes map keys in sorted order.
	data, err := json.Marshal(map[string]string(p))
	if err != nil {
		// A map[string]string always marshals.
		panic(err)
	}
	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:])
}

// SearchCacheKey derives the cache key for a search: a readable prefix carrying
// the raw query followed by the hash of the canonical parameters.
func SearchCacheKey(rawQuery string, params SearchParams) string {
	return NamespaceSearch + ":" + rawQuery + ":" + params.Hash()
}

// DetailCacheKey returns the key of a per-entity detail entry.
func DetailCacheKey(namespace, id string) string {
	return namespace + ":" + id
}
