package domain

import (
	"math"
	"sort"
	"strings"
)

// EngagementTier scores one engagement counter (views, likes or comments).
//
//	n > HighAbove                 : log10(n) * HighWeight
//	MidAbove < n <= HighAbove     : log10(n) * MidWeight
//	0 < n < PenaltyBelow          : -Penalty
//	otherwise                     : 0
type EngagementTier struct {
	HighAbove    int64   `mapstructure:"high_above"`
	HighWeight   float64 `mapstructure:"high_weight"`
	MidAbove     int64   `mapstructure:"mid_above"`
	MidWeight    float64 `mapstructure:"mid_weight"`
	PenaltyBelow int64   `mapstructure:"penalty_below"`
	Penalty      float64 `mapstructure:"penalty"`
}

// Score returns the bonus or penalty for counter value n.
func (t EngagementTier) Score(n int64) float64 {
	switch {
	case n > t.HighAbove:
		return math.Log10(float64(n)) * t.HighWeight
	case n > t.MidAbove:
		return math.Log10(float64(n)) * t.MidWeight
	case n > 0 && n < t.PenaltyBelow:
		return -t.Penalty
	default:
		return 0
	}
}

// EngagementLevel is a views/likes pair; both must be strictly exceeded.
type EngagementLevel struct {
	Views int64 `mapstructure:"views"`
	Likes int64 `mapstructure:"likes"`
}

// Reached reports whether views and likes both exceed the level.
func (l EngagementLevel) Reached(views, likes int64) bool {
	return views > l.Views && likes > l.Likes
}

// NotabilityTier grants Bonus when its engagement level is reached.
type NotabilityTier struct {
	EngagementLevel `mapstructure:",squash"`
	Bonus           float64 `mapstructure:"bonus"`
}

// ScoringConfig holds every weight, vocabulary and threshold used for ranking.
type ScoringConfig struct {
	AugmentationTerms   []string `mapstructure:"augmentation_terms"`
	EducationalKeywords []string `mapstructure:"educational_keywords"`
	SpamPhrases         []string `mapstructure:"spam_phrases"`

	SpamPenalty      float64 `mapstructure:"spam_penalty"`
	EducationalBonus float64 `mapstructure:"educational_bonus"`
	QueryMatchWeight float64 `mapstructure:"query_match_weight"`

	Views    EngagementTier `mapstructure:"views"`
	Likes    EngagementTier `mapstructure:"likes"`
	Comments EngagementTier `mapstructure:"comments"`

	// Notability tiers are checked in order; the first reached one applies.
	Notability []NotabilityTier `mapstructure:"notability"`

	MinScore           float64         `mapstructure:"min_score"`
	ExtremeEngagement  EngagementLevel `mapstructure:"extreme_engagement"`
	ModerateEngagement EngagementLevel `mapstructure:"moderate_engagement"`
}

// DefaultScoringConfig returns the tuned production weights.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		AugmentationTerms: append([]string(nil), DefaultAugmentationTerms...),
		EducationalKeywords: []string{
			"tutorial", "learn", "lesson", "course", "education", "training",
			"guide", "explanation", "explained", "introduction", "basics",
			"how to", "beginner", "instructor", "teaching", "class", "lecture",
			"masterclass", "workshop", "insights", "analysis",
		},
		SpamPhrases: []string{
			"must watch!!!", "shocking", "secret revealed", "ultimate guide", "easy way",
			"guaranteed", "free money", "hack your", "top 10 secrets",
		},
		SpamPenalty:      2.0,
		EducationalBonus: 2.0,
		QueryMatchWeight: 2.5,
		Views: EngagementTier{
			HighAbove: 50000, HighWeight: 1.2,
			MidAbove: 500, MidWeight: 0.8,
			PenaltyBelow: 500, Penalty: 0.75,
		},
		Likes: EngagementTier{
			HighAbove: 10000, HighWeight: 1.0,
			MidAbove: 500, MidWeight: 0.6,
			PenaltyBelow: 100, Penalty: 0.5,
		},
		Comments: EngagementTier{
			HighAbove: 1000, HighWeight: 0.5,
			MidAbove: 50, MidWeight: 0.3,
		},
		Notability: []NotabilityTier{
			{EngagementLevel: EngagementLevel{Views: 100000, Likes: 20000}, Bonus: 2.0},
			{EngagementLevel: EngagementLevel{Views: 50000, Likes: 10000}, Bonus: 1.0},
		},
		MinScore:           1.0,
		ExtremeEngagement:  EngagementLevel{Views: 500000, Likes: 50000},
		ModerateEngagement: EngagementLevel{Views: 20000, Likes: 2000},
	}
}

// DurationBounds limits accepted video length in seconds; zero means unbounded.
type DurationBounds struct {
	Min int
	Max int
}

// Violated reports whether seconds falls outside the bounds, and which side.
func (b DurationBounds) Violated(seconds int) (SkipReason, bool) {
	if b.Min > 0 && seconds < b.Min {
		return SkipTooShort, true
	}
	if b.Max > 0 && seconds > b.Max {
		return SkipTooLong, true
	}

	return "", false
}

// ScoredCandidate is a candidate that survived filtering, with its score.
type ScoredCandidate struct {
	Candidate       VideoCandidate
	Detail          *VideoDetail
	Score           float64
	DurationSeconds int
	Duration        string
}

// RankOutcome is the result of ranking a candidate list.
type RankOutcome struct {
	Results []ScoredCandidate
	Skipped []SkippedItem
	// Bypassed lists ids kept below MinScore because of moderate engagement.
	Bypassed []string
}

// Scorer computes educational relevance scores. It is safe for concurrent use.
type Scorer struct {
	cfg      ScoringConfig
	keywords []string
}

// NewScorer creates a Scorer for the given configuration.
func NewScorer(cfg ScoringConfig) *Scorer {
	return &Scorer{
		cfg:      cfg,
		keywords: distinctLower(cfg.EducationalKeywords),
	}
}

// Config returns the scorer's configuration.
func (s *Scorer) Config() ScoringConfig {
	return s.cfg
}

// Score computes the unrounded relevance score of a candidate.
// detail may be nil, in which case engagement contributes nothing.
//
// Components:
//
//	Spam penalty:     -SpamPenalty once if a spam phrase is in the title
//	Educational:      +EducationalBonus per distinct keyword in title+description
//	Query match:      QueryMatchWeight * |query terms ∩ title words|
//	Engagement:       view, like and comment tiers plus the first notability bonus reached
func (s *Scorer) Score(query string, c VideoCandidate, detail *VideoDetail) float64 {
	titleLower := strings.ToLower(c.Title)
	contentText := titleLower + " " + strings.ToLower(c.Description)

	score := 0.0

	for _, phrase := range s.cfg.SpamPhrases {
		if strings.Contains(titleLower, strings.ToLower(phrase)) {
			score -= s.cfg.SpamPenalty
			break
		}
	}

	for _, kw := range s.keywords {
		if strings.Contains(contentText, kw) {
			score += s.cfg.EducationalBonus
		}
	}

	score += s.cfg.QueryMatchWeight * float64(countSharedWords(query, titleLower))

	if detail != nil {
		score += s.engagementScore(detail.ViewCount, detail.Likes, detail.CommentCount)
	}

	return score
}

// engagementScore sums the view, like, notability and comment components.
func (s *Scorer) engagementScore(views, likes, comments int64) float64 {
	score := s.cfg.Views.Score(views) + s.cfg.Likes.Score(likes)

	for _, tier := range s.cfg.Notability {
		if tier.Reached(views, likes) {
			score += tier.Bonus
			break
		}
	}

	return score + s.cfg.Comments.Score(comments)
}

// Rank scores, filters and sorts candidates. details maps video id to detail;
// candidates without a detail are scored on text alone.
//
// A candidate is dropped when its parsed duration violates bounds, or when its
// score is below MinScore and it is neither extremely nor moderately engaging.
// Survivors are sorted by descending rounded score; ties keep input order.
func (s *Scorer) Rank(query string, candidates []VideoCandidate, details map[string]VideoDetail, bounds DurationBounds) RankOutcome {
	out := RankOutcome{Results: make([]ScoredCandidate, 0, len(candidates))}

	for i, c := range candidates {
		var detail *VideoDetail
		var views, likes int64
		if d, ok := details[c.ID]; ok {
			detail = &d
			views, likes = d.ViewCount, d.Likes
		}

		score := s.Score(query, c, detail)

		durationSeconds := 0
		duration := UnknownDuration
		if detail != nil {
			if secs, ok := ParseISODuration(detail.Duration); ok {
				durationSeconds = secs
				duration = FormatDuration(secs)

				if reason, violated := bounds.Violated(secs); violated {
					out.Skipped = append(out.Skipped, SkippedItem{Index: i, ID: c.ID, Reason: reason, Score: RoundScore(score)})
					continue
				}
			}
		}

		if !s.cfg.ExtremeEngagement.Reached(views, likes) && score < s.cfg.MinScore {
			if !s.cfg.ModerateEngagement.Reached(views, likes) {
				out.Skipped = append(out.Skipped, SkippedItem{Index: i, ID: c.ID, Reason: SkipBelowThreshold, Score: RoundScore(score)})
				continue
			}
			out.Bypassed = append(out.Bypassed, c.ID)
		}

		out.Results = append(out.Results, ScoredCandidate{
			Candidate:       c,
			Detail:          detail,
			Score:           RoundScore(score),
			DurationSeconds: durationSeconds,
			Duration:        duration,
		})
	}

	sort.SliceStable(out.Results, func(i, j int) bool {
		return out.Results[i].Score > out.Results[j].Score
	})

	return out
}

// RoundScore rounds a score to two decimal places.
func RoundScore(value float64) float64 {
	return math.Round(value*100) / 100
}

// countSharedWords returns the number of distinct lowercase query terms that
// also appear as whitespace-separated words in titleLower.
func countSharedWords(query, titleLower string) int {
	titleWords := make(map[string]struct{})
	for _, w := range strings.Fields(titleLower) {
		titleWords[w] = struct{}{}
	}

	count := 0
	seen := make(map[string]struct{})
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		if _, ok := titleWords[term]; ok {
			count++
		}
	}

	return count
}

func distinctLower(words []string) []string {
	out := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		if _, dup := seen[w]; dup || w == "" {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}

	return out
}
