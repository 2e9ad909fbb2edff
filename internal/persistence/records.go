package persistence

import (
	"time"

	"github.com/google/uuid"

	"github.com/centotype/centotype/internal/content"
	"github.com/centotype/centotype/internal/scoring"
	"github.com/centotype/centotype/internal/session"
)

// SessionResult is persisted to sessions/*.json after a session ends,
// per SPEC_FULL.md §3 — the record spec.md §6 names but never types.
type SessionResult struct {
	SessionID  uuid.UUID         `json:"session_id"`
	Mode       session.Mode      `json:"mode"`
	Level      content.LevelID   `json:"level,omitempty"`
	Category   content.Category  `json:"category,omitempty"`
	Started    time.Time         `json:"started"`
	Ended      time.Time         `json:"ended"`
	Completed  bool              `json:"completed"`
	Metrics    scoring.Metrics   `json:"metrics"`
	SkillIndex float64           `json:"skill_index"`
	Tier       int               `json:"tier"`
}

// Profile is the long-lived, lifetime-aggregate record persisted to
// profile.json, per SPEC_FULL.md §3. Shaped after model.Report's
// top-level-aggregate-with-nested-maps style (internal/model/types.go),
// re-purposed from "one performance run" to "one user's lifetime
// progress".
type Profile struct {
	SessionCount    int                       `json:"session_count"`
	HighestTier     int                       `json:"highest_tier"`
	BestByLevel     map[content.LevelID]float64   `json:"best_by_level"`
	BestByCategory  map[content.Category]float64  `json:"best_by_category"`
	LastPlayed      time.Time                 `json:"last_played"`
}

// NewProfile returns an empty Profile ready to accumulate results.
func NewProfile() Profile {
	return Profile{
		BestByLevel:    make(map[content.LevelID]float64),
		BestByCategory: make(map[content.Category]float64),
	}
}

// Apply folds one SessionResult into the profile: bumps the session
// count, raises the highest tier reached, and keeps the best
// SkillIndex seen per level/category.
func (p *Profile) Apply(r SessionResult) {
	if p.BestByLevel == nil {
		p.BestByLevel = make(map[content.LevelID]float64)
	}
	if p.BestByCategory == nil {
		p.BestByCategory = make(map[content.Category]float64)
	}

	p.SessionCount++
	if r.Tier > p.HighestTier {
		p.HighestTier = r.Tier
	}
	if r.Ended.After(p.LastPlayed) {
		p.LastPlayed = r.Ended
	}

	if r.Level != 0 {
		if r.SkillIndex > p.BestByLevel[r.Level] {
			p.BestByLevel[r.Level] = r.SkillIndex
		}
	}
	if r.Category != content.CategoryNone {
		if r.SkillIndex > p.BestByCategory[r.Category] {
			p.BestByCategory[r.Category] = r.SkillIndex
		}
	}
}
