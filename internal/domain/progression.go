package domain

import (
	"strings"
	"time"
)

// TreeStatus is the lifecycle state of a planted tree
type TreeStatus string

const (
	TreeStatusGrowing TreeStatus = "growing"
	TreeStatusDead    TreeStatus = "dead"
)

// Tree vitals bounds
const (
	TreeMaxHealth = 100
	TreeMaxGrowth = 100
)

// TreeType is a plantable species
type TreeType string

const (
	TreeTypeApple   TreeType = "Apple"
	TreeTypeOrange  TreeType = "Orange"
	TreeTypeCherry  TreeType = "Cherry"
	TreeTypeLemon   TreeType = "Lemon"
	TreeTypeCoconut TreeType = "Coconut"
	TreeTypePeach   TreeType = "Peach"
)

// Difficulty buckets for tree species
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// TreeSpecies describes a plantable tree type
type TreeSpecies struct {
	Type       TreeType `json:"type"`
	Difficulty string   `json:"difficulty"`
	MinWeeks   int      `json:"min_weeks"`
	MaxWeeks   int      `json:"max_weeks"`
}

// TreeCatalog lists every plantable species
var TreeCatalog = []TreeSpecies{
	{Type: TreeTypeApple, Difficulty: DifficultyEasy, MinWeeks: 6, MaxWeeks: 8},
	{Type: TreeTypeOrange, Difficulty: DifficultyEasy, MinWeeks: 6, MaxWeeks: 8},
	{Type: TreeTypeCherry, Difficulty: DifficultyMedium, MinWeeks: 8, MaxWeeks: 10},
	{Type: TreeTypeLemon, Difficulty: DifficultyMedium, MinWeeks: 8, MaxWeeks: 10},
	{Type: TreeTypeCoconut, Difficulty: DifficultyHard, MinWeeks: 10, MaxWeeks: 12},
	{Type: TreeTypePeach, Difficulty: DifficultyHard, MinWeeks: 10, MaxWeeks: 12},
}

// LookupTreeSpecies finds a species by name, ignoring case
func LookupTreeSpecies(name string) (TreeSpecies, bool) {
	for _, s := range TreeCatalog {
		if strings.EqualFold(string(s.Type), strings.TrimSpace(name)) {
			return s, true
		}
	}
	return TreeSpecies{}, false
}

// TreeState is a single planted tree. A tree is never deleted; a dead tree
// stays frozen until it is explicitly revived.
type TreeState struct {
	ID             string     `json:"id"`
	Type           TreeType   `json:"type"`
	Status         TreeStatus `json:"status"`
	Health         int        `json:"health"`
	GrowthProgress int        `json:"growth_progress"`
	WaterDrops     int        `json:"water_drops"`
	PoisonDrops    int        `json:"poison_drops"`
	PlantedAt      time.Time  `json:"planted_at"`
	LastWateredAt  *time.Time `json:"last_watered_at,omitempty"`
	LastPoisonedAt *time.Time `json:"last_poisoned_at,omitempty"`
	DeathAt        *time.Time `json:"death_at,omitempty"`
}

// WeeklyStats counts comments for the current week.
// TotalComments always equals the sum of the three sentiment counters.
type WeeklyStats struct {
	PositiveComments int `json:"positive_comments"`
	NeutralComments  int `json:"neutral_comments"`
	NegativeComments int `json:"negative_comments"`
	TotalComments    int `json:"total_comments"`
	CurrentWeek      int `json:"current_week"`
}

// ProgressionState is the full persisted snapshot for the active user
type ProgressionState struct {
	Trees          []TreeState     `json:"trees"`
	SelectedTree   string          `json:"selected_tree,omitempty"`
	WeeklyStats    WeeklyStats     `json:"weekly_stats"`
	Tickets        int             `json:"tickets"`
	CommentHistory []CommentRecord `json:"comment_history"`
}

// NewProgressionState returns an empty state anchored to the given week
func NewProgressionState(week int) ProgressionState {
	return ProgressionState{
		Trees:          []TreeState{},
		WeeklyStats:    WeeklyStats{CurrentWeek: week},
		CommentHistory: []CommentRecord{},
	}
}

// Clone returns a copy that shares no slices with s
func (s ProgressionState) Clone() ProgressionState {
	out := s
	out.Trees = append([]TreeState(nil), s.Trees...)
	out.CommentHistory = append([]CommentRecord(nil), s.CommentHistory...)
	if out.Trees == nil {
		out.Trees = []TreeState{}
	}
	if out.CommentHistory == nil {
		out.CommentHistory = []CommentRecord{}
	}
	return out
}

// TreeIndex returns the slice index of the tree with the given id, or -1
func (s ProgressionState) TreeIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.Trees {
		if s.Trees[i].ID == id {
			return i
		}
	}
	return -1
}

// Selected returns the currently selected tree, if any
func (s ProgressionState) Selected() (TreeState, bool) {
	idx := s.TreeIndex(s.SelectedTree)
	if idx < 0 {
		return TreeState{}, false
	}
	return s.Trees[idx], true
}
