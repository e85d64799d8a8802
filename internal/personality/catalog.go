// Package personality classifies questionnaire answers into money
// personality archetypes and owns the archetype catalogue: descriptions,
// challenge templates and the behavioural insight rules.
package personality

import (
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"finbridge/internal/models"
)

//go:embed archetypes.yaml
var archetypesYAML []byte

// ChallengeTemplate is a challenge offered to every user of an archetype.
type ChallengeTemplate struct {
	Title        string `yaml:"title" json:"title"`
	Description  string `yaml:"description" json:"description"`
	TargetAmount int64  `yaml:"target_amount" json:"target_amount"`
	DurationDays int    `yaml:"duration_days" json:"duration_days"`
	Difficulty   string `yaml:"difficulty" json:"difficulty"`
}

// Challenge materializes the template as a pending challenge for userID.
func (t ChallengeTemplate) Challenge(userID string, typ models.PersonalityType) models.PersonalityChallenge {
	return models.PersonalityChallenge{
		UserID:          userID,
		PersonalityType: typ,
		Title:           t.Title,
		Description:     t.Description,
		TargetAmount:    decimal.NewFromInt(t.TargetAmount),
		DurationDays:    t.DurationDays,
		Difficulty:      t.Difficulty,
		Status:          models.ChallengeStatusPending,
		Progress:        0,
	}
}

// Archetype describes one personality type.
type Archetype struct {
	ID              models.PersonalityType `yaml:"id" json:"id"`
	Name            string                 `yaml:"name" json:"name"`
	Description     string                 `yaml:"description" json:"description"`
	Traits          []string               `yaml:"traits" json:"traits"`
	Strengths       []string               `yaml:"strengths" json:"strengths"`
	Challenges      []string               `yaml:"challenges" json:"challenges"`
	Recommendations []string               `yaml:"recommendations" json:"recommendations"`
	Color           string                 `yaml:"color" json:"color"`

	// AlignmentTarget is the savings rate (percent) expected of this type.
	AlignmentTarget int `yaml:"alignment_target" json:"-"`

	Templates []ChallengeTemplate `yaml:"challenge_templates" json:"-"`
}

// Catalog is the ordered set of archetypes. Its order is the classifier's
// tie-break priority.
type Catalog struct {
	ordered []Archetype
	byID    map[models.PersonalityType]*Archetype
}

// ParseCatalog decodes a YAML archetype list.
func ParseCatalog(data []byte) (*Catalog, error) {
	var ordered []Archetype
	if err := yaml.Unmarshal(data, &ordered); err != nil {
		return nil, fmt.Errorf("decode archetypes: %w", err)
	}

	c := &Catalog{ordered: ordered, byID: make(map[models.PersonalityType]*Archetype, len(ordered))}
	for i := range c.ordered {
		a := &c.ordered[i]
		if a.ID == "" {
			return nil, fmt.Errorf("archetype %d has no id", i)
		}
		if _, dup := c.byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate archetype %q", a.ID)
		}
		c.byID[a.ID] = a
	}
	return c, nil
}

// All returns the archetypes in priority order.
func (c *Catalog) All() []Archetype {
	out := make([]Archetype, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Get looks an archetype up by id.
func (c *Catalog) Get(id models.PersonalityType) (Archetype, bool) {
	a, ok := c.byID[id]
	if !ok {
		return Archetype{}, false
	}
	return *a, true
}

// Templates returns the challenge templates for an archetype, or nil.
func (c *Catalog) Templates(id models.PersonalityType) []ChallengeTemplate {
	a, ok := c.byID[id]
	if !ok {
		return nil
	}
	return a.Templates
}

var defaultCatalog = mustParse(archetypesYAML)

func mustParse(data []byte) *Catalog {
	c, err := ParseCatalog(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the embedded catalogue.
func Default() *Catalog { return defaultCatalog }
