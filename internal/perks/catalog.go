// Package perks holds the immutable perk catalog, the closed set of typed
// perk effects and the resolution of a player's owned perks into a Loadout
// consumed by scoring and the game session.
package perks

import (
	"errors"
	"fmt"
	"sort"

	"github.com/KirkDiggler/quizdraft/internal/models"
)

// MaxTier is the highest perk tier
const MaxTier = 3

var (
	ErrEmptyCatalog = errors.New("perk catalog is empty")
	ErrUnknownPerk  = errors.New("unknown perk")
)

// Definition is a catalog entry with its decoded effect
type Definition struct {
	Perk   *models.Perk
	Effect Effect
}

// Catalog is the read-only registry of perk definitions. It is safe for
// concurrent use because nothing mutates it after NewCatalog returns.
type Catalog struct {
	byID map[string]*Definition
	ids  []string
}

// NewCatalog validates and indexes perks
func NewCatalog(perks []*models.Perk) (*Catalog, error) {
	if len(perks) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{byID: make(map[string]*Definition, len(perks))}
	for _, p := range perks {
		if p == nil || p.ID == "" {
			return nil, fmt.Errorf("perk without id")
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate perk %q", p.ID)
		}
		if p.Tier < 1 || p.Tier > MaxTier {
			return nil, fmt.Errorf("perk %q: tier %d out of range", p.ID, p.Tier)
		}
		effect, err := DecodeEffect(p.EffectType, p.EffectConfig)
		if err != nil {
			return nil, fmt.Errorf("perk %q: %w", p.ID, err)
		}
		if effect.Category() != p.Category {
			return nil, fmt.Errorf("perk %q: effect %s belongs to category %s, not %s",
				p.ID, effect.Type(), effect.Category(), p.Category)
		}
		cp := *p
		c.byID[p.ID] = &Definition{Perk: &cp, Effect: effect}
		c.ids = append(c.ids, p.ID)
	}
	sort.Strings(c.ids)

	return c, nil
}

// Get returns the definition for id
func (c *Catalog) Get(id string) (*Definition, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// All returns every perk in id order
func (c *Catalog) All() []*models.Perk {
	out := make([]*models.Perk, 0, len(c.ids))
	for _, id := range c.ids {
		cp := *c.byID[id].Perk
		out = append(out, &cp)
	}
	return out
}

// Eligible returns the ids of perks at or below maxTier that are not in
// exclude, in id order
func (c *Catalog) Eligible(maxTier int, exclude map[string]bool) []string {
	var ids []string
	for _, id := range c.ids {
		if c.byID[id].Perk.Tier > maxTier || exclude[id] {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Loadout resolves owned perk ids into a Loadout. Unknown ids are reported
// so a retired perk cannot silently change scoring.
func (c *Catalog) Loadout(perkIDs []string) (*Loadout, error) {
	effects := make([]Effect, 0, len(perkIDs))
	for _, id := range perkIDs {
		d, ok := c.byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPerk, id)
		}
		effects = append(effects, d.Effect)
	}
	return Resolve(effects...), nil
}
