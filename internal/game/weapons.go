package game

import (
	"errors"
	"fmt"
)

// Weapon IDs in the default catalog
const (
	WeaponSidearm    = "sidearm"
	WeaponScattergun = "scattergun"
)

// WeaponSpec is an immutable weapon definition
type WeaponSpec struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	MaxAmmo       int     `json:"maxAmmo"`
	CooldownMs    int64   `json:"cooldownMs"`
	ReloadTimeMs  int64   `json:"reloadTimeMs"`
	PelletCount   int     `json:"pelletCount"`
	SpreadDegrees float64 `json:"spreadDegrees"`
	BaseDamage    float64 `json:"baseDamage"`
}

// Validate checks the spec against the catalog contract
func (w WeaponSpec) Validate() error {
	switch {
	case w.ID == "":
		return errors.New("empty id")
	case w.MaxAmmo <= 0:
		return fmt.Errorf("max ammo must be > 0, got %d", w.MaxAmmo)
	case w.CooldownMs < 0:
		return fmt.Errorf("cooldown must be >= 0, got %d", w.CooldownMs)
	case w.ReloadTimeMs < 0:
		return fmt.Errorf("reload time must be >= 0, got %d", w.ReloadTimeMs)
	case w.PelletCount < 1:
		return fmt.Errorf("pellet count must be >= 1, got %d", w.PelletCount)
	case w.SpreadDegrees < 0:
		return fmt.Errorf("spread must be >= 0, got %g", w.SpreadDegrees)
	case w.BaseDamage <= 0:
		return fmt.Errorf("base damage must be > 0, got %g", w.BaseDamage)
	}
	return nil
}

// Catalog is an ordered, read-only weapon table.
// Slot numbers are 1-based in catalog order.
type Catalog struct {
	weapons []WeaponSpec
	byID    map[string]int
}

// NewCatalog validates the specs and builds a catalog
func NewCatalog(specs ...WeaponSpec) (*Catalog, error) {
	if len(specs) == 0 {
		return nil, errors.New("catalog needs at least one weapon")
	}
	c := &Catalog{
		weapons: make([]WeaponSpec, 0, len(specs)),
		byID:    make(map[string]int, len(specs)),
	}
	for _, w := range specs {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("weapon %q: %w", w.ID, err)
		}
		if _, dup := c.byID[w.ID]; dup {
			return nil, fmt.Errorf("weapon %q: duplicate id", w.ID)
		}
		c.byID[w.ID] = len(c.weapons)
		c.weapons = append(c.weapons, w)
	}
	return c, nil
}

// MustCatalog is like NewCatalog but panics on an invalid table
func MustCatalog(specs ...WeaponSpec) *Catalog {
	c, err := NewCatalog(specs...)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultCatalog returns the two stock weapons
func DefaultCatalog() *Catalog {
	return MustCatalog(
		WeaponSpec{
			ID:            WeaponSidearm,
			Name:          "Sidearm",
			MaxAmmo:       10,
			CooldownMs:    500,
			ReloadTimeMs:  3000,
			PelletCount:   1,
			SpreadDegrees: 0,
			BaseDamage:    20,
		},
		WeaponSpec{
			ID:            WeaponScattergun,
			Name:          "Scattergun",
			MaxAmmo:       2,
			CooldownMs:    1500,
			ReloadTimeMs:  5000,
			PelletCount:   6,
			SpreadDegrees: 20,
			BaseDamage:    15,
		},
	)
}

// Get returns a weapon by ID
func (c *Catalog) Get(id string) (WeaponSpec, bool) {
	i, ok := c.byID[id]
	if !ok {
		return WeaponSpec{}, false
	}
	return c.weapons[i], true
}

// Slot returns the weapon bound to a 1-based slot number
func (c *Catalog) Slot(n int) (WeaponSpec, bool) {
	if n < 1 || n > len(c.weapons) {
		return WeaponSpec{}, false
	}
	return c.weapons[n-1], true
}

// First returns the weapon in slot 1
func (c *Catalog) First() WeaponSpec {
	return c.weapons[0]
}

// All returns a copy of every weapon in slot order
func (c *Catalog) All() []WeaponSpec {
	out := make([]WeaponSpec, len(c.weapons))
	copy(out, c.weapons)
	return out
}

// Len returns the number of weapons
func (c *Catalog) Len() int {
	return len(c.weapons)
}
