// Package sfx plays synthesized sound cues for match events.
package sfx

import (
	"encoding/json"

	"circle-arena/internal/game"
)

// Cue identifies one sound effect
type Cue int

const (
	CueNone Cue = iota
	CueFire
	CueScatter
	CueHit
	CueRefill
	CueWallBuilt
	CueWallPhased
	CueSwitch
	CueWin
)

func (c Cue) String() string {
	switch c {
	case CueFire:
		return "fire"
	case CueScatter:
		return "scatter"
	case CueHit:
		return "hit"
	case CueRefill:
		return "refill"
	case CueWallBuilt:
		return "wall_built"
	case CueWallPhased:
		return "wall_phased"
	case CueSwitch:
		return "switch"
	case CueWin:
		return "win"
	default:
		return "none"
	}
}

// CueForEvent maps a match event to its cue. Ticks, match starts and wall
// restores are silent.
func CueForEvent(ev game.Event) Cue {
	switch ev.Type {
	case game.EventTypeFire:
		var p game.FirePayload
		if err := json.Unmarshal(ev.Payload, &p); err == nil && p.Pellets > 1 {
			return CueScatter
		}
		return CueFire
	case game.EventTypeHit:
		return CueHit
	case game.EventTypeRefill:
		return CueRefill
	case game.EventTypeWallBuilt:
		return CueWallBuilt
	case game.EventTypeWallPhased:
		return CueWallPhased
	case game.EventTypeWeaponSwitch:
		return CueSwitch
	case game.EventTypeWin:
		return CueWin
	default:
		return CueNone
	}
}
