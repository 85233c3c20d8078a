package domain

import "time"

// Player represents a player in a room.
type Player struct {
	ID         string
	Name       string
	IsHost     bool
	IsAlive    bool
	IsImpostor bool
	IsReady    bool
	Identity   *Identity // nil for the impostor, and until roles are assigned
	JoinedAt   time.Time
}

// NewPlayer creates a new player with the given ID and name.
func NewPlayer(id, name string, host bool) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		IsHost:   host,
		IsAlive:  true,
		JoinedAt: time.Now(),
	}
}

// PlayerView is the serializable view of a player carried in snapshots.
// Snapshots are full-state refreshes, so the role and identity are included.
type PlayerView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	IsHost     bool      `json:"is_host"`
	IsAlive    bool      `json:"is_alive"`
	IsImpostor bool      `json:"is_impostor"`
	IsReady    bool      `json:"is_ready"`
	Identity   *Identity `json:"assigned_identity,omitempty"`
}

// View converts a Player to its snapshot form.
func (p *Player) View() PlayerView {
	return PlayerView{
		ID:         p.ID,
		Name:       p.Name,
		IsHost:     p.IsHost,
		IsAlive:    p.IsAlive,
		IsImpostor: p.IsImpostor,
		IsReady:    p.IsReady,
		Identity:   p.Identity,
	}
}
