package domain

// RoomSnapshot is the full room + session view carried by every broadcast
// event and returned by the state endpoint for reconnect synchronization.
type RoomSnapshot struct {
	Code        string          `json:"code"`
	Players     []PlayerView    `json:"players"`
	Settings    RoomSettings    `json:"settings"`
	Phase       Phase           `json:"current_phase"`
	Round       int             `json:"current_round"`
	GameStarted bool            `json:"game_started"`
	Session     *SessionSnapshot `json:"session,omitempty"`
}

// Snapshot builds the full-state view of a room and its session. The
// session may be nil before the game starts. Callers that own a session
// must hold its room's engine lock so the view is consistent.
func Snapshot(room *Room, session *Session) *RoomSnapshot {
	roster := room.Players()
	players := make([]PlayerView, 0, len(roster))
	for _, p := range roster {
		players = append(players, p.View())
	}

	snap := &RoomSnapshot{
		Code:        room.Code(),
		Players:     players,
		Settings:    room.Settings(),
		Phase:       room.Phase(),
		Round:       room.Round(),
		GameStarted: room.GameStarted(),
	}

	if session != nil {
		snap.Phase = session.Phase
		snap.Round = session.Round
		snap.Session = session.View()
	}

	return snap
}
