package domain

import (
	"math/rand"
	"sort"
)

// Winner marks which side won a finished session.
type Winner string

const (
	WinnerNone     Winner = ""
	WinnerPlayers  Winner = "players"
	WinnerImpostor Winner = "impostor"
)

// Answer is a player's submitted answer for the active round.
type Answer struct {
	QuestionID string `json:"question_id"`
	Text       string `json:"answer"`
}

// TallyResult is the outcome of counting the round's votes.
type TallyResult struct {
	EliminatedID string         `json:"eliminated_player_id,omitempty"`
	WasImpostor  bool           `json:"was_impostor"`
	Counts       map[string]int `json:"vote_count"`
}

// Session is the active game state for a started room: phase, round,
// secret roles and the round-scoped answer/vote/ready sets. Session holds
// pure state and logic; serialization of concurrent access is owned by the
// engine, which locks per room.
type Session struct {
	RoomCode    string
	Phase       Phase
	Round       int
	TotalRounds int
	ImpostorID  string
	Assignments map[string]Identity // player ID -> identity, impostor excluded

	alive   map[string]struct{}
	answers map[string]Answer // player ID -> answer, active round only
	votes   map[string]string // voter ID -> target ID, active round only
	ready   map[Phase]map[string]struct{}

	votingDone bool
	LastTally  *TallyResult
	Winner     Winner
}

// NewSession creates a session for the given room in the waiting phase.
func NewSession(roomCode string, totalRounds int) *Session {
	return &Session{
		RoomCode:    roomCode,
		Phase:       PhaseWaiting,
		Round:       1,
		TotalRounds: totalRounds,
		Assignments: make(map[string]Identity),
		alive:       make(map[string]struct{}),
		answers:     make(map[string]Answer),
		votes:       make(map[string]string),
		ready:       make(map[Phase]map[string]struct{}),
	}
}

// AssignRoles picks exactly one player uniformly at random as impostor and
// deals a distinct identity from the shuffled pool to every other player.
// The impostor receives no identity but still consumes a slot in the pool,
// so a short pool leaves the trailing players unassigned. Runs exactly once
// per session; a second call is rejected.
func (s *Session) AssignRoles(players []*Player, pool []Identity) error {
	if s.ImpostorID != "" {
		return ErrGameAlreadyStarted
	}
	if len(players) < MinPlayers {
		return ErrInsufficientPlayers
	}

	impostor := players[rand.Intn(len(players))]
	impostor.IsImpostor = true
	s.ImpostorID = impostor.ID

	shuffled := make([]Identity, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for i, p := range players {
		s.alive[p.ID] = struct{}{}
		if i >= len(shuffled) || p.ID == impostor.ID {
			continue
		}
		identity := shuffled[i]
		p.Identity = &identity
		s.Assignments[p.ID] = identity
	}

	s.Phase = PhaseRoleAssignment
	return nil
}

// MarkReady idempotently adds or removes the player from the phase's
// readiness set. Unknown player IDs are recorded as-is; they never count
// toward the alive denominator.
func (s *Session) MarkReady(playerID string, phase Phase, ready bool) {
	set, ok := s.ready[phase]
	if !ok {
		set = make(map[string]struct{})
		s.ready[phase] = set
	}
	if ready {
		set[playerID] = struct{}{}
	} else {
		delete(set, playerID)
	}
}

// ReadyCount returns the size of the phase's readiness set.
func (s *Session) ReadyCount(phase Phase) int {
	return len(s.ready[phase])
}

// AllReady reports whether every currently alive player has readied up for
// the phase. Eliminated players are not required to ready up, so the
// denominator is re-evaluated against the alive set at call time.
func (s *Session) AllReady(phase Phase) bool {
	return len(s.ready[phase]) >= s.AliveCount()
}

// SubmitAnswer stores at most one answer per player for the active round.
// Resubmission overwrites the prior value.
func (s *Session) SubmitAnswer(playerID, questionID, text string) {
	s.answers[playerID] = Answer{QuestionID: questionID, Text: text}
}

// AllAnswersReceived compares the number of distinct players with answers
// in the active round against the alive-player count.
func (s *Session) AllAnswersReceived() bool {
	return len(s.answers) >= s.AliveCount()
}

// CastVote records or overwrites the voter's choice for the current round.
// The target is counted as-is: voting for a non-roster or already
// eliminated target is accepted, mirroring real social-deduction ambiguity.
func (s *Session) CastVote(voterID, targetID string) {
	s.votes[voterID] = targetID
}

// AllVotesReceived compares the distinct-voter count to the alive count.
func (s *Session) AllVotesReceived() bool {
	return len(s.votes) >= s.AliveCount()
}

// VotingDone reports whether this round's votes have already been tallied.
func (s *Session) VotingDone() bool {
	return s.votingDone
}

// Votes returns a copy of the current round's vote map.
func (s *Session) Votes() map[string]string {
	out := make(map[string]string, len(s.votes))
	for k, v := range s.votes {
		out[k] = v
	}
	return out
}

// VoteCount returns the number of distinct voters this round.
func (s *Session) VoteCount() int {
	return len(s.votes)
}

// Tally counts votes per target and eliminates the target with the
// strictly greatest count; ties break toward the lowest player ID. The
// eliminated player is removed from the alive set and the round's votes
// are cleared. With no votes, nobody is eliminated.
func (s *Session) Tally() *TallyResult {
	counts := make(map[string]int)
	for _, target := range s.votes {
		counts[target]++
	}

	result := &TallyResult{Counts: counts}

	maxCount := 0
	for id, c := range counts {
		if c > maxCount || (c == maxCount && (result.EliminatedID == "" || id < result.EliminatedID)) {
			maxCount = c
			result.EliminatedID = id
		}
	}

	if result.EliminatedID != "" {
		result.WasImpostor = result.EliminatedID == s.ImpostorID
		delete(s.alive, result.EliminatedID)
	}

	s.votes = make(map[string]string)
	s.votingDone = true
	s.LastTally = result

	return result
}

// AliveCount returns the number of players still alive.
func (s *Session) AliveCount() int {
	return len(s.alive)
}

// IsAlive reports whether the player is still in the alive set.
func (s *Session) IsAlive(playerID string) bool {
	_, ok := s.alive[playerID]
	return ok
}

// AlivePlayers returns the sorted IDs of players still alive.
func (s *Session) AlivePlayers() []string {
	out := make([]string, 0, len(s.alive))
	for id := range s.alive {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *Session) impostorAlive() bool {
	_, ok := s.alive[s.ImpostorID]
	return ok
}

// Advance moves the session to the next phase. It is the only mutator of
// Phase and Round. Each transition is gated on the current phase's quorum
// (readiness, answers or a completed tally), and the readiness set of the
// phase being left is cleared so readiness never leaks across phases.
//
// On leaving results the win conditions are evaluated in order: the
// impostor eliminated (players win), impostors-alive reaching parity with
// the rest (impostor wins), the configured round count exhausted (impostor
// wins), otherwise a new round begins.
func (s *Session) Advance() (Phase, error) {
	switch s.Phase {
	case PhaseRoleAssignment:
		if !s.AllReady(PhaseRoleAssignment) {
			return s.Phase, ErrQuorumNotMet
		}
		delete(s.ready, PhaseRoleAssignment)
		s.Phase = PhaseQuestion
		s.beginRound()

	case PhaseQuestion:
		if !s.AllAnswersReceived() {
			return s.Phase, ErrQuorumNotMet
		}
		delete(s.ready, PhaseQuestion)
		s.Phase = PhaseDebate

	case PhaseDebate:
		if !s.AllReady(PhaseDebate) {
			return s.Phase, ErrQuorumNotMet
		}
		delete(s.ready, PhaseDebate)
		s.Phase = PhaseVoting

	case PhaseVoting:
		if !s.votingDone {
			return s.Phase, ErrQuorumNotMet
		}
		delete(s.ready, PhaseVoting)
		s.Phase = PhaseResults

	case PhaseResults:
		if !s.AllReady(PhaseResults) {
			return s.Phase, ErrQuorumNotMet
		}
		delete(s.ready, PhaseResults)

		switch {
		case !s.impostorAlive():
			s.Winner = WinnerPlayers
			s.Phase = PhaseFinished
		case 1 >= s.AliveCount()-1:
			s.Winner = WinnerImpostor
			s.Phase = PhaseFinished
		case s.Round >= s.TotalRounds:
			s.Winner = WinnerImpostor
			s.Phase = PhaseFinished
		default:
			s.Round++
			s.Phase = PhaseQuestion
			s.beginRound()
		}

	default:
		return s.Phase, ErrInvalidPhase
	}

	return s.Phase, nil
}

// beginRound clears the prior round's answer and vote sets on entering the
// question phase.
func (s *Session) beginRound() {
	s.answers = make(map[string]Answer)
	s.votes = make(map[string]string)
	s.votingDone = false
	s.LastTally = nil
}

// SessionSnapshot is the serializable view of a session.
type SessionSnapshot struct {
	Phase        Phase               `json:"current_phase"`
	Round        int                 `json:"current_round"`
	TotalRounds  int                 `json:"total_rounds"`
	ImpostorID   string              `json:"impostor_id,omitempty"`
	Assignments  map[string]Identity `json:"assignments,omitempty"`
	AlivePlayers []string            `json:"alive_players"`
	Answers      map[string]Answer   `json:"answers,omitempty"`
	Votes        map[string]string   `json:"votes,omitempty"`
	ReadyPlayers []string            `json:"ready_players,omitempty"`
	Winner       Winner              `json:"winner,omitempty"`
	LastTally    *TallyResult        `json:"last_tally,omitempty"`
}

// View converts the session to its snapshot form. ReadyPlayers reflects
// the readiness set of the current phase.
func (s *Session) View() *SessionSnapshot {
	assignments := make(map[string]Identity, len(s.Assignments))
	for k, v := range s.Assignments {
		assignments[k] = v
	}

	answers := make(map[string]Answer, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}

	ready := make([]string, 0, len(s.ready[s.Phase]))
	for id := range s.ready[s.Phase] {
		ready = append(ready, id)
	}
	sort.Strings(ready)

	return &SessionSnapshot{
		Phase:        s.Phase,
		Round:        s.Round,
		TotalRounds:  s.TotalRounds,
		ImpostorID:   s.ImpostorID,
		Assignments:  assignments,
		AlivePlayers: s.AlivePlayers(),
		Answers:      answers,
		Votes:        s.Votes(),
		ReadyPlayers: ready,
		Winner:       s.Winner,
		LastTally:    s.LastTally,
	}
}
