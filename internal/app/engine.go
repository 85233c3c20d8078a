package app

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/Zilecito18/impostor-game/internal/domain"
)

// IdentitySource supplies the pool of assignable identities. Fetch
// failures are absorbed by the implementation; the result is never empty.
type IdentitySource interface {
	Identities(ctx context.Context) []domain.Identity
}

// EventSink receives the events produced by engine operations.
type EventSink interface {
	Broadcast(roomCode string, event *domain.Event)
}

// Engine owns one game session per active room: phase, round, secret role
// assignment, round-scoped answer/vote/ready sets and the win condition.
// Every state-mutating operation for a room runs under that room's
// exclusive lock, so concurrent events for the same room never interleave
// partial updates. Different rooms are fully independent.
type Engine struct {
	directory  *Directory
	identities IdentitySource
	sink       EventSink
	logger     *slog.Logger

	mu       sync.Mutex
	sessions map[string]*roomSession
}

type roomSession struct {
	mu      sync.Mutex
	room    *domain.Room
	session *domain.Session
}

// NewEngine creates a session engine over the given room directory.
func NewEngine(directory *Directory, identities IdentitySource, sink EventSink, logger *slog.Logger) *Engine {
	return &Engine{
		directory:  directory,
		identities: identities,
		sink:       sink,
		logger:     logger,
		sessions:   make(map[string]*roomSession),
	}
}

// StartGame creates the room's session, assigns the impostor role and the
// secret identities, and broadcasts the game_started snapshot. Assignment
// happens exactly once; a second start is rejected.
func (e *Engine) StartGame(ctx context.Context, roomCode string) (*domain.RoomSnapshot, error) {
	room, err := e.directory.Get(roomCode)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if _, exists := e.sessions[room.Code()]; exists {
		e.mu.Unlock()
		return nil, domain.ErrGameAlreadyStarted
	}
	if room.PlayerCount() < domain.MinPlayers {
		e.mu.Unlock()
		return nil, domain.ErrInsufficientPlayers
	}
	if err := room.MarkStarted(); err != nil {
		e.mu.Unlock()
		return nil, err
	}

	rs := &roomSession{
		room:    room,
		session: domain.NewSession(room.Code(), room.Settings().TotalRounds),
	}
	rs.mu.Lock()
	e.sessions[room.Code()] = rs
	e.mu.Unlock()
	defer rs.mu.Unlock()

	pool := e.identities.Identities(ctx)
	if err := rs.session.AssignRoles(room.Players(), pool); err != nil {
		return nil, err
	}
	room.SetPhase(domain.PhaseRoleAssignment, rs.session.Round)

	e.logger.Info("game started",
		"roomCode", room.Code(),
		"players", room.PlayerCount(),
		"poolSize", len(pool),
	)

	snap := domain.Snapshot(room, rs.session)
	e.emit(room.Code(), domain.EventGameStarted, &domain.RoomUpdatePayload{Room: snap})

	return snap, nil
}

// MarkReady toggles the player's readiness for the given phase and
// broadcasts the updated count. When the readiness quorum over the alive
// set is reached, all_players_ready is broadcast as well.
func (e *Engine) MarkReady(roomCode, playerID string, phase domain.Phase, ready bool) error {
	if !phase.Valid() {
		return domain.ErrInvalidPhase
	}

	return e.withSession(roomCode, func(rs *roomSession) error {
		rs.session.MarkReady(playerID, phase, ready)
		if p, ok := rs.room.Player(playerID); ok && phase == rs.session.Phase {
			p.IsReady = ready
		}

		snap := domain.Snapshot(rs.room, rs.session)
		e.emit(roomCode, domain.EventPlayerReadyUpdate, &domain.ReadyUpdatePayload{
			PlayerID:   playerID,
			Phase:      phase,
			Ready:      ready,
			ReadyCount: rs.session.ReadyCount(phase),
			AliveCount: rs.session.AliveCount(),
			Room:       snap,
		})

		if rs.session.AllReady(phase) {
			e.emit(roomCode, domain.EventAllPlayersReady, &domain.AllReadyPayload{
				Phase: phase,
				Room:  snap,
			})
		}
		return nil
	})
}

// SubmitAnswer stores the player's answer for the active round,
// overwriting any prior submission.
func (e *Engine) SubmitAnswer(roomCode, playerID, questionID, text string) error {
	return e.withSession(roomCode, func(rs *roomSession) error {
		rs.session.SubmitAnswer(playerID, questionID, text)

		e.emit(roomCode, domain.EventAnswerSubmitted, &domain.AnswerSubmittedPayload{
			PlayerID:           playerID,
			QuestionID:         questionID,
			AllAnswersReceived: rs.session.AllAnswersReceived(),
			Room:               domain.Snapshot(rs.room, rs.session),
		})
		return nil
	})
}

// CastVote records the voter's choice for the current round. Once every
// alive player has voted the round is tallied exactly once: the most
// voted target is eliminated (ties break toward the lowest player ID) and
// voting_complete carries the outcome.
func (e *Engine) CastVote(roomCode, voterID, targetID string) error {
	return e.withSession(roomCode, func(rs *roomSession) error {
		rs.session.CastVote(voterID, targetID)

		e.emit(roomCode, domain.EventVoteCast, &domain.VoteCastPayload{
			VoterID:          voterID,
			TargetID:         targetID,
			CurrentVotes:     rs.session.Votes(),
			AllVotesReceived: rs.session.AllVotesReceived(),
			Room:             domain.Snapshot(rs.room, rs.session),
		})

		if rs.session.AllVotesReceived() && !rs.session.VotingDone() {
			e.tally(rs)
		}
		return nil
	})
}

// tally runs the round's vote count under the caller's room lock.
func (e *Engine) tally(rs *roomSession) {
	result := rs.session.Tally()

	var eliminated *domain.PlayerView
	if result.EliminatedID != "" {
		if p, ok := rs.room.Player(result.EliminatedID); ok {
			p.IsAlive = false
			view := p.View()
			eliminated = &view
		}
	}

	e.logger.Info("votes tallied",
		"roomCode", rs.room.Code(),
		"eliminated", result.EliminatedID,
		"wasImpostor", result.WasImpostor,
	)

	e.emit(rs.room.Code(), domain.EventVotingComplete, &domain.VotingCompletePayload{
		Eliminated:  eliminated,
		WasImpostor: result.WasImpostor,
		Counts:      result.Counts,
		Room:        domain.Snapshot(rs.room, rs.session),
	})
}

// AdvancePhase moves the room's session to the next phase. It is the only
// mutator of phase and round, gated on the current phase's quorum, and on
// leaving results it evaluates the win conditions.
func (e *Engine) AdvancePhase(roomCode string) (*domain.RoomSnapshot, error) {
	var snap *domain.RoomSnapshot
	err := e.withSession(roomCode, func(rs *roomSession) error {
		previous := rs.session.Phase
		next, err := rs.session.Advance()
		if err != nil {
			return err
		}

		for _, p := range rs.room.Players() {
			p.IsReady = false
		}
		rs.room.SetPhase(next, rs.session.Round)

		snap = domain.Snapshot(rs.room, rs.session)
		e.emit(roomCode, domain.EventPhaseChanged, &domain.PhaseChangedPayload{
			PreviousPhase: previous,
			Phase:         next,
			Round:         rs.session.Round,
			Room:          snap,
		})

		if next == domain.PhaseFinished {
			e.logger.Info("game over", "roomCode", roomCode, "winner", rs.session.Winner)
			e.emit(roomCode, domain.EventGameOver, &domain.GameOverPayload{
				Winner:     rs.session.Winner,
				ImpostorID: rs.session.ImpostorID,
				Room:       snap,
			})
		}
		return nil
	})
	return snap, err
}

// GetState returns the full room + session snapshot for reconnect
// synchronization. Rooms without a started game return a roster-only
// snapshot.
func (e *Engine) GetState(roomCode string) (*domain.RoomSnapshot, error) {
	roomCode = strings.ToUpper(roomCode)
	e.mu.Lock()
	rs, ok := e.sessions[roomCode]
	e.mu.Unlock()

	if ok {
		rs.mu.Lock()
		defer rs.mu.Unlock()
		return domain.Snapshot(rs.room, rs.session), nil
	}

	room, err := e.directory.Get(roomCode)
	if err != nil {
		return nil, err
	}
	return domain.Snapshot(room, nil), nil
}

// EndSession discards the room's session, typically when the room itself
// is destroyed.
func (e *Engine) EndSession(roomCode string) {
	e.mu.Lock()
	roomCode = strings.ToUpper(roomCode)
	defer e.mu.Unlock()
	delete(e.sessions, roomCode)
}

// SessionCount returns the number of active sessions.
func (e *Engine) SessionCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}

// withSession runs fn under the room's exclusive lock. Operations on a
// room without a session report whether the room is missing entirely or
// just not started.
func (e *Engine) withSession(roomCode string, fn func(rs *roomSession) error) error {
	roomCode = strings.ToUpper(roomCode)
	e.mu.Lock()
	rs, ok := e.sessions[roomCode]
	e.mu.Unlock()

	if !ok {
		if _, err := e.directory.Get(roomCode); err != nil {
			return err
		}
		return domain.ErrGameNotStarted
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	return fn(rs)
}

// emit hands an event to the sink. Events are emitted inside the room's
// critical section, so per-subscriber delivery order matches mutation
// order.
func (e *Engine) emit(roomCode string, eventType domain.EventType, payload interface{}) {
	e.sink.Broadcast(roomCode, domain.NewEvent(eventType, roomCode, payload))
}
