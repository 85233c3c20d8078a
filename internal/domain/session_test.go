package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePlayers(n int) []*Player {
	players := make([]*Player, 0, n)
	for i := 1; i <= n; i++ {
		players = append(players, NewPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player%d", i), i == 1))
	}
	return players
}

func makePool(n int) []Identity {
	pool := make([]Identity, 0, n)
	for i := 1; i <= n; i++ {
		pool = append(pool, Identity{
			ID:   fmt.Sprintf("id-%d", i),
			Name: fmt.Sprintf("Identity %d", i),
		})
	}
	return pool
}

// startSession builds a session with roles assigned for n players.
func startSession(t *testing.T, n int) (*Session, []*Player) {
	t.Helper()
	session := NewSession("ABCDEF", 5)
	players := makePlayers(n)
	require.NoError(t, session.AssignRoles(players, makePool(n+5)))
	return session, players
}

// advanceReady marks every alive player ready for the phase and advances.
func advanceReady(t *testing.T, s *Session, players []*Player, phase Phase) {
	t.Helper()
	for _, p := range players {
		if s.IsAlive(p.ID) {
			s.MarkReady(p.ID, phase, true)
		}
	}
	_, err := s.Advance()
	require.NoError(t, err)
}

// toVoting walks an in-progress round from question to the voting phase.
func toVoting(t *testing.T, s *Session, players []*Player) {
	t.Helper()
	require.Equal(t, PhaseQuestion, s.Phase)
	for _, p := range players {
		if s.IsAlive(p.ID) {
			s.SubmitAnswer(p.ID, "q1", "an answer")
		}
	}
	_, err := s.Advance()
	require.NoError(t, err)
	require.Equal(t, PhaseDebate, s.Phase)
	advanceReady(t, s, players, PhaseDebate)
	require.Equal(t, PhaseVoting, s.Phase)
}

func TestAssignRolesExactlyOneImpostor(t *testing.T) {
	session, players := startSession(t, 4)

	impostors := 0
	for _, p := range players {
		if p.IsImpostor {
			impostors++
			assert.Equal(t, session.ImpostorID, p.ID)
			assert.Nil(t, p.Identity, "impostor must not receive an identity")
			_, assigned := session.Assignments[p.ID]
			assert.False(t, assigned, "impostor must be excluded from the assignment map")
		}
	}
	assert.Equal(t, 1, impostors)
	assert.Equal(t, PhaseRoleAssignment, session.Phase)
	assert.Equal(t, 4, session.AliveCount())
}

func TestAssignRolesDistinctIdentities(t *testing.T) {
	session, players := startSession(t, 6)

	seen := make(map[string]bool)
	for _, p := range players {
		if p.IsImpostor {
			continue
		}
		require.NotNil(t, p.Identity)
		assert.False(t, seen[p.Identity.ID], "identity %s dealt twice", p.Identity.ID)
		seen[p.Identity.ID] = true
		assert.Equal(t, *p.Identity, session.Assignments[p.ID])
	}
	assert.Len(t, seen, 5)
}

func TestAssignRolesShortPool(t *testing.T) {
	session := NewSession("ABCDEF", 5)
	players := makePlayers(5)

	// Two identities for five players: assignment is partial, not an error
	require.NoError(t, session.AssignRoles(players, makePool(2)))

	assigned := 0
	for _, p := range players {
		if p.Identity != nil {
			assigned++
		}
	}
	assert.LessOrEqual(t, assigned, 2)
	assert.Equal(t, 5, session.AliveCount(), "unmatched players still join the game")
}

func TestAssignRolesRunsOnce(t *testing.T) {
	session, players := startSession(t, 4)

	err := session.AssignRoles(players, makePool(10))
	assert.ErrorIs(t, err, ErrGameAlreadyStarted)
}

func TestAssignRolesNeedsTwoPlayers(t *testing.T) {
	session := NewSession("ABCDEF", 5)
	err := session.AssignRoles(makePlayers(1), makePool(5))
	assert.ErrorIs(t, err, ErrInsufficientPlayers)
}

func TestMarkReadyQuorum(t *testing.T) {
	session, players := startSession(t, 4)

	for i, p := range players {
		assert.False(t, session.AllReady(PhaseRoleAssignment), "quorum reached after %d of 4", i)
		session.MarkReady(p.ID, PhaseRoleAssignment, true)
	}
	assert.True(t, session.AllReady(PhaseRoleAssignment))

	// Idempotent: marking again changes nothing
	session.MarkReady(players[0].ID, PhaseRoleAssignment, true)
	assert.Equal(t, 4, session.ReadyCount(PhaseRoleAssignment))

	// Un-ready removes from the set
	session.MarkReady(players[0].ID, PhaseRoleAssignment, false)
	assert.False(t, session.AllReady(PhaseRoleAssignment))
	assert.Equal(t, 3, session.ReadyCount(PhaseRoleAssignment))
}

func TestMarkReadyUnknownPlayerRecorded(t *testing.T) {
	session, players := startSession(t, 2)

	session.MarkReady("ghost", PhaseRoleAssignment, true)
	assert.Equal(t, 1, session.ReadyCount(PhaseRoleAssignment))
	assert.False(t, session.AllReady(PhaseRoleAssignment))

	session.MarkReady(players[0].ID, PhaseRoleAssignment, true)
	session.MarkReady(players[1].ID, PhaseRoleAssignment, true)
	assert.True(t, session.AllReady(PhaseRoleAssignment))
}

func TestAnswersLastWriteWins(t *testing.T) {
	session, players := startSession(t, 3)
	advanceReady(t, session, players, PhaseRoleAssignment)
	require.Equal(t, PhaseQuestion, session.Phase)

	session.SubmitAnswer("p1", "q1", "first")
	session.SubmitAnswer("p1", "q1", "second")
	assert.False(t, session.AllAnswersReceived())

	session.SubmitAnswer("p2", "q1", "two")
	session.SubmitAnswer("p3", "q1", "three")
	assert.True(t, session.AllAnswersReceived())
}

func TestTallyDeterminism(t *testing.T) {
	session, _ := startSession(t, 3)

	// Votes {A→X, B→X, C→Y}: X is eliminated with count 2
	session.CastVote("p1", "p3")
	session.CastVote("p2", "p3")
	session.CastVote("p3", "p1")

	result := session.Tally()
	require.NotNil(t, result)
	assert.Equal(t, "p3", result.EliminatedID)
	assert.Equal(t, 2, result.Counts["p3"])
	assert.Equal(t, 1, result.Counts["p1"])
	assert.Equal(t, result.WasImpostor, session.ImpostorID == "p3")

	assert.False(t, session.IsAlive("p3"))
	assert.Equal(t, 2, session.AliveCount())
	assert.Empty(t, session.Votes(), "vote set must be cleared after tally")
	assert.True(t, session.VotingDone())
}

func TestTallyTieBreaksLowestID(t *testing.T) {
	session, _ := startSession(t, 4)

	session.CastVote("p1", "p4")
	session.CastVote("p2", "p3")
	session.CastVote("p3", "p4")
	session.CastVote("p4", "p3")

	result := session.Tally()
	assert.Equal(t, "p3", result.EliminatedID, "ties break toward the lowest player id")
}

func TestTallyNoVotes(t *testing.T) {
	session, _ := startSession(t, 3)

	result := session.Tally()
	assert.Empty(t, result.EliminatedID)
	assert.False(t, result.WasImpostor)
	assert.Equal(t, 3, session.AliveCount())
}

func TestVoteOverwrite(t *testing.T) {
	session, _ := startSession(t, 3)

	session.CastVote("p1", "p2")
	session.CastVote("p1", "p3")
	assert.Equal(t, 1, session.VoteCount(), "a voter appears at most once per round")
	assert.Equal(t, "p3", session.Votes()["p1"])
}

func TestVoteIneligibleTargetCounted(t *testing.T) {
	session, _ := startSession(t, 3)

	// Target eligibility is deliberately not validated
	session.CastVote("p1", "nobody")
	session.CastVote("p2", "nobody")
	session.CastVote("p3", "nobody")

	result := session.Tally()
	assert.Equal(t, "nobody", result.EliminatedID)
	assert.Equal(t, 3, result.Counts["nobody"])
	assert.Equal(t, 3, session.AliveCount(), "eliminating a non-roster target leaves the alive set intact")
}

func TestAdvanceQuorumGating(t *testing.T) {
	session, players := startSession(t, 3)

	_, err := session.Advance()
	assert.ErrorIs(t, err, ErrQuorumNotMet)

	advanceReady(t, session, players, PhaseRoleAssignment)
	assert.Equal(t, PhaseQuestion, session.Phase)

	// Readiness does not leak into the next phase
	assert.Equal(t, 0, session.ReadyCount(PhaseRoleAssignment))

	_, err = session.Advance()
	assert.ErrorIs(t, err, ErrQuorumNotMet, "question needs the answer quorum")

	for _, p := range players {
		session.SubmitAnswer(p.ID, "q1", "text")
	}
	_, err = session.Advance()
	require.NoError(t, err)
	assert.Equal(t, PhaseDebate, session.Phase)

	_, err = session.Advance()
	assert.ErrorIs(t, err, ErrQuorumNotMet)
	advanceReady(t, session, players, PhaseDebate)
	assert.Equal(t, PhaseVoting, session.Phase)

	_, err = session.Advance()
	assert.ErrorIs(t, err, ErrQuorumNotMet, "voting needs a completed tally")
}

func TestQuorumMonotonicWithinPhase(t *testing.T) {
	session, players := startSession(t, 3)
	advanceReady(t, session, players, PhaseRoleAssignment)

	for _, p := range players {
		session.SubmitAnswer(p.ID, "q1", "text")
	}
	require.True(t, session.AllAnswersReceived())

	// Answers only accumulate within a round, so the quorum holds
	session.SubmitAnswer("p1", "q1", "edited")
	assert.True(t, session.AllAnswersReceived())
}

func TestWinPlayersEliminateImpostor(t *testing.T) {
	session, players := startSession(t, 4)
	advanceReady(t, session, players, PhaseRoleAssignment)
	toVoting(t, session, players)

	for _, p := range players {
		session.CastVote(p.ID, session.ImpostorID)
	}
	result := session.Tally()
	require.True(t, result.WasImpostor)

	_, err := session.Advance()
	require.NoError(t, err)
	require.Equal(t, PhaseResults, session.Phase)

	advanceReady(t, session, players, PhaseResults)
	assert.Equal(t, PhaseFinished, session.Phase)
	assert.Equal(t, WinnerPlayers, session.Winner)
}

func TestWinImpostorByParity(t *testing.T) {
	// 1 impostor and 3 others: eliminating non-impostors hands the
	// impostor the win at parity, before the roster empties
	session, players := startSession(t, 4)
	advanceReady(t, session, players, PhaseRoleAssignment)

	for round := 0; round < 3; round++ {
		toVoting(t, session, players)

		var target string
		for _, p := range players {
			if p.ID != session.ImpostorID && session.IsAlive(p.ID) {
				target = p.ID
				break
			}
		}
		require.NotEmpty(t, target)

		for _, p := range players {
			if session.IsAlive(p.ID) {
				session.CastVote(p.ID, target)
			}
		}
		result := session.Tally()
		require.Equal(t, target, result.EliminatedID)
		require.False(t, result.WasImpostor)

		_, err := session.Advance()
		require.NoError(t, err)
		require.Equal(t, PhaseResults, session.Phase)

		advanceReady(t, session, players, PhaseResults)
		if session.Phase == PhaseFinished {
			assert.Equal(t, WinnerImpostor, session.Winner)
			return
		}
		require.Equal(t, PhaseQuestion, session.Phase)
	}

	t.Fatal("impostor never won despite reaching parity")
}

func TestWinImpostorByRoundExhaustion(t *testing.T) {
	// Eight players and five rounds: one wrong elimination per round still
	// leaves the impostor with two companions, so the round cap decides it
	session := NewSession("ABCDEF", 5)
	players := makePlayers(8)
	require.NoError(t, session.AssignRoles(players, makePool(12)))
	advanceReady(t, session, players, PhaseRoleAssignment)

	for round := 1; round <= 5; round++ {
		require.Equal(t, round, session.Round)
		toVoting(t, session, players)

		var target string
		for _, p := range players {
			if p.ID != session.ImpostorID && session.IsAlive(p.ID) {
				target = p.ID
				break
			}
		}
		for _, p := range players {
			if session.IsAlive(p.ID) {
				session.CastVote(p.ID, target)
			}
		}
		result := session.Tally()
		require.False(t, result.WasImpostor)

		_, err := session.Advance()
		require.NoError(t, err)
		advanceReady(t, session, players, PhaseResults)

		if round < 5 {
			require.Equal(t, PhaseQuestion, session.Phase)
		}
	}

	assert.Equal(t, PhaseFinished, session.Phase)
	assert.Equal(t, WinnerImpostor, session.Winner)
	assert.Equal(t, 5, session.Round)
}

func TestNewRoundClearsRoundState(t *testing.T) {
	session, players := startSession(t, 6)
	advanceReady(t, session, players, PhaseRoleAssignment)
	toVoting(t, session, players)

	var target string
	for _, p := range players {
		if p.ID != session.ImpostorID {
			target = p.ID
			break
		}
	}
	for _, p := range players {
		session.CastVote(p.ID, target)
	}
	session.Tally()

	_, err := session.Advance()
	require.NoError(t, err)
	advanceReady(t, session, players, PhaseResults)
	require.Equal(t, PhaseQuestion, session.Phase)
	assert.Equal(t, 2, session.Round)

	// Entering question clears the prior round's answers and votes
	assert.False(t, session.AllAnswersReceived())
	assert.Equal(t, 0, session.VoteCount())
	assert.False(t, session.VotingDone())
	assert.Nil(t, session.LastTally)
}

func TestAdvanceFromTerminalPhase(t *testing.T) {
	session, _ := startSession(t, 2)
	session.Phase = PhaseFinished

	_, err := session.Advance()
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestAdvanceFromWaiting(t *testing.T) {
	session := NewSession("ABCDEF", 5)

	_, err := session.Advance()
	assert.ErrorIs(t, err, ErrInvalidPhase, "waiting leaves only via role assignment")
}

func TestSessionViewReflectsState(t *testing.T) {
	session, players := startSession(t, 4)

	view := session.View()
	assert.Equal(t, PhaseRoleAssignment, view.Phase)
	assert.Equal(t, 1, view.Round)
	assert.Equal(t, 5, view.TotalRounds)
	assert.Len(t, view.AlivePlayers, 4)
	assert.Len(t, view.Assignments, 3)
	assert.Equal(t, session.ImpostorID, view.ImpostorID)

	session.MarkReady(players[0].ID, PhaseRoleAssignment, true)
	view = session.View()
	assert.Equal(t, []string{players[0].ID}, view.ReadyPlayers)
}
