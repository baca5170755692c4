package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRank_EmptyInput(t *testing.T) {
	standings := Rank(nil)
	require.Empty(t, standings)

	standings = Rank([]Row{})
	require.Empty(t, standings)
}

func TestRank_IgnoresIncorrectSubmissions(t *testing.T) {
	base := time.Now()

	standings := Rank([]Row{
		{UserID: 1, Flag: "wrong", ChallengeFlag: "FLAG{x}", PointValue: 100, CreatedAt: base},
		{UserID: 1, Flag: "also wrong", ChallengeFlag: "FLAG{x}", PointValue: 100, CreatedAt: base.Add(time.Minute)},
	})

	require.Empty(t, standings)
}

func TestRank_AccumulatesAcrossChallenges(t *testing.T) {
	base := time.Now()

	standings := Rank([]Row{
		{UserID: 1, Flag: "FLAG{a}", ChallengeFlag: "FLAG{a}", PointValue: 100, CreatedAt: base},
		{UserID: 1, Flag: "FLAG{b}", ChallengeFlag: "FLAG{b}", PointValue: 250, CreatedAt: base.Add(time.Minute)},
		{UserID: 1, Flag: "nope", ChallengeFlag: "FLAG{c}", PointValue: 500, CreatedAt: base.Add(2 * time.Minute)},
		{UserID: 2, Flag: "FLAG{a}", ChallengeFlag: "FLAG{a}", PointValue: 100, CreatedAt: base.Add(3 * time.Minute)},
	})

	require.Len(t, standings, 2)
	require.Equal(t, uint64(1), standings[0].UserID)
	require.Equal(t, 350, standings[0].Score)
	require.Equal(t, 2, standings[0].ChallengesSolved)
	require.Equal(t, uint64(2), standings[1].UserID)
	require.Equal(t, 100, standings[1].Score)
	require.Equal(t, 1, standings[1].ChallengesSolved)
}

func TestRank_CountsEveryCorrectRow(t *testing.T) {
	// The gate prevents two correct rows for the same challenge; the
	// engine itself sums whatever the log contains.
	base := time.Now()

	standings := Rank([]Row{
		{UserID: 1, Flag: "FLAG{a}", ChallengeFlag: "FLAG{a}", PointValue: 100, CreatedAt: base},
		{UserID: 1, Flag: "FLAG{a}", ChallengeFlag: "FLAG{a}", PointValue: 100, CreatedAt: base.Add(time.Second)},
	})

	require.Len(t, standings, 1)
	require.Equal(t, 200, standings[0].Score)
	require.Equal(t, 2, standings[0].ChallengesSolved)
}

func TestRank_TieBreakOnEarlierLastSolve(t *testing.T) {
	base := time.Now()

	rows := []Row{
		{UserID: 7, Flag: "FLAG{a}", ChallengeFlag: "FLAG{a}", PointValue: 100, CreatedAt: base.Add(time.Hour)},
		{UserID: 3, Flag: "FLAG{a}", ChallengeFlag: "FLAG{a}", PointValue: 100, CreatedAt: base},
	}

	standings := Rank(rows)
	require.Len(t, standings, 2)
	require.Equal(t, uint64(3), standings[0].UserID)
	require.Equal(t, uint64(7), standings[1].UserID)

	// Encounter order must not matter.
	reversed := Rank([]Row{rows[1], rows[0]})
	require.Equal(t, standings, reversed)
}

func TestRank_TieBreakOnUserID(t *testing.T) {
	at := time.Now()

	standings := Rank([]Row{
		{UserID: 9, Flag: "FLAG{a}", ChallengeFlag: "FLAG{a}", PointValue: 100, CreatedAt: at},
		{UserID: 4, Flag: "FLAG{a}", ChallengeFlag: "FLAG{a}", PointValue: 100, CreatedAt: at},
	})

	require.Len(t, standings, 2)
	require.Equal(t, uint64(4), standings[0].UserID)
	require.Equal(t, uint64(9), standings[1].UserID)
}
