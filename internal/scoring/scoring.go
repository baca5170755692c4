// Package scoring computes game leaderboards from the raw submission log.
// It is a pure read-time aggregation: correctness is derived by comparing
// each attempt against its challenge's flag, nothing is cached, and
// deduplication of solves is the submission gate's responsibility.
package scoring

import (
	"sort"
	"time"
)

// Row is one submission joined with its challenge's flag and point value.
type Row struct {
	UserID        uint64
	Flag          string
	ChallengeFlag string
	PointValue    int
	CreatedAt     time.Time
}

// Standing is one user's aggregate on the leaderboard.
type Standing struct {
	UserID           uint64
	Score            int
	ChallengesSolved int
	LastSolveAt      time.Time
}

// Rank aggregates correct submissions per user and returns standings sorted
// by score descending. Ties break on the earlier time of the user's last
// counted solve, then on ascending user ID, so the order is deterministic
// for identical inputs.
func Rank(rows []Row) []Standing {
	totals := make(map[uint64]*Standing)

	for _, row := range rows {
		if row.Flag != row.ChallengeFlag {
			continue
		}

		standing, ok := totals[row.UserID]
		if !ok {
			standing = &Standing{UserID: row.UserID}
			totals[row.UserID] = standing
		}

		standing.Score += row.PointValue
		standing.ChallengesSolved++
		if row.CreatedAt.After(standing.LastSolveAt) {
			standing.LastSolveAt = row.CreatedAt
		}
	}

	standings := make([]Standing, 0, len(totals))
	for _, standing := range totals {
		standings = append(standings, *standing)
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score > standings[j].Score
		}
		if !standings[i].LastSolveAt.Equal(standings[j].LastSolveAt) {
			return standings[i].LastSolveAt.Before(standings[j].LastSolveAt)
		}
		return standings[i].UserID < standings[j].UserID
	})

	return standings
}
