package engine

import "ctchen222/Tic-Tac-Toe-Solo/internal/events"

// ScoreBoard holds the session tallies. Exactly one counter moves per finished match.
type ScoreBoard struct {
	HumanWins    int `json:"human_wins"`
	ComputerWins int `json:"computer_wins"`
	Ties         int `json:"ties"`
}

// MatchesPlayed is the number of matches that reached a terminal outcome.
func (s ScoreBoard) MatchesPlayed() int {
	return s.HumanWins + s.ComputerWins + s.Ties
}

func (s ScoreBoard) payload() events.ScorePayload {
	return events.ScorePayload{
		HumanWins:    s.HumanWins,
		ComputerWins: s.ComputerWins,
		Ties:         s.Ties,
	}
}
