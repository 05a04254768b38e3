// Package account manages player accounts and their lifetime statistics.
package account

// Account is one registered player with career win/loss/draw totals.
type Account struct {
	Username string
	Password string
	Wins     int
	Losses   int
	Draws    int
}

// TotalGames returns how many finished games the account has played.
func (a Account) TotalGames() int {
	return a.Wins + a.Losses + a.Draws
}
