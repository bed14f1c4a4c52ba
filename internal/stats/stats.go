// Package stats declares the game statistics lookups the command table
// answers from. Every lookup returns preformatted text; an empty string
// means the lookup has nothing to say.
package stats

import "context"

const (
	// DefaultLimit is used by leaderboard commands given no explicit size.
	DefaultLimit = 10
	// DefaultGames is used by 战绩统计 when the game count is missing or malformed.
	DefaultGames = 10

	EliteRating = 2000
	LowRating   = 1500
)

type Provider interface {
	OnlinePlayers(ctx context.Context) (string, error)
	PlayerInfo(ctx context.Context, nickname string) (string, error)
	Leaderboard(ctx context.Context, limit int) (string, error)
	// OnlineElitePlayers lists online players rated above EliteRating.
	OnlineElitePlayers(ctx context.Context, limit int) (string, error)
	// OnlineLowPlayers lists online players rated below LowRating.
	OnlineLowPlayers(ctx context.Context, limit int) (string, error)
	GroupLeaderboard(ctx context.Context, limit int) (string, error)
	FriendList(ctx context.Context, nickname string) (string, error)
	OnlineFriendList(ctx context.Context, nickname string) (string, error)
	PlayerStats(ctx context.Context, nickname string, games int) (string, error)
	MatchupStats(ctx context.Context, nickname1, nickname2 string) (string, error)
	WeeklyReport(ctx context.Context, nickname string) (string, error)
	DailyReport(ctx context.Context, nickname string) (string, error)
}
