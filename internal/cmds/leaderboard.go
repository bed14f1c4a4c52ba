package cmds

import (
	"context"

	"github.com/awfufu/go-statbot/internal/stats"
)

// The exact forms come first so "排行榜" never reaches the numeric parser,
// and "排行榜10" skips the exact form.

var leaderboardCommand = &Command{
	Name:    "leaderboard",
	HelpMsg: "排行榜 - 查看世界前十名",
	Parse:   exact("排行榜"),
	Exec: func(ctx context.Context, d *Dispatcher, req *Request) (string, error) {
		return d.stats.Leaderboard(ctx, stats.DefaultLimit)
	},
}

var leaderboardNCommand = &Command{
	Name:    "leaderboard_n",
	HelpMsg: "排行榜 [N] - 查看世界前N名",
	Parse:   prefixed("排行榜", numeric),
	Exec: func(ctx context.Context, d *Dispatcher, req *Request) (string, error) {
		return d.stats.Leaderboard(ctx, str2int(req.Args[0]))
	},
}

var groupLeaderboardCommand = &Command{
	Name:    "group_leaderboard",
	HelpMsg: "群排行榜 - 查看群内前10名",
	Parse:   exact("群排行榜"),
	Exec: func(ctx context.Context, d *Dispatcher, req *Request) (string, error) {
		return d.stats.GroupLeaderboard(ctx, stats.DefaultLimit)
	},
}

var groupLeaderboardNCommand = &Command{
	Name:    "group_leaderboard_n",
	HelpMsg: "群排行榜 [N] - 查看群内前N名",
	Parse:   prefixed("群排行榜", numeric),
	Exec: func(ctx context.Context, d *Dispatcher, req *Request) (string, error) {
		return d.stats.GroupLeaderboard(ctx, str2int(req.Args[0]))
	},
}
