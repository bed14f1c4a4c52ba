package cmds

import (
	"context"
	"regexp"
	"strings"

	"github.com/awfufu/go-statbot/internal/stats"
	"github.com/google/shlex"
)

var playerStatsCommand = &Command{
	Name:    "player_stats",
	HelpMsg: "战绩统计 [昵称] [场数] - 查询最近N场比赛统计",
	Parse:   prefixed("战绩统计", statsArgs),
	Exec: func(ctx context.Context, d *Dispatcher, req *Request) (string, error) {
		games := stats.DefaultGames
		if len(req.Args) > 1 && isNumeric(req.Args[1]) {
			games = str2int(req.Args[1])
		}
		return d.stats.PlayerStats(ctx, req.Args[0], games)
	},
}

var matchupStatsCommand = &Command{
	Name:    "matchup_stats",
	HelpMsg: "对局统计 [昵称1] [昵称2] - 查询两玩家对局统计",
	Parse:   prefixed("对局统计", matchupArgs),
	Exec: func(ctx context.Context, d *Dispatcher, req *Request) (string, error) {
		return d.stats.MatchupStats(ctx, req.Args[0], req.Args[1])
	},
}

// statsArgs splits "<nickname> [games]". Balanced quotes allow nicknames
// with spaces; a stray quote is kept as part of the nickname.
func statsArgs(rest string) ([]string, bool) {
	params := strings.Fields(rest)
	if strings.ContainsAny(rest, `"'`) {
		if parts, err := shlex.Split(rest); err == nil {
			params = parts
		}
	}
	if len(params) == 0 || params[0] == "" {
		return nil, false
	}
	return params, true
}

var matchupSep = regexp.MustCompile(`[\s\p{Zs}_]+`)

// matchupArgs accepts "A B" as well as "A_B". A leading separator yields an
// empty first nickname, so "_B" still selects the command.
func matchupArgs(rest string) ([]string, bool) {
	params := matchupSep.Split(rest, -1)
	return params, len(params) >= 2
}
