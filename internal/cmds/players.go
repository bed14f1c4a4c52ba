package cmds

import (
	"context"
)

var onlinePlayersCommand = &Command{
	Name:    "online",
	HelpMsg: "在线玩家 - 查看群友实时在线状态",
	Parse:   exact("在线玩家"),
	Exec: func(ctx context.Context, d *Dispatcher, req *Request) (string, error) {
		return d.stats.OnlinePlayers(ctx)
	},
}

var playerInfoCommand = &Command{
	Name:    "player",
	HelpMsg: "查询 [昵称] - 查询玩家详细信息(如：查询VP)",
	Parse:   prefixed("查询", nonEmpty),
	Exec: func(ctx context.Context, d *Dispatcher, req *Request) (string, error) {
		return d.stats.PlayerInfo(ctx, req.Args[0])
	},
}

var onlineEliteCommand = &Command{
	Name:    "online_elite",
	HelpMsg: "在线高手 [N] - 查看在线ELO>2000的前N名",
	Parse:   prefixed("在线高手", numeric),
	Exec: func(ctx context.Context, d *Dispatcher, req *Request) (string, error) {
		return d.stats.OnlineElitePlayers(ctx, str2int(req.Args[0]))
	},
}

var onlineLowCommand = &Command{
	Name:    "online_low",
	HelpMsg: "在线低手 [N] - 查看在线ELO<1500的前N名",
	Parse:   prefixed("在线低手", numeric),
	Exec: func(ctx context.Context, d *Dispatcher, req *Request) (string, error) {
		return d.stats.OnlineLowPlayers(ctx, str2int(req.Args[0]))
	},
}
