package cmds

import (
	"context"
)

var friendListCommand = &Command{
	Name:    "friends",
	HelpMsg: "好友列表 [昵称] - 查看指定玩家的好友列表",
	Parse:   prefixed("好友列表", anyRest),
	Exec: func(ctx context.Context, d *Dispatcher, req *Request) (string, error) {
		return d.stats.FriendList(ctx, req.argOrSelf(0))
	},
}

var onlineFriendsCommand = &Command{
	Name:    "online_friends",
	HelpMsg: "在线好友 [昵称] - 查看指定玩家的在线好友",
	Parse:   prefixed("在线好友", anyRest),
	Exec: func(ctx context.Context, d *Dispatcher, req *Request) (string, error) {
		return d.stats.OnlineFriendList(ctx, req.argOrSelf(0))
	},
}
