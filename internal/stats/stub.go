package stats

import (
	"context"
	"fmt"
)

// Stub echoes the command label and its arguments. It stands in for a real
// statistics backend until one is wired up.
type Stub struct{}

var _ Provider = Stub{}

func (Stub) OnlinePlayers(ctx context.Context) (string, error) {
	return "在线玩家", nil
}

func (Stub) PlayerInfo(ctx context.Context, nickname string) (string, error) {
	return fmt.Sprintf("玩家信息 %s", nickname), nil
}

func (Stub) Leaderboard(ctx context.Context, limit int) (string, error) {
	return fmt.Sprintf("排行榜 %d", limit), nil
}

func (Stub) OnlineElitePlayers(ctx context.Context, limit int) (string, error) {
	return fmt.Sprintf("在线高手 %d", limit), nil
}

func (Stub) OnlineLowPlayers(ctx context.Context, limit int) (string, error) {
	return fmt.Sprintf("在线低手 %d", limit), nil
}

func (Stub) GroupLeaderboard(ctx context.Context, limit int) (string, error) {
	return fmt.Sprintf("群排行榜 %d", limit), nil
}

func (Stub) FriendList(ctx context.Context, nickname string) (string, error) {
	return fmt.Sprintf("好友列表 %s", nickname), nil
}

func (Stub) OnlineFriendList(ctx context.Context, nickname string) (string, error) {
	return fmt.Sprintf("在线好友列表 %s", nickname), nil
}

func (Stub) PlayerStats(ctx context.Context, nickname string, games int) (string, error) {
	return fmt.Sprintf("战绩统计 %s %d", nickname, games), nil
}

func (Stub) MatchupStats(ctx context.Context, nickname1, nickname2 string) (string, error) {
	return fmt.Sprintf("对局统计 %s %s", nickname1, nickname2), nil
}

func (Stub) WeeklyReport(ctx context.Context, nickname string) (string, error) {
	return fmt.Sprintf("个人周报 %s", nickname), nil
}

func (Stub) DailyReport(ctx context.Context, nickname string) (string, error) {
	return fmt.Sprintf("个人日报 %s", nickname), nil
}
