package cmds

import (
	"context"
)

var weeklyReportCommand = &Command{
	Name:    "weekly_report",
	HelpMsg: "个人周报 [昵称] - 查询上周统计数据",
	Parse:   prefixed("个人周报", anyRest),
	Exec: func(ctx context.Context, d *Dispatcher, req *Request) (string, error) {
		return d.stats.WeeklyReport(ctx, req.argOrSelf(0))
	},
}

var dailyReportCommand = &Command{
	Name:    "daily_report",
	HelpMsg: "个人日报 [昵称] - 查询昨日统计数据",
	Parse:   prefixed("个人日报", anyRest),
	Exec: func(ctx context.Context, d *Dispatcher, req *Request) (string, error) {
		return d.stats.DailyReport(ctx, req.argOrSelf(0))
	},
}
