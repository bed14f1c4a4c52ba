package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/awfufu/go-statbot/internal/db"
	"github.com/stretchr/testify/require"
)

func TestHistoryPrintsNewestFirst(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "bot.db")

	// given
	store, err := db.Open("sqlite", path)
	req.NoError(err)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)
	req.NoError(store.SaveMessage(context.Background(), db.Record{
		MsgID: 1, UserID: 10, GroupID: 100, Name: "alice", Card: "VP",
		Raw: "@statbot 查询VP", Content: "@statbot 查询VP", Route: "player", Time: base,
	}))
	req.NoError(store.SaveMessage(context.Background(), db.Record{
		MsgID: 2, UserID: 11, Name: "bob",
		Raw: "hi\nthere", Content: "hi\nthere", Failed: true, Time: base.Add(time.Minute),
	}))
	req.NoError(store.Close())

	// when
	out := runRoot(t, "", "history", "--dsn", path, "-n", "5")

	// then
	lines := strings.Split(strings.TrimSpace(out), "\n")
	req.Equal([]string{
		"2026-03-01 12:01:00\t0\tbob\t-!\thi\\nthere",
		"2026-03-01 12:00:00\t100\tVP\tplayer\t@statbot 查询VP",
	}, lines)
}
