package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/awfufu/go-statbot/internal/cmds"
	"github.com/awfufu/go-statbot/internal/config"
	"github.com/awfufu/go-statbot/internal/db"
	"github.com/awfufu/go-statbot/internal/llm"
	"github.com/awfufu/go-statbot/internal/logging"
	"github.com/awfufu/go-statbot/internal/qbot"
	"github.com/awfufu/go-statbot/internal/router"
	"github.com/awfufu/go-statbot/internal/stats"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Receive NapCat events and answer them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, path, cmd.ErrOrStderr())
		},
	}
}

func serve(ctx context.Context, path string, w io.Writer) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	logger, err := logging.New(w, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	dsn := cfg.Database.Path
	if cfg.Database.Driver == "postgres" {
		dsn = cfg.Database.DSN
	}
	store, err := db.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return err
	}
	defer store.Close()

	ai, err := llm.New(cfg.LLMSuppliers())
	if err != nil {
		return err
	}

	var provider stats.Provider = stats.Stub{}
	if cfg.Rcon.Address != "" {
		provider = stats.NewRconOnline(provider, cfg.Rcon.Address, cfg.Rcon.Password, cfg.Rcon.Command)
	}

	rc := cfg.Router()
	var handler router.Handler
	switch cfg.Bot.Mode {
	case config.ModeSharding:
		handler = router.NewSharding(rc, ai, logger)
	default:
		handler = router.New(rc, cmds.New(provider, rc.Prefix), ai, logger)
	}

	bot := qbot.NewClient(qbot.Options{
		Remote:      cfg.HttpRemote,
		Listen:      cfg.HttpListen,
		AccessToken: cfg.AccessToken,
		BotName:     rc.BotName,
		SelfID:      cfg.Bot.ID,
	}, logger)

	logger.Info("starting", "bot", rc.BotName, "mode", cfg.Bot.Mode, "service", rc.Service, "db", cfg.Database.Driver)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bot.Run(ctx)
	})
	g.Go(func() error {
		return eventLoop(ctx, bot, handler, store, logger)
	})
	return g.Wait()
}

// eventLoop handles every message on its own goroutine and records the
// outcome. It returns once ctx is done and in-flight messages finish.
func eventLoop(ctx context.Context, bot *qbot.Client, handler router.Handler, store *db.Store, logger *log.Logger) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-bot.Messages():
			wg.Add(1)
			go func() {
				defer wg.Done()
				out := handler.Handle(ctx, bot.Event(msg))

				rec := db.Record{
					MsgID:   msg.MsgID,
					UserID:  msg.UserID,
					GroupID: msg.GroupID,
					Name:    msg.Nickname,
					Card:    msg.Card,
					Raw:     msg.Raw,
					Content: msg.Content,
					Route:   out.Route,
					Failed:  out.Err != nil,
					Time:    time.Unix(int64(msg.Time), 0),
				}
				if err := store.SaveMessage(context.WithoutCancel(ctx), rec); err != nil {
					logger.Error("save message", "msg_id", msg.MsgID, "err", err)
				}
			}()
		}
	}
}
