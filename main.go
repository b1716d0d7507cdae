package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/tombola/tombola"
	"github.com/ellavondegurechaff/tombola/tombola/commands"
	"github.com/ellavondegurechaff/tombola/tombola/commands/giveaways"
	"github.com/ellavondegurechaff/tombola/tombola/commands/starboards"
	"github.com/ellavondegurechaff/tombola/tombola/commands/system"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/ellavondegurechaff/tombola/tombola/database"
	"github.com/ellavondegurechaff/tombola/tombola/handlers"
	"github.com/ellavondegurechaff/tombola/tombola/logger"
	"github.com/ellavondegurechaff/tombola/tombola/utils"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(slog.LevelInfo)))

	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := tombola.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}
	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))

	slog.Info("Starting Tombola",
		slog.String("version", version),
		slog.String("commit", commit))

	dbStartTime := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	if err = db.Ping(ctx); err != nil {
		slog.Error("Database ping failed",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}
	if err = db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	slog.Info("Database ready",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	durations, err := utils.NewDurationParser()
	if err != nil {
		slog.Error("Failed to set up duration parser",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	b := tombola.New(*cfg, version, commit)
	b.DB = db

	h := handler.New()
	h.Command("/version", handlers.WrapWithLogging("version", system.VersionHandler(b)))

	if err = b.SetupBot(append(handlers.Listeners(b), h)...); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "bot_setup"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}
	if err = b.SetupServices(ctx); err != nil {
		slog.Error("Failed to set up services",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	// The routers read services from b, so they register after SetupServices.
	giveaways.NewHandler(b, durations).Register(h)
	starboards.NewHandler(b).Register(h)

	bpm := utils.NewBackgroundProcessManager(context.Background())
	bpm.StartProcess("giveaway_scheduler", b.Scheduler.Run)
	bpm.StartProcess("stats_collector", b.Collector.Run)
	bpm.StartProcess("starboard_lock_janitor", b.Locks.RunJanitor)

	defer func() {
		b.Aggregator.Close()
		if err := bpm.Shutdown(config.ShutdownTimeout); err != nil {
			slog.Error("Background processes did not stop in time",
				slog.String("type", "sys"),
				slog.Any("error", err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("component", "command_sync"),
				slog.String("status", "failed"),
			)
		}
	}

	gatewayCtx, gatewayCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gatewayCancel()
	if err = b.Client.OpenGateway(gatewayCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "gateway"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}
