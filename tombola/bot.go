package tombola

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/ellavondegurechaff/tombola/tombola/database"
	"github.com/ellavondegurechaff/tombola/tombola/database/repositories"
	"github.com/ellavondegurechaff/tombola/tombola/giveaway"
	"github.com/ellavondegurechaff/tombola/tombola/services"
	"github.com/ellavondegurechaff/tombola/tombola/starboard"
	"github.com/ellavondegurechaff/tombola/tombola/stats"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
	}
}

type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string
	Commit    string
	DB        *database.DB

	GiveawayRepository    repositories.GiveawayRepository
	EntryRepository       repositories.EntryRepository
	SettingsRepository    repositories.SettingsRepository
	MemberStatsRepository repositories.MemberStatsRepository
	StarboardRepository   repositories.StarboardRepository

	Discord       *services.DiscordService
	SpacesService *services.SpacesService

	Manager     *giveaway.Manager
	Accumulator *giveaway.Accumulator
	Scheduler   *giveaway.Scheduler
	Locks       *starboard.GuildLocks
	Aggregator  *starboard.Aggregator
	Collector   *stats.Collector
	Invites     *stats.InviteTracker
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(
			gateway.IntentGuilds,
			gateway.IntentGuildMembers,
			gateway.IntentGuildMessages,
			gateway.IntentGuildMessageReactions,
			gateway.IntentGuildInvites,
			gateway.IntentMessageContent,
		)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds, cache.FlagMembers, cache.FlagRoles)),
		bot.WithEventManagerConfigOpts(bot.WithAsyncEventsEnabled()),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

// SetupServices builds the repositories and domain services. It needs the
// database and the client, so it runs after SetupBot.
func (b *Bot) SetupServices(ctx context.Context) error {
	bunDB := b.DB.BunDB()
	b.GiveawayRepository = repositories.NewGiveawayRepository(bunDB)
	b.EntryRepository = repositories.NewEntryRepository(bunDB)
	b.SettingsRepository = repositories.NewSettingsRepository(bunDB)
	b.MemberStatsRepository = repositories.NewMemberStatsRepository(b.DB)
	b.StarboardRepository = repositories.NewStarboardRepository(bunDB)

	b.Discord = services.NewDiscordService(b.Client)

	var mirror starboard.Uploader
	if b.Cfg.Spaces.Enabled() {
		spaces, err := services.NewSpacesService(ctx,
			b.Cfg.Spaces.Key,
			b.Cfg.Spaces.Secret,
			b.Cfg.Spaces.Region,
			b.Cfg.Spaces.Endpoint,
			b.Cfg.Spaces.Bucket,
			b.Cfg.Spaces.Root,
		)
		if err != nil {
			return fmt.Errorf("failed to set up spaces: %w", err)
		}
		b.SpacesService = spaces
		mirror = spaces
	}

	b.Manager = giveaway.NewManager(b.GiveawayRepository, b.EntryRepository, b.Discord, b.Cfg.Giveaway.MaxActive)
	b.Accumulator = giveaway.NewAccumulator(b.GiveawayRepository, b.EntryRepository, b.SettingsRepository, b.MemberStatsRepository)
	b.Scheduler = giveaway.NewScheduler(b.Manager, b.GiveawayRepository, b.Cfg.Giveaway.PollInterval.Duration, b.Cfg.Giveaway.Retention.Duration)

	b.Locks = starboard.NewGuildLocks(b.Cfg.Starboard.LockIdleTTL.Duration)
	aggregator, err := starboard.NewAggregator(b.StarboardRepository, b.Discord, mirror, b.Locks, b.Cfg.Starboard.ThrottleWindow.Duration)
	if err != nil {
		return fmt.Errorf("failed to set up starboard: %w", err)
	}
	b.Aggregator = aggregator

	collector, err := stats.NewCollector(b.MemberStatsRepository, b.Cfg.Stats.FlushInterval.Duration, b.Cfg.Stats.XPPerMessage, b.Cfg.Stats.XPCooldown.Duration)
	if err != nil {
		return fmt.Errorf("failed to set up stats: %w", err)
	}
	b.Collector = collector
	b.Invites = stats.NewInviteTracker(b.Discord, b.MemberStatsRepository)
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("Tombola is now ready",
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), config.NetworkDialTimeout)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithWatchingActivity("for giveaways"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}
}
