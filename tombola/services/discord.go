package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

// ErrUnknownResource wraps Discord 404s (deleted channel, message or member).
var ErrUnknownResource = errors.New("unknown discord resource")

// ErrTooLarge is returned by Download when the body exceeds the limit.
var ErrTooLarge = errors.New("attachment exceeds size limit")

const (
	mib = 1 << 20

	downloadTimeout = 30 * time.Second
)

// IsUnknown reports whether err came from a Discord 404.
func IsUnknown(err error) bool {
	return errors.Is(err, ErrUnknownResource)
}

// MapError translates REST failures into the errors the domain packages check for.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	var restErr *rest.Error
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrUnknownResource, restErr.Message)
	}
	return err
}

// UploadLimit returns the per-file upload limit for a guild premium tier.
func UploadLimit(tier discord.PremiumTier) int64 {
	switch tier {
	case discord.PremiumTier2:
		return 50 * mib
	case discord.PremiumTier3:
		return 100 * mib
	default:
		return 10 * mib
	}
}

// DiscordService is the thin REST surface the giveaway and starboard
// packages talk to. Every call carries the caller's context.
type DiscordService struct {
	client bot.Client
	rest   rest.Rest
	http   *http.Client
}

func NewDiscordService(client bot.Client) *DiscordService {
	return &DiscordService{
		client: client,
		rest:   client.Rest(),
		http:   &http.Client{Timeout: downloadTimeout},
	}
}

func (s *DiscordService) GetMessage(ctx context.Context, channelID, messageID snowflake.ID) (*discord.Message, error) {
	msg, err := s.rest.GetMessage(channelID, messageID, rest.WithCtx(ctx))
	return msg, MapError(err)
}

func (s *DiscordService) CreateMessage(ctx context.Context, channelID snowflake.ID, create discord.MessageCreate) (*discord.Message, error) {
	msg, err := s.rest.CreateMessage(channelID, create, rest.WithCtx(ctx))
	return msg, MapError(err)
}

func (s *DiscordService) UpdateMessage(ctx context.Context, channelID, messageID snowflake.ID, update discord.MessageUpdate) (*discord.Message, error) {
	msg, err := s.rest.UpdateMessage(channelID, messageID, update, rest.WithCtx(ctx))
	return msg, MapError(err)
}

func (s *DiscordService) DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error {
	return MapError(s.rest.DeleteMessage(channelID, messageID, rest.WithCtx(ctx)))
}

func (s *DiscordService) AddReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji string) error {
	return MapError(s.rest.AddReaction(channelID, messageID, emoji, rest.WithCtx(ctx)))
}

func (s *DiscordService) RemoveUserReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji string, userID snowflake.ID) error {
	return MapError(s.rest.RemoveUserReaction(channelID, messageID, emoji, userID, rest.WithCtx(ctx)))
}

// GetGuildInvites decodes into ExtendedInvite directly, the typed REST helper
// drops the use counters.
func (s *DiscordService) GetGuildInvites(ctx context.Context, guildID snowflake.ID) ([]discord.ExtendedInvite, error) {
	var invites []discord.ExtendedInvite
	err := s.rest.Do(rest.GetGuildInvites.Compile(nil, guildID), nil, &invites, rest.WithCtx(ctx))
	return invites, MapError(err)
}

// SendDM opens (or reuses) the DM channel and posts the message.
func (s *DiscordService) SendDM(ctx context.Context, userID snowflake.ID, create discord.MessageCreate) error {
	channel, err := s.rest.CreateDMChannel(userID, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", MapError(err))
	}
	_, err = s.rest.CreateMessage(channel.ID(), create, rest.WithCtx(ctx))
	return MapError(err)
}

// UploadLimit reads the guild premium tier from the cache.
func (s *DiscordService) UploadLimit(guildID snowflake.ID) int64 {
	guild, ok := s.client.Caches().Guild(guildID)
	if !ok {
		return UploadLimit(discord.PremiumTierNone)
	}
	return UploadLimit(guild.PremiumTier)
}

// Download fetches an attachment body, refusing anything larger than limit.
func (s *DiscordService) Download(ctx context.Context, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrUnknownResource
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d downloading attachment", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}
