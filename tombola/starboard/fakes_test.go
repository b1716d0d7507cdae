package starboard

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
	"github.com/ellavondegurechaff/tombola/tombola/database/repositories"
	"github.com/ellavondegurechaff/tombola/tombola/services"
)

type entryKey struct {
	guild, channel, message snowflake.ID
	emoji                   string
}

type memoryRepo struct {
	mu      sync.Mutex
	configs map[snowflake.ID]map[string]*models.Starboard
	entries map[entryKey]*models.StarboardEntry
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		configs: map[snowflake.ID]map[string]*models.Starboard{},
		entries: map[entryKey]*models.StarboardEntry{},
	}
}

func (r *memoryRepo) Create(_ context.Context, sb *models.Starboard, limit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	guild := r.configs[sb.GuildID]
	if guild == nil {
		guild = map[string]*models.Starboard{}
		r.configs[sb.GuildID] = guild
	}
	if _, ok := guild[sb.Emoji]; ok {
		return &repositories.ConflictError{Entity: "starboard", Field: "emoji", Value: sb.Emoji}
	}
	if len(guild) >= limit {
		return &repositories.LimitError{Entity: "starboard", Limit: limit}
	}
	cp := *sb
	guild[sb.Emoji] = &cp
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, guildID snowflake.ID, emoji string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.configs[guildID][emoji]; !ok {
		return &repositories.NotFoundError{Entity: "starboard", ID: emoji}
	}
	delete(r.configs[guildID], emoji)
	for k := range r.entries {
		if k.guild == guildID && k.emoji == emoji {
			delete(r.entries, k)
		}
	}
	return nil
}

func (r *memoryRepo) ListByGuild(_ context.Context, guildID snowflake.ID) ([]*models.Starboard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Starboard
	for _, sb := range r.configs[guildID] {
		cp := *sb
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memoryRepo) Get(_ context.Context, guildID snowflake.ID, emoji string) (*models.Starboard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sb, ok := r.configs[guildID][emoji]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "starboard", ID: emoji}
	}
	cp := *sb
	return &cp, nil
}

func (r *memoryRepo) GetEntry(_ context.Context, guildID, channelID, messageID snowflake.ID, emoji string) (*models.StarboardEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[entryKey{guildID, channelID, messageID, emoji}]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "starboard_entry", ID: messageID}
	}
	cp := *e
	return &cp, nil
}

func (r *memoryRepo) UpsertEntry(_ context.Context, entry *models.StarboardEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.entries[entryKey{entry.GuildID, entry.ChannelID, entry.MessageID, entry.Emoji}] = &cp
	return nil
}

func (r *memoryRepo) DeleteEntry(_ context.Context, guildID, channelID, messageID snowflake.ID, emoji string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := entryKey{guildID, channelID, messageID, emoji}
	if _, ok := r.entries[k]; !ok {
		return &repositories.NotFoundError{Entity: "starboard_entry", ID: messageID}
	}
	delete(r.entries, k)
	return nil
}

func (r *memoryRepo) ListEntriesForMessage(_ context.Context, guildID, channelID, messageID snowflake.ID) ([]*models.StarboardEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.StarboardEntry
	for k, e := range r.entries {
		if k.guild == guildID && k.channel == channelID && k.message == messageID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memoryRepo) entryCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

type fakeDiscord struct {
	mu       sync.Mutex
	nextID   snowflake.ID
	messages map[snowflake.ID]*discord.Message
	files    map[string][]byte
	limit    int64

	fetches        int
	creates        int
	updates        int
	deletes        int
	removedUsers   []snowflake.ID
	lastCreate     discord.MessageCreate
	uploadedBodies int
}

func newFakeDiscord() *fakeDiscord {
	return &fakeDiscord{
		nextID:   5000,
		messages: map[snowflake.ID]*discord.Message{},
		files:    map[string][]byte{},
		limit:    10 << 20,
	}
}

func (f *fakeDiscord) put(msg *discord.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[msg.ID] = msg
}

func (f *fakeDiscord) setReactions(messageID snowflake.ID, emoji discord.Emoji, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := f.messages[messageID]
	msg.Reactions = []discord.MessageReaction{{Emoji: emoji, Count: count}}
}

func (f *fakeDiscord) drop(messageID snowflake.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.messages, messageID)
}

func (f *fakeDiscord) exists(messageID snowflake.ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.messages[messageID]
	return ok
}

func unknown(what string) error {
	return fmt.Errorf("%w: Unknown %s", services.ErrUnknownResource, what)
}

func (f *fakeDiscord) GetMessage(_ context.Context, _, messageID snowflake.ID) (*discord.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	msg, ok := f.messages[messageID]
	if !ok {
		return nil, unknown("Message")
	}
	cp := *msg
	return &cp, nil
}

func (f *fakeDiscord) CreateMessage(_ context.Context, channelID snowflake.ID, create discord.MessageCreate) (*discord.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, file := range create.Files {
		data, _ := io.ReadAll(file.Reader)
		f.uploadedBodies += len(data)
	}
	f.nextID++
	f.creates++
	f.lastCreate = create
	msg := &discord.Message{ID: f.nextID, ChannelID: channelID, Content: create.Content}
	f.messages[msg.ID] = msg
	return msg, nil
}

func (f *fakeDiscord) UpdateMessage(_ context.Context, _, messageID snowflake.ID, update discord.MessageUpdate) (*discord.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.messages[messageID]
	if !ok {
		return nil, unknown("Message")
	}
	f.updates++
	if update.Content != nil {
		msg.Content = *update.Content
	}
	return msg, nil
}

func (f *fakeDiscord) DeleteMessage(_ context.Context, _, messageID snowflake.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.messages[messageID]; !ok {
		return unknown("Message")
	}
	f.deletes++
	delete(f.messages, messageID)
	return nil
}

func (f *fakeDiscord) RemoveUserReaction(_ context.Context, _, _ snowflake.ID, _ string, userID snowflake.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removedUsers = append(f.removedUsers, userID)
	return nil
}

func (f *fakeDiscord) UploadLimit(snowflake.ID) int64 {
	return f.limit
}

func (f *fakeDiscord) Download(_ context.Context, url string, limit int64) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[url]
	if !ok {
		return nil, unknown("Attachment")
	}
	if int64(len(data)) > limit {
		return nil, services.ErrTooLarge
	}
	return data, nil
}

type fakeUploader struct {
	names []string
}

func (u *fakeUploader) Upload(_ context.Context, name string, _ []byte, _ string) (string, error) {
	u.names = append(u.names, name)
	return "https://cdn.example.com/" + name, nil
}
