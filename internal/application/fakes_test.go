package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"rsvpbot/internal/domain"
	"rsvpbot/internal/domain/entities"
	"rsvpbot/internal/ports/output"
)

const testBotID = "bot"

var testLoc = time.UTC

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// keyTranslator renders "key k1=v1 k2=v2" with keys sorted.
type keyTranslator struct{}

func (keyTranslator) T(_ string, key string, data map[string]any) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(key)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, data[k])
	}
	return b.String()
}

type recordingMetrics struct {
	mu            sync.Mutex
	cycles        int
	failures      []string
	notifications []string
	removed       []string
	dialogues     []string
}

func (m *recordingMetrics) ScanCycle(time.Duration, int) { m.mu.Lock(); m.cycles++; m.mu.Unlock() }
func (m *recordingMetrics) ScanFailure(r string) {
	m.mu.Lock()
	m.failures = append(m.failures, r)
	m.mu.Unlock()
}
func (m *recordingMetrics) NotificationSent(s string) {
	m.mu.Lock()
	m.notifications = append(m.notifications, s)
	m.mu.Unlock()
}
func (m *recordingMetrics) ReactionRemoved(r string) {
	m.mu.Lock()
	m.removed = append(m.removed, r)
	m.mu.Unlock()
}
func (m *recordingMetrics) Dialogue(o string) {
	m.mu.Lock()
	m.dialogues = append(m.dialogues, o)
	m.mu.Unlock()
}

type reactionGroup struct {
	emoji string
	users []string
}

type sentMessage struct {
	ID        string
	ChannelID string
	Msg       entities.OutgoingMessage
}

type directMessage struct {
	UserID string
	Msg    entities.OutgoingMessage
}

type reactionCall struct {
	MessageID string
	Emoji     string
	UserID    string
}

// fakeTransport is an in-memory chat platform.
type fakeTransport struct {
	mu sync.Mutex

	channels  []entities.Channel
	messages  map[string]*entities.Message
	order     []string
	reactions map[string][]*reactionGroup
	history   map[string][]string

	sent     []sentMessage
	dms      []directMessage
	edits    []string
	deleted  []string
	pins     []string
	unpinned []string
	removed  []reactionCall
	cleared  []reactionCall

	// hook runs first in every call; a non-nil error fails the call.
	hook func(op, id string) error

	// channelsErr is returned by Channels alongside the full channel list,
	// as when only some guilds could be listed.
	channelsErr error

	nextID int
}

var _ output.Transport = (*fakeTransport)(nil)

func newFakeTransport(channelIDs ...string) *fakeTransport {
	f := &fakeTransport{
		messages:  make(map[string]*entities.Message),
		reactions: make(map[string][]*reactionGroup),
		history:   make(map[string][]string),
	}
	for _, id := range channelIDs {
		f.channels = append(f.channels, entities.Channel{ID: id, GuildID: "g1", Name: "chan-" + id})
	}
	return f
}

func (f *fakeTransport) check(op, id string) error {
	if f.hook == nil {
		return nil
	}
	if err := f.hook(op, id); err != nil {
		return fmt.Errorf("%w: %s %s: %w", domain.ErrTransportFailure, op, id, err)
	}
	return nil
}

// addMessage stores msg (authored by author) and returns it.
func (f *fakeTransport) addMessage(channelID, author string, embed *entities.Embed, pinned bool) *entities.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	m := &entities.Message{ID: fmt.Sprintf("m%d", f.nextID), ChannelID: channelID, GuildID: "g1", AuthorID: author, Pinned: pinned}
	if embed != nil {
		m.Embeds = []entities.Embed{*embed}
	}
	f.messages[m.ID] = m
	f.order = append(f.order, m.ID)
	return m
}

// addEvent posts rec as the bot would and pins it.
func (f *fakeTransport) addEvent(channelID string, rec entities.EventRecord) *entities.Message {
	embed := renderEventEmbed(rec, testLoc, "footer")
	return f.addMessage(channelID, testBotID, &embed, true)
}

func (f *fakeTransport) react(messageID, emoji, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addReactionLocked(messageID, emoji, userID)
}

func (f *fakeTransport) addReactionLocked(messageID, emoji, userID string) {
	for _, g := range f.reactions[messageID] {
		if g.emoji == emoji {
			if !slices.Contains(g.users, userID) {
				g.users = append(g.users, userID)
			}
			return
		}
	}
	f.reactions[messageID] = append(f.reactions[messageID], &reactionGroup{emoji: emoji, users: []string{userID}})
}

func (f *fakeTransport) unreact(messageID, emoji, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeReactionLocked(messageID, emoji, userID)
}

func (f *fakeTransport) removeReactionLocked(messageID, emoji, userID string) {
	groups := f.reactions[messageID]
	for i, g := range groups {
		if g.emoji != emoji {
			continue
		}
		g.users = slices.DeleteFunc(g.users, func(u string) bool { return u == userID })
		if len(g.users) == 0 {
			f.reactions[messageID] = append(groups[:i:i], groups[i+1:]...)
		}
		return
	}
}

// holds returns the emojis userID currently has on messageID.
func (f *fakeTransport) holds(messageID, userID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, g := range f.reactions[messageID] {
		if slices.Contains(g.users, userID) {
			out = append(out, g.emoji)
		}
	}
	return out
}

func (f *fakeTransport) emojis(messageID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, g := range f.reactions[messageID] {
		out = append(out, g.emoji)
	}
	return out
}

func (f *fakeTransport) snapshotLocked(id string) *entities.Message {
	m, ok := f.messages[id]
	if !ok {
		return nil
	}
	cp := *m
	cp.Embeds = slices.Clone(m.Embeds)
	cp.Reactions = nil
	for _, g := range f.reactions[id] {
		cp.Reactions = append(cp.Reactions, entities.ReactionGroup{
			Emoji: g.emoji,
			Count: len(g.users),
			Me:    slices.Contains(g.users, testBotID),
		})
	}
	return &cp
}

func (f *fakeTransport) stored(id string) *entities.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked(id)
}

func (f *fakeTransport) sentMessages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.sent)
}

func (f *fakeTransport) BotUserID() string { return testBotID }

func (f *fakeTransport) Channels(context.Context) ([]entities.Channel, error) {
	if err := f.check("channels", ""); err != nil {
		return nil, err
	}
	return slices.Clone(f.channels), f.channelsErr
}

func (f *fakeTransport) PinnedMessages(_ context.Context, channelID string) ([]*entities.Message, error) {
	if err := f.check("pinned", channelID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Message
	for _, id := range f.order {
		if m := f.messages[id]; m.ChannelID == channelID && m.Pinned {
			out = append(out, f.snapshotLocked(id))
		}
	}
	return out, nil
}

func (f *fakeTransport) RecentMessages(_ context.Context, channelID string, limit int) ([]*entities.Message, error) {
	if err := f.check("recent", channelID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Message
	for i := len(f.order) - 1; i >= 0 && len(out) < limit; i-- {
		if m := f.messages[f.order[i]]; m.ChannelID == channelID {
			out = append(out, f.snapshotLocked(m.ID))
		}
	}
	return out, nil
}

func (f *fakeTransport) Message(_ context.Context, channelID, messageID string) (*entities.Message, error) {
	if err := f.check("message", messageID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.snapshotLocked(messageID)
	if m == nil || m.ChannelID != channelID {
		return nil, fmt.Errorf("%w: unknown message %s", domain.ErrTransportFailure, messageID)
	}
	return m, nil
}

func (f *fakeTransport) SendMessage(_ context.Context, channelID string, msg entities.OutgoingMessage) (*entities.Message, error) {
	if err := f.check("send", channelID); err != nil {
		return nil, err
	}
	m := f.addMessage(channelID, testBotID, msg.Embed, false)
	f.mu.Lock()
	defer f.mu.Unlock()
	m.Content = msg.Content
	f.sent = append(f.sent, sentMessage{ID: m.ID, ChannelID: channelID, Msg: msg})
	return f.snapshotLocked(m.ID), nil
}

func (f *fakeTransport) SendDirectMessage(_ context.Context, userID string, msg entities.OutgoingMessage) error {
	if err := f.check("dm", userID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dms = append(f.dms, directMessage{UserID: userID, Msg: msg})
	return nil
}

func (f *fakeTransport) EditEmbed(_ context.Context, _ string, messageID string, embed entities.Embed) error {
	if err := f.check("edit", messageID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[messageID]
	if !ok {
		return errors.New("unknown message")
	}
	m.Embeds = []entities.Embed{embed}
	f.edits = append(f.edits, messageID)
	return nil
}

func (f *fakeTransport) DeleteMessage(_ context.Context, _ string, messageID string) error {
	if err := f.check("delete", messageID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.messages, messageID)
	f.order = slices.DeleteFunc(f.order, func(id string) bool { return id == messageID })
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeTransport) Pin(_ context.Context, _ string, messageID string) error {
	if err := f.check("pin", messageID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.messages[messageID]; ok {
		m.Pinned = true
	}
	f.pins = append(f.pins, messageID)
	return nil
}

func (f *fakeTransport) Unpin(_ context.Context, _ string, messageID string) error {
	if err := f.check("unpin", messageID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.messages[messageID]; ok {
		m.Pinned = false
	}
	f.unpinned = append(f.unpinned, messageID)
	return nil
}

func (f *fakeTransport) AddReaction(_ context.Context, _ string, messageID, emoji string) error {
	if err := f.check("react", messageID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addReactionLocked(messageID, emoji, testBotID)
	return nil
}

func (f *fakeTransport) RemoveUserReaction(_ context.Context, _ string, messageID, emoji, userID string) error {
	if err := f.check("unreact", messageID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeReactionLocked(messageID, emoji, userID)
	f.removed = append(f.removed, reactionCall{MessageID: messageID, Emoji: emoji, UserID: userID})
	return nil
}

func (f *fakeTransport) ClearReaction(_ context.Context, _ string, messageID, emoji string) error {
	if err := f.check("clear", messageID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions[messageID] = slices.DeleteFunc(f.reactions[messageID], func(g *reactionGroup) bool { return g.emoji == emoji })
	f.cleared = append(f.cleared, reactionCall{MessageID: messageID, Emoji: emoji})
	return nil
}

func (f *fakeTransport) ReactionUsers(_ context.Context, _ string, messageID, emoji string) ([]string, error) {
	if err := f.check("users", messageID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.reactions[messageID] {
		if g.emoji == emoji {
			return slices.Clone(g.users), nil
		}
	}
	return nil, nil
}

// fakeCalendar returns a fixed attachment.
type fakeCalendar struct{ err error }

func (c fakeCalendar) Encode(rec entities.EventRecord) (entities.Attachment, error) {
	if c.err != nil {
		return entities.Attachment{}, c.err
	}
	return entities.Attachment{Name: "event.ics", ContentType: "text/calendar", Data: []byte(rec.Title)}, nil
}

func (f *fakeTransport) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}
