package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"rsvpbot/internal/domain"
	"rsvpbot/internal/domain/entities"
)

const (
	replyBuffer = 8
	// deliverWait bounds how long Deliver waits for room in a full buffer.
	deliverWait = 2 * time.Second
)

type dialogueKey struct {
	channelID string
	userID    string
}

// Dialogues routes inbound messages to the wizard dialogue open for their
// (channel, author) pair.
type Dialogues struct {
	mu   sync.Mutex
	open map[dialogueKey]*Subscription
	wait time.Duration
}

func NewDialogues() *Dialogues {
	return &Dialogues{open: make(map[dialogueKey]*Subscription), wait: deliverWait}
}

// Subscription receives the replies of one user in one channel until closed.
type Subscription struct {
	ID      string
	key     dialogueKey
	replies chan *entities.Message
	done    chan struct{}
	owner   *Dialogues
	once    sync.Once
}

// Open starts listening for userID in channelID. Only one dialogue per pair
// may be open at a time.
func (d *Dialogues) Open(channelID, userID string) (*Subscription, error) {
	key := dialogueKey{channelID: channelID, userID: userID}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, busy := d.open[key]; busy {
		return nil, domain.ErrDialogueInProgress
	}
	sub := &Subscription{
		ID:      uuid.NewString(),
		key:     key,
		replies: make(chan *entities.Message, replyBuffer),
		done:    make(chan struct{}),
		owner:   d,
	}
	d.open[key] = sub
	return sub, nil
}

// Deliver hands msg to the dialogue of its author, if any, and reports
// whether it was consumed. When the dialogue's buffer stays full for the
// delivery wait, or the dialogue closes meanwhile, msg is not consumed.
func (d *Dialogues) Deliver(msg *entities.Message) bool {
	if msg == nil {
		return false
	}
	d.mu.Lock()
	sub := d.open[dialogueKey{channelID: msg.ChannelID, userID: msg.AuthorID}]
	wait := d.wait
	d.mu.Unlock()
	if sub == nil {
		return false
	}
	select {
	case sub.replies <- msg:
		return true
	default:
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case sub.replies <- msg:
		return true
	case <-sub.done:
		return false
	case <-timer.C:
		return false
	}
}

// Active is the number of open dialogues.
func (d *Dialogues) Active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.open)
}

// Next waits for the next reply. When ctx ends first the dialogue is
// abandoned.
func (s *Subscription) Next(ctx context.Context) (*entities.Message, error) {
	select {
	case msg := <-s.replies:
		return msg, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", domain.ErrAbandonedDialogue, ctx.Err())
	}
}

// Close stops routing replies to s. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		close(s.done)
		s.owner.mu.Lock()
		if s.owner.open[s.key] == s {
			delete(s.owner.open, s.key)
		}
		s.owner.mu.Unlock()
	})
}
