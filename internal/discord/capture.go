package discord

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/logger"
)

// Enqueuer accepts captured comments
type Enqueuer interface {
	Enqueue(ctx context.Context, c domain.Comment) (domain.Comment, error)
}

// Config holds the capture configuration
type Config struct {
	Token string
	// ChannelID restricts capture to one channel. Empty captures every channel the bot sees.
	ChannelID string
	// UserID restricts capture to the active user's own messages. Empty captures every human author.
	UserID string
}

// Stats counts what the capture source has seen
type Stats struct {
	Captured   int64 `json:"captured"`
	Duplicates int64 `json:"duplicates"`
	Ignored    int64 `json:"ignored"`
	Failed     int64 `json:"failed"`
}

// Capture turns Discord messages into queued comments
type Capture struct {
	Session *discordgo.Session
	cfg     Config
	queue   Enqueuer

	mu       sync.Mutex
	lastText string

	captured   atomic.Int64
	duplicates atomic.Int64
	ignored    atomic.Int64
	failed     atomic.Int64
}

// New creates a capture source. The session is not opened until Start.
func New(cfg Config, q Enqueuer) (*Capture, error) {
	s, err := discordgo.New(botTokenPrefix + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	return &Capture{Session: s, cfg: cfg, queue: q}, nil
}

// Start registers handlers and opens the gateway connection
func (c *Capture) Start() error {
	c.Session.AddHandler(c.ready)
	c.Session.AddHandler(c.messageCreate)

	if err := c.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	logger.FromContext(context.Background()).Info(LogMsgCaptureStarted,
		"channel_id", c.cfg.ChannelID,
		"user_filter", c.cfg.UserID != "")
	return nil
}

// Stop closes the gateway connection
func (c *Capture) Stop() error {
	err := c.Session.Close()
	logger.FromContext(context.Background()).Info(LogMsgCaptureStopped, "stats", c.Stats())
	return err
}

// Stats returns a snapshot of the capture counters
func (c *Capture) Stats() Stats {
	return Stats{
		Captured:   c.captured.Load(),
		Duplicates: c.duplicates.Load(),
		Ignored:    c.ignored.Load(),
		Failed:     c.failed.Load(),
	}
}

func (c *Capture) ready(s *discordgo.Session, r *discordgo.Ready) {
	logger.FromContext(context.Background()).Info(LogMsgCaptureReady, "user", r.User.Username)
}

func (c *Capture) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx := logger.WithNewRequestID(context.Background())
	c.handleMessage(ctx, m.Message)
}

// handleMessage filters, de-duplicates and enqueues one message. It reports
// whether the message was queued.
func (c *Capture) handleMessage(ctx context.Context, m *discordgo.Message) bool {
	if !c.accepts(m) {
		c.ignored.Add(1)
		return false
	}

	text := strings.TrimSpace(m.Content)
	log := logger.FromContext(ctx)

	// Same text as the last capture is an edit echo or a double send
	c.mu.Lock()
	if text == c.lastText {
		c.mu.Unlock()
		c.duplicates.Add(1)
		log.Debug(LogMsgDuplicateSkipped, "message_id", m.ID)
		return false
	}
	previous := c.lastText
	c.lastText = text
	c.mu.Unlock()

	comment, err := c.queue.Enqueue(ctx, domain.Comment{
		Text:      text,
		Platform:  domain.PlatformDiscord,
		URL:       messageURL(m),
		Timestamp: m.Timestamp,
	})
	if err != nil {
		// a comment that never reached the queue must not block a resend
		c.mu.Lock()
		if c.lastText == text {
			c.lastText = previous
		}
		c.mu.Unlock()
		c.failed.Add(1)
		log.Warn(LogMsgEnqueueFailed, "message_id", m.ID, "error", err)
		return false
	}

	c.captured.Add(1)
	log.Info(LogMsgCommentCaptured, logger.AttrKeyCommentID, comment.ID, "channel_id", m.ChannelID)
	return true
}

func (c *Capture) accepts(m *discordgo.Message) bool {
	if m == nil || m.Author == nil || m.Author.Bot {
		return false
	}
	if c.cfg.ChannelID != "" && m.ChannelID != c.cfg.ChannelID {
		return false
	}
	if c.cfg.UserID != "" && m.Author.ID != c.cfg.UserID {
		return false
	}
	return strings.TrimSpace(m.Content) != ""
}

func messageURL(m *discordgo.Message) string {
	guild := m.GuildID
	if guild == "" {
		guild = directMessageGuild
	}
	return fmt.Sprintf(messageURLFormat, guild, m.ChannelID, m.ID)
}
