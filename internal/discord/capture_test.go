package discord

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/mocks"
)

func newTestCapture(t *testing.T, cfg Config) (*Capture, *mocks.MockCommentQueue) {
	t.Helper()
	q := mocks.NewMockCommentQueue(t)
	c, err := New(cfg, q)
	require.NoError(t, err)
	return c, q
}

func message(id, channel, author, content string) *discordgo.Message {
	return &discordgo.Message{
		ID:        id,
		ChannelID: channel,
		GuildID:   "g1",
		Content:   content,
		Timestamp: time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC),
		Author:    &discordgo.User{ID: author},
	}
}

func TestNew_SetsMessageIntents(t *testing.T) {
	c, _ := newTestCapture(t, Config{Token: "t"})
	assert.NotZero(t, c.Session.Identify.Intents&discordgo.IntentsMessageContent)
	assert.NotZero(t, c.Session.Identify.Intents&discordgo.IntentsGuildMessages)
}

func TestHandleMessage_Enqueues(t *testing.T) {
	c, q := newTestCapture(t, Config{Token: "t", ChannelID: "c1", UserID: "u1"})

	q.On("Enqueue", mock.Anything, mock.MatchedBy(func(cm domain.Comment) bool {
		return cm.Text == "great stream" &&
			cm.Platform == domain.PlatformDiscord &&
			cm.URL == "https://discord.com/channels/g1/c1/m1" &&
			!cm.Timestamp.IsZero()
	})).Return(domain.Comment{ID: "x"}, nil).Once()

	assert.True(t, c.handleMessage(context.Background(), message("m1", "c1", "u1", "  great stream ")))
	assert.Equal(t, int64(1), c.Stats().Captured)
}

func TestHandleMessage_Filters(t *testing.T) {
	c, _ := newTestCapture(t, Config{Token: "t", ChannelID: "c1", UserID: "u1"})

	bot := message("m4", "c1", "u1", "beep")
	bot.Author.Bot = true

	tests := []struct {
		name string
		msg  *discordgo.Message
	}{
		{"other channel", message("m1", "c2", "u1", "hi")},
		{"other author", message("m2", "c1", "u2", "hi")},
		{"blank text", message("m3", "c1", "u1", "   ")},
		{"bot author", bot},
		{"no author", &discordgo.Message{ChannelID: "c1", Content: "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, c.handleMessage(context.Background(), tt.msg))
		})
	}
	assert.Equal(t, int64(len(tests)), c.Stats().Ignored)
}

func TestHandleMessage_SkipsRepeatedText(t *testing.T) {
	c, q := newTestCapture(t, Config{Token: "t"})
	q.On("Enqueue", mock.Anything, mock.Anything).Return(domain.Comment{ID: "x"}, nil).Times(3)

	ctx := context.Background()
	assert.True(t, c.handleMessage(ctx, message("m1", "c1", "u1", "hello")))
	assert.False(t, c.handleMessage(ctx, message("m2", "c1", "u1", "hello")))
	assert.True(t, c.handleMessage(ctx, message("m3", "c1", "u1", "bye")))
	assert.True(t, c.handleMessage(ctx, message("m4", "c1", "u1", "hello")), "only consecutive repeats are dropped")

	assert.Equal(t, int64(1), c.Stats().Duplicates)
}

func TestHandleMessage_EnqueueFailure(t *testing.T) {
	c, q := newTestCapture(t, Config{Token: "t"})
	q.On("Enqueue", mock.Anything, mock.Anything).Return(domain.Comment{}, domain.ErrQueueFull).Once()

	assert.False(t, c.handleMessage(context.Background(), message("m1", "c1", "u1", "hi")))
	assert.Equal(t, int64(1), c.Stats().Failed)
}

func TestHandleMessage_ResendAfterFailedEnqueue(t *testing.T) {
	c, q := newTestCapture(t, Config{Token: "t"})
	q.On("Enqueue", mock.Anything, mock.Anything).Return(domain.Comment{}, domain.ErrQueueFull).Once()
	q.On("Enqueue", mock.Anything, mock.Anything).Return(domain.Comment{ID: "x"}, nil).Once()

	ctx := context.Background()
	assert.False(t, c.handleMessage(ctx, message("m1", "c1", "u1", "hello")))
	assert.True(t, c.handleMessage(ctx, message("m2", "c1", "u1", "hello")), "a failed enqueue is not a duplicate")

	stats := c.Stats()
	assert.Equal(t, int64(0), stats.Duplicates)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(1), stats.Captured)
}

func TestHandleMessage_FailedEnqueueKeepsEarlierDedup(t *testing.T) {
	c, q := newTestCapture(t, Config{Token: "t"})
	q.On("Enqueue", mock.Anything, mock.Anything).Return(domain.Comment{ID: "x"}, nil).Once()
	q.On("Enqueue", mock.Anything, mock.Anything).Return(domain.Comment{}, domain.ErrQueueFull).Once()

	ctx := context.Background()
	require.True(t, c.handleMessage(ctx, message("m1", "c1", "u1", "hello")))
	require.False(t, c.handleMessage(ctx, message("m2", "c1", "u1", "bye")))
	assert.False(t, c.handleMessage(ctx, message("m3", "c1", "u1", "hello")), "the last queued text is still a repeat")
	assert.Equal(t, int64(1), c.Stats().Duplicates)
}

func TestMessageURL_DirectMessage(t *testing.T) {
	m := message("m9", "dm1", "u1", "hi")
	m.GuildID = ""
	assert.Equal(t, "https://discord.com/channels/@me/dm1/m9", messageURL(m))
}
