package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/CommentGarden_Go/internal/event"
	"github.com/osse101/CommentGarden_Go/internal/logger"
)

// MessageSender is the part of a discordgo session the notifier uses
type MessageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier posts garden milestones to a Discord channel
type Notifier struct {
	sender    MessageSender
	channelID string
}

// NewNotifier creates a notifier for the given channel
func NewNotifier(sender MessageSender, channelID string) *Notifier {
	return &Notifier{sender: sender, channelID: channelID}
}

// Subscribe registers the notifier on the bus
func (n *Notifier) Subscribe(bus event.Bus) {
	bus.Subscribe(event.TreeDied, n.handleTree(msgTreeDied))
	bus.Subscribe(event.TreePlanted, n.handleTree(msgTreePlanted))
	bus.Subscribe(event.TreeRevived, n.handleTree(msgTreeRevived))
	bus.Subscribe(event.TicketAwarded, n.handleTicketAwarded)
	bus.Subscribe(event.LotteryEntered, n.handleLottery)
}

func (n *Notifier) handleTree(format string) event.Handler {
	return func(ctx context.Context, evt event.Event) error {
		p, err := event.DecodePayload[event.TreePayloadV1](evt.Payload)
		if err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", evt.Type, err)
		}
		return n.send(ctx, fmt.Sprintf(format, p.Type))
	}
}

func (n *Notifier) handleTicketAwarded(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.TicketAwardedPayloadV1](evt.Payload)
	if err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", evt.Type, err)
	}
	return n.send(ctx, fmt.Sprintf(msgTicketAwarded, p.Week, p.Rank, p.Tickets))
}

func (n *Notifier) handleLottery(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.LotteryEnteredPayloadV1](evt.Payload)
	if err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", evt.Type, err)
	}
	if p.Amount > 0 {
		return n.send(ctx, fmt.Sprintf(msgLotteryWin, p.Amount, p.TicketsLeft))
	}
	return n.send(ctx, fmt.Sprintf(msgLotteryTryLost, p.TicketsLeft))
}

func (n *Notifier) send(ctx context.Context, content string) error {
	if _, err := n.sender.ChannelMessageSend(n.channelID, content, discordgo.WithContext(ctx)); err != nil {
		logger.FromContext(ctx).Warn(LogMsgNotificationFailed, "channel_id", n.channelID, "error", err)
		return err
	}
	return nil
}
