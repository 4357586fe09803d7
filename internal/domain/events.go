package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "tree.died")
const (
	// EventTypeCommentProcessed is published after a comment has been classified and applied
	EventTypeCommentProcessed = "comment.processed"

	// EventTypeTreePlanted is published when a new tree is planted and selected
	EventTypeTreePlanted = "tree.planted"

	// EventTypeTreeDied is published when a comment drives the selected tree's health to zero
	EventTypeTreeDied = "tree.died"

	// EventTypeTreeRevived is published when a dead tree is brought back
	EventTypeTreeRevived = "tree.revived"

	// EventTypeWeekRolledOver is published when weekly counters are reset
	EventTypeWeekRolledOver = "week.rolled_over"

	// EventTypeTicketAwarded is published when a rollover earns a lottery ticket
	EventTypeTicketAwarded = "ticket.awarded"

	// EventTypeLotteryEntered is published when tickets are redeemed for a lottery draw
	EventTypeLotteryEntered = "lottery.entered"
)
