package discord

// Discord message link formats
const (
	messageURLFormat   = "https://discord.com/channels/%s/%s/%s"
	directMessageGuild = "@me"
	botTokenPrefix     = "Bot "
)

// Log messages
const (
	LogMsgCaptureStarted     = "Discord capture started"
	LogMsgCaptureStopped     = "Discord capture stopped"
	LogMsgCaptureReady       = "Discord session ready"
	LogMsgCommentCaptured    = "Captured Discord comment"
	LogMsgDuplicateSkipped   = "Skipped duplicate Discord comment"
	LogMsgEnqueueFailed      = "Failed to enqueue Discord comment"
	LogMsgNotificationFailed = "Failed to send Discord notification"
)

// Notification templates
const (
	msgTreeDied       = "Your %s tree has died. Revive it from the garden to start over."
	msgTreePlanted    = "Planted a new %s tree."
	msgTreeRevived    = "Your %s tree is growing again."
	msgTicketAwarded  = "Week %d closed at rank #%d. You earned a lottery ticket (%d total)."
	msgLotteryWin     = "Lottery spin: you won $%d! %d tickets left."
	msgLotteryTryLost = "Lottery spin: try again next time. %d tickets left."
)
