package progression

// Comment scores applied to the selected tree
const (
	ScorePositive = 3
	ScoreNeutral  = 2
	ScoreNegative = -3
)

// Ticket and lottery rules
const (
	TicketRankCutoff = 50
	LotteryCost      = 2
)

// Rank bands used by the score-band estimator
const (
	bandTopScore    = 150
	bandHighScore   = 100
	bandMiddleScore = 50
)

// Log messages
const (
	LogMsgWeekRolledOver    = "Week rolled over"
	LogMsgTicketAwarded     = "Weekly ticket awarded"
	LogMsgTreeDied          = "Selected tree died"
	LogMsgNoGrowingTree     = "No growing tree selected, comment not applied to a tree"
	LogMsgStateInitialized  = "Initialized empty progression state"
	LogMsgBackendRankFailed = "Backend rank lookup failed, using score band"
	LogMsgLotteryEntered    = "Lottery entered"
)
