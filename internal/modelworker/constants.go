package modelworker

// Tokenizer limits
const (
	maxSeqLen        = 128
	maxWordRunes     = 200
	unknownToken     = "[UNK]"
	clsToken         = "[CLS]"
	sepToken         = "[SEP]"
	padToken         = "[PAD]"
	continuationMark = "##"
)

// Worker replies
const (
	ResultReady       = "ready"
	ErrMsgUnknownCall = "Unknown call"
)

// Log messages
const (
	LogMsgConnectionOpened = "Model worker connection opened"
	LogMsgConnectionClosed = "Model worker connection closed"
	LogMsgUpgradeFailed    = "Websocket upgrade failed"
	LogMsgClassifyFailed   = "Model classification failed"
	LogMsgModelLoaded      = "ONNX model loaded"
)

// Worker endpoint defaults
const (
	WorkerPath        = "/ws"
	DefaultListenAddr = "127.0.0.1:8765"
)
