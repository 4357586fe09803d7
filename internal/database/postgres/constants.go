package postgres

// Error Messages - Snapshot Operations
const (
	ErrMsgFailedToLoadState   = "failed to load progression state"
	ErrMsgFailedToDecodeState = "failed to decode progression state"
	ErrMsgFailedToEncodeState = "failed to encode progression state"
	ErrMsgFailedToSaveState   = "failed to save progression state"
	ErrMsgFailedToGetMeta     = "failed to read app meta"
	ErrMsgFailedToSetMeta     = "failed to write app meta"
)
