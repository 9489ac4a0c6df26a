package model

// HistoryLoadedMsg reports the end of a LoadHistory run. Err is a *Notice.
type HistoryLoadedMsg struct {
	Err error
}

// HistoryClearedMsg reports the end of a ClearHistory run. Err is a *Notice.
type HistoryClearedMsg struct {
	Err error
}

// PingMsg reports whether the backend answered its health check.
type PingMsg struct {
	Err error
}

type ReplyMsg struct {
	Result SendResult
}

// StateChangedMsg is delivered when the session changed outside Update,
// e.g. the typing indicator switching on.
type StateChangedMsg struct{}

type TranscriptExportedMsg struct {
	Path string
	Err  error
}

type ClipboardMsg struct {
	What string
	Err  error
}

type MarkdownRenderedMsg struct {
	Key      string
	Rendered string
}

type FlashTickMsg struct{}
