package domain

// SettingLastSeenHistoryId is the key under which the Gmail sync cursor is
// persisted. The value is the last history id successfully processed.
const SettingLastSeenHistoryId = "lastSeenHistoryId"

type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
