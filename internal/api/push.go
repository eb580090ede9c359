package api

import "encoding/json"

// PushEnvelope is the Pub/Sub push wrapper delivered to the Gmail endpoint.
type PushEnvelope struct {
	Message      PushMessage `json:"message"`
	Subscription string      `json:"subscription,omitempty"`
}

type PushMessage struct {
	Data        string `json:"data"` // base64-encoded PushPayload
	MessageId   string `json:"messageId,omitempty"`
	PublishTime string `json:"publishTime,omitempty"`
}

// PushPayload is the decoded notification body. Gmail emits historyId as a
// JSON number; json.Number keeps it opaque either way.
type PushPayload struct {
	EmailAddress string      `json:"emailAddress"`
	HistoryId    json.Number `json:"historyId"`
}
