package notify

import (
	"encoding/json"
	"time"
)

// Message is the payload handed to downstream notification consumers when
// delivery is queue-backed.
type Message struct {
	Type       string `json:"type"`
	Recipient  string `json:"recipient"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	EnqueuedAt string `json:"enqueuedAt"`
	Version    int    `json:"version"`
}

const messageVersion = 1

func newMessage(msgType, recipient, subject, body string) Message {
	return Message{
		Type:       msgType,
		Recipient:  recipient,
		Subject:    subject,
		Body:       body,
		EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
		Version:    messageVersion,
	}
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
