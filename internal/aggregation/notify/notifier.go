package notify

import "context"

// Message summarizes a finished aggregation run.
type Message struct {
	Day    string `json:"day"`
	States int    `json:"states"`
}

// Notifier sends aggregation notifications.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}
