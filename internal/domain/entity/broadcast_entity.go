package entity

import "time"

// BroadcastMessage is an admin announcement fanned out to every connected client.
type BroadcastMessage struct {
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}
