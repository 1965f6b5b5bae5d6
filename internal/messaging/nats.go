package messaging

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// Subjects published by the board and the translator.
const (
	SubjectContentCreated = "board.created"
	SubjectReaction       = "board.reaction"
	SubjectReport         = "board.report"
	SubjectModerated      = "board.moderated"
	SubjectTranslated     = "translator.translated"
)

// Publisher sends an event to interested listeners.
type Publisher interface {
	Publish(subject string, event interface{}) error
}

// Noop discards every event. It is used when NATS_URL is unset.
type Noop struct{}

// Publish does nothing.
func (Noop) Publish(string, interface{}) error { return nil }

// NATS publishes JSON-encoded events on a NATS connection.
type NATS struct {
	conn *nats.Conn
}

// ConnectNATS dials the server at url.
func ConnectNATS(url string) (*NATS, error) {
	conn, err := nats.Connect(url, nats.Name("unlinked"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, err
	}
	log.Println("NATS connected successfully")
	return &NATS{conn: conn}, nil
}

// Publish encodes event as JSON and publishes it on subject.
func (n *NATS) Publish(subject string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return n.conn.Publish(subject, data)
}

// Subscribe calls handler with the raw payload of every message on subject.
func (n *NATS) Subscribe(subject string, handler func([]byte)) (*nats.Subscription, error) {
	return n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

// Close drains pending messages and closes the connection.
func (n *NATS) Close() {
	if err := n.conn.Drain(); err != nil {
		log.Printf("Error draining NATS connection: %v", err)
	}
}

// Event structures

type ContentCreatedEvent struct {
	ContentType string    `json:"contentType"`
	ContentID   uuid.UUID `json:"contentId"`
	Timestamp   string    `json:"timestamp"`
}

type ReactionEvent struct {
	ContentType  string         `json:"contentType"`
	ContentID    uuid.UUID      `json:"contentId"`
	ReactionType string         `json:"reactionType"`
	Active       bool           `json:"isActive"`
	Counts       map[string]int `json:"counts"`
	Timestamp    string         `json:"timestamp"`
}

type ReportEvent struct {
	ContentType string    `json:"contentType"`
	ContentID   uuid.UUID `json:"contentId"`
	ReportCount int       `json:"reportCount"`
	Timestamp   string    `json:"timestamp"`
}

type ModeratedEvent struct {
	ContentType string      `json:"contentType"`
	Action      string      `json:"action"`
	IDs         []uuid.UUID `json:"ids"`
	Affected    int64       `json:"affected"`
	Timestamp   string      `json:"timestamp"`
}

type TranslatedEvent struct {
	Slug      string `json:"slug"`
	Mode      string `json:"mode"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Timestamp string `json:"timestamp"`
}

// Now formats the current time the way every event carries it.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
