package kafka

import "time"

const (
	EventIngestRequest    = "ingest_request"
	EventListingsIngested = "listings_ingested"
	EventIngestFailed     = "ingest_failed"
)

// IngestRequestEvent asks a worker to run the pipeline for one source.
// ChatID is zero when the request did not come from a chat.
type IngestRequestEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id"`
	Source      string    `json:"source"`
	ChatID      int64     `json:"chat_id"`
	RequestedAt time.Time `json:"requested_at"`
}

type ListingsIngestedEvent struct {
	EventType  string    `json:"event_type"`
	RunID      string    `json:"run_id"`
	RequestID  string    `json:"request_id,omitempty"`
	Source     string    `json:"source"`
	Extracted  int       `json:"extracted"`
	Stored     int       `json:"stored"`
	ChatID     int64     `json:"chat_id"`
	FinishedAt time.Time `json:"finished_at"`
}

type IngestFailedEvent struct {
	EventType  string    `json:"event_type"`
	RunID      string    `json:"run_id"`
	RequestID  string    `json:"request_id,omitempty"`
	Source     string    `json:"source"`
	Stage      string    `json:"stage"`
	Error      string    `json:"error"`
	ChatID     int64     `json:"chat_id"`
	FinishedAt time.Time `json:"finished_at"`
}
