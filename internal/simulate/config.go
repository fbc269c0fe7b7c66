package simulate

import "time"

// Config holds configuration for the conversation simulation
type Config struct {
	BaseURL      string        // Base URL of the service
	Participants int           // Number of simulated participants
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	LogFile      string        // Log file for simulation output
	Verbose      bool          // Enable verbose logging
}

// UpdateRequest is the body posted to /updates
type UpdateRequest struct {
	UpdateID   string `json:"update_id"`
	ExternalID string `json:"external_id"`
	Text       string `json:"text"`
}

// Reply mirrors the reply object returned by the service
type Reply struct {
	Text    string   `json:"text"`
	Menu    string   `json:"menu"`
	Choices []string `json:"choices"`
}

// UpdateResponse is the response from /updates
type UpdateResponse struct {
	Duplicate bool  `json:"duplicate"`
	Reply     Reply `json:"reply"`
}

// BoardEntry represents a leaderboard row
type BoardEntry struct {
	Rank  int    `json:"rank"`
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Board represents a leaderboard response
type Board struct {
	Track string       `json:"track"`
	Top   []BoardEntry `json:"top"`
	Empty bool         `json:"empty"`
}

// Stats holds simulation statistics
type Stats struct {
	Conversations      int
	UpdatesSent        int
	UpdatesSuccessful  int
	UpdatesDuplicate   int
	UpdatesFailed      int
	QuizzesCompleted   int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
