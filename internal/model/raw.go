package model

import "time"

// RawPropRecord is the provider-shaped prop line DTO emitted by adapters.
// It is never persisted as-is; the pipeline resolves identity and prop type
// first and only canonical rows reach the store.
type RawPropRecord struct {
	SourceTag         string
	SourcePlayerID    string
	RawName           string
	Team              string
	Opponent          string
	League            string
	RawPropType       string
	Line              float64
	OverOddsAmerican  *int
	UnderOddsAmerican *int
	Bookmaker         string
	EventDate         time.Time
}

// RawGameLogRecord is the provider-shaped game performance DTO.
type RawGameLogRecord struct {
	SourceTag      string
	SourcePlayerID string
	RawName        string
	Team           string
	Opponent       string
	League         string
	RawPropType    string
	ActualValue    float64
	GameDate       time.Time
	GameID         string
}
