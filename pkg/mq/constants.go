package mq

// Exchange Names
const (
	ExchangeMatchEvents = "match_events"
)

// Exchange Types
const (
	ExchangeTypeTopic  = "topic"
	ExchangeTypeFanout = "fanout"
)
