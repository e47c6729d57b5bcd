package model

import (
	"time"
)

// Category tags a saved item as a fact or a quote.
type Category string

const (
	CategoryFact  Category = "fact"
	CategoryQuote Category = "quote"
)

// Feature tags a topic lookup by the endpoint that produced it.
type Feature string

const (
	FeatureFacts  Feature = "facts"
	FeatureQuotes Feature = "quotes"
)

// SavedItem is a user's favorited fact or quote. At most one saved item may
// exist per (user, topic) pair.
type SavedItem struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Category  Category  `json:"category"`
	Content   string    `json:"content"`
	Author    string    `json:"author,omitempty"`
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchedItem records one topic lookup. Append-only.
type SearchedItem struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Topic     string    `json:"topic"`
	Feature   Feature   `json:"feature"`
	CreatedAt time.Time `json:"created_at"`
}

// TrendingTopic is one row of the trending aggregation.
type TrendingTopic struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// TopicRequest is the body of POST /facts/ and POST /quotes/.
type TopicRequest struct {
	Topic   string `json:"topic"`
	Comment string `json:"comment,omitempty"`
}

// Quote is one structured quote returned by the completion service.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// SaveItemRequest is the body of POST /favourites/.
type SaveItemRequest struct {
	Category Category `json:"category"`
	Content  string   `json:"content"`
	Author   string   `json:"author,omitempty"`
	Topic    string   `json:"topic"`
}
