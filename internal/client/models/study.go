package models

import "time"

// Flashcard is one front/back card inside a deck.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Deck is a generated or user-saved set of flashcards.
type Deck struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Title     string      `json:"title"`
	Subject   string      `json:"subject"`
	Cards     []Flashcard `json:"cards"`
	CreatedAt time.Time   `json:"created_at"`
}

// QuizQuestion is a single multiple-choice question. Answer is the index
// into Options.
type QuizQuestion struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"`
}

type Quiz struct {
	Topic     string         `json:"topic"`
	Questions []QuizQuestion `json:"questions"`
}

// MindMapNode is a labeled node with child branches. Generated maps are
// trees rooted at the requested topic.
type MindMapNode struct {
	Label    string        `json:"label"`
	Children []MindMapNode `json:"children,omitempty"`
}

// Notification is a backend-pushed or locally raised notice. Dismissed
// notifications stay in the row store but are filtered from the list view.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Dismissed bool      `json:"dismissed"`
	CreatedAt time.Time `json:"created_at"`
}

// Achievement is an unlocked badge with the XP it granted.
type Achievement struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Code     string    `json:"code"`
	Title    string    `json:"title"`
	XP       int       `json:"xp"`
	Unlocked time.Time `json:"unlocked_at"`
}
