// Package study contains the client services for AI-generated study
// content (flashcards, quizzes, mind maps), saved decks, notifications,
// achievements, and avatar uploads.
package study

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/studymate-app/studymate/internal/client/backend"
	"github.com/studymate-app/studymate/internal/client/models"
)

// generateFunction is the serverless function proxying the AI endpoint.
const generateFunction = "generate-study-content"

// generateRequest is the function's JSON contract.
type generateRequest struct {
	Kind    string `json:"kind"` // flashcards | quiz | mindmap
	Subject string `json:"subject,omitempty"`
	Topic   string `json:"topic"`
	Count   int    `json:"count,omitempty"`
}

type generateResponse struct {
	Cards     []models.Flashcard    `json:"cards,omitempty"`
	Questions []models.QuizQuestion `json:"questions,omitempty"`
	Root      *models.MindMapNode   `json:"root,omitempty"`
}

// uploadHTTPClient is the client used for presigned PUTs. Test seam.
var uploadHTTPClient = &http.Client{Timeout: 30 * time.Second}

type Service struct {
	client backend.Client
}

func NewService(client backend.Client) *Service {
	return &Service{client: client}
}

// GenerateFlashcards asks the AI function for count cards on a topic and
// wraps them in an unsaved deck.
func (s *Service) GenerateFlashcards(ctx context.Context, userID, subject, topic string, count int) (*models.Deck, error) {
	var resp generateResponse
	req := generateRequest{Kind: "flashcards", Subject: subject, Topic: topic, Count: count}
	if err := s.client.InvokeFunction(ctx, generateFunction, req, &resp); err != nil {
		return nil, fmt.Errorf("flashcard generation error: %w", err)
	}
	return &models.Deck{
		UserID:    userID,
		Title:     topic,
		Subject:   subject,
		Cards:     resp.Cards,
		CreatedAt: time.Now(),
	}, nil
}

func (s *Service) GenerateQuiz(ctx context.Context, topic string, count int) (*models.Quiz, error) {
	var resp generateResponse
	req := generateRequest{Kind: "quiz", Topic: topic, Count: count}
	if err := s.client.InvokeFunction(ctx, generateFunction, req, &resp); err != nil {
		return nil, fmt.Errorf("quiz generation error: %w", err)
	}
	return &models.Quiz{Topic: topic, Questions: resp.Questions}, nil
}

func (s *Service) GenerateMindMap(ctx context.Context, topic string) (*models.MindMapNode, error) {
	var resp generateResponse
	req := generateRequest{Kind: "mindmap", Topic: topic}
	if err := s.client.InvokeFunction(ctx, generateFunction, req, &resp); err != nil {
		return nil, fmt.Errorf("mind map generation error: %w", err)
	}
	if resp.Root == nil {
		return &models.MindMapNode{Label: topic}, nil
	}
	return resp.Root, nil
}

// SaveDeck persists a generated deck as a row in the decks table.
func (s *Service) SaveDeck(ctx context.Context, deck *models.Deck) error {
	cards := make([]map[string]string, 0, len(deck.Cards))
	for _, c := range deck.Cards {
		cards = append(cards, map[string]string{"front": c.Front, "back": c.Back})
	}
	return s.client.InsertRow(ctx, "decks", map[string]any{
		"user_id": deck.UserID,
		"title":   deck.Title,
		"subject": deck.Subject,
		"cards":   cards,
	})
}

func (s *Service) ListDecks(ctx context.Context, userID string) ([]models.Deck, error) {
	var decks []models.Deck
	if err := s.client.ListRows(ctx, "decks", userID, &decks); err != nil {
		return nil, fmt.Errorf("deck list error: %w", err)
	}
	return decks, nil
}

// ListNotifications returns the user's notifications with dismissed ones
// filtered out.
func (s *Service) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	var all []models.Notification
	if err := s.client.ListRows(ctx, "notifications", userID, &all); err != nil {
		return nil, fmt.Errorf("notification list error: %w", err)
	}
	active := all[:0]
	for _, n := range all {
		if !n.Dismissed {
			active = append(active, n)
		}
	}
	return active, nil
}

func (s *Service) ListAchievements(ctx context.Context, userID string) ([]models.Achievement, error) {
	var out []models.Achievement
	if err := s.client.ListRows(ctx, "achievements", userID, &out); err != nil {
		return nil, fmt.Errorf("achievement list error: %w", err)
	}
	return out, nil
}

// UploadAvatar pushes image bytes through a presigned PUT and returns the
// storage key to record on the profile.
func (s *Service) UploadAvatar(ctx context.Context, data []byte, contentType string) (string, error) {
	key, url, err := s.client.PresignUpload(ctx, contentType)
	if err != nil {
		return "", fmt.Errorf("presign error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := uploadHTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("avatar upload error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("avatar upload failed: status %d", resp.StatusCode)
	}
	return key, nil
}
