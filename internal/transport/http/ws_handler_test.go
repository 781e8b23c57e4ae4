package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"inno-quiz-service/internal/domain"
)

func TestWebSocketLeaderboardFlow(t *testing.T) {
	api := newTestAPI(t)
	author := api.signup("author")
	player := api.signup("player")
	quiz := api.createQuiz(author, true)

	server := httptest.NewServer(api.router)
	defer server.Close()

	u := fmt.Sprintf("ws%s/api/v1/quizzes/%d/results/leaderboard/ws?token=%s", server.URL[len("http"):], quiz.ID, player)
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The current ranking arrives first.
	board := readLeaderboard(t, conn)
	if len(board.Entries) != 0 {
		t.Fatalf("expected empty leaderboard, got %d entries", len(board.Entries))
	}
	if board.QuizID != quiz.ID {
		t.Fatalf("expected quiz %d, got %d", quiz.ID, board.QuizID)
	}
	waitForSubscribers(t, api, quiz.ID, 1)

	rec := api.do(http.MethodPost, fmt.Sprintf("/api/v1/quizzes/%d/results", quiz.ID), player, map[string]any{
		"answers": []map[string]any{
			{"question_id": quiz.Questions[0].ID, "answer": "A"},
			{"question_id": quiz.Questions[1].ID, "answer": "Z"},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: status %d: %s", rec.Code, rec.Body.String())
	}

	board = readLeaderboard(t, conn)
	if len(board.Entries) != 1 {
		t.Fatalf("expected 1 entry after submission, got %d", len(board.Entries))
	}
	entry := board.Entries[0]
	if entry.Username != "player" || entry.Score != 3 || entry.Percentage != 100 {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	conn.Close()
	waitForSubscribers(t, api, quiz.ID, 0)
}

func TestWebSocketRejectsPrivateQuiz(t *testing.T) {
	api := newTestAPI(t)
	author := api.signup("author")
	quiz := api.createQuiz(author, false)

	server := httptest.NewServer(api.router)
	defer server.Close()

	u := fmt.Sprintf("ws%s/api/v1/quizzes/%d/results/leaderboard/ws?token=%s", server.URL[len("http"):], quiz.ID, author)
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected dial to fail for a private quiz")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %+v", resp)
	}
	if n := api.hub.Subscribers(quiz.ID); n != 0 {
		t.Fatalf("expected subscription released, got %d", n)
	}
}

func TestWebSocketRequiresToken(t *testing.T) {
	api := newTestAPI(t)
	server := httptest.NewServer(api.router)
	defer server.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/api/v1/quizzes/1/results/leaderboard/ws", nil)
	if err == nil {
		t.Fatalf("expected dial to fail without a token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", resp)
	}
}

func readLeaderboard(t *testing.T, conn *websocket.Conn) domain.Leaderboard {
	t.Helper()
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != "leaderboard" {
		t.Fatalf("expected type leaderboard, got %s: %s", msg.Type, msg.Payload)
	}
	var board domain.Leaderboard
	if err := json.Unmarshal(msg.Payload, &board); err != nil {
		t.Fatalf("decode leaderboard: %v", err)
	}
	return board
}

func waitForSubscribers(t *testing.T, api *testAPI, quizID int64, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for api.hub.Subscribers(quizID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d subscribers, got %d", want, api.hub.Subscribers(quizID))
		}
		time.Sleep(10 * time.Millisecond)
	}
}
