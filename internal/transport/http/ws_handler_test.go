package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"quiz-studio-service/internal/domain"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func TestWebSocketPlayFlow(t *testing.T) {
	router := newTestRouter(t)
	token := signUp(t, router, "a@x.com")
	quizID := createQuiz(t, router, token, 0)

	server := httptest.NewServer(router)
	defer server.Close()
	conn := dialPlay(t, server, token, quizID)
	defer conn.Close()

	first := readPayload[domain.PlayQuestion](t, conn, "question")
	if first.Total != 2 || first.QuestionText != "Teste?" || first.Deadline != nil {
		t.Fatalf("unexpected first question: %+v", first)
	}
	answer(t, conn, first.QuestionID, first.Options[0].ID) // Sim, correct

	res := readPayload[domain.AnswerResult](t, conn, "answerResult")
	if !res.Correct || res.Score != 1 || res.Finished {
		t.Fatalf("unexpected result: %+v", res)
	}

	second := readPayload[domain.PlayQuestion](t, conn, "question")
	if second.Index != 1 {
		t.Fatalf("expected second question, got %+v", second)
	}
	answer(t, conn, second.QuestionID, second.Options[0].ID) // 3, wrong

	res = readPayload[domain.AnswerResult](t, conn, "answerResult")
	if res.Correct || !res.Finished || res.CorrectOptionID != second.Options[1].ID {
		t.Fatalf("unexpected final result: %+v", res)
	}

	result := readPayload[domain.PlayResult](t, conn, "finished")
	if result.Score != 1 || result.Total != 2 || result.Percentage != 50 {
		t.Fatalf("unexpected play result: %+v", result)
	}
}

func TestWebSocketSubmitsEmptyAnswerAfterDeadline(t *testing.T) {
	router := newTestRouter(t)
	token := signUp(t, router, "a@x.com")
	quizID := createQuiz(t, router, token, 1)

	server := httptest.NewServer(router)
	defer server.Close()
	conn := dialPlay(t, server, token, quizID)
	defer conn.Close()

	first := readPayload[domain.PlayQuestion](t, conn, "question")
	if first.Deadline == nil {
		t.Fatalf("expected a deadline on timed quiz")
	}

	res := readPayload[domain.AnswerResult](t, conn, "answerResult")
	if res.Correct || !res.TimedOut || res.QuestionID != first.QuestionID {
		t.Fatalf("expected timed out answer, got %+v", res)
	}
	second := readPayload[domain.PlayQuestion](t, conn, "question")
	if second.Index != 1 {
		t.Fatalf("expected to advance, got %+v", second)
	}
}

func TestWebSocketRejectsUnknownQuiz(t *testing.T) {
	router := newTestRouter(t)
	token := signUp(t, router, "a@x.com")

	expectStatus(t, do(t, router, http.MethodGet, "/play?quizId=42", token, nil), http.StatusNotFound)
	expectStatus(t, do(t, router, http.MethodGet, "/play", token, nil), http.StatusBadRequest)
	expectStatus(t, do(t, router, http.MethodGet, "/play?quizId=42", "", nil), http.StatusUnauthorized)
}

func TestWebSocketReportsBadMessages(t *testing.T) {
	router := newTestRouter(t)
	token := signUp(t, router, "a@x.com")
	quizID := createQuiz(t, router, token, 0)

	server := httptest.NewServer(router)
	defer server.Close()
	conn := dialPlay(t, server, token, quizID)
	defer conn.Close()

	first := readPayload[domain.PlayQuestion](t, conn, "question")

	if err := conn.WriteJSON(map[string]any{"type": "dance"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	readPayload[map[string]string](t, conn, "error")

	answer(t, conn, first.QuestionID+1000, first.Options[0].ID)
	readPayload[map[string]string](t, conn, "error")

	if err := conn.WriteJSON(map[string]any{"type": "finish"}); err != nil {
		t.Fatalf("write finish: %v", err)
	}
	result := readPayload[domain.PlayResult](t, conn, "finished")
	if result.Score != 0 || result.Total != 2 {
		t.Fatalf("unexpected early finish: %+v", result)
	}
}

func createQuiz(t *testing.T, router http.Handler, token string, timer int) int64 {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/quizzes", token, quizBody("Quiz Teste", timer))
	expectStatus(t, rec, http.StatusCreated)
	return decode[struct {
		QuizID int64 `json:"quizId"`
	}](t, rec).QuizID
}

func dialPlay(t *testing.T, server *httptest.Server, token string, quizID int64) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(server.URL, "http") + "/play?quizId=" + strconv.FormatInt(quizID, 10) + "&access_token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func answer(t *testing.T, conn *websocket.Conn, questionID, optionID int64) {
	t.Helper()
	msg := map[string]any{
		"type": "answer",
		"payload": map[string]any{
			"questionId": questionID,
			"optionId":   optionID,
		},
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write answer: %v", err)
	}
}

func readPayload[T any](t *testing.T, conn *websocket.Conn, expect string) T {
	t.Helper()
	var msg wsMessage
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != expect {
		t.Fatalf("expected type %s, got %s: %s", expect, msg.Type, msg.Payload)
	}
	var out T
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		t.Fatalf("decode %s payload: %v", expect, err)
	}
	return out
}
