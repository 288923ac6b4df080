package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"quiz-studio-service/internal/app"
	"quiz-studio-service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// deadlineGrace lets an answer sent right at the deadline arrive before the
// server submits an empty one.
const deadlineGrace = 250 * time.Millisecond

type PlayHandler struct {
	play     *app.PlayService
	upgrader websocket.Upgrader
}

func NewPlayHandler(play *app.PlayService) *PlayHandler {
	return &PlayHandler{
		play: play,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionID int64  `json:"questionId"`
	OptionID   *int64 `json:"optionId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS starts a play session on ?quizId= and upgrades to a websocket.
// The server sends "question", the client answers with "answer", the server
// replies "answerResult" followed by the next "question" or "finished".
// Unanswered questions are submitted empty once their deadline passes.
func (h *PlayHandler) ServeWS(c *gin.Context) {
	ownerID := currentUser(c)
	quizID, err := strconv.ParseInt(c.Query("quizId"), 10, 64)
	if err != nil || quizID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid quizId"})
		return
	}

	question, err := h.play.Start(c.Request.Context(), ownerID, quizID)
	if err != nil {
		respondError(c, err)
		return
	}
	sessionID := question.SessionID
	defer func() {
		// no-op when the player reached the end
		_, _ = h.play.Finish(ownerID, sessionID)
	}()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}

	inbound := make(chan inboundMessage)
	stop := make(chan struct{})
	readerDone := make(chan struct{})

	go func() {
		defer close(readerDone)
		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			select {
			case inbound <- msg:
			case <-stop:
				return
			}
		}
	}()

	defer func() {
		close(stop)
		conn.Close()
		<-readerDone
	}()

	session := &playConn{conn: conn, play: h.play, ownerID: ownerID, sessionID: sessionID}
	if !session.sendQuestion(question) {
		return
	}

	for {
		select {
		case <-readerDone:
			return
		case <-session.timeout:
			if !session.submit(session.current.QuestionID, nil) {
				return
			}
		case msg := <-inbound:
			switch msg.Type {
			case "answer":
				var payload answerPayload
				if err := json.Unmarshal(msg.Payload, &payload); err != nil {
					session.sendError("invalid answer payload")
					continue
				}
				if !session.submit(payload.QuestionID, payload.OptionID) {
					return
				}
			case "finish":
				session.finish()
				return
			default:
				session.sendError("unsupported message type")
			}
		}
	}
}

// playConn is the per-connection state of ServeWS. Only the ServeWS loop writes
// to the connection.
type playConn struct {
	conn      *websocket.Conn
	play      *app.PlayService
	ownerID   int64
	sessionID string

	current domain.PlayQuestion
	timer   *time.Timer
	timeout <-chan time.Time
}

func (p *playConn) sendQuestion(q domain.PlayQuestion) bool {
	p.current = q
	p.armTimer(q.Deadline)
	return p.write(outboundMessage[domain.PlayQuestion]{Type: "question", Payload: q})
}

// submit answers the current question and moves on. It returns false once
// the connection should close.
func (p *playConn) submit(questionID int64, optionID *int64) bool {
	res, err := p.play.Answer(p.ownerID, p.sessionID, questionID, optionID)
	if err != nil {
		return p.sendError(err.Error())
	}
	if !p.write(outboundMessage[domain.AnswerResult]{Type: "answerResult", Payload: res}) {
		return false
	}
	if res.Finished {
		p.finish()
		return false
	}
	next, err := p.play.Current(p.ownerID, p.sessionID)
	if err != nil {
		p.sendError(err.Error())
		return false
	}
	return p.sendQuestion(next)
}

func (p *playConn) finish() {
	p.armTimer(nil)
	result, err := p.play.Finish(p.ownerID, p.sessionID)
	if err != nil {
		p.sendError(err.Error())
		return
	}
	p.write(outboundMessage[domain.PlayResult]{Type: "finished", Payload: result})
}

func (p *playConn) sendError(message string) bool {
	return p.write(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}})
}

func (p *playConn) write(msg any) bool {
	if err := p.conn.WriteJSON(msg); err != nil {
		log.Printf("ws write error: %v", err)
		return false
	}
	return true
}

func (p *playConn) armTimer(deadline *time.Time) {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
		p.timeout = nil
	}
	if deadline == nil {
		return
	}
	p.timer = time.NewTimer(time.Until(*deadline) + deadlineGrace)
	p.timeout = p.timer.C
}
