package http

import (
	"net/http"

	"quiz-studio-service/internal/app"
	"quiz-studio-service/internal/domain"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizzes *app.QuizService
}

func NewQuizHandler(quizzes *app.QuizService) *QuizHandler {
	return &QuizHandler{quizzes: quizzes}
}

func (h *QuizHandler) Create(c *gin.Context) {
	var in domain.QuizInput
	if !bindJSON(c, &in) {
		return
	}
	id, err := h.quizzes.Create(c.Request.Context(), currentUser(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "quiz created", "quizId": id})
}

func (h *QuizHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	quiz, err := h.quizzes.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// Update replaces the quiz content; question and option ids change.
func (h *QuizHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in domain.QuizInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.quizzes.Update(c.Request.Context(), currentUser(c), id, in); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "quiz updated"})
}

func (h *QuizHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.quizzes.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "quiz deleted"})
}
