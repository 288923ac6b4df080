package http

import (
	"net/http"

	"quiz-studio-service/internal/app"

	"github.com/gin-gonic/gin"
)

type FolderHandler struct {
	folders *app.FolderService
}

func NewFolderHandler(folders *app.FolderService) *FolderHandler {
	return &FolderHandler{folders: folders}
}

type folderRequest struct {
	Name string `json:"name" binding:"required,notblank"`
}

type folderIDsRequest struct {
	FolderIDs []int64 `json:"folderIds" binding:"required,min=1"`
}

type quizIDsRequest struct {
	QuizIDs []int64 `json:"quizIds" binding:"required,min=1"`
}

// Dashboard answers GET /dashboard?q=, listing every folder and quiz of the user.
func (h *FolderHandler) Dashboard(c *gin.Context) {
	board, err := h.folders.Dashboard(c.Request.Context(), currentUser(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *FolderHandler) List(c *gin.Context) {
	folders, err := h.folders.ListFolders(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folders)
}

func (h *FolderHandler) Create(c *gin.Context) {
	var req folderRequest
	if !bindJSON(c, &req) {
		return
	}
	folder, err := h.folders.CreateFolder(c.Request.Context(), currentUser(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, folder)
}

func (h *FolderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	contents, err := h.folders.GetFolderWithQuizzes(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contents)
}

func (h *FolderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.folders.DeleteFolder(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "folder deleted"})
}

func (h *FolderHandler) BulkDelete(c *gin.Context) {
	var req folderIDsRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.folders.BulkDeleteFolders(c.Request.Context(), currentUser(c), req.FolderIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func (h *FolderHandler) RemoveQuizzes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req quizIDsRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.folders.RemoveQuizzesFromFolder(c.Request.Context(), currentUser(c), id, req.QuizIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": n})
}

func (h *FolderHandler) AddQuizzes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req quizIDsRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.folders.AddQuizzesToFolder(c.Request.Context(), currentUser(c), id, req.QuizIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": n})
}
