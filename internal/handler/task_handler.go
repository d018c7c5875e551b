package handler

import (
	"errors"
	"net/http"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	taskRepo       repository.TaskRepositoryInterface
	boardRepo      repository.BoardRepositoryInterface
	membershipRepo repository.MembershipRepositoryInterface
}

func NewTaskHandler(
	taskRepo repository.TaskRepositoryInterface,
	boardRepo repository.BoardRepositoryInterface,
	membershipRepo repository.MembershipRepositoryInterface,
) *TaskHandler {
	return &TaskHandler{
		taskRepo:       taskRepo,
		boardRepo:      boardRepo,
		membershipRepo: membershipRepo,
	}
}

// TaskRequest представляет запрос на создание или обновление задачи
type TaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  *string    `json:"assigned_to"`
}

// TaskResponse представляет ответ с данными задачи
type TaskResponse struct {
	ID          string     `json:"id"`
	BoardID     string     `json:"board_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   string     `json:"created_at"`
}

func taskResponse(task *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID.String(),
		BoardID:     task.BoardID.String(),
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		DueDate:     task.DueDate,
		CreatedBy:   task.CreatedBy.String(),
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
	}
	if task.AssignedTo != nil {
		s := task.AssignedTo.String()
		resp.AssignedTo = &s
	}
	return resp
}

// requireBoardAccess проверяет, что доска существует и у пользователя есть нужная роль
func (h *TaskHandler) requireBoardAccess(c *gin.Context, boardID, userID uuid.UUID, requiredRole string) bool {
	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return false
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return false
	}

	hasAccess, err := h.membershipRepo.CheckAccess(c.Request.Context(), boardID, userID, requiredRole)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return false
	}
	if !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this board"})
		return false
	}

	return true
}

// Create создает задачу на доске; требуется роль editor или выше
func (h *TaskHandler) Create(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	boardID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if !h.requireBoardAccess(c, boardID, userID, model.RoleEditor) {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task := &model.Task{
		BoardID:     boardID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CreatedBy:   userID,
	}

	if req.AssignedTo != nil {
		assigneeID, err := uuid.Parse(*req.AssignedTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee ID format"})
			return
		}
		task.AssignedTo = &assigneeID
	}

	if err := h.taskRepo.Create(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, taskResponse(task))
}

// GetByBoardID возвращает все задачи доски; достаточно роли viewer
func (h *TaskHandler) GetByBoardID(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	boardID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if !h.requireBoardAccess(c, boardID, userID, model.RoleViewer) {
		return
	}

	tasks, err := h.taskRepo.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := make([]TaskResponse, len(tasks))
	for i := range tasks {
		response[i] = taskResponse(&tasks[i])
	}

	c.JSON(http.StatusOK, response)
}

func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	taskID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	if !h.requireBoardAccess(c, task.BoardID, userID, model.RoleViewer) {
		return
	}

	c.JSON(http.StatusOK, taskResponse(task))
}

func (h *TaskHandler) Update(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	taskID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	if !h.requireBoardAccess(c, task.BoardID, userID, model.RoleEditor) {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	task.DueDate = req.DueDate

	if req.AssignedTo != nil {
		assigneeID, err := uuid.Parse(*req.AssignedTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee ID format"})
			return
		}
		task.AssignedTo = &assigneeID
	} else {
		task.AssignedTo = nil
	}

	if err := h.taskRepo.Update(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, taskResponse(task))
}

// Complete отмечает задачу выполненной
func (h *TaskHandler) Complete(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	taskID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	if !h.requireBoardAccess(c, task.BoardID, userID, model.RoleEditor) {
		return
	}

	if err := h.taskRepo.SetCompleted(c.Request.Context(), taskID, true); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task completed"})
}

func (h *TaskHandler) Delete(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	taskID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	if !h.requireBoardAccess(c, task.BoardID, userID, model.RoleEditor) {
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), taskID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}
