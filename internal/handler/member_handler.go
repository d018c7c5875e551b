package handler

import (
	"net/http"

	"taskflow/internal/model"
	"taskflow/internal/repository"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	boardRepo      repository.BoardRepositoryInterface
	membershipRepo repository.MembershipRepositoryInterface
}

func NewMemberHandler(
	boardRepo repository.BoardRepositoryInterface,
	membershipRepo repository.MembershipRepositoryInterface,
) *MemberHandler {
	return &MemberHandler{
		boardRepo:      boardRepo,
		membershipRepo: membershipRepo,
	}
}

// MemberResponse представляет участника доски
type MemberResponse struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	IsOwner bool   `json:"is_owner"`
}

// GetBoardMembers возвращает список участников доски
func (h *MemberHandler) GetBoardMembers(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	boardID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	hasAccess, err := h.membershipRepo.CheckAccess(c.Request.Context(), boardID, userID, model.RoleViewer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this board"})
		return
	}

	memberships, err := h.membershipRepo.GetBoardMembers(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board members"})
		return
	}

	// Представление для чтения выводится из единственной канонической таблицы
	response := make([]MemberResponse, len(memberships))
	for i, m := range memberships {
		response[i] = MemberResponse{
			UserID:  m.UserID.String(),
			Email:   m.User.Email,
			Name:    m.User.Name,
			Role:    m.Role,
			IsOwner: m.Role == model.RoleOwner,
		}
	}

	c.JSON(http.StatusOK, response)
}

// RemoveMember удаляет доступ пользователя к доске
func (h *MemberHandler) RemoveMember(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	boardID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	targetUserID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	if board.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the board owner can remove access"})
		return
	}

	// Запись владельца существует, пока существует доска
	if targetUserID == board.OwnerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The owner cannot be removed from the board"})
		return
	}

	if err := h.membershipRepo.Remove(c.Request.Context(), boardID, targetUserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Board access removed successfully"})
}
