package handler

import (
	"net/http"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/repository"
	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
)

type InvitationHandler struct {
	invitations    *service.InvitationService
	boardRepo      repository.BoardRepositoryInterface
	invitationRepo repository.InvitationRepositoryInterface
}

func NewInvitationHandler(
	invitations *service.InvitationService,
	boardRepo repository.BoardRepositoryInterface,
	invitationRepo repository.InvitationRepositoryInterface,
) *InvitationHandler {
	return &InvitationHandler{
		invitations:    invitations,
		boardRepo:      boardRepo,
		invitationRepo: invitationRepo,
	}
}

// ShareBoardRequest представляет запрос на предоставление доступа к доске
type ShareBoardRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=viewer editor"`
}

// InvitationResponse представляет приглашение
type InvitationResponse struct {
	ID             string `json:"id"`
	BoardID        string `json:"board_id"`
	BoardTitle     string `json:"board_title"`
	SenderEmail    string `json:"sender_email"`
	RecipientEmail string `json:"recipient_email"`
	Role           string `json:"role"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}

func invitationResponse(inv *model.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:             inv.ID.String(),
		BoardID:        inv.BoardID.String(),
		BoardTitle:     inv.BoardTitle,
		SenderEmail:    inv.SenderEmail,
		RecipientEmail: inv.RecipientEmail,
		Role:           inv.Role,
		Status:         inv.Status,
		CreatedAt:      inv.CreatedAt.Format(time.RFC3339),
	}
}

// ShareBoard создает приглашение на доску по email получателя
func (h *InvitationHandler) ShareBoard(c *gin.Context) {
	userID, userEmail, ok := currentUser(c)
	if !ok {
		return
	}

	boardID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req ShareBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	invitation, err := h.invitations.Share(c.Request.Context(), userID, userEmail, boardID, req.Email, req.Role)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Invitation sent to " + invitation.RecipientEmail + ".",
		"invitation": invitationResponse(invitation),
	})
}

// Accept принимает приглашение, адресованное текущему пользователю
func (h *InvitationHandler) Accept(c *gin.Context) {
	userID, userEmail, ok := currentUser(c)
	if !ok {
		return
	}

	invitationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	invitation, err := h.invitations.Accept(c.Request.Context(), userID, userEmail, invitationID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "You joined " + invitation.BoardTitle + " as " + invitation.Role + ".",
		"invitation": invitationResponse(invitation),
	})
}

// Decline отклоняет приглашение, адресованное текущему пользователю
func (h *InvitationHandler) Decline(c *gin.Context) {
	userID, userEmail, ok := currentUser(c)
	if !ok {
		return
	}

	invitationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	invitation, err := h.invitations.Decline(c.Request.Context(), userID, userEmail, invitationID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Invitation declined.",
		"invitation": invitationResponse(invitation),
	})
}

// GetBoardInvitations возвращает журнал приглашений доски (только владельцу)
func (h *InvitationHandler) GetBoardInvitations(c *gin.Context) {
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

	if board.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the board owner can view sent invitations"})
		return
	}

	invitations, err := h.invitationRepo.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invitations"})
		return
	}

	response := make([]InvitationResponse, len(invitations))
	for i := range invitations {
		response[i] = invitationResponse(&invitations[i])
	}

	c.JSON(http.StatusOK, response)
}

// GetMyInvitations возвращает ожидающие приглашения текущего пользователя
func (h *InvitationHandler) GetMyInvitations(c *gin.Context) {
	_, userEmail, ok := currentUser(c)
	if !ok {
		return
	}

	if userEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your account has no verified email address"})
		return
	}

	invitations, err := h.invitationRepo.GetPendingForEmail(c.Request.Context(), userEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invitations"})
		return
	}

	response := make([]InvitationResponse, len(invitations))
	for i := range invitations {
		response[i] = invitationResponse(&invitations[i])
	}

	c.JSON(http.StatusOK, response)
}
