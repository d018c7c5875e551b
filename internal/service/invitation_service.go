// Package service holds the board invitation workflow: the ordered
// precondition checks on sharing and the accept/decline state machine
// over the invitation ledger.
package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"taskflow/internal/apperrors"
	"taskflow/internal/mailer"
	"taskflow/internal/model"
	"taskflow/internal/repository"

	"github.com/google/uuid"
)

type InvitationService struct {
	boardRepo      repository.BoardRepositoryInterface
	userRepo       repository.UserRepositoryInterface
	membershipRepo repository.MembershipRepositoryInterface
	invitationRepo repository.InvitationRepositoryInterface
	mail           mailer.Mailer
}

func NewInvitationService(
	boardRepo repository.BoardRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	membershipRepo repository.MembershipRepositoryInterface,
	invitationRepo repository.InvitationRepositoryInterface,
	mail mailer.Mailer,
) *InvitationService {
	return &InvitationService{
		boardRepo:      boardRepo,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		invitationRepo: invitationRepo,
		mail:           mail,
	}
}

// Share creates a pending invitation for (board, recipient email).
// Preconditions are checked in a fixed order, each failing with its own
// error kind; the caller identity and email come from the verified token,
// never from the request body.
func (s *InvitationService) Share(ctx context.Context, callerID uuid.UUID, callerEmail string, boardID uuid.UUID, recipientEmail, role string) (*model.Invitation, error) {
	callerEmail = strings.ToLower(strings.TrimSpace(callerEmail))
	recipientEmail = strings.ToLower(strings.TrimSpace(recipientEmail))

	if callerEmail == "" {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "Your account has no verified email address")
	}
	if recipientEmail == "" || role == "" {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "Recipient email and role are required")
	}
	if role == model.RoleOwner {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "The owner role cannot be granted via sharing")
	}
	if !model.ValidInviteRole(role) {
		return nil, apperrors.Newf(apperrors.KindInvalidArgument, "Unknown role %q", role)
	}

	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindInternal, "Failed to retrieve board")
	}
	if board == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "Board not found")
	}
	if board.OwnerID != callerID {
		return nil, apperrors.New(apperrors.KindPermissionDenied, "Only the board owner can share the board")
	}
	if recipientEmail == callerEmail {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "Cannot share a board with yourself")
	}

	// Адресат может еще не иметь аккаунта — это не ошибка
	var recipientID *uuid.UUID
	recipient, err := s.userRepo.FindByEmail(ctx, recipientEmail)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindInternal, "Failed to look up recipient")
	}
	if recipient != nil {
		membership, err := s.membershipRepo.Get(ctx, boardID, recipient.ID)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.KindInternal, "Failed to check membership")
		}
		if membership != nil {
			return nil, apperrors.Newf(apperrors.KindAlreadyExists, "%s is already a member of this board", recipientEmail)
		}
		recipientID = &recipient.ID
	}

	// Дружелюбная проверка до записи; настоящую гарантию дает уникальный
	// индекс по pending-приглашениям
	existing, err := s.invitationRepo.FindPending(ctx, boardID, recipientEmail)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindInternal, "Failed to check for pending invitations")
	}
	if existing != nil {
		return nil, apperrors.Newf(apperrors.KindAlreadyExists, "An invitation for %s is already pending", recipientEmail)
	}

	invitation := &model.Invitation{
		BoardID:        boardID,
		BoardTitle:     board.Title,
		SenderID:       callerID,
		SenderEmail:    callerEmail,
		RecipientEmail: recipientEmail,
		RecipientID:    recipientID,
		Role:           role,
		Status:         model.InvitationPending,
	}

	if err := s.invitationRepo.Create(ctx, invitation); err != nil {
		if errors.Is(err, repository.ErrDuplicatePendingInvitation) {
			// Проиграли гонку другому отправителю
			return nil, apperrors.Newf(apperrors.KindAlreadyExists, "An invitation for %s is already pending", recipientEmail)
		}
		return nil, apperrors.Wrap(err, apperrors.KindInternal, "Failed to create invitation")
	}

	// Письмо — строго best-effort: приглашение уже записано и не откатывается
	if err := s.mail.SendInvitation(recipientEmail, board.Title, callerEmail); err != nil {
		log.Printf("⚠️  Failed to send invitation email to %s: %v", recipientEmail, err)
	}

	return invitation, nil
}

// Accept grants the invited role. The membership write and the invitation's
// terminal status are applied atomically; a partial result is never visible.
func (s *InvitationService) Accept(ctx context.Context, callerID uuid.UUID, callerEmail string, invitationID uuid.UUID) (*model.Invitation, error) {
	invitation, err := s.authorizedInvitation(ctx, callerEmail, invitationID)
	if err != nil {
		return nil, err
	}

	if invitation.Status != model.InvitationPending {
		return nil, apperrors.Newf(apperrors.KindFailedPrecondition, "Invitation is already %s", invitation.Status)
	}

	if err := s.invitationRepo.Accept(ctx, invitation, callerID); err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindInternal, "Failed to accept invitation")
	}

	invitation.Status = model.InvitationAccepted
	invitation.RecipientID = &callerID
	return invitation, nil
}

// Decline marks the invitation declined without touching board or membership
// state. Declining twice is a no-op success; declining an accepted invitation
// is rejected because the granted membership is not revoked here.
func (s *InvitationService) Decline(ctx context.Context, callerID uuid.UUID, callerEmail string, invitationID uuid.UUID) (*model.Invitation, error) {
	invitation, err := s.authorizedInvitation(ctx, callerEmail, invitationID)
	if err != nil {
		return nil, err
	}

	switch invitation.Status {
	case model.InvitationDeclined:
		return invitation, nil
	case model.InvitationAccepted:
		return nil, apperrors.New(apperrors.KindFailedPrecondition, "Invitation is already accepted")
	}

	if err := s.invitationRepo.Decline(ctx, invitation, callerID); err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindInternal, "Failed to decline invitation")
	}

	invitation.Status = model.InvitationDeclined
	invitation.RecipientID = &callerID
	return invitation, nil
}

// authorizedInvitation loads an invitation addressed to the caller. A missing
// invitation and someone else's invitation produce the same NotFound so the
// ledger's existence is not leaked to strangers.
func (s *InvitationService) authorizedInvitation(ctx context.Context, callerEmail string, invitationID uuid.UUID) (*model.Invitation, error) {
	callerEmail = strings.ToLower(strings.TrimSpace(callerEmail))
	if callerEmail == "" {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "Your account has no verified email address")
	}

	invitation, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindInternal, "Failed to retrieve invitation")
	}
	if invitation == nil || !strings.EqualFold(invitation.RecipientEmail, callerEmail) {
		return nil, apperrors.New(apperrors.KindNotFound, "Invitation not found")
	}
	return invitation, nil
}
