package repository

import (
	"context"
	"errors"
	"time"

	"taskflow/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type InvitationRepository struct {
	db *gorm.DB
}

type InvitationRepositoryInterface interface {
	Create(ctx context.Context, invitation *model.Invitation) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Invitation, error)
	FindPending(ctx context.Context, boardID uuid.UUID, recipientEmail string) (*model.Invitation, error)
	GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Invitation, error)
	GetPendingForEmail(ctx context.Context, recipientEmail string) ([]model.Invitation, error)
	Accept(ctx context.Context, invitation *model.Invitation, userID uuid.UUID) error
	Decline(ctx context.Context, invitation *model.Invitation, userID uuid.UUID) error
}

var _ InvitationRepositoryInterface = (*InvitationRepository)(nil)

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// Create inserts a new pending invitation. A partial unique index on
// (board_id, recipient_email) for pending rows makes this the authoritative
// duplicate check: two concurrent senders cannot both get a pending row,
// regardless of what any prior read saw.
func (r *InvitationRepository) Create(ctx context.Context, invitation *model.Invitation) error {
	err := r.db.WithContext(ctx).Create(invitation).Error
	if isUniqueViolation(err) {
		return ErrDuplicatePendingInvitation
	}
	return err
}

func (r *InvitationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Invitation, error) {
	var invitation model.Invitation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindPending возвращает ожидающее приглашение для пары (доска, email) или nil
func (r *InvitationRepository) FindPending(ctx context.Context, boardID uuid.UUID, recipientEmail string) (*model.Invitation, error) {
	var invitation model.Invitation
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND recipient_email = ? AND status = ?",
			boardID, recipientEmail, model.InvitationPending).
		First(&invitation).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// GetByBoardID возвращает все приглашения доски (журнал не удаляется)
func (r *InvitationRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Invitation, error) {
	var invitations []model.Invitation
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

// GetPendingForEmail возвращает ожидающие приглашения, адресованные email
func (r *InvitationRepository) GetPendingForEmail(ctx context.Context, recipientEmail string) ([]model.Invitation, error) {
	var invitations []model.Invitation
	err := r.db.WithContext(ctx).
		Where("recipient_email = ? AND status = ?", recipientEmail, model.InvitationPending).
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

// Accept applies the full acceptance batch in one transaction: the
// recipient's membership record and the invitation's terminal status either
// both land or neither does.
func (r *InvitationRepository) Accept(ctx context.Context, invitation *model.Invitation, userID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Upsert: повторное принятие той же роли не должно плодить записи
		var existing model.Membership
		err := tx.Where("board_id = ? AND user_id = ?", invitation.BoardID, userID).
			First(&existing).Error

		switch {
		case err == nil:
			existing.Role = invitation.Role
			existing.UpdatedAt = now
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			membership := model.Membership{
				BoardID:   invitation.BoardID,
				UserID:    userID,
				Role:      invitation.Role,
				UpdatedAt: now,
			}
			if err := tx.Create(&membership).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return tx.Model(&model.Invitation{}).
			Where("id = ?", invitation.ID).
			Updates(map[string]interface{}{
				"status":       model.InvitationAccepted,
				"recipient_id": userID,
				"updated_at":   now,
			}).Error
	})
}

// Decline marks the invitation declined. No membership or board state is touched.
func (r *InvitationRepository) Decline(ctx context.Context, invitation *model.Invitation, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Invitation{}).
		Where("id = ?", invitation.ID).
		Updates(map[string]interface{}{
			"status":       model.InvitationDeclined,
			"recipient_id": userID,
			"updated_at":   time.Now(),
		}).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
