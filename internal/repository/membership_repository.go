package repository

import (
	"context"
	"errors"

	"taskflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MembershipRepository struct {
	db *gorm.DB
}

type MembershipRepositoryInterface interface {
	Get(ctx context.Context, boardID, userID uuid.UUID) (*model.Membership, error)
	GetBoardMembers(ctx context.Context, boardID uuid.UUID) ([]model.Membership, error)
	GetSharedBoards(ctx context.Context, userID uuid.UUID) ([]model.Board, error)
	Remove(ctx context.Context, boardID, userID uuid.UUID) error
	CheckAccess(ctx context.Context, boardID, userID uuid.UUID, requiredRole string) (bool, error)
}

var _ MembershipRepositoryInterface = (*MembershipRepository)(nil)

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Get возвращает запись о членстве или nil, если доступа нет
func (r *MembershipRepository) Get(ctx context.Context, boardID, userID uuid.UUID) (*model.Membership, error) {
	var membership model.Membership
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&membership).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// GetBoardMembers возвращает список участников доски вместе с пользователями
func (r *MembershipRepository) GetBoardMembers(ctx context.Context, boardID uuid.UUID) ([]model.Membership, error) {
	var memberships []model.Membership

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("board_id = ?", boardID).
		Order("created_at").
		Find(&memberships).Error

	return memberships, err
}

// GetSharedBoards возвращает доски, к которым пользователь имеет доступ как участник
// (собственные доски сюда не входят)
func (r *MembershipRepository) GetSharedBoards(ctx context.Context, userID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board

	err := r.db.WithContext(ctx).
		Joins("JOIN board_memberships ON board_memberships.board_id = boards.id").
		Where("board_memberships.user_id = ? AND board_memberships.role <> ?", userID, model.RoleOwner).
		Find(&boards).Error

	return boards, err
}

// Remove удаляет доступ пользователя к доске
func (r *MembershipRepository) Remove(ctx context.Context, boardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Delete(&model.Membership{}).Error
}

// CheckAccess проверяет, имеет ли пользователь доступ к доске с указанной ролью или выше
func (r *MembershipRepository) CheckAccess(ctx context.Context, boardID, userID uuid.UUID, requiredRole string) (bool, error) {
	membership, err := r.Get(ctx, boardID, userID)
	if err != nil {
		return false, err
	}

	// Нет записи — нет доступа
	if membership == nil {
		return false, nil
	}

	// Владелец всегда имеет полный доступ
	if membership.Role == model.RoleOwner {
		return true, nil
	}

	// Если требуется роль "viewer", то подойдет любая роль
	if requiredRole == model.RoleViewer {
		return true, nil
	}

	// Если требуется роль "editor", то проверяем что у пользователя роль "editor"
	return membership.Role == model.RoleEditor, nil
}
