package model

import (
	"time"

	"github.com/google/uuid"
)

// Membership — единственное каноническое представление доступа к доске.
// Владелец доски тоже имеет запись здесь с ролью "owner".
type Membership struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_board_user;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_board_user;index"`
	Role      string    `gorm:"not null;check:role IN ('owner', 'editor', 'viewer')"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time

	Board Board `gorm:"foreignKey:BoardID"`
	User  User  `gorm:"foreignKey:UserID"`
}

func (Membership) TableName() string {
	return "board_memberships"
}

// Роли пользователей для доски
const (
	RoleOwner  = "owner"  // полный доступ, нельзя выдать через приглашение
	RoleEditor = "editor" // может редактировать
	RoleViewer = "viewer" // может только просматривать
)

// ValidInviteRole reports whether the role can be granted via an invitation.
func ValidInviteRole(role string) bool {
	return role == RoleEditor || role == RoleViewer
}
