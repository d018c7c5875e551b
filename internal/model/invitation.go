package model

import (
	"time"

	"github.com/google/uuid"
)

// Invitation is an email-addressed offer of board access. The recipient is
// matched by email, not user ID, because the account may not exist yet;
// RecipientID is resolved at send time when it does.
type Invitation struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID        uuid.UUID `gorm:"type:uuid;not null;index"`
	BoardTitle     string    `gorm:"not null"` // denormalized at send time, renames don't rewrite history
	SenderID       uuid.UUID `gorm:"type:uuid;not null"`
	SenderEmail    string    `gorm:"not null"`
	RecipientEmail string    `gorm:"not null;index"`
	RecipientID    *uuid.UUID `gorm:"type:uuid"`
	Role           string     `gorm:"not null;check:role IN ('editor', 'viewer')"`
	Status         string     `gorm:"not null;default:'pending'"`
	ExpiresAt      *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time

	Board  Board `gorm:"foreignKey:BoardID"`
	Sender User  `gorm:"foreignKey:SenderID"`
}

// Статусы приглашения
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDeclined = "declined"
	// InvitationExpired is reserved: nothing transitions into it yet.
	// TODO: expiry sweep over invitations past ExpiresAt.
	InvitationExpired = "expired"
)
