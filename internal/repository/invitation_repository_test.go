package repository_test

import (
	"context"
	"testing"

	"taskflow/internal/model"
	"taskflow/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestInvitationRepository_Create_DuplicatePending(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitationRepo := repository.NewInvitationRepository(gormDB)

	// Нарушение частичного уникального индекса по pending-приглашениям
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "invitations"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_invitations_pending_unique"})
	mock.ExpectRollback()

	invitation := &model.Invitation{
		BoardID:        uuid.New(),
		BoardTitle:     "Launch Plan",
		SenderID:       uuid.New(),
		SenderEmail:    "alice@example.com",
		RecipientEmail: "bob@example.com",
		Role:           model.RoleEditor,
		Status:         model.InvitationPending,
	}

	err := invitationRepo.Create(context.Background(), invitation)

	assert.ErrorIs(t, err, repository.ErrDuplicatePendingInvitation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_FindPending_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitationRepo := repository.NewInvitationRepository(gormDB)

	boardID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "invitations" WHERE board_id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)

	invitation, err := invitationRepo.FindPending(context.Background(), boardID, "bob@example.com")

	assert.NoError(t, err)
	assert.Nil(t, invitation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_Accept_AppliesBothWrites(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitationRepo := repository.NewInvitationRepository(gormDB)

	userID := uuid.New()
	invitation := &model.Invitation{
		ID:             uuid.New(),
		BoardID:        uuid.New(),
		RecipientEmail: "bob@example.com",
		Role:           model.RoleEditor,
		Status:         model.InvitationPending,
	}

	// Членская запись и терминальный статус приглашения пишутся в одной
	// транзакции
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "board_memberships" WHERE board_id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`INSERT INTO "board_memberships"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectExec(`UPDATE "invitations"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := invitationRepo.Accept(context.Background(), invitation, userID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_Accept_RollsBackOnStatusWriteFailure(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitationRepo := repository.NewInvitationRepository(gormDB)

	userID := uuid.New()
	invitation := &model.Invitation{
		ID:             uuid.New(),
		BoardID:        uuid.New(),
		RecipientEmail: "bob@example.com",
		Role:           model.RoleEditor,
		Status:         model.InvitationPending,
	}

	// Если вторая запись батча падает, первая не должна зафиксироваться
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "board_memberships" WHERE board_id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`INSERT INTO "board_memberships"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectExec(`UPDATE "invitations"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := invitationRepo.Accept(context.Background(), invitation, userID)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_Accept_UpdatesExistingMembership(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitationRepo := repository.NewInvitationRepository(gormDB)

	userID := uuid.New()
	membershipID := uuid.New()
	invitation := &model.Invitation{
		ID:             uuid.New(),
		BoardID:        uuid.New(),
		RecipientEmail: "bob@example.com",
		Role:           model.RoleEditor,
		Status:         model.InvitationPending,
	}

	// Уже существующая запись обновляется, а не дублируется
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "board_memberships" WHERE board_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "user_id", "role"}).
			AddRow(membershipID.String(), invitation.BoardID.String(), userID.String(), model.RoleViewer))
	mock.ExpectExec(`UPDATE "board_memberships"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "invitations"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := invitationRepo.Accept(context.Background(), invitation, userID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_Decline_OnlyTouchesInvitation(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitationRepo := repository.NewInvitationRepository(gormDB)

	userID := uuid.New()
	invitation := &model.Invitation{
		ID:     uuid.New(),
		Status: model.InvitationPending,
	}

	// Decline не трогает ни доску, ни членство
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "invitations"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := invitationRepo.Decline(context.Background(), invitation, userID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
