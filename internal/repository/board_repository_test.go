package repository_test

import (
	"context"
	"testing"

	"taskflow/internal/model"
	"taskflow/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBoardRepository_Create_InsertsOwnerMembership(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	boardRepo := repository.NewBoardRepository(gormDB)

	ownerID := uuid.New()
	boardID := uuid.New()
	board := &model.Board{
		ID:      boardID,
		Title:   "Launch Plan",
		OwnerID: ownerID,
	}

	// Доска и членская запись владельца создаются в одной транзакции
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "boards"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(boardID.String()))
	mock.ExpectQuery(`INSERT INTO "board_memberships"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	err := boardRepo.Create(context.Background(), board)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_Create_RollsBackWhenMembershipFails(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	boardRepo := repository.NewBoardRepository(gormDB)

	board := &model.Board{
		ID:      uuid.New(),
		Title:   "Launch Plan",
		OwnerID: uuid.New(),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "boards"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(board.ID.String()))
	mock.ExpectQuery(`INSERT INTO "board_memberships"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := boardRepo.Create(context.Background(), board)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_Delete_CascadesDependents(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	boardRepo := repository.NewBoardRepository(gormDB)

	boardID := uuid.New()

	// Задачи, приглашения и членство удаляются вместе с доской
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tasks"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "invitations"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "board_memberships"`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "boards"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := boardRepo.Delete(context.Background(), boardID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
