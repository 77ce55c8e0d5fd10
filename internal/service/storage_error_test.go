package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"linkup-go/internal/api/dto"
	"linkup-go/internal/api/response"
	"linkup-go/internal/apperr"
	"linkup-go/internal/model"
	"linkup-go/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return db, mock
}

func TestStorageErrorsDoNotLeak(t *testing.T) {
	db, mock := newMockDB(t)
	cause := errors.New(`pq: relation "follows" does not exist`)
	mock.ExpectQuery(`SELECT .* FROM "follows"`).WillReturnError(cause)

	graph := NewGraphService(repository.NewGraphRepository(db), repository.NewUserRepository(db), 20, 100)
	_, err := graph.Followers(context.Background(), 1, dto.PageQuery{})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInternal))
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, err.Error(), "follows")

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	response.Error(c, err)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "relation")
	assert.Contains(t, w.Body.String(), "服务内部错误")
	require.Len(t, c.Errors, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	cause := errors.New("connection reset by peer")
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "posts"`).WillReturnError(cause)
	mock.ExpectRollback()

	svc := NewReactionService(db, newDispatcher())
	_, err := svc.React(context.Background(), 1, model.TargetPost, 10, model.ReactionLike)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInternal))
	assert.Equal(t, "服务内部错误", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}
