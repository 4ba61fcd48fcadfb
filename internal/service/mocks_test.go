package service_test

import (
	"context"
	"io"
	"log/slog"

	"tasktracker/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserStore) FindSummaries(ctx context.Context, ids []uuid.UUID) ([]model.UserSummary, error) {
	args := m.Called(ctx, ids)
	summaries := args.Get(0)
	if summaries == nil {
		return nil, args.Error(1)
	}
	return summaries.([]model.UserSummary), args.Error(1)
}

func (m *MockUserStore) ListSummaries(ctx context.Context, page model.Page, search string) ([]model.UserSummary, int64, error) {
	args := m.Called(ctx, page, search)
	summaries := args.Get(0)
	if summaries == nil {
		return nil, 0, args.Error(2)
	}
	return summaries.([]model.UserSummary), args.Get(1).(int64), args.Error(2)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, session *model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) FindByUserAndID(ctx context.Context, userID, sessionID uuid.UUID) (*model.Session, error) {
	args := m.Called(ctx, userID, sessionID)
	session := args.Get(0)
	if session == nil {
		return nil, args.Error(1)
	}
	return session.(*model.Session), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, userID, sessionID uuid.UUID) error {
	args := m.Called(ctx, userID, sessionID)
	return args.Error(0)
}

type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, id)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskStore) Update(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskStore) List(ctx context.Context, filter model.TaskFilter, page model.Page) ([]model.Task, int64, error) {
	args := m.Called(ctx, filter, page)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, 0, args.Error(2)
	}
	return tasks.([]model.Task), args.Get(1).(int64), args.Error(2)
}
