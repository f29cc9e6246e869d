package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/listny/listny-backend/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type playlist struct {
	ID   primitive.ObjectID
	Name string
}

// MockRepository 通用仓库Mock
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Insert(ctx context.Context, entity *playlist) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*playlist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*playlist), args.Error(1)
}

func (m *MockRepository) FindOne(ctx context.Context, filter interface{}) (*playlist, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*playlist), args.Error(1)
}

func (m *MockRepository) FindMany(ctx context.Context, filter interface{}, sort []domain.SortOrder) ([]*playlist, error) {
	args := m.Called(ctx, filter, sort)
	return args.Get(0).([]*playlist), args.Error(1)
}

func (m *MockRepository) ExistsByFilter(ctx context.Context, filter interface{}) (bool, error) {
	args := m.Called(ctx, filter)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (bool, error) {
	args := m.Called(ctx, id, update)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func TestBaseUsecase_Create(t *testing.T) {
	repo := new(MockRepository)
	uc := NewBaseUsecase[playlist](repo, time.Second, "playlist")

	entity := &playlist{Name: "a"}
	repo.On("Insert", mock.Anything, entity).Return(nil)

	got, err := uc.Create(context.Background(), entity)
	require.NoError(t, err)
	assert.Same(t, entity, got)

	_, err = uc.Create(context.Background(), nil)
	assert.Error(t, err)
}

func TestBaseUsecase_CreateClassifiesRepositoryError(t *testing.T) {
	repo := new(MockRepository)
	uc := NewBaseUsecase[playlist](repo, time.Second, "playlist")

	cause := errors.New("write conflict")
	repo.On("Insert", mock.Anything, mock.Anything).Return(cause)

	_, err := uc.Create(context.Background(), &playlist{})
	assert.ErrorIs(t, err, cause)
	assert.True(t, domain.IsKind(err, domain.KindRepository))
}

func TestParseObjectID(t *testing.T) {
	id := primitive.NewObjectID()

	got, err := ParseObjectID("song id", " "+id.Hex()+" ")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseObjectID("song id", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "song id is required")

	_, err = ParseObjectID("albumId", "zzz")
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	assert.Contains(t, err.Error(), "invalid albumId")
}
