package enrollments

import (
	"context"
	"testing"
	"time"

	"github.com/campushq/enrollhub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	enrollments map[string]*domain.Enrollment
	units       map[string]int
	createCalls int
	deleteCalls int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		enrollments: make(map[string]*domain.Enrollment),
		units:       make(map[string]int),
	}
}

func (m *mockRepository) add(e *domain.Enrollment) {
	m.enrollments[e.ID] = e
}

func (m *mockRepository) Create(_ context.Context, enrollment *domain.Enrollment) error {
	m.createCalls++
	enrollment.ID = "enr-" + enrollment.UserID + "-" + enrollment.CourseID
	enrollment.CreatedAt = time.Now()
	enrollment.UpdatedAt = enrollment.CreatedAt
	m.enrollments[enrollment.ID] = enrollment
	return nil
}

func (m *mockRepository) GetByID(_ context.Context, id string) (*domain.Enrollment, error) {
	if e, ok := m.enrollments[id]; ok {
		return e, nil
	}
	return nil, ErrEnrollmentNotFound
}

func (m *mockRepository) List(_ context.Context) ([]domain.Enrollment, error) {
	list := make([]domain.Enrollment, 0, len(m.enrollments))
	for _, e := range m.enrollments {
		list = append(list, *e)
	}
	return list, nil
}

func (m *mockRepository) ListByUser(_ context.Context, userID string) ([]domain.Enrollment, error) {
	list := make([]domain.Enrollment, 0)
	for _, e := range m.enrollments {
		if e.UserID == userID {
			list = append(list, *e)
		}
	}
	return list, nil
}

func (m *mockRepository) ListByCourse(_ context.Context, courseID string) ([]domain.Enrollment, error) {
	list := make([]domain.Enrollment, 0)
	for _, e := range m.enrollments {
		if e.CourseID == courseID {
			list = append(list, *e)
		}
	}
	return list, nil
}

func (m *mockRepository) Delete(_ context.Context, id string) error {
	m.deleteCalls++
	if _, ok := m.enrollments[id]; !ok {
		return ErrEnrollmentNotFound
	}
	delete(m.enrollments, id)
	return nil
}

func (m *mockRepository) ExistsByUserAndCourse(_ context.Context, userID, courseID string) (bool, error) {
	for _, e := range m.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) TotalUnitsForUser(_ context.Context, userID string) (int, error) {
	return m.units[userID], nil
}

func TestCreate_StampsEnrollmentDate(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	before := time.Now().UTC()
	res, err := service.Create(context.Background(), CreateEnrollmentInput{
		UserID:   "u1",
		CourseID: "c1",
	})
	after := time.Now().UTC()

	require.NoError(t, err)
	require.True(t, res.IsSuccess())

	enrollment := res.Value()
	assert.Equal(t, "u1", enrollment.UserID)
	assert.Equal(t, "c1", enrollment.CourseID)
	assert.False(t, enrollment.EnrollmentDate.Before(before))
	assert.False(t, enrollment.EnrollmentDate.After(after))
}

func TestCreate_DuplicatePair_DoesNotInsert(t *testing.T) {
	repo := newMockRepository()
	repo.add(&domain.Enrollment{ID: "e1", UserID: "u1", CourseID: "c1"})
	service := NewService(repo)

	res, err := service.Create(context.Background(), CreateEnrollmentInput{
		UserID:   "u1",
		CourseID: "c1",
	})

	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.Equal(t, ErrAlreadyEnrolled, res.Err())
	assert.Zero(t, repo.createCalls, "store add must not be called for a duplicate pair")
}

func TestCreate_SameUserDifferentCourse(t *testing.T) {
	repo := newMockRepository()
	repo.add(&domain.Enrollment{ID: "e1", UserID: "u1", CourseID: "c1"})
	service := NewService(repo)

	res, err := service.Create(context.Background(), CreateEnrollmentInput{
		UserID:   "u1",
		CourseID: "c2",
	})

	require.NoError(t, err)
	assert.True(t, res.IsSuccess())
}

func TestGetByID_NotFound(t *testing.T) {
	service := NewService(newMockRepository())

	res, err := service.GetByID(context.Background(), "missing")

	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.Equal(t, ErrEnrollmentNotFound, res.Err())
}

func TestList_EmptyStoreIsSuccess(t *testing.T) {
	service := NewService(newMockRepository())

	res, err := service.List(context.Background())

	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.NotNil(t, res.Value())
	assert.Empty(t, res.Value())
}

func TestListByUser_FiltersToUser(t *testing.T) {
	repo := newMockRepository()
	repo.add(&domain.Enrollment{ID: "e1", UserID: "u1", CourseID: "c1"})
	repo.add(&domain.Enrollment{ID: "e2", UserID: "u2", CourseID: "c1"})
	service := NewService(repo)

	res, err := service.ListByUser(context.Background(), "u1")

	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	require.Len(t, res.Value(), 1)
	assert.Equal(t, "e1", res.Value()[0].ID)
}

func TestTotalUnitsForUser(t *testing.T) {
	repo := newMockRepository()
	repo.units["u1"] = 7
	service := NewService(repo)

	res, err := service.TotalUnitsForUser(context.Background(), "u1")

	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.Equal(t, 7, res.Value())
}

func TestDelete_NotFound_NoMutation(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	res, err := service.Delete(context.Background(), "missing")

	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.Equal(t, ErrEnrollmentNotFound, res.Err())
	assert.Zero(t, repo.deleteCalls, "store delete must not be called for a missing id")
}

func TestDelete_Success(t *testing.T) {
	repo := newMockRepository()
	repo.add(&domain.Enrollment{ID: "e1", UserID: "u1", CourseID: "c1"})
	service := NewService(repo)

	res, err := service.Delete(context.Background(), "e1")

	require.NoError(t, err)
	assert.True(t, res.IsSuccess())
	assert.Empty(t, repo.enrollments)
}
