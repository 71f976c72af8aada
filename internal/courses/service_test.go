package courses

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campushq/enrollhub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	courses     map[string]*domain.Course
	createCalls int
	updateCalls int
	deleteCalls int
	listErr     error
}

func newMockRepository() *mockRepository {
	return &mockRepository{courses: make(map[string]*domain.Course)}
}

func (m *mockRepository) add(c *domain.Course) {
	m.courses[c.ID] = c
}

func (m *mockRepository) Create(_ context.Context, course *domain.Course) error {
	m.createCalls++
	course.ID = "course-" + course.CourseCode
	course.CreatedAt = time.Now()
	course.UpdatedAt = course.CreatedAt
	m.courses[course.ID] = course
	return nil
}

func (m *mockRepository) GetByID(_ context.Context, id string) (*domain.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, ErrCourseNotFound
}

func (m *mockRepository) GetByCode(_ context.Context, code string) (*domain.Course, error) {
	for _, c := range m.courses {
		if c.CourseCode == code {
			return c, nil
		}
	}
	return nil, ErrCourseNotFound
}

func (m *mockRepository) List(_ context.Context) ([]domain.Course, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	list := make([]domain.Course, 0, len(m.courses))
	for _, c := range m.courses {
		list = append(list, *c)
	}
	return list, nil
}

func (m *mockRepository) Update(_ context.Context, course *domain.Course) error {
	m.updateCalls++
	if _, ok := m.courses[course.ID]; !ok {
		return ErrCourseNotFound
	}
	m.courses[course.ID] = course
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id string) error {
	m.deleteCalls++
	if _, ok := m.courses[id]; !ok {
		return ErrCourseNotFound
	}
	delete(m.courses, id)
	return nil
}

func (m *mockRepository) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, c := range m.courses {
		if c.CourseCode == code {
			return true, nil
		}
	}
	return false, nil
}

func TestCreate_Success(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	res, err := service.Create(context.Background(), CreateCourseInput{
		CourseCode: "CS101",
		Title:      "Intro",
		Units:      3,
	})

	require.NoError(t, err)
	require.True(t, res.IsSuccess())

	course := res.Value()
	assert.NotEmpty(t, course.ID)
	assert.Equal(t, "CS101", course.CourseCode)
	assert.Equal(t, "Intro", course.Title)
	assert.Equal(t, 3, course.Units)
}

func TestCreate_DuplicateCode_DoesNotInsert(t *testing.T) {
	repo := newMockRepository()
	repo.add(&domain.Course{ID: "c1", CourseCode: "CS101", Title: "Intro", Units: 3})
	service := NewService(repo)

	res, err := service.Create(context.Background(), CreateCourseInput{
		CourseCode: "CS101",
		Title:      "Intro again",
		Units:      4,
	})

	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.Equal(t, ErrCourseAlreadyExists, res.Err())
	assert.Zero(t, repo.createCalls, "store add must not be called for a duplicate code")
}

func TestGetByID_NotFound(t *testing.T) {
	service := NewService(newMockRepository())

	res, err := service.GetByID(context.Background(), "missing")

	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.Equal(t, ErrCourseNotFound, res.Err())
}

func TestGetByID_ProjectsStoredCourse(t *testing.T) {
	repo := newMockRepository()
	repo.add(&domain.Course{ID: "c1", CourseCode: "CS101", Title: "Intro", Units: 3})
	service := NewService(repo)

	res, err := service.GetByID(context.Background(), "c1")

	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.Equal(t, "c1", res.Value().ID)
	assert.Equal(t, "CS101", res.Value().CourseCode)
}

func TestGetByCode_Found(t *testing.T) {
	repo := newMockRepository()
	repo.add(&domain.Course{ID: "c1", CourseCode: "CS101", Title: "Intro", Units: 3})
	service := NewService(repo)

	res, err := service.GetByCode(context.Background(), "CS101")

	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.Equal(t, "c1", res.Value().ID)
}

func TestGetByCode_NotFound(t *testing.T) {
	service := NewService(newMockRepository())

	res, err := service.GetByCode(context.Background(), "NOPE999")

	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.Equal(t, ErrCourseNotFound, res.Err())
}

func TestList_EmptyStoreIsSuccess(t *testing.T) {
	service := NewService(newMockRepository())

	res, err := service.List(context.Background())

	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.NotNil(t, res.Value())
	assert.Empty(t, res.Value())
}

func TestList_StoreFaultPropagates(t *testing.T) {
	repo := newMockRepository()
	repo.listErr = errors.New("connection refused")
	service := NewService(repo)

	_, err := service.List(context.Background())

	require.Error(t, err)
}

func TestUpdate_NotFound_NoMutation(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	res, err := service.Update(context.Background(), UpdateCourseInput{
		ID:         "missing",
		CourseCode: "CS102",
		Title:      "Data Structures",
		Units:      4,
	})

	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.Equal(t, ErrCourseNotFound, res.Err())
	assert.Zero(t, repo.updateCalls, "store update must not be called for a missing id")
}

func TestUpdate_OverwritesAllFields(t *testing.T) {
	repo := newMockRepository()
	repo.add(&domain.Course{ID: "c1", CourseCode: "CS101", Title: "Intro", Units: 3})
	service := NewService(repo)

	res, err := service.Update(context.Background(), UpdateCourseInput{
		ID:         "c1",
		CourseCode: "CS102",
		Title:      "Data Structures",
		Units:      4,
	})

	require.NoError(t, err)
	require.True(t, res.IsSuccess())

	updated := res.Value()
	assert.Equal(t, "CS102", updated.CourseCode)
	assert.Equal(t, "Data Structures", updated.Title)
	assert.Equal(t, 4, updated.Units)
}

func TestDelete_NotFound_NoMutation(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	res, err := service.Delete(context.Background(), "missing")

	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.Equal(t, ErrCourseNotFound, res.Err())
	assert.Zero(t, repo.deleteCalls, "store delete must not be called for a missing id")
}

func TestDelete_Success(t *testing.T) {
	repo := newMockRepository()
	repo.add(&domain.Course{ID: "c1", CourseCode: "CS101", Title: "Intro", Units: 3})
	service := NewService(repo)

	res, err := service.Delete(context.Background(), "c1")

	require.NoError(t, err)
	assert.True(t, res.IsSuccess())
	assert.Empty(t, repo.courses)
}
