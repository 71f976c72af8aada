// Package users manages user accounts: CRUD keyed by a unique email, plus
// role assignment. Password hashes never leave the service; projections carry
// profile fields only.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campushq/enrollhub/internal/domain"
	"github.com/campushq/enrollhub/internal/pkg/result"
	"golang.org/x/crypto/bcrypt"
)

// User is the transport-facing projection of a user.
type User struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	BirthDate   time.Time `json:"birth_date"`
	RoleID      string    `json:"role_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EnrolledCourseView is the projection of one of a user's enrollments joined
// with its course.
type EnrolledCourseView struct {
	EnrollmentID   string    `json:"enrollment_id"`
	CourseID       string    `json:"course_id"`
	CourseCode     string    `json:"course_code"`
	Title          string    `json:"title"`
	Units          int       `json:"units"`
	EnrollmentDate time.Time `json:"enrollment_date"`
}

// UserWithEnrollments is a user together with their enrolled courses.
type UserWithEnrollments struct {
	User
	Enrollments []EnrolledCourseView `json:"enrollments"`
}

// CreateUserInput holds data for creating a user.
type CreateUserInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	PhoneNumber string
	BirthDate   time.Time
	RoleID      string
}

// UpdateUserInput holds data for updating a user's profile. The password is
// not part of the profile overwrite; it changes through the identity module.
type UpdateUserInput struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	BirthDate   time.Time
	RoleID      string
}

// Service implements user business logic.
type Service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a user after gating on email uniqueness. The password is hashed
// before the entity reaches the store.
func (s *Service) Create(ctx context.Context, in CreateUserInput) (result.Result[User], error) {
	exists, err := s.repo.EmailExists(ctx, in.Email)
	if err != nil {
		return result.Result[User]{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return result.Failure[User](ErrEmailAlreadyExists), nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return result.Result[User]{}, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hash),
		PhoneNumber:  in.PhoneNumber,
		BirthDate:    in.BirthDate,
		RoleID:       in.RoleID,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return result.Failure[User](ErrEmailAlreadyExists), nil
		}
		return result.Result[User]{}, fmt.Errorf("create user: %w", err)
	}

	return result.Success(projectUser(user)), nil
}

// GetByID retrieves a user together with their enrollments and the courses
// behind them.
func (s *Service) GetByID(ctx context.Context, id string) (result.Result[UserWithEnrollments], error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return result.Failure[UserWithEnrollments](ErrUserNotFound), nil
		}
		return result.Result[UserWithEnrollments]{}, fmt.Errorf("get user: %w", err)
	}

	enrolled, err := s.repo.ListEnrolledCourses(ctx, id)
	if err != nil {
		return result.Result[UserWithEnrollments]{}, fmt.Errorf("list enrolled courses: %w", err)
	}

	projected := UserWithEnrollments{
		User:        projectUser(user),
		Enrollments: make([]EnrolledCourseView, 0, len(enrolled)),
	}
	for _, e := range enrolled {
		projected.Enrollments = append(projected.Enrollments, EnrolledCourseView(e))
	}
	return result.Success(projected), nil
}

// GetByEmail retrieves a user by their unique email, exact match against the
// stored form.
func (s *Service) GetByEmail(ctx context.Context, email string) (result.Result[User], error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return result.Failure[User](ErrUserNotFound), nil
		}
		return result.Result[User]{}, fmt.Errorf("get user by email: %w", err)
	}
	return result.Success(projectUser(user)), nil
}

// List returns all users. An empty store is a success with an empty slice.
func (s *Service) List(ctx context.Context) (result.Result[[]User], error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return result.Result[[]User]{}, fmt.Errorf("list users: %w", err)
	}

	projected := make([]User, 0, len(list))
	for i := range list {
		projected = append(projected, projectUser(&list[i]))
	}
	return result.Success(projected), nil
}

// Update overwrites all profile fields of an existing user. An email change
// is still subject to the uniqueness rule.
func (s *Service) Update(ctx context.Context, in UpdateUserInput) (result.Result[User], error) {
	user, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return result.Failure[User](ErrUserNotFound), nil
		}
		return result.Result[User]{}, fmt.Errorf("get user: %w", err)
	}

	if user.Email != in.Email {
		exists, err := s.repo.EmailExists(ctx, in.Email)
		if err != nil {
			return result.Result[User]{}, fmt.Errorf("check email: %w", err)
		}
		if exists {
			return result.Failure[User](ErrEmailAlreadyExists), nil
		}
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Email = in.Email
	user.PhoneNumber = in.PhoneNumber
	user.BirthDate = in.BirthDate
	user.RoleID = in.RoleID

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return result.Failure[User](ErrEmailAlreadyExists), nil
		}
		return result.Result[User]{}, fmt.Errorf("update user: %w", err)
	}

	return result.Success(projectUser(user)), nil
}

// Delete removes an existing user.
func (s *Service) Delete(ctx context.Context, id string) (result.Void, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return result.Fail(ErrUserNotFound), nil
		}
		return result.Void{}, fmt.Errorf("get user: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return result.Fail(ErrUserNotFound), nil
		}
		return result.Void{}, fmt.Errorf("delete user: %w", err)
	}

	return result.Done(), nil
}

// AddUserToRole adds the user to a role's membership and makes it the user's
// primary role, both in one store transaction. The role id is trusted to the
// store's referential integrity; a missing role is a fault, not a business
// failure.
func (s *Service) AddUserToRole(ctx context.Context, userID, roleID string) (result.Result[User], error) {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return result.Failure[User](ErrUserNotFound), nil
		}
		return result.Result[User]{}, fmt.Errorf("get user: %w", err)
	}

	if err := s.repo.AddToRole(ctx, userID, roleID); err != nil {
		return result.Result[User]{}, fmt.Errorf("add user to role: %w", err)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return result.Result[User]{}, fmt.Errorf("reload user: %w", err)
	}
	return result.Success(projectUser(user)), nil
}

func projectUser(u *domain.User) User {
	return User{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		BirthDate:   u.BirthDate,
		RoleID:      u.RoleID,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
