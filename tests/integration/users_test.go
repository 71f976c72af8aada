//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/campushq/enrollhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func studentRoleID(t *testing.T, client *testutil.Client) string {
	t.Helper()

	// Registration seeds the built-in roles, so make sure at least one
	// student has ever registered before looking the role up.
	registerAccount(t, client, "seed", false)

	resp, err := client.GET("/api/v1/roles?name=Student")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	return result.Data.ID
}

func createTestUser(t *testing.T, client *testutil.Client, roleID string) (id, email string) {
	t.Helper()

	email = testutil.RandomEmail("managed")
	resp, err := client.POST("/api/v1/users", map[string]interface{}{
		"first_name":   "Morgan",
		"last_name":    "Reyes",
		"email":        email,
		"password":     "password123",
		"phone_number": "+15550001111",
		"birth_date":   "2000-01-15T00:00:00Z",
		"role_id":      roleID,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	return result.Data.ID, email
}

func TestUsers_Create_And_Get(t *testing.T) {
	client := newTestClient(t)
	loginAsTeacher(t, client)

	roleID := studentRoleID(t, client)
	id, email := createTestUser(t, client, roleID)

	resp, err := client.GET("/api/v1/users/" + id)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			ID          string `json:"id"`
			Email       string `json:"email"`
			RoleID      string `json:"role_id"`
			Enrollments []struct {
				CourseID string `json:"course_id"`
			} `json:"enrollments"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, id, result.Data.ID)
	assert.Equal(t, email, result.Data.Email)
	assert.Equal(t, roleID, result.Data.RoleID)
	assert.Empty(t, result.Data.Enrollments)
}

func TestUsers_Create_DuplicateEmail(t *testing.T) {
	client := newTestClient(t)
	loginAsTeacher(t, client)

	roleID := studentRoleID(t, client)
	_, email := createTestUser(t, client, roleID)

	resp, err := client.POST("/api/v1/users", map[string]interface{}{
		"first_name": "Other",
		"last_name":  "Person",
		"email":      email,
		"password":   "password123",
		"birth_date": "1999-03-03T00:00:00Z",
		"role_id":    roleID,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "User.EmailAlreadyExists", errorCode(t, resp))
}

func TestUsers_Get_IncludesEnrollments(t *testing.T) {
	teacher := newTestClient(t)
	loginAsTeacher(t, teacher)
	courseID, courseCode := createTestCourse(t, teacher, "Visible From Profile", 3)

	student := newTestClient(t)
	studentID, _ := loginAsStudent(t, student)
	enroll(t, student, studentID, courseID)

	resp, err := teacher.GET("/api/v1/users/" + studentID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			Enrollments []struct {
				CourseID   string `json:"course_id"`
				CourseCode string `json:"course_code"`
				Units      int    `json:"units"`
			} `json:"enrollments"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.Len(t, result.Data.Enrollments, 1)
	assert.Equal(t, courseID, result.Data.Enrollments[0].CourseID)
	assert.Equal(t, courseCode, result.Data.Enrollments[0].CourseCode)
	assert.Equal(t, 3, result.Data.Enrollments[0].Units)
}

func TestUsers_LookupByEmail(t *testing.T) {
	client := newTestClient(t)
	loginAsTeacher(t, client)

	roleID := studentRoleID(t, client)
	id, email := createTestUser(t, client, roleID)

	resp, err := client.GET("/api/v1/users?email=" + email)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, id, result.Data.ID)
	assert.Equal(t, email, result.Data.Email)
}

func TestUsers_LookupByEmail_NotFound(t *testing.T) {
	client := newTestClient(t)
	loginAsTeacher(t, client)

	resp, err := client.GET("/api/v1/users?email=nobody@example.com")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User.UserNotFound", errorCode(t, resp))
}

func TestUsers_Get_MalformedID(t *testing.T) {
	client := newTestClient(t)
	loginAsTeacher(t, client)

	resp, err := client.GET("/api/v1/users/not-a-uuid")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestUsers_Update(t *testing.T) {
	client := newTestClient(t)
	loginAsTeacher(t, client)

	roleID := studentRoleID(t, client)
	id, email := createTestUser(t, client, roleID)

	resp, err := client.PUT("/api/v1/users/"+id, map[string]interface{}{
		"id":           id,
		"first_name":   "Updated",
		"last_name":    "Name",
		"email":        email,
		"phone_number": "+15559998888",
		"birth_date":   "2000-01-15T00:00:00Z",
		"role_id":      roleID,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			FirstName   string `json:"first_name"`
			PhoneNumber string `json:"phone_number"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, "Updated", result.Data.FirstName)
	assert.Equal(t, "+15559998888", result.Data.PhoneNumber)
}

func TestUsers_Update_EmailTakenByAnotherUser(t *testing.T) {
	client := newTestClient(t)
	loginAsTeacher(t, client)

	roleID := studentRoleID(t, client)
	firstID, _ := createTestUser(t, client, roleID)
	_, secondEmail := createTestUser(t, client, roleID)

	resp, err := client.PUT("/api/v1/users/"+firstID, map[string]interface{}{
		"id":         firstID,
		"first_name": "Morgan",
		"last_name":  "Reyes",
		"email":      secondEmail,
		"birth_date": "2000-01-15T00:00:00Z",
		"role_id":    roleID,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "User.EmailAlreadyExists", errorCode(t, resp))
}

func TestUsers_Delete(t *testing.T) {
	client := newTestClient(t)
	loginAsTeacher(t, client)

	roleID := studentRoleID(t, client)
	id, _ := createTestUser(t, client, roleID)

	resp, err := client.DELETE("/api/v1/users/" + id)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.GET("/api/v1/users/" + id)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User.UserNotFound", errorCode(t, resp))
}

func TestUsers_AddUserToRole(t *testing.T) {
	client := newTestClient(t)
	loginAsTeacher(t, client)

	roleID := createTestRole(t, client, randomRoleName("assistant"))
	studentRole := studentRoleID(t, client)
	userID, email := createTestUser(t, client, studentRole)

	resp, err := client.POST("/api/v1/users/"+userID+"/roles/"+roleID, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			RoleID string `json:"role_id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, roleID, result.Data.RoleID)

	// Membership shows up both on the role and on the user.
	resp, err = client.GET("/api/v1/roles/" + roleID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var roleResult struct {
		Data struct {
			Members []struct {
				Email string `json:"email"`
			} `json:"members"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &roleResult)
	require.Len(t, roleResult.Data.Members, 1)
	assert.Equal(t, email, roleResult.Data.Members[0].Email)
}

func TestUsers_AddUserToRole_UserNotFound(t *testing.T) {
	client := newTestClient(t)
	loginAsTeacher(t, client)

	roleID := createTestRole(t, client, randomRoleName("orphan"))

	resp, err := client.POST("/api/v1/users/00000000-0000-0000-0000-000000000000/roles/"+roleID, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User.UserNotFound", errorCode(t, resp))
}

func TestUsers_List(t *testing.T) {
	client := newTestClient(t)
	loginAsTeacher(t, client)

	roleID := studentRoleID(t, client)
	_, email := createTestUser(t, client, roleID)

	resp, err := client.GET("/api/v1/users")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data []struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)

	found := false
	for _, user := range result.Data {
		if user.Email == email {
			found = true
		}
	}
	assert.True(t, found)
}

func TestUsers_RequireTeacherRole(t *testing.T) {
	client := newTestClient(t)
	loginAsStudent(t, client)

	resp, err := client.GET("/api/v1/users")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}
