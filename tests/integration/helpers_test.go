//go:build integration

package integration

import (
	"fmt"
	"math/rand"
	"net/http"
	"testing"

	"github.com/campushq/enrollhub/internal/testutil"
	"github.com/stretchr/testify/require"
)

// registerAccount registers a new account and returns its id and email.
func registerAccount(t *testing.T, client *testutil.Client, prefix string, isTeacher bool) (id, email string) {
	t.Helper()

	email = testutil.RandomEmail(prefix)
	resp, err := client.POST("/api/v1/auth/register", map[string]interface{}{
		"first_name": "Test",
		"last_name":  "Account",
		"email":      email,
		"password":   "password123",
		"birth_date": "1995-06-15T00:00:00Z",
		"is_teacher": isTeacher,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.NotEmpty(t, result.Data.ID)
	return result.Data.ID, email
}

// loginAsTeacher registers a fresh Teacher account and logs the client in.
func loginAsTeacher(t *testing.T, client *testutil.Client) (id, email string) {
	t.Helper()
	id, email = registerAccount(t, client, "teacher", true)
	client.LoginAs(t, email, "password123")
	return id, email
}

// loginAsStudent registers a fresh Student account and logs the client in.
func loginAsStudent(t *testing.T, client *testutil.Client) (id, email string) {
	t.Helper()
	id, email = registerAccount(t, client, "student", false)
	client.LoginAs(t, email, "password123")
	return id, email
}

// randomCourseCode returns a unique course code like "CS-1a2b3c4d".
func randomCourseCode(prefix string) string {
	return fmt.Sprintf("%s-%08x", prefix, rand.Uint32())
}

// createTestCourse creates a course as the (already authenticated) client and
// returns its id and course code.
func createTestCourse(t *testing.T, client *testutil.Client, title string, units int) (id, code string) {
	t.Helper()

	code = randomCourseCode("CS")
	resp, err := client.POST("/api/v1/courses", map[string]interface{}{
		"course_code": code,
		"title":       title,
		"units":       units,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	return result.Data.ID, code
}

// enroll enrolls the given user in the given course as the client and returns
// the enrollment id.
func enroll(t *testing.T, client *testutil.Client, userID, courseID string) string {
	t.Helper()

	resp, err := client.POST("/api/v1/enrollments", map[string]interface{}{
		"user_id":   userID,
		"course_id": courseID,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	return result.Data.ID
}

// errorCode extracts the error code from an error response body.
func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()

	var result struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	testutil.DecodeJSON(t, resp, &result)
	return result.Error.Code
}
