//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/campushq/enrollhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourses_Create_And_Get(t *testing.T) {
	client := newTestClient(t)
	loginAsTeacher(t, client)

	id, code := createTestCourse(t, client, "Intro to Computing", 3)

	resp, err := client.GET("/api/v1/courses/" + id)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			ID         string `json:"id"`
			CourseCode string `json:"course_code"`
			Title      string `json:"title"`
			Units      int    `json:"units"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, id, result.Data.ID)
	assert.Equal(t, code, result.Data.CourseCode)
	assert.Equal(t, "Intro to Computing", result.Data.Title)
	assert.Equal(t, 3, result.Data.Units)
}

func TestCourses_Create_DuplicateCode(t *testing.T) {
	client := newTestClient(t)
	loginAsTeacher(t, client)

	_, code := createTestCourse(t, client, "Original", 3)

	resp, err := client.POST("/api/v1/courses", map[string]interface{}{
		"course_code": code,
		"title":       "Copycat",
		"units":       4,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Course.CourseAlreadyExists", errorCode(t, resp))
}

func TestCourses_Create_RequiresTeacherRole(t *testing.T) {
	client := newTestClient(t)
	loginAsStudent(t, client)

	resp, err := client.POST("/api/v1/courses", map[string]interface{}{
		"course_code": randomCourseCode("CS"),
		"title":       "Forbidden",
		"units":       3,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestCourses_Create_UnitsOutOfRange(t *testing.T) {
	client := newTestClient(t)
	loginAsTeacher(t, client)

	resp, err := client.POST("/api/v1/courses", map[string]interface{}{
		"course_code": randomCourseCode("CS"),
		"title":       "Too Heavy",
		"units":       11,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCourses_List_IsPublic(t *testing.T) {
	teacher := newTestClient(t)
	loginAsTeacher(t, teacher)
	createTestCourse(t, teacher, "Public Listing", 2)

	client := newTestClient(t)

	resp, err := client.GET("/api/v1/courses")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.NotEmpty(t, result.Data)
}

func TestCourses_Get_NotFound(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/api/v1/courses/00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Course.CourseNotFound", errorCode(t, resp))
}

func TestCourses_LookupByCode(t *testing.T) {
	teacher := newTestClient(t)
	loginAsTeacher(t, teacher)
	id, code := createTestCourse(t, teacher, "Findable By Code", 3)

	client := newTestClient(t)

	resp, err := client.GET("/api/v1/courses?code=" + code)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			ID         string `json:"id"`
			CourseCode string `json:"course_code"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, id, result.Data.ID)
	assert.Equal(t, code, result.Data.CourseCode)
}

func TestCourses_LookupByCode_NotFound(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/api/v1/courses?code=NOPE9999")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Course.CourseNotFound", errorCode(t, resp))
}

func TestCourses_Get_MalformedID(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/api/v1/courses/not-a-uuid")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCourses_Update_OverwritesAllFields(t *testing.T) {
	client := newTestClient(t)
	loginAsTeacher(t, client)

	id, _ := createTestCourse(t, client, "Before", 2)
	newCode := randomCourseCode("CS")

	resp, err := client.PUT("/api/v1/courses/"+id, map[string]interface{}{
		"id":          id,
		"course_code": newCode,
		"title":       "After",
		"units":       4,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			CourseCode string `json:"course_code"`
			Title      string `json:"title"`
			Units      int    `json:"units"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, newCode, result.Data.CourseCode)
	assert.Equal(t, "After", result.Data.Title)
	assert.Equal(t, 4, result.Data.Units)
}

func TestCourses_Update_NotFound(t *testing.T) {
	client := newTestClient(t)
	loginAsTeacher(t, client)

	missing := "00000000-0000-0000-0000-000000000000"
	resp, err := client.PUT("/api/v1/courses/"+missing, map[string]interface{}{
		"id":          missing,
		"course_code": randomCourseCode("CS"),
		"title":       "Ghost",
		"units":       3,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Course.CourseNotFound", errorCode(t, resp))
}

func TestCourses_Update_IDMismatch(t *testing.T) {
	client := newTestClient(t)
	loginAsTeacher(t, client)

	id, _ := createTestCourse(t, client, "Mismatch", 3)

	resp, err := client.PUT("/api/v1/courses/"+id, map[string]interface{}{
		"id":          "00000000-0000-0000-0000-000000000000",
		"course_code": randomCourseCode("CS"),
		"title":       "Mismatch",
		"units":       3,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCourses_Delete(t *testing.T) {
	client := newTestClient(t)
	loginAsTeacher(t, client)

	id, _ := createTestCourse(t, client, "Short Lived", 1)

	resp, err := client.DELETE("/api/v1/courses/" + id)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.GET("/api/v1/courses/" + id)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCourses_Delete_NotFound(t *testing.T) {
	client := newTestClient(t)
	loginAsTeacher(t, client)

	resp, err := client.DELETE("/api/v1/courses/00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
