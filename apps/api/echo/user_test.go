package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusight/backend/core/user"
)

func TestUserCreate(t *testing.T) {
	deps := setup(t)

	rec := deps.request(http.MethodPost, "/v1/users",
		[]byte(`{"name": "Jane Doe", "email": "jane@school.test", "role": "teacher"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var usr user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &usr))
	assert.NotEmpty(t, usr.ID)
	assert.Equal(t, "Jane Doe", usr.Name)
	assert.Equal(t, "jane@school.test", usr.Email)
	assert.Equal(t, user.RoleTeacher, usr.Role)
}

func TestUserCreateValidation(t *testing.T) {
	deps := setup(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing fields", `{}`},
		{"bad email", `{"name": "X", "email": "nope", "role": "teacher"}`},
		{"bad role", `{"name": "X", "email": "x@school.test", "role": "admin"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := deps.request(http.MethodPost, "/v1/users", []byte(tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	deps := setup(t)
	deps.createUser(t, "Jane", "jane@school.test", user.RoleTeacher)

	rec := deps.request(http.MethodPost, "/v1/users",
		[]byte(`{"name": "Other Jane", "email": "jane@school.test", "role": "parent"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestUserQuery(t *testing.T) {
	deps := setup(t)
	deps.createUser(t, "Jane", "jane@school.test", user.RoleTeacher)
	deps.createUser(t, "John", "john@school.test", user.RoleParent)

	rec := deps.request(http.MethodGet, "/v1/users")
	require.Equal(t, http.StatusOK, rec.Code)

	var users []user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2)
}

func TestUserQueryFiltered(t *testing.T) {
	deps := setup(t)
	deps.createUser(t, "Jane", "jane@school.test", user.RoleTeacher)
	deps.createUser(t, "John", "john@school.test", user.RoleParent)

	rec := deps.request(http.MethodGet, "/v1/users?role=parent")
	require.Equal(t, http.StatusOK, rec.Code)

	var users []user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "John", users[0].Name)

	rec = deps.request(http.MethodGet, "/v1/users?search=jane")
	require.Equal(t, http.StatusOK, rec.Code)
	users = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "Jane", users[0].Name)
}

func TestUserRetrieve(t *testing.T) {
	deps := setup(t)
	usr := deps.createUser(t, "Jane", "jane@school.test", user.RoleTeacher)

	rec := deps.request(http.MethodGet, "/v1/users/"+usr.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var got user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, usr.ID, got.ID)
}

func TestUserRetrieveNotFound(t *testing.T) {
	deps := setup(t)
	rec := deps.request(http.MethodGet, "/v1/users/does-not-exist")
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}

func TestUserUpdate(t *testing.T) {
	deps := setup(t)
	usr := deps.createUser(t, "Jane", "jane@school.test", user.RoleTeacher)

	rec := deps.request(http.MethodPut, "/v1/users/"+usr.ID, []byte(`{"name": "Jane Smith"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Jane Smith", got.Name)
	// untouched fields keep their values
	assert.Equal(t, "jane@school.test", got.Email)
	assert.Equal(t, user.RoleTeacher, got.Role)
}

func TestUserDestroy(t *testing.T) {
	deps := setup(t)
	usr := deps.createUser(t, "Jane", "jane@school.test", user.RoleTeacher)

	rec := deps.request(http.MethodDelete, "/v1/users/"+usr.ID)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = deps.request(http.MethodGet, "/v1/users/"+usr.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserRoles(t *testing.T) {
	deps := setup(t)

	rec := deps.request(http.MethodGet, "/v1/users/roles")
	require.Equal(t, http.StatusOK, rec.Code)

	var roles []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roles))
	assert.Equal(t, user.AllRoles, roles)
}
