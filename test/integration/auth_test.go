package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"eventhub_backend/internal/models"
	"eventhub_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	registerBody := map[string]interface{}{
		"username":   "alice",
		"email":      "alice@test.com",
		"password":   "super_password123",
		"first_name": "Alice",
		"last_name":  "Smith",
	}

	regRes, regBodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/register", "", registerBody)
	assert.Equal(t, http.StatusCreated, regRes.StatusCode, regBodyStr)
	assert.Contains(t, regBodyStr, "alice@test.com")

	loginBody := map[string]interface{}{
		"username": "alice",
		"password": "super_password123",
	}
	logRes, logBodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", loginBody)
	assert.Equal(t, http.StatusOK, logRes.StatusCode, logBodyStr)

	var loginResponse struct {
		Token   string `json:"token"`
		Refresh string `json:"refresh"`
		User    struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(logBodyStr), &loginResponse))
	assert.NotEmpty(t, loginResponse.Token)
	assert.NotEmpty(t, loginResponse.Refresh)
	assert.Equal(t, "alice", loginResponse.User.Username)
}

func TestRegister_ShortPassword(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	registerBody := map[string]interface{}{
		"username": "bob",
		"email":    "bob@test.com",
		"password": "12345",
	}

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/register", "", registerBody)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, "Password is too weak")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	err := helpers.CreateUser(t, ts.DB, &models.User{
		Username:     "charlie",
		Email:        "charlie@test.com",
		PasswordHash: "password123",
	})
	require.NoError(t, err)

	registerBody := map[string]interface{}{
		"username": "charlie",
		"email":    "other@test.com",
		"password": "password123",
	}
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/register", "", registerBody)
	assert.Equal(t, http.StatusConflict, res.StatusCode, bodyStr)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	helpers.CreateAndLoginUser(t, ts, "dave", "dave@test.com", "password123")

	loginBody := map[string]interface{}{
		"username": "dave",
		"password": "wrong_password",
	}
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", loginBody)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, "Invalid username or password")
}

func TestCurrentUser(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	token, user := helpers.CreateAndLoginUser(t, ts, "erin", "erin@test.com", "password123")

	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/auth/current-user", token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, user.Email)

	// Without a token the endpoint refuses.
	res, _ = ts.SendRequest(t, "GET", "/api/v1/auth/current-user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestRefreshToken_RotatesAndInvalidates(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	_, user := helpers.CreateAndLoginUser(t, ts, "frank", "frank@test.com", "password123")
	_ = user

	loginBody := map[string]interface{}{
		"username": "frank",
		"password": "password123",
	}
	_, logBodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", loginBody)

	var loginResponse struct {
		Refresh string `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal([]byte(logBodyStr), &loginResponse))

	refreshBody := map[string]interface{}{"refresh": loginResponse.Refresh}
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/refresh", "", refreshBody)
	assert.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var refreshed struct {
		Token   string `json:"token"`
		Refresh string `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &refreshed))
	assert.NotEmpty(t, refreshed.Token)
	assert.NotEqual(t, loginResponse.Refresh, refreshed.Refresh)

	// The spent refresh token no longer works.
	res, _ = ts.SendRequest(t, "POST", "/api/v1/auth/refresh", "", refreshBody)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestForgotPassword_IdenticalResponses(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	helpers.CreateAndLoginUser(t, ts, "grace", "grace@test.com", "password123")

	existingRes, existingBody := ts.SendRequest(t, "POST", "/api/v1/auth/forgot-password", "",
		map[string]interface{}{"email": "grace@test.com"})
	missingRes, missingBody := ts.SendRequest(t, "POST", "/api/v1/auth/forgot-password", "",
		map[string]interface{}{"email": "nobody@test.com"})

	// The caller must not be able to tell registered addresses apart.
	assert.Equal(t, http.StatusOK, existingRes.StatusCode)
	assert.Equal(t, http.StatusOK, missingRes.StatusCode)
	assert.Equal(t, existingBody, missingBody)
}

func TestResetPassword(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	_, user := helpers.CreateAndLoginUser(t, ts, "heidi", "heidi@test.com", "old_password1")

	res, _ := ts.SendRequest(t, "POST", "/api/v1/auth/forgot-password", "",
		map[string]interface{}{"email": "heidi@test.com"})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var stored models.User
	require.NoError(t, ts.DB.First(&stored, "id = ?", user.ID).Error)
	require.NotEmpty(t, stored.ResetToken)
	combined := stored.ID + "/" + stored.ResetToken

	// Five characters fails validation.
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/reset-password", "",
		map[string]interface{}{"token": combined, "password": "12345"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, bodyStr)

	// A malformed token is a generic failure.
	res, bodyStr = ts.SendRequest(t, "POST", "/api/v1/auth/reset-password", "",
		map[string]interface{}{"token": "not-a-valid-token", "password": "new_password1"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, "Invalid or expired reset link")

	// Six characters with the real token succeeds.
	res, bodyStr = ts.SendRequest(t, "POST", "/api/v1/auth/reset-password", "",
		map[string]interface{}{"token": combined, "password": "123456"})
	assert.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	// The old password no longer authenticates, the new one does.
	res, _ = ts.SendRequest(t, "POST", "/api/v1/auth/login", "",
		map[string]interface{}{"username": "heidi", "password": "old_password1"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = ts.SendRequest(t, "POST", "/api/v1/auth/login", "",
		map[string]interface{}{"username": "heidi", "password": "123456"})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// The token is single-use.
	res, _ = ts.SendRequest(t, "POST", "/api/v1/auth/reset-password", "",
		map[string]interface{}{"token": combined, "password": "another_pass1"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
