package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"eventhub_backend/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateUser inserts a user, hashing the raw password placed in
// PasswordHash.
func CreateUser(t *testing.T, db *gorm.DB, user *models.User) error {
	t.Helper()

	if user.PasswordHash != "" && !strings.HasPrefix(user.PasswordHash, "$2a$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
		if err != nil {
			t.Fatalf("Failed to hash password: %v", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	return db.Create(user).Error
}

// CreateAndLoginUser creates a user directly in the database and logs
// them in through the API.
func CreateAndLoginUser(t *testing.T, ts *TestServer, username, email, password string) (string, *models.User) {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: password,
	}
	err := CreateUser(t, ts.DB, user)
	require.NoError(t, err, "Creating a test user must not fail")

	loginBody := map[string]interface{}{
		"username": username,
		"password": password,
	}

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	require.Equal(t, http.StatusOK, res.StatusCode, "Login must succeed. Response: "+bodyStr)

	var loginResponse struct {
		Token string `json:"token"`
	}
	err = json.Unmarshal([]byte(bodyStr), &loginResponse)
	require.NoError(t, err)
	require.NotEmpty(t, loginResponse.Token)

	return loginResponse.Token, user
}

// UniqueUser generates a username/email pair that will not collide with
// other tests.
func UniqueUser(prefix string) (string, string) {
	suffix := time.Now().UnixNano()
	return fmt.Sprintf("%s_%d", prefix, suffix), fmt.Sprintf("%s_%d@test.com", prefix, suffix)
}

// EventBody builds a valid event creation payload starting a week from
// now.
func EventBody(title string, capacity int) map[string]interface{} {
	start := time.Now().Add(7 * 24 * time.Hour)
	end := start.Add(2 * time.Hour)
	return map[string]interface{}{
		"title":      title,
		"category":   "meetup",
		"location":   "Berlin",
		"start_date": start.Format(time.RFC3339),
		"end_date":   end.Format(time.RFC3339),
		"capacity":   capacity,
	}
}

// CreateEventViaAPI creates an event through the API and returns its id.
func CreateEventViaAPI(t *testing.T, ts *TestServer, token string, body map[string]interface{}) string {
	t.Helper()

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/events", token, body)
	require.Equal(t, http.StatusCreated, res.StatusCode, "Event creation must succeed. Response: "+bodyStr)

	var event struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &event))
	require.NotEmpty(t, event.ID)
	return event.ID
}
