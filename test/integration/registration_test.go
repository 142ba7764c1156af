package integration_test

import (
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"eventhub_backend/internal/models"
	"eventhub_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_CapacityEnforced(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	ownerToken, _ := helpers.CreateAndLoginUser(t, ts, "cap_owner", "cap_owner@test.com", "password123")
	bToken, _ := helpers.CreateAndLoginUser(t, ts, "cap_b", "cap_b@test.com", "password123")
	cToken, _ := helpers.CreateAndLoginUser(t, ts, "cap_c", "cap_c@test.com", "password123")

	eventID := helpers.CreateEventViaAPI(t, ts, ownerToken, helpers.EventBody("Single Seat", 1))

	// First registration takes the only seat.
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/events/"+eventID+"/register", bToken, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	var registration struct {
		Status  string `json:"status"`
		EventID string `json:"event"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &registration))
	assert.Equal(t, "confirmed", registration.Status)
	assert.Equal(t, eventID, registration.EventID)

	// The event is now full.
	res, bodyStr = ts.SendRequest(t, "POST", "/api/v1/events/"+eventID+"/register", cToken, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, "Event is full")

	// Fullness wins even for the holder of the seat.
	res, bodyStr = ts.SendRequest(t, "POST", "/api/v1/events/"+eventID+"/register", bToken, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, "Event is full")

	// Unregistering frees the seat for the other user.
	res, _ = ts.SendRequest(t, "POST", "/api/v1/events/"+eventID+"/unregister", bToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, bodyStr = ts.SendRequest(t, "POST", "/api/v1/events/"+eventID+"/register", cToken, nil)
	assert.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)
}

func TestUnregister_WithoutRegistration(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	ownerToken, _ := helpers.CreateAndLoginUser(t, ts, "unreg_owner", "unreg_owner@test.com", "password123")
	userToken, _ := helpers.CreateAndLoginUser(t, ts, "unreg_user", "unreg_user@test.com", "password123")

	eventID := helpers.CreateEventViaAPI(t, ts, ownerToken, helpers.EventBody("No Shows", 10))

	// No confirmed registration to cancel.
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/events/"+eventID+"/unregister", userToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode, bodyStr)

	// Same after a register/unregister cycle.
	res, _ = ts.SendRequest(t, "POST", "/api/v1/events/"+eventID+"/register", userToken, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	res, _ = ts.SendRequest(t, "POST", "/api/v1/events/"+eventID+"/unregister", userToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = ts.SendRequest(t, "POST", "/api/v1/events/"+eventID+"/unregister", userToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestReRegister_FlipsExistingRow(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	ownerToken, _ := helpers.CreateAndLoginUser(t, ts, "flip_owner", "flip_owner@test.com", "password123")
	userToken, _ := helpers.CreateAndLoginUser(t, ts, "flip_user", "flip_user@test.com", "password123")

	eventID := helpers.CreateEventViaAPI(t, ts, ownerToken, helpers.EventBody("Revolving Door", 10))

	res, firstBody := ts.SendRequest(t, "POST", "/api/v1/events/"+eventID+"/register", userToken, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	// With seats still free, a duplicate attempt is an already-registered
	// conflict, not a capacity failure.
	res, dupBody := ts.SendRequest(t, "POST", "/api/v1/events/"+eventID+"/register", userToken, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, dupBody)
	assert.Contains(t, dupBody, "already registered")

	res, _ = ts.SendRequest(t, "POST", "/api/v1/events/"+eventID+"/unregister", userToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res, secondBody := ts.SendRequest(t, "POST", "/api/v1/events/"+eventID+"/register", userToken, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var first, second struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(firstBody), &first))
	require.NoError(t, json.Unmarshal([]byte(secondBody), &second))

	// The same row is reused rather than a second one inserted.
	assert.Equal(t, first.ID, second.ID)
}

func TestMyRegistrations(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	ownerToken, _ := helpers.CreateAndLoginUser(t, ts, "myreg_owner", "myreg_owner@test.com", "password123")
	userToken, _ := helpers.CreateAndLoginUser(t, ts, "myreg_user", "myreg_user@test.com", "password123")

	firstID := helpers.CreateEventViaAPI(t, ts, ownerToken, helpers.EventBody("First Event", 10))
	secondID := helpers.CreateEventViaAPI(t, ts, ownerToken, helpers.EventBody("Second Event", 10))

	res, _ := ts.SendRequest(t, "POST", "/api/v1/events/"+firstID+"/register", userToken, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	res, _ = ts.SendRequest(t, "POST", "/api/v1/events/"+secondID+"/register", userToken, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	res, _ = ts.SendRequest(t, "POST", "/api/v1/events/"+secondID+"/unregister", userToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/events/my-registrations", userToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var registrations []struct {
		EventTitle string `json:"event_title"`
		UserName   string `json:"user_name"`
		Status     string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &registrations))

	// Only the still-confirmed registration shows up.
	require.Len(t, registrations, 1)
	assert.Equal(t, "First Event", registrations[0].EventTitle)
	assert.Equal(t, "myreg_user", registrations[0].UserName)
	assert.Equal(t, "confirmed", registrations[0].Status)
}

func TestEventProjection_ReflectsRegistrations(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	ownerToken, _ := helpers.CreateAndLoginUser(t, ts, "proj_owner", "proj_owner@test.com", "password123")
	userToken, _ := helpers.CreateAndLoginUser(t, ts, "proj_user", "proj_user@test.com", "password123")

	eventID := helpers.CreateEventViaAPI(t, ts, ownerToken, helpers.EventBody("Projection", 1))

	res, _ := ts.SendRequest(t, "POST", "/api/v1/events/"+eventID+"/register", userToken, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/events/"+eventID, userToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var event struct {
		RegisteredCount int64 `json:"registered_count"`
		IsRegistered    bool  `json:"is_registered"`
		IsFull          bool  `json:"is_full"`
		IsOwner         bool  `json:"is_owner"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &event))
	assert.Equal(t, int64(1), event.RegisteredCount)
	assert.True(t, event.IsRegistered)
	assert.True(t, event.IsFull)
	assert.False(t, event.IsOwner)

	// The owner sees the same counts but from the owner's seat.
	res, bodyStr = ts.SendRequest(t, "GET", "/api/v1/events/"+eventID, ownerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &event))
	assert.True(t, event.IsOwner)
	assert.False(t, event.IsRegistered)
}

func TestRegister_ConcurrentRequestsNeverOverbook(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	ownerToken, _ := helpers.CreateAndLoginUser(t, ts, "race_owner", "race_owner@test.com", "password123")
	eventID := helpers.CreateEventViaAPI(t, ts, ownerToken, helpers.EventBody("One Seat Race", 1))

	tokens := make([]string, 4)
	for i := range tokens {
		username, email := helpers.UniqueUser("racer")
		tokens[i], _ = helpers.CreateAndLoginUser(t, ts, username, email, "password123")
	}

	// All callers hit the register endpoint at once. The row lock on the
	// event must let exactly one of them through.
	statuses := make(chan int, len(tokens))
	var wg sync.WaitGroup
	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			req, err := http.NewRequest("POST", ts.Server.URL+"/api/v1/events/"+eventID+"/register", nil)
			if err != nil {
				statuses <- 0
				return
			}
			req.Header.Set("Authorization", "Bearer "+token)
			res, err := ts.Server.Client().Do(req)
			if err != nil {
				statuses <- 0
				return
			}
			res.Body.Close()
			statuses <- res.StatusCode
		}(token)
	}
	wg.Wait()
	close(statuses)

	created, full := 0, 0
	for status := range statuses {
		switch status {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest:
			full++
		default:
			t.Fatalf("unexpected status %d from concurrent register", status)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, len(tokens)-1, full)

	var confirmed int64
	require.NoError(t, ts.DB.Model(&models.EventRegistration{}).
		Where("event_id = ? AND status = ?", eventID, models.RegistrationStatusConfirmed).
		Count(&confirmed).Error)
	assert.Equal(t, int64(1), confirmed)
}
