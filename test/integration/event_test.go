package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"eventhub_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEvent_Validation(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	token, _ := helpers.CreateAndLoginUser(t, ts, "owner1", "owner1@test.com", "password123")

	// Capacity below one is rejected.
	body := helpers.EventBody("Tiny Event", 0)
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/events", token, body)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, "Capacity must be at least 1")

	// End date must come strictly after the start date.
	start := time.Now().Add(24 * time.Hour)
	body = helpers.EventBody("Backwards Event", 10)
	body["start_date"] = start.Format(time.RFC3339)
	body["end_date"] = start.Format(time.RFC3339)
	res, bodyStr = ts.SendRequest(t, "POST", "/api/v1/events", token, body)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, "End date must be after start date")

	// Anonymous creation is refused.
	res, _ = ts.SendRequest(t, "POST", "/api/v1/events", "", helpers.EventBody("Anon Event", 10))
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestCreateEvent_DefaultsAndProjection(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	token, user := helpers.CreateAndLoginUser(t, ts, "owner2", "owner2@test.com", "password123")

	body := helpers.EventBody("Launch Party", 50)
	delete(body, "capacity")
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/events", token, body)
	require.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)

	var event struct {
		ID              string `json:"id"`
		Capacity        int    `json:"capacity"`
		Status          string `json:"status"`
		CreatedBy       string `json:"created_by"`
		CreatedByName   string `json:"created_by_name"`
		RegisteredCount int64  `json:"registered_count"`
		IsOwner         bool   `json:"is_owner"`
		IsFull          bool   `json:"is_full"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &event))
	assert.Equal(t, 100, event.Capacity)
	assert.Equal(t, "upcoming", event.Status)
	assert.Equal(t, user.ID, event.CreatedBy)
	assert.Equal(t, "owner2", event.CreatedByName)
	assert.Equal(t, int64(0), event.RegisteredCount)
	assert.True(t, event.IsOwner)
	assert.False(t, event.IsFull)
}

func TestUpdateEvent_OwnerOnly(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	ownerToken, _ := helpers.CreateAndLoginUser(t, ts, "owner3", "owner3@test.com", "password123")
	otherToken, _ := helpers.CreateAndLoginUser(t, ts, "intruder", "intruder@test.com", "password123")

	eventID := helpers.CreateEventViaAPI(t, ts, ownerToken, helpers.EventBody("Owner Meetup", 10))

	update := map[string]interface{}{"title": "Hijacked"}
	res, bodyStr := ts.SendRequest(t, "PUT", "/api/v1/events/"+eventID, otherToken, update)
	assert.Equal(t, http.StatusForbidden, res.StatusCode, bodyStr)

	// The event is unchanged after the rejected attempt.
	res, bodyStr = ts.SendRequest(t, "GET", "/api/v1/events/"+eventID, ownerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, "Owner Meetup")

	res, bodyStr = ts.SendRequest(t, "PUT", "/api/v1/events/"+eventID, ownerToken, update)
	assert.Equal(t, http.StatusOK, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, "Hijacked")
}

func TestDeleteEvent_OwnerOnly(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	ownerToken, _ := helpers.CreateAndLoginUser(t, ts, "owner4", "owner4@test.com", "password123")
	otherToken, _ := helpers.CreateAndLoginUser(t, ts, "other4", "other4@test.com", "password123")

	eventID := helpers.CreateEventViaAPI(t, ts, ownerToken, helpers.EventBody("Doomed Event", 10))

	res, _ := ts.SendRequest(t, "DELETE", "/api/v1/events/"+eventID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = ts.SendRequest(t, "DELETE", "/api/v1/events/"+eventID, ownerToken, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res, _ = ts.SendRequest(t, "GET", "/api/v1/events/"+eventID, ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	// Deleting twice is a 404.
	res, _ = ts.SendRequest(t, "DELETE", "/api/v1/events/"+eventID, ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestListEvents_FiltersAndSearch(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	token, _ := helpers.CreateAndLoginUser(t, ts, "lister", "lister@test.com", "password123")

	conf := helpers.EventBody("Go Conference", 10)
	conf["category"] = "conference"
	conf["location"] = "Amsterdam"
	helpers.CreateEventViaAPI(t, ts, token, conf)

	meetup := helpers.EventBody("Rustaceans Meetup", 10)
	meetup["category"] = "meetup"
	meetup["location"] = "Berlin"
	helpers.CreateEventViaAPI(t, ts, token, meetup)

	// Listing requires an authenticated caller like every other event
	// endpoint.
	res, _ := ts.SendRequest(t, "GET", "/api/v1/events", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/events", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var list struct {
		Events []json.RawMessage `json:"events"`
		Total  int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &list))
	assert.Equal(t, int64(2), list.Total)

	res, bodyStr = ts.SendRequest(t, "GET", "/api/v1/events?category=conference", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, "Go Conference")
	assert.NotContains(t, bodyStr, "Rustaceans")

	res, bodyStr = ts.SendRequest(t, "GET", "/api/v1/events?location=berl", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, "Rustaceans")
	assert.NotContains(t, bodyStr, "Go Conference")

	res, bodyStr = ts.SendRequest(t, "GET", "/api/v1/events?search=rustaceans", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, "Rustaceans")

	res, bodyStr = ts.SendRequest(t, "GET", "/api/v1/events?my_events=true", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &list))
	assert.Equal(t, int64(2), list.Total)
}
