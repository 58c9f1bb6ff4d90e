package main

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"jobnest_backend/internal/logger"
	"jobnest_backend/pkg/pushclient"
	"jobnest_backend/pkg/reconciler"
	"jobnest_backend/ws"

	"github.com/stretchr/testify/assert"
)

func event(t *testing.T, name string, data any) pushclient.Event {
	t.Helper()
	raw, err := json.Marshal(data)
	assert.NoError(t, err)
	return pushclient.Event{Name: name, Data: raw}
}

func TestHandleEvent_PrintsOnlyChanges(t *testing.T) {
	logger.InitWithWriter("test", io.Discard)
	state := reconciler.New()
	state.ApplyUsers([]reconciler.UserEntry{{ID: "u2", Username: "bob", FollowStatus: reconciler.StatusPending}})

	var out bytes.Buffer
	job := event(t, ws.EventNotification, map[string]string{
		"type": "NEW_JOB", "senderName": "carol", "notificationId": "n1", "jobTitle": "Nurse", "company": "City Hospital",
	})
	handleEvent(state, job, &out)
	handleEvent(state, job, &out)
	assert.Equal(t, "carol posted \"Nurse\" at City Hospital\n", out.String())

	out.Reset()
	snapshot := event(t, ws.EventFollowStatusUpdate, map[string][]string{"following": {"u2"}, "followers": {}})
	handleEvent(state, snapshot, &out)
	handleEvent(state, snapshot, &out)
	assert.Equal(t, "bob: pending -> following\n", out.String())
}
