package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationJSON_SenderPopulatedOrID(t *testing.T) {
	jobID := "job-1"
	n := Notification{
		BaseModel:   BaseModel{ID: "n-1"},
		Type:        NotificationNewJob,
		SenderID:    "u-1",
		RecipientID: "u-2",
		Status:      NotificationPending,
		JobID:       &jobID,
	}

	raw, err := json.Marshal(n)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "n-1", out["_id"])
	assert.Equal(t, "u-1", out["sender"])
	assert.Equal(t, "u-2", out["recipient"])
	assert.Equal(t, "NEW_JOB", out["type"])
	assert.Equal(t, "job-1", out["jobId"])
	assert.Equal(t, false, out["read"])

	n.Sender = &UserSummary{ID: "u-1", Username: "bob", Avatar: "b.png"}
	raw, err = json.Marshal(&n)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out))
	sender, ok := out["sender"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "bob", sender["username"])
	assert.Equal(t, "b.png", sender["avatar"])
}

func TestJobDefaults(t *testing.T) {
	j := Job{Title: "Nurse"}
	j.ApplyDefaults()

	assert.Equal(t, DefaultCompanyLogo, j.CompanyLogo)
	assert.Equal(t, "INR", j.Salary.Currency)
	assert.Equal(t, "year", j.Salary.Period)
	assert.Equal(t, "Full-time", j.JobType)
	assert.Equal(t, Experience{Min: 0, Max: 5}, j.Experience)
	assert.Equal(t, "Permanent", j.EmploymentType)
	assert.Equal(t, 1, j.Openings)
	assert.Equal(t, []string{"English"}, j.Languages)
	assert.Equal(t, JobStatusActive, j.Status)
	assert.NotNil(t, j.Applicants)
}

func TestUserPasswordNeverSerialized(t *testing.T) {
	raw, err := json.Marshal(User{Username: "alice", PasswordHash: "$2a$secret"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.Contains(t, string(raw), `"username":"alice"`)
}

func TestNotificationJSON_DeletedSenderIsNull(t *testing.T) {
	n := Notification{SenderID: "gone", RecipientID: "u-2", Type: NotificationFollowRequest}
	n.SetSender(nil)

	raw, err := json.Marshal(n)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	v, present := out["sender"]
	assert.True(t, present)
	assert.Nil(t, v)
}
