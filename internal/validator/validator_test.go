package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type salaryInput struct {
	Min    float64 `json:"min" validate:"min=0"`
	Max    float64 `json:"max" validate:"gtefield=Min"`
	Period string  `json:"period" validate:"salary_period"`
}

type jobInput struct {
	Title    string      `json:"title" validate:"required"`
	JobType  string      `json:"jobType" validate:"job_type"`
	PostedBy string      `json:"postedBy" validate:"omitempty,entity_id"`
	Salary   salaryInput `json:"salary"`
}

func TestValidate_UsesJSONNames(t *testing.T) {
	v := New()

	err := v.Validate(&jobInput{
		JobType:  "Freelance",
		PostedBy: "not-an-id",
		Salary:   salaryInput{Min: 10, Max: 5, Period: "week"},
	})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "This field is required", vErr.Errors["title"])
	assert.Contains(t, vErr.Errors["jobType"], "Full-time")
	assert.Equal(t, "Must be a valid identifier", vErr.Errors["postedBy"])
	assert.Contains(t, vErr.Errors, "salary.max")
	assert.Contains(t, vErr.Errors, "salary.period")
}

func TestValidate_AcceptsUUIDAndObjectID(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&jobInput{Title: "Nurse", PostedBy: "0b0f8a4e-3c1f-4d6c-9d7e-6a3c2b1a0f9e"}))
	assert.NoError(t, v.Validate(&jobInput{Title: "Nurse", PostedBy: "64b7f0c2a1b2c3d4e5f60718"}))
}
