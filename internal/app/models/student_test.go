package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalTracksPresence(t *testing.T) {
	var body struct {
		Name  Optional[string]  `json:"name"`
		Score Optional[float64] `json:"score"`
		Note  Optional[string]  `json:"note"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ann","score":null}`), &body))

	assert.True(t, body.Name.Set)
	assert.False(t, body.Name.Null)
	assert.Equal(t, "Ann", body.Name.Value)
	assert.Equal(t, "Ann", *body.Name.Ptr())

	assert.True(t, body.Score.Set)
	assert.True(t, body.Score.Null)
	assert.Nil(t, body.Score.Ptr())

	assert.False(t, body.Note.Set)
	assert.Nil(t, body.Note.Ptr())
}

func TestOptionalRejectsWrongType(t *testing.T) {
	var body struct {
		Score Optional[float64] `json:"score"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"score":"high"}`), &body))
}

func TestStudentPatchIsEmpty(t *testing.T) {
	assert.True(t, (&StudentPatch{}).IsEmpty())
	assert.False(t, (&StudentPatch{Email: Some("x@y.com")}).IsEmpty())
	assert.False(t, (&StudentPatch{Address: Null[string]()}).IsEmpty())
}

func TestStudentJSONShape(t *testing.T) {
	addr := "12 College Rd"
	s := Student{
		StudentID: 7,
		FName:     "Zoe",
		LName:     "Adams",
		DOB:       pgtype.Date{Time: time.Date(2003, 4, 17, 0, 0, 0, 0, time.UTC), Valid: true},
		Email:     "zoe@example.edu",
		Address:   &addr,
	}

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"studentid": 7,
		"fname": "Zoe",
		"lname": "Adams",
		"dob": "2003-04-17",
		"email": "zoe@example.edu",
		"address": "12 College Rd",
		"enrollment_score": null
	}`, string(raw))

	s.DOB = pgtype.Date{}
	raw, err = json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"dob":null`)
}

func TestEnrollmentScoreIsJSONNumber(t *testing.T) {
	for _, score := range []float64{0, 87.25, 99.999} {
		score := score
		raw, err := json.Marshal(Student{EnrollmentScore: &score})
		require.NoError(t, err)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, score, body["enrollment_score"])
	}
}
