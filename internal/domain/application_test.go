package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseApplicationStatus(t *testing.T) {
	tests := []struct {
		in    string
		want  ApplicationStatus
		valid bool
	}{
		{"draft", ApplicationStatusDraft, true},
		{" Under_Review ", ApplicationStatusUnderReview, true},
		{"approved", ApplicationStatusAccepted, true},
		{"APPROVED", ApplicationStatusAccepted, true},
		{"archived", ApplicationStatus("archived"), false},
		{"", ApplicationStatus(""), false},
	}
	for _, tt := range tests {
		got, ok := ParseApplicationStatus(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.valid, ok, tt.in)
	}
	assert.Len(t, ValidApplicationStatuses(), 7)
}

func TestCanTransitionTo(t *testing.T) {
	allowed := map[ApplicationStatus][]ApplicationStatus{
		ApplicationStatusDraft:            {ApplicationStatusSubmitted},
		ApplicationStatusSubmitted:        {ApplicationStatusUnderReview, ApplicationStatusDocumentsPending, ApplicationStatusAccepted, ApplicationStatusRejected},
		ApplicationStatusUnderReview:      {ApplicationStatusDocumentsPending, ApplicationStatusAccepted, ApplicationStatusRejected},
		ApplicationStatusDocumentsPending: {ApplicationStatusUnderReview, ApplicationStatusAccepted, ApplicationStatusRejected},
		ApplicationStatusAccepted:         {ApplicationStatusCompleted},
		ApplicationStatusRejected:         {},
		ApplicationStatusCompleted:        {},
	}

	for _, from := range ValidApplicationStatuses() {
		for _, to := range ValidApplicationStatuses() {
			want := false
			for _, ok := range allowed[from] {
				if ok == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatusFlags(t *testing.T) {
	assert.True(t, ApplicationStatusRejected.IsTerminal())
	assert.True(t, ApplicationStatusCompleted.IsTerminal())
	assert.False(t, ApplicationStatusDocumentsPending.IsTerminal())

	assert.True(t, ApplicationStatusDocumentsPending.AcceptsDocuments())
	assert.False(t, ApplicationStatusUnderReview.AcceptsDocuments())
	assert.False(t, ApplicationStatusAccepted.AcceptsDocuments())
}

func TestApplicationInputApplyTo(t *testing.T) {
	pan, aadhar, ifsc, dob := " abcde1234f ", "2345 6789 0123", "hdfc0001234", "1996-04-12"
	app := &Application{City: "Pune"}

	require.NoError(t, (&ApplicationInput{PANNumber: &pan, AadharNumber: &aadhar, IFSCCode: &ifsc, DateOfBirth: &dob}).ApplyTo(app))
	assert.Equal(t, "ABCDE1234F", app.PANNumber)
	assert.Equal(t, "234567890123", app.AadharNumber)
	assert.Equal(t, "HDFC0001234", app.IFSCCode)
	require.NotNil(t, app.DateOfBirth)
	assert.Equal(t, 1996, app.DateOfBirth.Year())
	assert.Equal(t, "Pune", app.City)

	bad := "12/04/1996"
	assert.Error(t, (&ApplicationInput{DateOfBirth: &bad}).ApplyTo(app))
}

func TestMissingRequiredFields(t *testing.T) {
	missing := (&Application{FullName: "Asha"}).MissingRequiredFields()
	assert.Contains(t, missing, "pan_number")
	assert.Contains(t, missing, "date_of_birth")
	assert.Contains(t, missing, "education")
	assert.NotContains(t, missing, "full_name")
}

func TestDisplayFallbacks(t *testing.T) {
	name, email := "Bela Nair", "bela@example.com"
	app := &Application{ProfileName: &name, ProfileEmail: &email}
	assert.Equal(t, "Bela Nair", app.DisplayName())
	assert.Equal(t, "bela@example.com", app.DisplayEmail())

	app.FullName = "Bela N."
	assert.Equal(t, "Bela N.", app.DisplayName())

	assert.Equal(t, "", (&Application{}).DisplayName())
}
