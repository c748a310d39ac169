package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careguide/internal/types"
)

func TestFindActivity(t *testing.T) {
	assessments := []types.ActivityAssessment{
		{ActivityID: "id-1", ShortDescription: "Colonoscopy screening"},
		{ActivityID: "id-2", ShortDescription: "Annual flu vaccine"},
		{ActivityID: "id-3", ShortDescription: "Flu risk counseling"},
	}

	got, err := findActivity(assessments, "id-2")
	require.NoError(t, err)
	assert.Equal(t, "Annual flu vaccine", got.ShortDescription)

	got, err = findActivity(assessments, "colonoscopy")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ActivityID)

	_, err = findActivity(assessments, "flu")
	assert.Error(t, err, "ambiguous fragment must error")

	_, err = findActivity(assessments, "dental")
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"assess", "redact", "score", "whatif", "history", "watch", "chat"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "command %q must be registered", name)
	}
}
