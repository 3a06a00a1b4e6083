package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveChoice(t *testing.T) {
	tests := []struct {
		flags Flags
		want  Choice
	}{
		{Flags{}, ChoiceAuto},
		{Flags{ForceRich: true}, ChoiceRich},
		{Flags{ForceYaegi: true}, ChoiceYaegi},
		{Flags{ForcePlain: true}, ChoicePlain},
		{Flags{ForceRich: true, ForceYaegi: true}, ChoiceYaegi},
		{Flags{ForceRich: true, ForcePlain: true}, ChoicePlain},
		{Flags{ForceYaegi: true, ForcePlain: true}, ChoicePlain},
		{Flags{ForceRich: true, ForceYaegi: true, ForcePlain: true}, ChoicePlain},
		{Flags{WithoutTasks: true, Eventlet: true}, ChoiceAuto},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveChoice(tt.flags), "%+v", tt.flags)
		})
	}
}
