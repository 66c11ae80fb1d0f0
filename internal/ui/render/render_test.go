package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pagevoice/internal/core/model"
)

func TestForCoversEveryState(t *testing.T) {
	tests := []struct {
		state model.State
		want  View
	}{
		{model.StateReading, View{Label: "Reading aloud", ShowControls: true, Pause: true, Stop: true}},
		{model.StatePaused, View{Label: "Paused", ShowControls: true, Resume: true, Stop: true}},
		{model.StateComplete, View{Label: "Finished", ShowControls: true, Start: true}},
		{model.StateStopped, View{Label: "Stopped", ShowControls: true, Start: true}},
		{model.StateError, View{Label: "Something went wrong", ShowControls: true, Start: true}},
		{model.StateIdle, View{Label: "Ready", Start: true}},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			require.Equal(t, tt.want, For(tt.state))
		})
	}
}

func TestForUnrecognizedStateHidesControls(t *testing.T) {
	view := For(model.State("rewinding"))
	require.Equal(t, For(model.StateIdle), view)
	require.False(t, view.ShowControls)
	require.True(t, view.Start)
}
