// Package render maps session state to one presentation descriptor shared
// by every surface that shows session controls.
package render

import "pagevoice/internal/core/model"

// View describes how a surface should present a session state.
type View struct {
	Label        string
	ShowControls bool // pause/resume/stop row
	Start        bool
	Pause        bool
	Resume       bool
	Stop         bool
}

// For returns the presentation for a state. States outside the reading
// lifecycle, including the initial one, hide the control row and leave
// only start available.
func For(state model.State) View {
	switch state {
	case model.StateReading:
		return View{Label: "Reading aloud", ShowControls: true, Pause: true, Stop: true}
	case model.StatePaused:
		return View{Label: "Paused", ShowControls: true, Resume: true, Stop: true}
	case model.StateComplete:
		return View{Label: "Finished", ShowControls: true, Start: true}
	case model.StateStopped:
		return View{Label: "Stopped", ShowControls: true, Start: true}
	case model.StateError:
		return View{Label: "Something went wrong", ShowControls: true, Start: true}
	default:
		return View{Label: "Ready", Start: true}
	}
}
