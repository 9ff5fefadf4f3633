package tui

import "github.com/rgehrsitz/sipgo/internal/risk"

// Scene is the screen the quiz is showing
type Scene int

const (
	SceneQuestion Scene = iota
	SceneResult
)

func (s Scene) String() string {
	switch s {
	case SceneQuestion:
		return "Question"
	case SceneResult:
		return "Your Profile"
	default:
		return "Unknown"
	}
}

// ClassifiedMsg carries the outcome of scoring the completed quiz
type ClassifiedMsg struct {
	Result *risk.Result
	Err    error
}

// ProfileSavedMsg reports whether the profile reached the store
type ProfileSavedMsg struct {
	Err error
}
