package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ClassifiedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.result = msg.Result
		m.scene = SceneResult
		if m.store == nil {
			return m, nil
		}
		return m, saveProfileCmd(m.store, m.userID, msg.Result.Profile)

	case ProfileSavedMsg:
		m.saved = msg.Err == nil
		m.saveErr = msg.Err
		return m, nil
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.scene == SceneResult {
		return m.updateResult(msg)
	}
	return m.updateQuestion(msg)
}

func (m Model) updateQuestion(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := len(m.questions[m.current].Options)

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < options-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Back):
		if m.current > 0 {
			m.goTo(m.current - 1)
		}
	case key.Matches(msg, m.keys.Select):
		m.chosen = append([]int(nil), m.chosen...)
		m.chosen[m.current] = m.cursor
		if m.current < len(m.questions)-1 {
			m.goTo(m.current + 1)
			return m, nil
		}
		return m, classifyCmd(m.classifier, m.Answers())
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.scene = SceneQuestion
		m.goTo(len(m.questions) - 1)
	case key.Matches(msg, m.keys.Restart):
		fresh := NewModel(m.classifier, m.store, m.userID)
		fresh.width, fresh.height = m.width, m.height
		fresh.help.Width = m.help.Width
		return fresh, nil
	}
	return m, nil
}

// goTo moves to question i and puts the cursor on its previous answer
func (m *Model) goTo(i int) {
	m.current = i
	m.cursor = 0
	if m.chosen[i] >= 0 {
		m.cursor = m.chosen[i]
	}
}
