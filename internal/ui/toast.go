package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastWarning
	toastError
)

const (
	toastDuration = 5 * time.Second
	maxOpenToasts = 3
)

type toast struct {
	id   int
	kind toastKind
	text string
}

// toastExpiredMsg dismisses the toast with the matching id.
type toastExpiredMsg struct {
	id int
}

// pushToast shows a toast and schedules its dismissal.
func (m *Model) pushToast(kind toastKind, text string) tea.Cmd {
	m.toastSeq++
	id := m.toastSeq
	toasts := append([]toast(nil), m.toasts...)
	toasts = append(toasts, toast{id: id, kind: kind, text: text})
	if len(toasts) > maxOpenToasts {
		toasts = toasts[len(toasts)-maxOpenToasts:]
	}
	m.toasts = toasts
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m *Model) dismissToast(id int) {
	kept := make([]toast, 0, len(m.toasts))
	for _, t := range m.toasts {
		if t.id != id {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

func renderToasts(toasts []toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(toasts))
	for _, t := range toasts {
		lines = append(lines, toastStyle(t.kind).Width(width).Render(t.text))
	}
	return strings.Join(lines, "\n")
}
