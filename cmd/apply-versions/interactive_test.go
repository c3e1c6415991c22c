package main

import (
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	panic("unknown key " + s)
}

func TestConfirmModel(t *testing.T) {
	cases := []struct {
		name    string
		keys    []string
		want    bool
		aborted bool
	}{
		{"accept with y", []string{"y"}, true, false},
		{"decline with n", []string{"n"}, false, false},
		{"toggle then enter", []string{"left", "enter"}, true, false},
		{"default is no", []string{"enter"}, false, false},
		{"escape aborts", []string{"esc"}, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var m tea.Model = confirmModel{title: "Proceed?"}
			for _, k := range tc.keys {
				m, _ = m.Update(keyMsg(k))
			}
			cm := m.(confirmModel)
			if cm.aborted != tc.aborted {
				t.Fatalf("aborted = %v", cm.aborted)
			}
			if !tc.aborted && (!cm.done || cm.value != tc.want) {
				t.Errorf("done=%v value=%v, want value %v", cm.done, cm.value, tc.want)
			}
		})
	}
}

func TestInputModel_validation(t *testing.T) {
	ti := textinput.New()
	ti.Focus()
	ti.SetValue("not-semver")

	var m tea.Model = inputModel{
		textInput: ti,
		title:     "Version",
		validate: func(s string) error {
			if s != "1.0.0" {
				return errors.New("invalid version")
			}
			return nil
		},
	}

	m, _ = m.Update(keyMsg("enter"))
	im := m.(inputModel)
	if im.done {
		t.Fatal("invalid input accepted")
	}
	if im.errMsg != "invalid version" {
		t.Errorf("errMsg = %q", im.errMsg)
	}

	im.textInput.SetValue("1.0.0")
	m, _ = tea.Model(im).Update(keyMsg("enter"))
	im = m.(inputModel)
	if !im.done || im.errMsg != "" {
		t.Errorf("valid input rejected: done=%v errMsg=%q", im.done, im.errMsg)
	}
}
