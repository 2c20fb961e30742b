package ui

import tea "github.com/charmbracelet/bubbletea"

// cyrillicAliases maps keys on a Russian/Ukrainian layout to the Latin key
// in the same position, so shortcuts work without switching layouts.
var cyrillicAliases = map[string]string{
	"й": "q",
	"к": "r",
	"д": "l",
	"ы": "s",
	"і": "s",
	"ц": "w",
	"с": "c",
	"о": "j",
	"л": "k",
}

// keyName returns the canonical name of a key press.
func keyName(msg tea.KeyMsg) string {
	k := msg.String()
	if alias, ok := cyrillicAliases[k]; ok {
		return alias
	}
	return k
}

func isQuit(msg tea.KeyMsg) bool {
	switch keyName(msg) {
	case "q", "ctrl+c":
		return true
	}
	return false
}

func isDown(k string) bool { return k == "down" || k == "j" }
func isUp(k string) bool   { return k == "up" || k == "k" }

func helpText(v view, editing bool) string {
	switch {
	case editing:
		return "enter play  esc cancel"
	case v == viewMain:
		return "enter search  tab menu  s skip  w stop  c clear  l loop  v viz  r refresh  q quit"
	case v == viewLyrics:
		return "j/k scroll  esc close  backspace menu"
	case v == viewSettings:
		return "tab switch field  enter save  esc cancel"
	case v == viewDebug:
		return "s save spectrogram  esc close"
	case v == viewLoginRequired:
		return "enter login  \\ settings  q quit"
	case v == viewAuthResult:
		return "esc back"
	default:
		return "j/k move  enter select  esc close"
	}
}
