package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/jorik/internal/api"
)

var (
	cliPlayStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	cliSkipStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	cliStopStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	cliErrorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	cliStatusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	cliHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	cliOKStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
)

// reply is the loose shape of a webhook reply. Every field is optional.
type reply struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Status   string `json:"status"`
	Action   string `json:"action"`
	Started  bool   `json:"started"`
	Dropped  bool   `json:"dropped"`
	Position uint64 `json:"position"`
	Stopped  bool   `json:"stopped"`
	Tracks   []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"tracks"`
	Skipped *struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"skipped"`
}

// printResponse writes the colored status line followed by a summary of the
// reply, or the raw body when there is nothing to summarize.
func printResponse(w io.Writer, resp *api.Response) {
	status := colorStatus(resp.Status)

	var raw any
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		fmt.Fprintf(w, "[%s] %s\n", status, strings.TrimSpace(string(resp.Body)))
		return
	}
	if summary, ok := summarize(resp.Body); ok {
		fmt.Fprintf(w, "[%s]\n%s\n", status, summary)
		return
	}
	compact, _ := json.Marshal(raw)
	fmt.Fprintf(w, "[%s]\n%s\n", status, compact)
}

func summarize(body []byte) (string, bool) {
	var r reply
	if err := json.Unmarshal(body, &r); err != nil {
		return "", false
	}

	if r.Error != "" {
		var hint string
		if r.Error == "unauthorized" {
			hint = "\n  " + cliHintStyle.Render("hint: run `jorik login` or provide --guild-id and --user-id if permitted")
		}
		return fmt.Sprintf("%s:\n  code: %s\n  message: %s%s", cliErrorStyle.Render("error"), r.Error, r.Message, hint), true
	}

	switch r.Action {
	case api.ActionPlay:
		var title, url string
		if len(r.Tracks) > 0 {
			title, url = r.Tracks[0].Title, r.Tracks[0].URL
		}
		return fmt.Sprintf("%s:\n  status: %s\n  started: %t\n  dropped: %t\n  position: %d\n  tracks: %d\n  first: %q\n  url: %s",
			cliPlayStyle.Render("play"), r.Status, r.Started, r.Dropped, r.Position, len(r.Tracks), title, url), true
	case api.ActionSkip:
		header := cliSkipStyle.Render("skip")
		switch {
		case r.Skipped != nil:
			return fmt.Sprintf("%s:\n  status: %s\n  skipped: %q\n  url: %s", header, r.Status, r.Skipped.Title, r.Skipped.URL), true
		case r.Message != "":
			return fmt.Sprintf("%s:\n  status: %s\n  message: %s", header, r.Status, r.Message), true
		}
		return fmt.Sprintf("%s:\n  status: %s", header, r.Status), true
	case api.ActionStop:
		return fmt.Sprintf("%s:\n  status: %s\n  stopped: %t", cliStopStyle.Render("stop"), r.Status, r.Stopped), true
	}

	if r.Action == "" && r.Status == "" {
		return "", false
	}
	return fmt.Sprintf("%s:\n  status: %s\n  action: %s", cliStatusStyle.Render("status"), r.Status, r.Action), true
}

func colorStatus(code int) string {
	text := fmt.Sprintf("%d %s", code, http.StatusText(code))
	switch {
	case code >= 200 && code < 300:
		return cliOKStyle.Render(text)
	case code >= 400 && code < 500:
		return cliStopStyle.Render(text)
	case code >= 500:
		return cliErrorStyle.Render(text)
	}
	return text
}
