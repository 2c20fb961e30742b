package api

import (
	"encoding/json"
	"strings"
)

const noLyrics = "No lyrics found."

// ParseLyrics extracts display text from a lyrics reply: data.text when
// present, otherwise data.lines joined one per line.
func ParseLyrics(body []byte) string {
	var reply struct {
		Data *struct {
			Text  *string `json:"text"`
			Lines []struct {
				Line string `json:"line"`
			} `json:"lines"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return "Failed to parse lyrics."
	}
	if reply.Data == nil {
		return noLyrics
	}

	var out strings.Builder
	if reply.Data.Text != nil {
		out.WriteString(*reply.Data.Text)
	} else {
		for _, l := range reply.Data.Lines {
			out.WriteString(l.Line)
			out.WriteByte('\n')
		}
	}
	if strings.TrimSpace(out.String()) == "" {
		return noLyrics
	}
	return out.String()
}
