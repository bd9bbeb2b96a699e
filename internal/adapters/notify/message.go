package notify

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/okian/picksheet/internal/domain/weekly"
)

// Embed limits enforced by the webhook endpoint.
const (
	maxDescription = 4096
	maxFieldValue  = 1024
	maxTitle       = 256
)

// Embed colours.
const (
	ColorComplete   = 0x2ECC71
	ColorIncomplete = 0xF1C40F
)

// Message is the JSON body posted to the webhook.
type Message struct {
	Username string  `json:"username,omitempty"`
	Content  string  `json:"content,omitempty"`
	Embeds   []Embed `json:"embeds,omitempty"`
}

// Embed is one rich block of a message.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedField is a titled value inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedFooter is the small text under an embed.
type EmbedFooter struct {
	Text string `json:"text"`
}

// FromReport renders a weekly report as a single-embed message.
func FromReport(r weekly.Report) Message {
	e := Embed{
		Title:       truncate(fmt.Sprintf("Week %d report", r.Meta.Deck), maxTitle),
		Description: truncate(strings.Join(r.Lines, "\n"), maxDescription),
		Color:       ColorComplete,
		Footer: &EmbedFooter{
			Text: fmt.Sprintf("Picks %d-%d", r.Meta.FirstPick, r.Meta.LastPick),
		},
	}
	if !r.Meta.Complete {
		e.Color = ColorIncomplete
	}
	if !r.Meta.EndDate.IsZero() {
		e.Timestamp = r.Meta.EndDate.UTC().Format("2006-01-02T15:04:05Z07:00")
	}

	if len(r.Podium) > 0 {
		parts := make([]string, len(r.Podium))
		for i, p := range r.Podium {
			parts[i] = fmt.Sprintf("%d. %s: %d pts (%.1f avg)", p.Rank, p.Player, p.Total, p.Average)
		}
		e.Fields = append(e.Fields, EmbedField{Name: "Podium", Value: truncate(strings.Join(parts, "\n"), maxFieldValue)})
	}
	if len(r.Wall) > 0 {
		e.Fields = append(e.Fields, EmbedField{Name: "The Wall", Value: truncate(strings.Join(r.Wall, ", "), maxFieldValue), Inline: true})
	}
	if len(r.Throne) > 0 {
		parts := make([]string, len(r.Throne))
		for i, t := range r.Throne {
			parts[i] = fmt.Sprintf("%s x%d", t.Player, t.Titles)
		}
		e.Fields = append(e.Fields, EmbedField{Name: "Throne race", Value: truncate(strings.Join(parts, ", "), maxFieldValue), Inline: true})
	}
	return Message{Embeds: []Embed{e}}
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
