package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/alejandrodnm/bacbot/internal/domain"
)

// FormatAlert construye el mensaje HTML de una alerta.
func FormatAlert(a domain.Alert) string {
	var sb strings.Builder

	switch a.Kind {
	case domain.AlertSignal:
		fmt.Fprintf(&sb, "🎲 <b>SIGNAL</b> %s\n", sideEmoji(a.Side))
		fmt.Fprintf(&sb, "Bet: <b>%s</b> (%s, confidence %.3f)\n", a.Side.Label(), a.Mode, a.Confidence)
		fmt.Fprintf(&sb, "Cover the tie 🟡\n")
		for _, n := range a.Notes {
			fmt.Fprintf(&sb, "<i>%s</i>\n", html.EscapeString(n))
		}
	case domain.AlertProtection:
		fmt.Fprintf(&sb, "🛡 <b>PROTECTION</b>\n")
		fmt.Fprintf(&sb, "Result %s, repeat %s %s\n", a.Outcome.Label(), a.Side.Label(), sideEmoji(a.Side))
	case domain.AlertWin:
		fmt.Fprintf(&sb, "✅ <b>WIN</b> %s\n", sideEmoji(a.Outcome))
	case domain.AlertTieWin:
		fmt.Fprintf(&sb, "✅ <b>WIN ON TIE</b> 🟡\n")
	case domain.AlertLoss:
		fmt.Fprintf(&sb, "❌ <b>LOSS</b> %s\n", sideEmoji(a.Outcome))
	default:
		fmt.Fprintf(&sb, "<b>%s</b>\n", html.EscapeString(string(a.Kind)))
	}

	if a.Kind != domain.AlertSignal && a.Kind != domain.AlertProtection {
		s := a.Stats
		fmt.Fprintf(&sb, "\n📊 %dW / %dL · %.1f%% · streak %d (best %d)",
			s.Wins, s.Losses, s.Accuracy(), s.CurrentStreak, s.BestStreak)
	}
	if a.SignalID != "" {
		fmt.Fprintf(&sb, "\n<code>%s</code>", html.EscapeString(shortID(a.SignalID)))
	}
	return sb.String()
}

func sideEmoji(o domain.Outcome) string {
	switch o {
	case domain.Banker:
		return "🔴"
	case domain.Player:
		return "🔵"
	case domain.Tie:
		return "🟡"
	}
	return ""
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
