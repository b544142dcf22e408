package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/qballcreative/plunder/internal/game"
	"github.com/qballcreative/plunder/internal/netplay"
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#8B4513")).
			Bold(true).
			Padding(0, 1)

	SectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ActionsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	ChatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#74B9FF"))
)

var cardStyles = map[game.CardType]lipgloss.Style{
	game.Rum:         lipgloss.NewStyle().Foreground(lipgloss.Color("#C0392B")).Bold(true),
	game.Cannonballs: lipgloss.NewStyle().Foreground(lipgloss.Color("#95A5A6")).Bold(true),
	game.Silks:       lipgloss.NewStyle().Foreground(lipgloss.Color("#9B59B6")).Bold(true),
	game.Silver:      lipgloss.NewStyle().Foreground(lipgloss.Color("#ECF0F1")).Bold(true),
	game.Gold:        lipgloss.NewStyle().Foreground(lipgloss.Color("#F1C40F")).Bold(true),
	game.Gemstones:   lipgloss.NewStyle().Foreground(lipgloss.Color("#1ABC9C")).Bold(true),
	game.Ships:       lipgloss.NewStyle().Foreground(lipgloss.Color("#3498DB")),
}

var qualityStyles = map[netplay.Quality]lipgloss.Style{
	netplay.QualityExcellent:    SuccessStyle,
	netplay.QualityGood:         SuccessStyle,
	netplay.QualityFair:         WarningStyle,
	netplay.QualityPoor:         ErrorStyle,
	netplay.QualityDisconnected: InfoStyle,
}

func cardStyle(t game.CardType) lipgloss.Style {
	if s, ok := cardStyles[t]; ok {
		return s
	}
	return InfoStyle
}
