// Package ui 用 lipgloss 把牌局快照、手牌与牌组渲染为终端文本。
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/pinochle/internal/game/card"
)

// 图标
const (
	BidderIcon  = "👑"
	CurrentIcon = "👉"
)

// Lipgloss 样式
var (
	DocStyle    = lipgloss.NewStyle().Margin(1, 2)
	RedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CD0000")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	BlackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	TitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	BoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	LabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	WinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

// suitStyle 红心与方块用红色
func suitStyle(s card.Suit) lipgloss.Style {
	if s == card.Hearts || s == card.Diamonds {
		return RedStyle
	}
	return BlackStyle
}
