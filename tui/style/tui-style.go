package style

import (
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/domain/valueobject"
	"taskboard/internal/infrastructure/config"
)

var (
	ColumnStyle        lipgloss.Style
	FocusedColumnStyle lipgloss.Style
	ColumnTitleStyle   lipgloss.Style
	TaskStyle          lipgloss.Style
	SelectedTaskStyle  lipgloss.Style
	GrabbedTaskStyle   lipgloss.Style
	DescriptionStyle   lipgloss.Style
	TabStyle           lipgloss.Style
	ActiveTabStyle     lipgloss.Style
	HelpStyle          lipgloss.Style
	StatusStyle        lipgloss.Style
	ErrorStyle         lipgloss.Style
	TableHeaderStyle   lipgloss.Style
	TodayStyle         lipgloss.Style
	OutsideMonthStyle  lipgloss.Style

	priorityColors config.PriorityColors
)

// InitStyles initializes the styles from config
func InitStyles(cfg *config.Config) {
	styles := cfg.TUI.Styles

	ColumnStyle = columnStyle(styles.Column)
	FocusedColumnStyle = columnStyle(styles.FocusedColumn)

	ColumnTitleStyle = textStyle(styles.ColumnTitle)
	TaskStyle = textStyle(styles.Task)
	SelectedTaskStyle = textStyle(styles.SelectedTask)
	GrabbedTaskStyle = textStyle(styles.GrabbedTask)
	DescriptionStyle = textStyle(styles.Description)
	TabStyle = textStyle(styles.Tab)
	ActiveTabStyle = textStyle(styles.ActiveTab)
	StatusStyle = textStyle(styles.Status)
	ErrorStyle = textStyle(styles.Error)
	TableHeaderStyle = textStyle(styles.TableHeader)
	TodayStyle = textStyle(styles.Today)
	OutsideMonthStyle = textStyle(styles.OutsideMonth)

	// Help keeps its top padding only
	HelpStyle = lipgloss.NewStyle().
		Padding(styles.Help.PaddingVertical, 0, 0, styles.Help.PaddingHorizontal)
	if styles.Help.Foreground != "" {
		HelpStyle = HelpStyle.Foreground(lipgloss.Color(styles.Help.Foreground))
	}

	priorityColors = styles.Priority
}

// PriorityStyle colors a priority badge
func PriorityStyle(p valueobject.Priority) lipgloss.Style {
	color := priorityColors.Default
	switch p {
	case valueobject.PriorityHigh:
		color = priorityColors.High
	case valueobject.PriorityMedium:
		color = priorityColors.Medium
	case valueobject.PriorityLow:
		color = priorityColors.Low
	}
	s := lipgloss.NewStyle().Bold(true)
	if color != "" {
		s = s.Foreground(lipgloss.Color(color))
	}
	return s
}

func columnStyle(c config.ColumnStyle) lipgloss.Style {
	return lipgloss.NewStyle().
		Padding(c.PaddingVertical, c.PaddingHorizontal).
		Border(getBorder(c.BorderStyle)).
		BorderForeground(lipgloss.Color(c.BorderColor))
}

func textStyle(t config.TextStyle) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(t.PaddingVertical, t.PaddingHorizontal)
	if t.Foreground != "" {
		s = s.Foreground(lipgloss.Color(t.Foreground))
	}
	if t.Background != "" {
		s = s.Background(lipgloss.Color(t.Background))
	}
	if t.Bold {
		s = s.Bold(true)
	}
	if t.Italic {
		s = s.Italic(true)
	}
	if t.Align != "" {
		s = s.Align(getAlign(t.Align))
	}
	return s
}

// getBorder returns the border style based on the name
func getBorder(name string) lipgloss.Border {
	switch name {
	case "rounded":
		return lipgloss.RoundedBorder()
	case "normal":
		return lipgloss.NormalBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "hidden":
		return lipgloss.HiddenBorder()
	default:
		return lipgloss.RoundedBorder()
	}
}

// getAlign returns the alignment based on the name
func getAlign(name string) lipgloss.Position {
	switch name {
	case "left":
		return lipgloss.Left
	case "center":
		return lipgloss.Center
	case "right":
		return lipgloss.Right
	default:
		return lipgloss.Center
	}
}
