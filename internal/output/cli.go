package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Elmersong/HealthKey/internal/aggregate"
	"github.com/Elmersong/HealthKey/internal/model"
)

// Styles for CLI output.
var (
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorWarning = lipgloss.Color("#F59E0B") // Yellow
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#10B981") // Green

	styleTitle = lipgloss.NewStyle().
			Bold(true)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleNote = lipgloss.NewStyle().
			Italic(true).
			Foreground(colorMuted)
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	if c.IsColorEnabled() {
		c.Println(styleTitle.Render(text))
	} else {
		c.Println(text)
	}
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	if c.IsColorEnabled() {
		c.Println(styleSuccess.Render(text))
	} else {
		c.Println(text)
	}
}

// Warning prints a warning/advisory message.
func (c *CLIFormatter) Warning(text string) {
	if c.IsColorEnabled() {
		c.Println(styleWarning.Render(text))
	} else {
		c.Println(text)
	}
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	if c.IsColorEnabled() {
		c.Println(styleError.Render(text))
	} else {
		c.Println(text)
	}
}

// Muted prints secondary information.
func (c *CLIFormatter) Muted(text string) {
	if c.IsColorEnabled() {
		c.Println(styleMuted.Render(text))
	} else {
		c.Println(text)
	}
}

// chip renders a category-colored label pill.
func (c *CLIFormatter) chip(label, colorToken string) string {
	if !c.IsColorEnabled() {
		return fmt.Sprintf("[%s]", label)
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorToken)).
		Bold(true).
		Render(label)
}

// PrintEvent renders one event line: time range, category-colored type
// label, extras and note.
func (c *CLIFormatter) PrintEvent(evt *model.LogEvent, def model.EventTypeDefinition, cat model.Category) {
	c.Printf("  %s  %s  %s\n",
		FormatInterval(evt.Start, evt.End),
		c.chip(def.Label, cat.Color),
		styledID(evt.ID))

	if evt.Extra != nil {
		if line := extraLine(evt.Extra); line != "" {
			if c.IsColorEnabled() {
				c.Printf("      %s\n", styleMuted.Render(line))
			} else {
				c.Printf("      %s\n", line)
			}
		}
		if evt.Extra.Note != nil && *evt.Extra.Note != "" {
			if c.IsColorEnabled() {
				c.Printf("      %s\n", styleNote.Render("备注: "+*evt.Extra.Note))
			} else {
				c.Printf("      备注: %s\n", *evt.Extra.Note)
			}
		}
	}
}

// PrintSummary renders the per-category summary lines for a day.
func (c *CLIFormatter) PrintSummary(lines []aggregate.CategorySummary, cats map[string]model.Category) {
	for _, line := range lines {
		label := line.CategoryLabel
		if cat, ok := cats[line.CategoryID]; ok {
			label = c.chip(line.CategoryLabel, cat.Color)
		}
		c.Printf("  %s  %s\n", label, line.Text)
	}
}

func styledID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func extraLine(x *model.ExtraFields) string {
	var parts []string
	if x.SatietyPercent != nil {
		parts = append(parts, fmt.Sprintf("饱腹感 %d%%", *x.SatietyPercent))
	}
	if x.WaterMl != nil {
		parts = append(parts, fmt.Sprintf("喝水 %d ml", *x.WaterMl))
	}
	if x.IntensityPercent != nil {
		parts = append(parts, fmt.Sprintf("强度 %d%%", *x.IntensityPercent))
	}
	if x.SleepDepthPercent != nil {
		parts = append(parts, fmt.Sprintf("睡眠深度 %d%%", *x.SleepDepthPercent))
	}
	if x.Color != nil {
		parts = append(parts, fmt.Sprintf("颜色 %s", x.Color.Resolve()))
	}
	if x.Abnormal != nil && *x.Abnormal {
		parts = append(parts, "异常")
	}
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " · " + p
	}
	return out
}
