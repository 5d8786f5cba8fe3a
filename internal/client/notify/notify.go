// Package notify shows alerts and toasts on the terminal.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Level is the icon of an alert.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
	LevelWarning
	LevelInfo
	LevelQuestion
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelQuestion:
		return "question"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Default titles and texts used when the caller passes "".
const (
	DefaultSuccessTitle = "Success"
	DefaultErrorTitle   = "Error"
	DefaultErrorText    = "Something went wrong!"
	DefaultWarningTitle = "Warning"
	DefaultInfoTitle    = "Info"
	DefaultConfirmTitle = "Confirm"
	DefaultConfirmText  = "Are you sure?"
	DefaultConfirmYes   = "Yes"
	DefaultConfirmNo    = "Cancel"
)

// Notifier is the alert sink views report to.
type Notifier interface {
	Success(title, text string)
	Error(title, text string)
	Warning(title, text string)
	Info(title, text string)
	// Question prints a confirmation prompt. Reading the answer is up to
	// the caller.
	Question(title, text, yes, no string)
	Toast(level Level, title string)
}

// Console writes colored alerts to an io.Writer.
type Console struct {
	mu  sync.Mutex
	out io.Writer

	styles map[Level]*color.Color
	icons  map[Level]string
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{
		out: w,
		styles: map[Level]*color.Color{
			LevelSuccess:  color.New(color.FgGreen, color.Bold),
			LevelError:    color.New(color.FgRed, color.Bold),
			LevelWarning:  color.New(color.FgYellow, color.Bold),
			LevelInfo:     color.New(color.FgCyan, color.Bold),
			LevelQuestion: color.New(color.FgBlue, color.Bold),
		},
		icons: map[Level]string{
			LevelSuccess:  "✔",
			LevelError:    "✖",
			LevelWarning:  "!",
			LevelInfo:     "i",
			LevelQuestion: "?",
		},
	}
}

func (c *Console) Success(title, text string) {
	c.alert(LevelSuccess, or(title, DefaultSuccessTitle), text)
}

func (c *Console) Error(title, text string) {
	c.alert(LevelError, or(title, DefaultErrorTitle), or(text, DefaultErrorText))
}

func (c *Console) Warning(title, text string) {
	c.alert(LevelWarning, or(title, DefaultWarningTitle), text)
}

func (c *Console) Info(title, text string) {
	c.alert(LevelInfo, or(title, DefaultInfoTitle), text)
}

func (c *Console) Question(title, text, yes, no string) {
	c.alert(LevelQuestion, or(title, DefaultConfirmTitle), or(text, DefaultConfirmText))
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "  [%s / %s]\n", or(yes, DefaultConfirmYes), or(no, DefaultConfirmNo))
}

// Toast is a one-line alert. Success is the default level.
func (c *Console) Toast(level Level, title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.styles[level]
	if !ok {
		level, st = LevelSuccess, c.styles[LevelSuccess]
	}
	st.Fprintf(c.out, "%s ", c.icons[level])
	fmt.Fprintln(c.out, title)
}

func (c *Console) alert(level Level, title, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.styles[level].Fprintf(c.out, "%s %s\n", c.icons[level], title)
	if text != "" {
		fmt.Fprintf(c.out, "  %s\n", text)
	}
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
