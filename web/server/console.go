package server

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// Console keeps the most recent render log messages for the web UI
type Console struct {
	mu       sync.Mutex
	messages []ConsoleMessage
	capacity int
}

// NewConsole creates a console that keeps at most capacity messages
func NewConsole(capacity int) *Console {
	return &Console{capacity: max(1, capacity)}
}

// Add appends a message, dropping the oldest once the console is full
func (c *Console) Add(msg ConsoleMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, msg)
	if overflow := len(c.messages) - c.capacity; overflow > 0 {
		c.messages = append(c.messages[:0], c.messages[overflow:]...)
	}
}

// Messages returns a copy of the stored messages, oldest first
func (c *Console) Messages() []ConsoleMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]ConsoleMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// WebLogger implements core.Logger by recording messages on the console and
// forwarding them to the server log
type WebLogger struct {
	renderID string
	console  *Console
	base     core.Logger
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, console *Console, base core.Logger) core.Logger {
	if base == nil {
		base = core.NopLogger{}
	}
	return &WebLogger{renderID: renderID, console: console, base: base}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	wl.base.Printf("[%s] %s", wl.renderID, message)

	if wl.console != nil {
		wl.console.Add(ConsoleMessage{
			RenderID:  wl.renderID,
			Message:   strings.TrimRight(message, "\n"),
			Timestamp: time.Now(),
			Level:     "info",
		})
	}
}
