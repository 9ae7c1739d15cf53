package client

import (
	v1 "chat-rooms/api/chatv1"
	"chat-rooms/domain/chat"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

var (
	systemStyle = color.New(color.FgYellow)
	senderStyle = color.New(color.FgCyan, color.OpBold)
	directStyle = color.New(color.FgMagenta)
	errorStyle  = color.New(color.FgRed)
	timeStyle   = color.New(color.FgGray)
)

// Renderer writes everything the agent shows to the user.
type Renderer struct {
	mu      sync.Mutex
	out     io.Writer
	colours bool
}

func NewRenderer(out io.Writer, colours bool) *Renderer {
	return &Renderer{out: out, colours: colours}
}

func (r *Renderer) paint(style color.Style, s string) string {
	if !r.colours {
		return s
	}
	return style.Render(s)
}

// Message prints one chat line:
// [15:04:05] sender: content or [15:04:05] sender -> recipient: content.
func (r *Renderer) Message(m v1.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stamp := r.paint(timeStyle, "["+m.Timestamp.Local().Format(time.TimeOnly)+"]")
	style := senderStyle
	if m.Sender == chat.SystemSender {
		style = systemStyle
	}
	sender := r.paint(style, m.Sender)
	if m.Kind == v1.KindDirect && m.Recipient != nil {
		sender = fmt.Sprintf("%s %s", sender, r.paint(directStyle, "-> "+*m.Recipient))
	}
	_, _ = fmt.Fprintf(r.out, "%s %s: %s\n", stamp, sender, m.Content)
}

func (r *Renderer) Messages(messages []v1.Message) {
	for _, m := range messages {
		r.Message(m)
	}
}

// Names prints a single column table, used for rooms and members.
func (r *Renderer) Names(header string, names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(names) == 0 {
		_, _ = fmt.Fprintf(r.out, "No %s.\n", header)
		return
	}
	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{header})
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	for _, name := range names {
		table.Append([]string{name})
	}
	table.Render()
}

func (r *Renderer) Info(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.out, format+"\n", args...)
}

func (r *Renderer) Error(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.out, r.paint(errorStyle, "Error: "+err.Error()))
}
