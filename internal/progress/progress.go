package progress

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Bar redraws a single status line after every processed item.
type Bar struct {
	out     io.Writer
	label   string
	total   int
	done    int
	started time.Time
	width   int
}

// NewBar creates a Bar that writes to out.
func NewBar(out io.Writer, label string) *Bar {
	return &Bar{out: out, label: label, width: 20}
}

func (b *Bar) Start(total int) {
	b.total = total
	b.done = 0
	b.started = time.Now()
	b.print("")
}

func (b *Bar) Advance(file string, ok bool) {
	b.done++
	status := "ok"
	if !ok {
		status = "error"
	}
	b.print(fmt.Sprintf("%s %s", status, file))
}

func (b *Bar) Finish() {
	if b.out == nil {
		return
	}
	fmt.Fprintf(b.out, " (%s)\n", time.Since(b.started).Round(time.Second))
}

func (b *Bar) print(tail string) {
	if b.out == nil {
		return
	}
	filled := 0
	if b.total > 0 {
		filled = b.done * b.width / b.total
	}
	bar := strings.Repeat("#", filled) + strings.Repeat(".", b.width-filled)
	// Trailing spaces wipe what a longer previous line left behind
	fmt.Fprintf(b.out, "\r%s [%s] %d/%d %-40s", b.label, bar, b.done, b.total, tail)
}
