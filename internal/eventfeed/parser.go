package eventfeed

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
)

// Frame is one dispatched server-sent event.
type Frame struct {
	ID    string
	Event string
	Data  string
}

// Parser reads server-sent event frames from a stream.
type Parser struct {
	r *bufio.Reader

	lastID string
	retry  time.Duration

	event string
	data  strings.Builder
	has   bool
}

// NewParser creates a parser. lastID seeds the event ID for frames that do
// not set one.
func NewParser(r io.Reader, lastID string) *Parser {
	return &Parser{r: bufio.NewReader(r), lastID: lastID}
}

// LastID returns the most recent event ID seen on the stream.
func (p *Parser) LastID() string {
	return p.lastID
}

// Retry returns the reconnection delay requested by the server, or zero.
func (p *Parser) Retry() time.Duration {
	return p.retry
}

// Next returns the next frame with data. It returns io.EOF when the stream
// ends; a partially received frame at EOF is discarded.
func (p *Parser) Next() (Frame, error) {
	for {
		line, err := p.r.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Frame{}, io.EOF
			}
			return Frame{}, err
		}
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")

		if line == "" {
			if frame, ok := p.dispatch(); ok {
				return frame, nil
			}
			continue
		}
		p.field(line)
	}
}

func (p *Parser) field(line string) {
	if strings.HasPrefix(line, ":") {
		return
	}

	name, value, found := strings.Cut(line, ":")
	if found {
		value = strings.TrimPrefix(value, " ")
	}

	switch name {
	case "event":
		p.event = value
	case "data":
		if p.has {
			p.data.WriteByte('\n')
		}
		p.data.WriteString(value)
		p.has = true
	case "id":
		if !strings.ContainsRune(value, 0) {
			p.lastID = value
		}
	case "retry":
		if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
			p.retry = time.Duration(ms) * time.Millisecond
		}
	}
}

func (p *Parser) dispatch() (Frame, bool) {
	defer func() {
		p.event = ""
		p.data.Reset()
		p.has = false
	}()

	if !p.has {
		return Frame{}, false
	}
	return Frame{ID: p.lastID, Event: p.event, Data: p.data.String()}, true
}
