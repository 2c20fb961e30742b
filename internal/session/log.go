package session

// LogCapacity is the number of diagnostic lines kept in memory.
const LogCapacity = 100

// Log is a fixed-capacity circular buffer of diagnostic lines. Appending past
// capacity overwrites the oldest line.
type Log struct {
	buf []string
	w   int // write position
	len int // current fill level
}

// NewLog creates a log holding at most size lines.
func NewLog(size int) *Log {
	if size < 1 {
		size = 1
	}
	return &Log{buf: make([]string, size)}
}

// Append adds a line, evicting the oldest one when full.
func (l *Log) Append(line string) {
	l.buf[l.w] = line
	l.w = (l.w + 1) % len(l.buf)
	if l.len < len(l.buf) {
		l.len++
	}
}

// Len returns the number of lines held.
func (l *Log) Len() int {
	return l.len
}

// Lines returns the held lines, oldest first.
func (l *Log) Lines() []string {
	out := make([]string, l.len)
	start := (l.w - l.len + len(l.buf)) % len(l.buf)
	for i := range l.len {
		out[i] = l.buf[(start+i)%len(l.buf)]
	}
	return out
}

// Tail returns up to n of the most recent lines, oldest first.
func (l *Log) Tail(n int) []string {
	lines := l.Lines()
	if n < len(lines) {
		lines = lines[len(lines)-n:]
	}
	return lines
}

func (l *Log) clone() *Log {
	c := &Log{buf: make([]string, len(l.buf)), w: l.w, len: l.len}
	copy(c.buf, l.buf)
	return c
}
