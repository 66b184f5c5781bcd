package session

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Terminator ends an interaction typed at the prompt.
const Terminator = ";;"

// Reader splits console input into interactions: everything up to a line
// that ends with ";;". The terminator itself is dropped.
type Reader struct {
	sc *bufio.Scanner
}

func NewReader(r io.Reader) *Reader {
	return &Reader{sc: bufio.NewScanner(r)}
}

// Next returns the next interaction. At end of input a trailing partial
// interaction is returned first, then io.EOF.
func (r *Reader) Next() (string, error) {
	var sb strings.Builder
	for r.sc.Scan() {
		line := r.sc.Text()
		trimmed := strings.TrimRight(line, " \t")
		if before, ok := strings.CutSuffix(trimmed, Terminator); ok {
			sb.WriteString(before)
			sb.WriteByte('\n')
			return sb.String(), nil
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if err := r.sc.Err(); err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if strings.TrimSpace(sb.String()) != "" {
		return sb.String(), nil
	}
	return "", io.EOF
}
