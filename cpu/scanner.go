package cpu

import (
	"bufio"
	"io"
	"strings"
)

// scanner splits assembly source into whitespace delimited tokens, while
// still allowing the remainder of a line to be read verbatim.
type scanner struct {
	r         *bufio.Reader
	lineNo    int    // Line of the read position.
	token     string // Last token returned.
	tokenLine int    // Line of the last token returned.
	ahead     bool   // Set if token has been peeked but not consumed.
}

func newScanner(input io.Reader) *scanner {
	return &scanner{
		r:      bufio.NewReader(input),
		lineNo: 1,
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	}
	return false
}

// Next returns the next token, or io.EOF at the end of input.
func (sc *scanner) Next() (token string, err error) {
	if sc.ahead {
		sc.ahead = false
		token = sc.token
		return
	}

	var c byte
	for {
		c, err = sc.r.ReadByte()
		if err != nil {
			return
		}
		if c == '\n' {
			sc.lineNo++
			continue
		}
		if !isSpace(c) {
			break
		}
	}

	buf := []byte{c}
	for {
		c, err = sc.r.ReadByte()
		if err == io.EOF {
			err = nil
			break
		}
		if err != nil {
			return
		}
		if c == '\n' || isSpace(c) {
			// Leave the delimiter for RestOfLine()
			_ = sc.r.UnreadByte()
			break
		}
		buf = append(buf, c)
	}

	sc.token = string(buf)
	sc.tokenLine = sc.lineNo
	token = sc.token

	return
}

// Peek returns the next token without consuming it.
func (sc *scanner) Peek() (token string, err error) {
	token, err = sc.Next()
	if err == nil {
		sc.ahead = true
	}
	return
}

// RestOfLine returns the text following the last token up to the end of its
// line. One blank separating the token from the text is dropped, as is a
// trailing carriage return.
func (sc *scanner) RestOfLine() (text string, err error) {
	if sc.ahead {
		panic("scanner: RestOfLine after Peek")
	}

	c, err := sc.r.ReadByte()
	if err == io.EOF {
		err = nil
		return
	}
	if err != nil {
		return
	}
	if c == '\n' {
		sc.lineNo++
		return
	}

	text, err = sc.r.ReadString('\n')
	if err == io.EOF {
		err = nil
	}
	if err != nil {
		return
	}

	if strings.HasSuffix(text, "\n") {
		text = text[:len(text)-1]
		sc.lineNo++
	}
	text = strings.TrimSuffix(text, "\r")

	return
}
