package digest

import (
	"bufio"
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"
)

const ReceivedLayout = "2006-01-02 15:04:05 MST"

// Row is one line of the digest.
type Row struct {
	Sender     string
	Subject    string
	ReceivedAt string
}

// ParseHeaders decodes a raw FROM/SUBJECT/DATE header block. Encoded words
// that cannot be decoded are kept as raw text.
func ParseHeaders(raw []byte, loc *time.Location) (Row, error) {
	th, err := textproto.ReadHeader(bufio.NewReader(bytes.NewReader(raw)))
	if err != nil {
		return Row{}, fmt.Errorf("parse header: %w", err)
	}
	h := mail.Header{Header: message.Header{Header: th}}

	sender, err := h.Text("From")
	if err != nil {
		sender = h.Get("From")
	}
	subject, err := h.Subject()
	if err != nil {
		subject = h.Get("Subject")
	}

	var received string
	if h.Has("Date") {
		if date, err := h.Date(); err == nil {
			if loc == nil {
				loc = time.Local
			}
			received = date.In(loc).Format(ReceivedLayout)
		} else {
			received = h.Get("Date")
		}
	}

	return Row{Sender: sender, Subject: subject, ReceivedAt: received}, nil
}
