package digest

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"elles-app/config"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

var (
	ErrAuth       = errors.New("authentication failed")
	ErrConnection = errors.New("connection failed")
)

// Mailbox is the read-only view of a mail folder the reporter needs.
type Mailbox interface {
	Select(folder string) error
	Search(since, before time.Time) ([]uint32, error)
	FetchHeaders(id uint32) ([]byte, error)
	Logout() error
}

// DialFunc opens an authenticated mailbox session.
type DialFunc func(cfg config.MailConfig) (Mailbox, error)

var headerSection = &imap.BodySectionName{
	BodyPartName: imap.BodyPartName{
		Specifier: imap.HeaderSpecifier,
		Fields:    []string{"FROM", "SUBJECT", "DATE"},
	},
	Peek: true,
}

type imapMailbox struct {
	c *client.Client
}

// DialIMAP connects over implicit TLS and logs in.
func DialIMAP(cfg config.MailConfig) (Mailbox, error) {
	addr := net.JoinHostPort(cfg.IMAPHost, strconv.Itoa(cfg.IMAPPort))

	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: imap %s: %v", ErrConnection, addr, err)
	}
	c.Timeout = 30 * time.Second

	if err := c.Login(cfg.User, cfg.Password); err != nil {
		c.Logout()
		return nil, fmt.Errorf("%w: imap login: %v", ErrAuth, err)
	}
	return &imapMailbox{c: c}, nil
}

func (m *imapMailbox) Select(folder string) error {
	if _, err := m.c.Select(folder, true); err != nil {
		return fmt.Errorf("cannot select folder %q: %w", folder, err)
	}
	return nil
}

func (m *imapMailbox) Search(since, before time.Time) ([]uint32, error) {
	criteria := imap.NewSearchCriteria()
	criteria.Since = since
	criteria.Before = before

	ids, err := m.c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("imap search: %w", err)
	}
	return ids, nil
}

func (m *imapMailbox) FetchHeaders(id uint32) ([]byte, error) {
	seqset := new(imap.SeqSet)
	seqset.AddNum(id)

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- m.c.Fetch(seqset, []imap.FetchItem{headerSection.FetchItem()}, messages)
	}()

	var raw []byte
	var readErr error
	for msg := range messages {
		for _, literal := range msg.Body {
			if literal == nil || readErr != nil {
				continue
			}
			b, err := io.ReadAll(literal)
			if err != nil {
				readErr = err
				continue
			}
			raw = append(raw, b...)
		}
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetch message %d: %w", id, err)
	}
	if readErr != nil {
		return nil, fmt.Errorf("read message %d: %w", id, readErr)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("fetch message %d: empty header block", id)
	}
	return raw, nil
}

func (m *imapMailbox) Logout() error {
	return m.c.Logout()
}
