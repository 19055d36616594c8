package digest

import (
	"bytes"
	"context"
	"errors"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"elles-app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type fakeMailbox struct {
	headers   map[uint32]string
	ids       []uint32
	selectErr error
	selected  string
	since     time.Time
	before    time.Time
	loggedOut bool
}

func (m *fakeMailbox) Select(folder string) error {
	m.selected = folder
	return m.selectErr
}

func (m *fakeMailbox) Search(since, before time.Time) ([]uint32, error) {
	m.since, m.before = since, before
	return m.ids, nil
}

func (m *fakeMailbox) FetchHeaders(id uint32) ([]byte, error) {
	raw, ok := m.headers[id]
	if !ok {
		return nil, errors.New("no such message")
	}
	return []byte(raw), nil
}

func (m *fakeMailbox) Logout() error {
	m.loggedOut = true
	return nil
}

type fakeSender struct {
	reports []Report
	err     error
	onSend  func()
}

func (s *fakeSender) Send(report Report) error {
	s.reports = append(s.reports, report)
	if s.onSend != nil {
		s.onSend()
	}
	return s.err
}

func mailConfig() config.MailConfig {
	return config.MailConfig{
		User: "me@example.com", Password: "pw", IMAPHost: "imap.example.com", IMAPPort: 993,
		IMAPFolder: "INBOX", SMTPHost: "smtp.example.com", SMTPPort: 587,
		ReportTo: "boss@example.com", FromName: "Mail Reporter",
	}
}

func newTestReporter(mailbox *fakeMailbox, sender *fakeSender) *Reporter {
	r := NewReporter(mailConfig(), nil)
	r.Dial = func(config.MailConfig) (Mailbox, error) { return mailbox, nil }
	r.Sender = sender
	r.Now = func() time.Time { return testNow }
	return r
}

func header(from, subject, date string) string {
	return "From: " + from + "\r\nSubject: " + subject + "\r\nDate: " + date + "\r\n\r\n"
}

func TestWindow(t *testing.T) {
	since, before := Window(testNow)
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), since)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), before)

	since, before = Window(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), since)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), before)
}

func TestParseHeaders(t *testing.T) {
	row, err := ParseHeaders([]byte(header(
		"Alice <alice@example.com>",
		"=?UTF-8?B?Q2Fmw6k=?= menu",
		"Thu, 14 Mar 2024 09:30:00 +0100",
	)), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "Alice <alice@example.com>", row.Sender)
	assert.Equal(t, "Café menu", row.Subject)
	assert.Equal(t, "2024-03-14 08:30:00 UTC", row.ReceivedAt)
}

func TestParseHeadersFallsBackToRawText(t *testing.T) {
	row, err := ParseHeaders([]byte(header(
		"=?x-unknown-charset?Q?abc?= <bob@example.com>",
		"plain",
		"yesterday-ish",
	)), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "=?x-unknown-charset?Q?abc?= <bob@example.com>", row.Sender)
	assert.Equal(t, "plain", row.Subject)
	assert.Equal(t, "yesterday-ish", row.ReceivedAt)
}

func TestTextTable(t *testing.T) {
	table := TextTable([]Row{{Sender: "a", Subject: "hello", ReceivedAt: "x"}})
	lines := strings.Split(table, "\n")
	require.Len(t, lines, 5)

	sep := "+" + strings.Repeat("-", 8) + "+" + strings.Repeat("-", 9) + "+" + strings.Repeat("-", 13) + "+"
	assert.Equal(t, sep, lines[0])
	assert.Equal(t, sep, lines[2])
	assert.Equal(t, sep, lines[4])
	assert.Equal(t, "| Sender | Subject | Received at |", lines[1])
	assert.Equal(t, "| a"+strings.Repeat(" ", 6)+"| hello"+strings.Repeat(" ", 3)+"| x"+strings.Repeat(" ", 11)+"|", lines[3])

	wide := TextTable([]Row{{Sender: "Élodie <e@example.com>", Subject: "s", ReceivedAt: "d"}})
	for _, line := range strings.Split(wide, "\n") {
		assert.Equal(t, utf8.RuneCountInString(strings.Split(wide, "\n")[0]), utf8.RuneCountInString(line))
	}
}

func TestTablesWithoutMessages(t *testing.T) {
	text := TextTable(nil)
	assert.Contains(t, text, NoMessages)
	assert.Len(t, strings.Split(text, "\n"), 5)

	html := HTMLTable(nil)
	assert.Contains(t, html, `<td colspan="3">`+NoMessages+"</td>")
	assert.True(t, strings.HasSuffix(html, "</tbody></table>"))
}

func TestHTMLTableEscapesAndTruncates(t *testing.T) {
	html := HTMLTable([]Row{{
		Sender:     strings.Repeat("a", 600),
		Subject:    "<script>alert('x')</script>\x07",
		ReceivedAt: strings.Repeat("9", 150),
	}})

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;alert(&#39;x&#39;)&lt;/script&gt;</td>")
	assert.NotContains(t, html, "\x07")
	assert.Contains(t, html, "<td>"+strings.Repeat("a", 500)+"</td>")
	assert.Contains(t, html, "<td>"+strings.Repeat("9", 100)+"</td>")
}

func TestRunOnceSendsDigest(t *testing.T) {
	mailbox := &fakeMailbox{
		ids: []uint32{1, 2, 3},
		headers: map[uint32]string{
			1: header("Alice <alice@example.com>", "Hello", "Thu, 14 Mar 2024 09:30:00 +0000"),
			3: header("Carol <carol@example.com>", "Invoice", "Thu, 14 Mar 2024 17:05:00 +0000"),
		},
	}
	sender := &fakeSender{}
	r := newTestReporter(mailbox, sender)

	require.NoError(t, r.RunOnce(context.Background()))

	assert.Equal(t, "INBOX", mailbox.selected)
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), mailbox.since)
	assert.True(t, mailbox.loggedOut)

	require.Len(t, sender.reports, 1)
	report := sender.reports[0]
	assert.Equal(t, "Mail report for 14/03/2024", report.Subject)
	assert.Contains(t, report.Text, "Alice <alice@example.com>")
	assert.Contains(t, report.Text, "Carol <carol@example.com>")
	assert.Contains(t, report.Text, "2024-03-14 17:05:00 UTC")
	assert.Contains(t, report.HTML, "Alice &lt;alice@example.com&gt;")
}

func TestRunOnceFailures(t *testing.T) {
	t.Run("missing configuration", func(t *testing.T) {
		r := newTestReporter(&fakeMailbox{}, &fakeSender{})
		r.Config.ReportTo = ""
		err := r.RunOnce(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "REPORT_TO")
	})

	t.Run("authentication", func(t *testing.T) {
		sender := &fakeSender{}
		r := newTestReporter(&fakeMailbox{}, sender)
		r.Dial = func(config.MailConfig) (Mailbox, error) { return nil, ErrAuth }
		assert.ErrorIs(t, r.RunOnce(context.Background()), ErrAuth)
		assert.Empty(t, sender.reports)
	})

	t.Run("missing folder", func(t *testing.T) {
		mailbox := &fakeMailbox{selectErr: errors.New("no such mailbox")}
		sender := &fakeSender{}
		r := newTestReporter(mailbox, sender)
		assert.Error(t, r.RunOnce(context.Background()))
		assert.True(t, mailbox.loggedOut)
		assert.Empty(t, sender.reports)
	})

	t.Run("delivery", func(t *testing.T) {
		r := newTestReporter(&fakeMailbox{}, &fakeSender{err: ErrConnection})
		assert.ErrorIs(t, r.RunOnce(context.Background()), ErrConnection)
	})
}

func TestDryRun(t *testing.T) {
	r := newTestReporter(&fakeMailbox{}, &fakeSender{})
	r.Dial = func(config.MailConfig) (Mailbox, error) {
		t.Fatal("dry run must not dial")
		return nil, nil
	}
	r.Config = config.MailConfig{}

	output := filepath.Join(t.TempDir(), "report.html")
	var buf bytes.Buffer
	require.NoError(t, r.DryRun(&buf, output))

	assert.True(t, strings.HasPrefix(buf.String(), "[DRY-RUN] Mail report for 14/03/2024\n\n+"))
	assert.Contains(t, buf.String(), "Example Sender 3 <sender3@example.com>")
	assert.Contains(t, buf.String(), "2024-03-14 09:15:00 UTC")

	html, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(html), "<html><body><table"))
	assert.Equal(t, 3, strings.Count(string(html), "<tr><td>"))
}

func TestClassifySMTP(t *testing.T) {
	assert.ErrorIs(t, classifySMTP(&textproto.Error{Code: 535, Msg: "bad credentials"}), ErrAuth)
	assert.ErrorIs(t, classifySMTP(&textproto.Error{Code: 421, Msg: "busy"}), ErrConnection)
	assert.ErrorIs(t, classifySMTP(errors.New("dial tcp: refused")), ErrConnection)
}

func TestParseAt(t *testing.T) {
	schedule, err := ParseAt("07:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 7, 0, 0, 0, time.UTC), schedule.Next(time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Date(2024, 3, 16, 7, 0, 0, 0, time.UTC), schedule.Next(time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)))

	for _, bad := range []string{"25:00", "7am", "", "07:60"} {
		_, err := ParseAt(bad)
		assert.Error(t, err, bad)
	}
}

func TestDaemonRunsOnScheduleAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := &fakeSender{}
	sender.onSend = func() {
		if len(sender.reports) == 2 {
			cancel()
		}
	}
	r := newTestReporter(&fakeMailbox{}, sender)
	r.Now = func() time.Time { return time.Date(2024, 3, 15, 6, 59, 59, 950_000_000, time.UTC) }

	schedule, err := ParseAt("07:00")
	require.NoError(t, err)

	require.NoError(t, r.Daemon(ctx, schedule))
	assert.Len(t, sender.reports, 2)
}

func TestDaemonKeepsGoingAfterFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	sender := &fakeSender{}
	sender.onSend = func() { cancel() }
	r := newTestReporter(&fakeMailbox{}, sender)
	r.Now = func() time.Time { return time.Date(2024, 3, 15, 6, 59, 59, 980_000_000, time.UTC) }
	r.Dial = func(config.MailConfig) (Mailbox, error) {
		calls++
		if calls == 1 {
			return nil, ErrConnection
		}
		return &fakeMailbox{}, nil
	}

	schedule, err := ParseAt("07:00")
	require.NoError(t, err)
	require.NoError(t, r.Daemon(ctx, schedule))
	assert.Equal(t, 2, calls)
	assert.Len(t, sender.reports, 1)
}

func TestDaemonRetriesPanickingRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	sender := &fakeSender{}
	sender.onSend = func() { cancel() }
	r := newTestReporter(&fakeMailbox{}, sender)
	r.Now = func() time.Time { return time.Date(2024, 3, 15, 6, 59, 59, 980_000_000, time.UTC) }
	r.RetryDelay = 10 * time.Millisecond
	r.Dial = func(config.MailConfig) (Mailbox, error) {
		calls++
		if calls == 1 {
			panic("mailbox exploded")
		}
		return &fakeMailbox{}, nil
	}

	schedule, err := ParseAt("07:00")
	require.NoError(t, err)
	require.NoError(t, r.Daemon(ctx, schedule))
	assert.Equal(t, 2, calls)
	assert.Len(t, sender.reports, 1)
}

func TestDaemonStopsWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newTestReporter(&fakeMailbox{}, &fakeSender{})
	schedule, err := ParseAt("07:00")
	require.NoError(t, err)
	assert.NoError(t, r.Daemon(ctx, schedule))
}
