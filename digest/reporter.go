package digest

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"elles-app/config"

	"go.uber.org/zap"
)

const (
	SubjectLayout = "02/01/2006"
	DryRunPrefix  = "[DRY-RUN] "
)

// Window returns [yesterday 00:00, today 00:00) in now's location.
func Window(now time.Time) (since, before time.Time) {
	y, m, d := now.Date()
	before = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	since = before.AddDate(0, 0, -1)
	return since, before
}

func Subject(day time.Time, dryRun bool) string {
	subject := "Mail report for " + day.Format(SubjectLayout)
	if dryRun {
		subject = DryRunPrefix + subject
	}
	return subject
}

// Reporter collects yesterday's message headers and mails a digest.
type Reporter struct {
	Config config.MailConfig
	Dial   DialFunc
	Sender Sender
	Now    func() time.Time
	Log    *zap.Logger

	RetryDelay time.Duration
}

func NewReporter(cfg config.MailConfig, log *zap.Logger) *Reporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reporter{
		Config:     cfg,
		Dial:       DialIMAP,
		Sender:     NewSMTPSender(cfg),
		Now:        time.Now,
		Log:        log.Named("digest"),
		RetryDelay: time.Minute,
	}
}

func (r *Reporter) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// Collect fetches the header rows of every message in the window. A message
// that fails to fetch or parse is logged and skipped.
func (r *Reporter) Collect(since, before time.Time) ([]Row, error) {
	mailbox, err := r.Dial(r.Config)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := mailbox.Logout(); err != nil {
			r.Log.Debug("logout failed", zap.Error(err))
		}
	}()

	if err := mailbox.Select(r.Config.IMAPFolder); err != nil {
		return nil, err
	}

	ids, err := mailbox.Search(since, before)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(ids))
	for _, id := range ids {
		raw, err := mailbox.FetchHeaders(id)
		if err != nil {
			r.Log.Warn("failed to fetch headers", zap.Uint32("id", id), zap.Error(err))
			continue
		}
		row, err := ParseHeaders(raw, since.Location())
		if err != nil {
			r.Log.Warn("failed to parse headers", zap.Uint32("id", id), zap.Error(err))
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// RunOnce builds and sends the digest for yesterday.
func (r *Reporter) RunOnce(ctx context.Context) error {
	if err := r.Config.Validate(); err != nil {
		return err
	}

	since, before := Window(r.now())
	r.Log.Info("collecting messages",
		zap.String("host", r.Config.IMAPHost),
		zap.String("folder", r.Config.IMAPFolder),
		zap.Time("since", since),
		zap.Time("before", before),
	)

	rows, err := r.Collect(since, before)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	report := Report{
		Subject: Subject(since, false),
		Text:    TextTable(rows),
		HTML:    HTMLTable(rows),
	}

	r.Log.Info("sending report", zap.String("to", r.Config.ReportTo), zap.Int("messages", len(rows)))
	if err := r.Sender.Send(report); err != nil {
		return err
	}
	r.Log.Info("report sent")
	return nil
}

// SampleRows returns three synthetic messages received on the given day.
func SampleRows(day time.Time) []Row {
	rows := make([]Row, 0, 3)
	for i := 1; i <= 3; i++ {
		at := time.Date(day.Year(), day.Month(), day.Day(), 8+i, 15*i, 0, 0, day.Location())
		rows = append(rows, Row{
			Sender:     fmt.Sprintf("Example Sender %d <sender%d@example.com>", i, i),
			Subject:    fmt.Sprintf("Example subject %d", i),
			ReceivedAt: at.Format(ReceivedLayout),
		})
	}
	return rows
}

// DryRun renders synthetic data without touching the network. When output
// is set the HTML document is written there too.
func (r *Reporter) DryRun(w io.Writer, output string) error {
	since, _ := Window(r.now())
	rows := SampleRows(since)

	if output != "" {
		if err := os.WriteFile(output, []byte(HTMLDocument(rows)), 0o644); err != nil {
			r.Log.Warn("could not write html report", zap.String("path", output), zap.Error(err))
		} else {
			r.Log.Info("html report written", zap.String("path", output))
		}
	}

	_, err := fmt.Fprintf(w, "%s\n\n%s\n", Subject(since, true), TextTable(rows))
	return err
}
