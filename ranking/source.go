package ranking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Sources are tried in order.
var Sources = []string{
	"https://international-iq-test.com/fr/test/IQ_by_country/",
	"https://international-iq-test.com/test/IQ_by_country/",
	"https://international-iq-test.com/en/test/IQ_by_country/",
	"https://international-iq-test.com/iq_by_country/",
	"https://international-iq-test.com/en/iq_by_country/",
	"https://international-iq-test.com/fr/iq_by_country/",
	"https://www.worlddata.info/average-iq-by-country.php",
	"https://www.statista.com/statistics/1001671/average-iq-by-country/",
	"https://iq-research.info/en/page/average-iq-by-country",
	"https://www.123test.com/iq-test/iq-by-country/",
	"https://www.international-iq.com/",
}

var ErrNoData = errors.New("no source produced enough rows")

// Attempt is one step of the scrape chain.
type Attempt struct {
	Source string
	Run    func(ctx context.Context) (Table, error)
}

// RunAttempts returns the first table with at least minRows rows together
// with the source that produced it.
func RunAttempts(ctx context.Context, attempts []Attempt, minRows int, log *zap.Logger) (Table, string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	for _, attempt := range attempts {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		table, err := attempt.Run(ctx)
		if err != nil {
			log.Debug("attempt failed", zap.String("source", attempt.Source), zap.Error(err))
			continue
		}
		if len(table) < minRows {
			log.Debug("attempt too small", zap.String("source", attempt.Source), zap.Int("rows", len(table)))
			continue
		}
		return table, attempt.Source, nil
	}
	return nil, "", ErrNoData
}

type Scraper struct {
	client  *resty.Client
	sources []string
}

func NewScraper(sources []string, timeout time.Duration) *Scraper {
	client := resty.New().
		SetHeader("User-Agent", UserAgent).
		SetTimeout(timeout)
	return &Scraper{client: client, sources: sources}
}

func (s *Scraper) fetch(ctx context.Context, url string) (string, error) {
	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("%s: status %d", url, resp.StatusCode())
	}
	return resp.String(), nil
}

// Attempts yields strict then loose extraction for every source. Each page
// is downloaded at most once.
func (s *Scraper) Attempts() []Attempt {
	attempts := make([]Attempt, 0, 2*len(s.sources))
	for _, url := range s.sources {
		url := url
		var (
			once sync.Once
			page string
			err  error
		)
		load := func(ctx context.Context) (string, error) {
			once.Do(func() { page, err = s.fetch(ctx, url) })
			return page, err
		}

		attempts = append(attempts,
			Attempt{Source: url, Run: func(ctx context.Context) (Table, error) {
				page, err := load(ctx)
				if err != nil {
					return nil, err
				}
				return ExtractStrict(page)
			}},
			Attempt{Source: url, Run: func(ctx context.Context) (Table, error) {
				page, err := load(ctx)
				if err != nil {
					return nil, err
				}
				return ExtractLoose(page)
			}},
		)
	}
	return attempts
}
