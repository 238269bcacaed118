// Package scrape pulls candidate proxy addresses out of public list pages,
// both plain-text dumps and HTML tables.
package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"

	"dot5/internal/candidate"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Scraper fetches one list URL and returns the addresses found on it.
type Scraper struct {
	UserAgent string
	Timeout   time.Duration
	// Limit caps the number of addresses returned; zero means no cap.
	Limit  int
	Logger logrus.FieldLogger
}

// Scrape visits listURL and returns unique address lines in page order.
// Every returned line is accepted by candidate.Parse.
func (s *Scraper) Scrape(ctx context.Context, listURL string) ([]string, error) {
	ua := s.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := s.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	c := colly.NewCollector(
		colly.UserAgent(ua),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(timeout)

	var (
		found     []string
		seen      = make(map[string]bool)
		scrapeErr error
	)
	add := func(addr string) {
		if addr == "" || seen[addr] || (s.Limit > 0 && len(found) >= s.Limit) {
			return
		}
		seen[addr] = true
		found = append(found, addr)
	}

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})
	c.OnResponse(func(r *colly.Response) {
		if strings.Contains(r.Headers.Get("Content-Type"), "html") {
			return
		}
		for _, addr := range ExtractAddresses(string(r.Body)) {
			add(addr)
		}
	})
	c.OnHTML("table tr", func(e *colly.HTMLElement) {
		add(rowAddress(e.DOM))
	})
	c.OnError(func(r *colly.Response, err error) {
		scrapeErr = err
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.Visit(listURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", listURL, err)
	}
	if scrapeErr != nil {
		return nil, fmt.Errorf("scrape %s: %w", listURL, scrapeErr)
	}

	log.WithFields(logrus.Fields{"url": listURL, "found": len(found)}).Info("list scraped")
	return found, nil
}

// ExtractAddresses returns every whitespace-separated token of text that
// parses as a proxy address. A leading scheme such as "http://" is dropped.
func ExtractAddresses(text string) []string {
	var out []string
	for _, tok := range strings.Fields(text) {
		if i := strings.Index(tok, "://"); i >= 0 {
			tok = tok[i+3:]
		}
		tok = strings.TrimRight(tok, "/,;")
		if _, ok := candidate.Parse(tok); ok {
			out = append(out, tok)
		}
	}
	return out
}

// rowAddress reads a table row laid out either as "ip:port | ..." or as
// "ip | port | ...", the two shapes public list sites use.
func rowAddress(row *goquery.Selection) string {
	cells := row.Find("td")
	if cells.Length() == 0 {
		return ""
	}
	first := strings.TrimSpace(cells.Eq(0).Text())
	if addr, ok := candidate.Parse(first); ok && addr.HasPort() {
		return first
	}
	if cells.Length() < 2 {
		return ""
	}
	joined := first + ":" + strings.TrimSpace(cells.Eq(1).Text())
	if addr, ok := candidate.Parse(joined); ok && addr.HasPort() {
		return joined
	}
	return ""
}
