package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"PaperRecommender/internal/domain"
	"PaperRecommender/internal/feed"
)

const (
	oaiPrefix      = "oai:arXiv.org:"
	absPrefix      = "https://arxiv.org/abs/"
	pdfURLTemplate = "https://arxiv.org/pdf/%s"

	abstractMarker = "Abstract:"
	announceMarker = "Announce Type: "

	// announceNew marks first-time announcements; cross-listings and
	// replacements carry other types and are never ingested.
	announceNew = "new"
)

// ArxivScanner reads arXiv RSS announcement feeds and extracts candidate
// papers announced inside the requested window.
type ArxivScanner struct {
	parser *gofeed.Parser
	logger *slog.Logger
}

var _ feed.Scanner = (*ArxivScanner)(nil)

// NewArxivScanner wires an HTTP client into a feed parser.
func NewArxivScanner(client *http.Client, log *slog.Logger) *ArxivScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = "PaperRecommender/1.0"
	return &ArxivScanner{parser: parser, logger: log}
}

// Name identifies the strategy inside the registry.
func (a *ArxivScanner) Name() string {
	return "arxiv"
}

// Scan fetches the feed once and returns every newly announced paper whose
// publication timestamp falls within [req.Start, req.End). Entries that
// fail extraction are logged and skipped without aborting the batch.
func (a *ArxivScanner) Scan(ctx context.Context, req feed.Request) ([]domain.Paper, error) {
	parsed, err := a.parser.ParseURLWithContext(req.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("feed %s: fetch %s: %w", req.FeedName, req.URL, err)
	}

	papers := make([]domain.Paper, 0, len(parsed.Items))
	seen := map[string]struct{}{}

	for _, item := range parsed.Items {
		paper, announce, err := parseItem(item)
		if err != nil {
			a.warn("skip feed entry", "feed", req.FeedName, "guid", item.GUID, "error", err)
			continue
		}
		if announce != announceNew {
			continue
		}
		if paper.Published.Before(req.Start) || !paper.Published.Before(req.End) {
			continue
		}
		if _, ok := seen[paper.ArxivID]; ok {
			continue
		}
		seen[paper.ArxivID] = struct{}{}
		papers = append(papers, paper)
	}

	return papers, nil
}

// parseItem converts one feed entry into a candidate paper plus its
// announce type. An entry without an abstract marker or publication date
// fails extraction.
func parseItem(item *gofeed.Item) (domain.Paper, string, error) {
	arxivID := extractArxivID(item)
	if arxivID == "" {
		return domain.Paper{}, "", fmt.Errorf("entry has no identifier")
	}

	if item.PublishedParsed == nil {
		return domain.Paper{}, "", fmt.Errorf("entry %s has no publication date", arxivID)
	}

	body := htmlToText(item.Description)
	idx := strings.Index(body, abstractMarker)
	if idx < 0 {
		return domain.Paper{}, "", fmt.Errorf("entry %s has no abstract", arxivID)
	}
	summary := strings.TrimSpace(body[idx+len(abstractMarker):])

	paper := domain.Paper{
		ArxivID:   arxivID,
		Title:     strings.TrimSpace(item.Title),
		Authors:   extractAuthors(item),
		Summary:   summary,
		Published: item.PublishedParsed.UTC(),
		PDFURL:    fmt.Sprintf(pdfURLTemplate, arxivID),
	}

	return paper, announceType(item), nil
}

func extractArxivID(item *gofeed.Item) string {
	if id := strings.TrimPrefix(item.GUID, oaiPrefix); id != "" && id != item.GUID {
		return id
	}
	if strings.HasPrefix(item.Link, absPrefix) {
		return strings.TrimPrefix(item.Link, absPrefix)
	}
	return strings.TrimSpace(item.GUID)
}

func announceType(item *gofeed.Item) string {
	if ns, ok := item.Extensions["arxiv"]; ok {
		if vals, ok := ns["announce_type"]; ok && len(vals) > 0 {
			return strings.TrimSpace(vals[0].Value)
		}
	}

	// Older feed revisions carry the type inside the entry body.
	if i := strings.Index(item.Description, announceMarker); i >= 0 {
		rest := item.Description[i+len(announceMarker):]
		if j := strings.IndexAny(rest, " \n"); j >= 0 {
			rest = rest[:j]
		}
		return strings.TrimSpace(rest)
	}

	return ""
}

// extractAuthors flattens the entry's author field. arXiv publishes all
// names inside a single comma-joined creator element.
func extractAuthors(item *gofeed.Item) []string {
	var raw []string
	for _, person := range item.Authors {
		if person != nil && person.Name != "" {
			raw = append(raw, person.Name)
		}
	}
	if len(raw) == 0 && item.DublinCoreExt != nil {
		raw = item.DublinCoreExt.Creator
	}
	if len(raw) == 0 && item.Author != nil && item.Author.Name != "" {
		raw = []string{item.Author.Name}
	}

	var names []string
	for _, entry := range raw {
		for _, name := range strings.Split(entry, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// htmlToText strips markup from feed entry bodies before marker matching.
func htmlToText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return doc.Text()
}

func (a *ArxivScanner) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
