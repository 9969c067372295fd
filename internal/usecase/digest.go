package usecase

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/yuin/goldmark"

	"PaperRecommender/internal/domain"
)

const maxAuthorsShown = 5

// pageFramework is the digest skeleton with two insertion points: the
// narrative summary and the per-paper content blocks.
const pageFramework = `<!DOCTYPE HTML>
<html>
<head>
  <style>
    .star-wrapper {
      font-size: 1.3em;
      line-height: 1;
      display: inline-flex;
      align-items: center;
    }
    .half-star {
      display: inline-block;
      width: 0.5em;
      overflow: hidden;
      white-space: nowrap;
      vertical-align: middle;
    }
    .full-star {
      vertical-align: middle;
    }
  </style>
</head>
<body>

<div>
    __SUMMARY__
</div>

<div>
    __CONTENT__
</div>

</body>
</html>
`

const emptyBlock = `
  <table border="0" cellpadding="0" cellspacing="0" width="100%" style="font-family: Arial, sans-serif; border: 1px solid #ddd; border-radius: 8px; padding: 16px; background-color: #f9f9f9;">
  <tr>
    <td style="font-size: 20px; font-weight: bold; color: #333;">
        No Papers Today. Take a Rest!
    </td>
  </tr>
  </table>
`

const blockTemplate = `
    <table border="0" cellpadding="0" cellspacing="0" width="100%%" style="font-family: Arial, sans-serif; border: 1px solid #ddd; border-radius: 8px; padding: 16px; background-color: #f9f9f9;">
    <tr>
        <td style="font-size: 20px; font-weight: bold; color: #333;">
            %s
        </td>
    </tr>
    <tr>
        <td style="font-size: 14px; color: #666; padding: 8px 0;">
            %s
            <br>
        </td>
    </tr>
    <tr>
        <td style="font-size: 14px; color: #333; padding: 8px 0;">
            <strong>Relevance:</strong> %s
        </td>
    </tr>
    <tr>
        <td style="font-size: 14px; color: #333; padding: 8px 0;">
            <strong>TLDR:</strong> %s
        </td>
    </tr>

    <tr>
        <td style="padding: 8px 0;">
            <a href="%s" style="display: inline-block; text-decoration: none; font-size: 14px; font-weight: bold; color: #fff; background-color: #d9534f; padding: 8px 16px; border-radius: 4px;">PDF</a>
        </td>
    </tr>
</table>
`

// Compose renders the digest document for the included papers. An empty
// input produces the "no papers" document without any classifier call.
// A failed narrative-summary call degrades to an empty summary region
// rather than losing the whole digest.
func (p *Pipeline) Compose(ctx context.Context, included []domain.Paper) (string, error) {
	if len(included) == 0 {
		return strings.NewReplacer("__SUMMARY__", "", "__CONTENT__", emptyBlock).Replace(pageFramework), nil
	}

	summaryHTML := ""
	summary, err := p.classifier.SummarizePapers(ctx, included)
	if err != nil {
		p.errorLog("summarize digest", "error", err)
	} else {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(summary), &buf); err != nil {
			return "", fmt.Errorf("render summary markdown: %w", err)
		}
		summaryHTML = buf.String()
	}

	blocks := make([]string, 0, len(included))
	for _, paper := range included {
		blocks = append(blocks, paperBlock(paper))
	}
	content := "<br>" + strings.Join(blocks, "</br><br>") + "</br>"

	return strings.NewReplacer("__SUMMARY__", summaryHTML, "__CONTENT__", content).Replace(pageFramework), nil
}

func paperBlock(paper domain.Paper) string {
	authors := paper.Authors
	truncated := false
	if len(authors) > maxAuthorsShown {
		authors = authors[:maxAuthorsShown]
		truncated = true
	}
	authorLine := strings.Join(authors, ", ")
	if truncated {
		authorLine += ", ..."
	}

	return fmt.Sprintf(blockTemplate,
		html.EscapeString(paper.Title),
		html.EscapeString(authorLine),
		starRating(paper.Relevance.Score),
		html.EscapeString(paper.Summary),
		paper.PDFURL,
	)
}

// starUnits maps a score to a discrete rating of half-star units. The
// (0.5, 1.0] range is divided into ten equal sub-intervals, giving a
// half-star granularity over the ten possible levels.
func starUnits(score float64) int {
	const low, high = domain.RelevanceThreshold, 1.0
	if score <= low {
		return 0
	}
	if score >= high {
		return 10
	}

	interval := (high - low) / 10
	units := int(math.Ceil((score - low) / interval))
	if units < 0 {
		units = 0
	}
	if units > 10 {
		units = 10
	}
	return units
}

func starRating(score float64) string {
	const fullStar = `<span class="full-star">&#11088;</span>`
	const halfStar = `<span class="half-star">&#11088;</span>`

	units := starUnits(score)
	if units == 0 {
		return ""
	}
	if units == 10 {
		return strings.Repeat(fullStar, 5)
	}

	full := units / 2
	half := units - full*2
	return `<div class="star-wrapper">` +
		strings.Repeat(fullStar, full) +
		strings.Repeat(halfStar, half) +
		`</div>`
}
