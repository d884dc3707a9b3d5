package source

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/Player6734/slskd-stats/internal/record"
)

// sizePattern matches the "transferred/total" pair in a size cell, e.g.
// "12.3/45.6 MB".
var sizePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)/(\d+(?:\.\d+)?)`)

// ParseHTMLFile reads an exported slskd uploads page and returns its transfer
// rows. The page groups transfers into one card per user.
func ParseHTMLFile(path string) ([]record.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := ParseHTML(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rows, nil
}

// ParseHTML extracts raw upload rows from slskd transfer-card markup. Rows
// with missing cells are still emitted and left for the normalizer to reject,
// so the skipped count reflects them.
func ParseHTML(r io.Reader) ([]record.RawRow, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var rows []record.RawRow
	for _, card := range findAll(doc, func(n *html.Node) bool {
		return n.Data == "div" && hasClass(n, "transfer-card")
	}) {
		username := ""
		if header := findFirst(card, func(n *html.Node) bool {
			return n.Data == "div" && hasClass(n, "header")
		}); header != nil {
			username = strings.TrimSpace(nodeText(header))
		}

		for _, tr := range findAll(card, func(n *html.Node) bool { return n.Data == "tr" }) {
			// Header rows hold th cells, not transfers.
			if findFirst(tr, func(n *html.Node) bool { return n.Data == "th" }) != nil {
				continue
			}
			rows = append(rows, parseTransferRow(tr, username))
		}
	}
	return rows, nil
}

func parseTransferRow(tr *html.Node, username string) record.HTMLRow {
	row := record.HTMLRow{
		Username:         username,
		TransferredBytes: -1,
		SizeBytes:        -1,
	}

	if cell := findFirst(tr, func(n *html.Node) bool {
		return n.Data == "td" && hasClass(n, "transferlist-filename")
	}); cell != nil {
		row.Filename = strings.TrimSpace(nodeText(cell))
	}

	// The outcome lives in the progress button's text, which is stable across
	// slskd versions where the CSS classes are not.
	if cell := findFirst(tr, func(n *html.Node) bool {
		return n.Data == "td" && hasClass(n, "transferlist-progress")
	}); cell != nil {
		if button := findFirst(cell, func(n *html.Node) bool { return n.Data == "button" }); button != nil {
			row.Status = strings.TrimSpace(nodeText(button))
		}
	}

	if cell := findFirst(tr, func(n *html.Node) bool {
		return n.Data == "td" && hasClass(n, "transferlist-size")
	}); cell != nil {
		text := strings.TrimSpace(nodeText(cell))
		if m := sizePattern.FindStringSubmatch(text); m != nil {
			mult := unitMultiplier(text)
			transferred, _ := strconv.ParseFloat(m[1], 64)
			total, _ := strconv.ParseFloat(m[2], 64)
			row.TransferredBytes = int64(transferred * mult)
			row.SizeBytes = int64(total * mult)
		}
	}

	return row
}

// unitMultiplier maps the size cell's unit suffix to bytes. slskd renders the
// pair in a single unit; MB is the default when none is present.
func unitMultiplier(text string) float64 {
	switch {
	case strings.Contains(text, "GB"):
		return 1024 * 1024 * 1024
	case strings.Contains(text, "KB"):
		return 1024
	default:
		return 1024 * 1024
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var result []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			result = append(result, n)
			return // nested matches belong to this subtree
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return result
}
