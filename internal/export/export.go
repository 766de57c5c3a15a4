package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/gdscrape/internal/models"
	"github.com/muesli/termenv"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

// Result is the output of one listing kind. Value is written as-is for JSON
// output; the other formats render Items.
type Result struct {
	Kind  models.Kind
	Value any
	Items []models.Item
}

func Write(w io.Writer, results []Result, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, results)
	case FormatCSV:
		return writeCSV(w, results, ',')
	case FormatTSV:
		return writeCSV(w, results, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, results)
	default:
		return writeTable(w, results, opts)
	}
}

// writeJSON writes a single result's value directly and several results as
// an object keyed by kind.
func writeJSON(w io.Writer, results []Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(results) == 1 {
		return enc.Encode(results[0].Value)
	}
	out := make(map[string]any, len(results))
	for _, res := range results {
		out[string(res.Kind)] = res.Value
	}
	return enc.Encode(out)
}

func writeCSV(w io.Writer, results []Result, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for _, res := range results {
		for _, item := range res.Items {
			if err := writer.Write(csvRow(item)); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, results []Result, opts WriteOptions) error {
	output := termenv.NewOutput(w)
	for i, res := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s (%d)\n", res.Kind, len(res.Items))
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(tableHeader(res.Kind), "\t"))
		for _, item := range res.Items {
			fmt.Fprintln(tw, strings.Join(tableRow(item, output, opts), "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func writeMarkdown(w io.Writer, results []Result) error {
	total := 0
	for _, res := range results {
		total += len(res.Items)
	}
	if total == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}

	for _, res := range results {
		if len(results) > 1 {
			if _, err := fmt.Fprintf(w, "## %s\n\n", res.Kind); err != nil {
				return err
			}
		}
		for _, item := range res.Items {
			for _, line := range markdownLines(item) {
				if _, err := fmt.Fprintln(w, line); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func markdownLines(item models.Item) []string {
	heading := fmt.Sprintf("- **%s**", safe(item.Title))
	if item.Employer != "" {
		heading += fmt.Sprintf(" (%s)", safe(item.Employer))
	}
	lines := []string{heading}
	if item.Role != "" {
		lines = append(lines, fmt.Sprintf("  Role: %s", safe(item.Role)))
	}
	if item.Location != "" {
		lines = append(lines, fmt.Sprintf("  Location: %s", safe(item.Location)))
	}
	if item.Rating > 0 {
		lines = append(lines, fmt.Sprintf("  Rating: %s", formatRating(item.Rating)))
	}
	if item.Pay != "" {
		lines = append(lines, fmt.Sprintf("  Pay: %s", safe(item.Pay)))
	}
	if item.Count > 0 {
		lines = append(lines, fmt.Sprintf("  Reported salaries: %d", item.Count))
	}
	if item.Posted != "" {
		lines = append(lines, fmt.Sprintf("  Posted: %s", safe(item.Posted)))
	}
	if u := safe(item.URL); u != "" {
		lines = append(lines, fmt.Sprintf("  URL: [Open listing](<%s>)", u))
	}
	if item.Summary != "" {
		lines = append(lines, fmt.Sprintf("  Summary: %s", safe(item.Summary)))
	}
	return lines
}

func csvHeader() []string {
	return []string{
		"kind",
		"id",
		"title",
		"role",
		"employer",
		"location",
		"pay",
		"rating",
		"count",
		"posted",
		"url",
		"summary",
	}
}

func csvRow(item models.Item) []string {
	count := ""
	if item.Count > 0 {
		count = strconv.Itoa(item.Count)
	}
	return []string{
		string(item.Kind),
		item.ID,
		item.Title,
		item.Role,
		item.Employer,
		item.Location,
		item.Pay,
		formatRating(item.Rating),
		count,
		item.Posted,
		item.URL,
		item.Summary,
	}
}

func formatRating(value float64) string {
	if value <= 0 {
		return ""
	}
	return strconv.FormatFloat(value, 'f', 1, 64)
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func tableHeader(kind models.Kind) []string {
	switch kind {
	case models.KindReviews:
		return []string{"rating", "title", "role", "posted"}
	case models.KindSalaries:
		return []string{"title", "pay", "count"}
	default:
		return []string{"title", "location", "pay", "url"}
	}
}

func tableRow(item models.Item, output *termenv.Output, opts WriteOptions) []string {
	switch item.Kind {
	case models.KindReviews:
		return []string{dash(formatRating(item.Rating)), dash(safe(item.Title)), dash(safe(item.Role)), dash(safe(item.Posted))}
	case models.KindSalaries:
		count := "-"
		if item.Count > 0 {
			count = strconv.Itoa(item.Count)
		}
		return []string{dash(safe(item.Title)), dash(safe(item.Pay)), count}
	default:
		return []string{dash(safe(item.Title)), dash(safe(item.Location)), dash(safe(item.Pay)), displayURL(item.URL, output, opts)}
	}
}

func displayURL(raw string, output *termenv.Output, opts WriteOptions) string {
	const linkColor = "#87CEEB"

	link := safe(raw)
	if link == "" {
		return "-"
	}
	label := link
	if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
		label = shortURLLabel(link)
	}
	if opts.ColorEnabled {
		label = output.String(label).Foreground(output.Color(linkColor)).String()
	}
	if opts.Hyperlinks {
		label = hyperlink(link, label)
	}
	return label
}

func dash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}
