package glassdoor

import (
	"encoding/json"
	"fmt"
	"html"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/jimezsa/gdscrape/internal/models"
)

const summaryLength = 240

// NormalizeItem flattens a raw listing record into a models.Item. Missing
// fields are left empty; records of an unexpected shape yield an Item with
// only Kind set.
func NormalizeItem(kind models.Kind, baseURL string, record any) models.Item {
	value, _ := record.(map[string]any)
	switch kind {
	case models.KindJobs:
		return normalizeJob(baseURL, value)
	case models.KindReviews:
		return normalizeReview(value)
	case models.KindSalaries:
		return normalizeSalary(value)
	default:
		return models.Item{Kind: kind}
	}
}

func normalizeJob(baseURL string, jobview map[string]any) models.Item {
	header, _ := jobview["header"].(map[string]any)
	job, _ := jobview["job"].(map[string]any)

	item := models.Item{Kind: models.KindJobs}
	item.ID = stringValue(job["listingId"], header["jobListingId"])
	item.Title = cleanText(stringValue(header["jobTitleText"], job["jobTitleText"]))
	item.Employer = cleanText(stringValue(mapValue(header["employer"], "name"), header["employerNameFromSearch"]))
	item.Location = cleanText(stringValue(header["locationName"]))
	item.URL = absoluteURL(baseURL, stringValue(header["seoJobLink"], header["jobLink"]))
	item.Pay = payRange(header["payPeriodAdjustedPay"], stringValue(header["payCurrency"]), stringValue(header["payPeriod"]))
	item.Rating, _ = floatValue(header["rating"])
	item.Summary = truncate(cleanText(fragments(job["descriptionFragments"])), summaryLength)
	if days, ok := intValue(header["ageInDays"]); ok {
		item.Posted = fmt.Sprintf("%dd", days)
	}
	return item
}

func normalizeReview(review map[string]any) models.Item {
	item := models.Item{Kind: models.KindReviews}
	item.ID = stringValue(review["reviewId"])
	item.Title = cleanText(stringValue(review["summary"]))
	item.Role = cleanText(stringValue(mapValue(review["jobTitle"], "text")))
	item.Employer = cleanText(stringValue(mapValue(review["employer"], "shortName")))
	item.Location = cleanText(stringValue(mapValue(review["location"], "name")))
	item.Rating, _ = floatValue(review["ratingOverall"])
	item.Summary = truncate(cleanText(prosCons(stringValue(review["pros"]), stringValue(review["cons"]))), summaryLength)
	item.Posted = stringValue(review["reviewDateTime"])
	return item
}

func normalizeSalary(result map[string]any) models.Item {
	item := models.Item{Kind: models.KindSalaries}
	item.Title = cleanText(stringValue(mapValue(result["jobTitle"], "text")))
	item.ID = stringValue(mapValue(result["jobTitle"], "id"))
	item.Employer = cleanText(stringValue(mapValue(result["employer"], "shortName")))
	item.Count, _ = intValue(result["salaryCount"])

	currency := stringValue(mapValue(result["currency"], "code"))
	period := stringValue(result["payPeriod"])
	if stats, ok := mapValue(result["basePayStatistics"], "percentiles").([]any); ok {
		item.Pay = percentileRange(stats, currency, period)
	}
	if item.Pay == "" {
		if mean, ok := floatValue(mapValue(result["basePayStatistics"], "mean")); ok {
			item.Pay = strings.TrimSpace(formatAmount(mean) + " " + currency + " " + strings.ToLower(period))
		}
	}
	return item
}

func payRange(value any, currency string, period string) string {
	pay, ok := value.(map[string]any)
	if !ok {
		return ""
	}
	low, lowOK := floatValue(pay["p10"])
	high, highOK := floatValue(pay["p90"])
	suffix := strings.TrimSpace(currency + " " + strings.ToLower(period))
	if lowOK && highOK {
		return strings.TrimSpace(formatAmount(low) + " - " + formatAmount(high) + " " + suffix)
	}
	if median, ok := floatValue(pay["p50"]); ok {
		return strings.TrimSpace(formatAmount(median) + " " + suffix)
	}
	return ""
}

func percentileRange(stats []any, currency string, period string) string {
	values := map[string]float64{}
	for _, stat := range stats {
		ident := strings.ToUpper(stringValue(mapValue(stat, "ident")))
		if value, ok := floatValue(mapValue(stat, "value")); ok && ident != "" {
			values[ident] = value
		}
	}
	suffix := strings.TrimSpace(currency + " " + strings.ToLower(period))
	low, lowOK := values["P10"]
	high, highOK := values["P90"]
	if lowOK && highOK {
		return strings.TrimSpace(formatAmount(low) + " - " + formatAmount(high) + " " + suffix)
	}
	if median, ok := values["P50"]; ok {
		return strings.TrimSpace(formatAmount(median) + " " + suffix)
	}
	return ""
}

func prosCons(pros string, cons string) string {
	var parts []string
	if pros != "" {
		parts = append(parts, "Pros: "+pros)
	}
	if cons != "" {
		parts = append(parts, "Cons: "+cons)
	}
	return strings.Join(parts, " | ")
}

func fragments(value any) string {
	list, ok := value.([]any)
	if !ok {
		return stringValue(value)
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		if text := stringValue(item); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(math.Round(value), 'f', -1, 64)
}

func cleanText(value string) string {
	value = html.UnescapeString(value)
	return strings.Join(strings.Fields(value), " ")
}

func absoluteURL(base string, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

func truncate(value string, max int) string {
	if max <= 0 {
		return value
	}
	value = strings.TrimSpace(value)
	if len(value) <= max {
		return value
	}
	return strings.TrimSpace(value[:max]) + "..."
}

// stringValue returns the first non-empty value rendered as a string.
func stringValue(values ...any) string {
	for _, value := range values {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case json.Number:
			return v.String()
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case bool:
			return strconv.FormatBool(v)
		}
	}
	return ""
}

func mapValue(value any, key string) any {
	m, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}

func intValue(value any) (int, bool) {
	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
		if f, err := v.Float64(); err == nil {
			return int(f), true
		}
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, true
		}
	}
	return 0, false
}

func floatValue(value any) (float64, bool) {
	switch v := value.(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f, true
		}
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}
