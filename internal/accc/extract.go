package accc

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	tagRegex        = regexp.MustCompile(`<[^>]+>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// ExtractTips pulls the buying-tip text for each city out of the page
// HTML. The page structure is fragile, so this is a deliberately loose
// pattern match rather than structural parsing: everything between a
// city's "Buying tip" label and the chart caption that follows it. A
// city whose section cannot be found maps to the empty string, which
// the classifier treats as WAIT.
func ExtractTips(html string, cities []string) map[string]string {
	tips := make(map[string]string, len(cities))
	for _, city := range cities {
		tips[city] = extractCityTip(html, city)
	}
	return tips
}

func extractCityTip(html, city string) string {
	pattern := fmt.Sprintf(`(?is)Petrol prices in %s.*?Buying tip.*?:(.*?)(?:This chart|Source:|$)`,
		regexp.QuoteMeta(capitalize(city)))
	re, err := regexp.Compile(pattern)
	if err != nil {
		return ""
	}

	m := re.FindStringSubmatch(html)
	if m == nil {
		return ""
	}

	tip := tagRegex.ReplaceAllString(m[1], " ")
	tip = whitespaceRegex.ReplaceAllString(tip, " ")
	return strings.TrimSpace(tip)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
