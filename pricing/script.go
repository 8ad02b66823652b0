package pricing

import (
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// RenderScript substitutes {{var}} placeholders into a dialogue template.
// Variable names match case-insensitively; placeholders with no matching
// variable are left verbatim so a typo in a template degrades visibly in
// review instead of erroring at call time.
func RenderScript(template string, vars map[string]string) string {
	if len(vars) == 0 {
		return template
	}

	normalized := make(map[string]string, len(vars))
	for k, v := range vars {
		normalized[strings.ToLower(k)] = v
	}

	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if v, ok := normalized[strings.ToLower(name)]; ok {
			return v
		}
		return match
	})
}

// ScrubStaleBrands replaces any stale brand token left in a rendered script
// with the resolved tenant's company name. Templates get cloned across
// tenants, and a previous tenant's brand surviving into a live call is a
// worse failure than any other rendering bug, so this runs on the final text.
func ScrubStaleBrands(text string, staleBrands []string, companyName string) string {
	out := text
	for _, brand := range staleBrands {
		if brand == "" || strings.EqualFold(brand, companyName) {
			continue
		}
		re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(brand))
		if err != nil {
			continue
		}
		out = re.ReplaceAllString(out, companyName)
	}
	return out
}
