package colab

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// exists reports whether loc matches anything right now, without waiting.
func exists(loc playwright.Locator) (bool, error) {
	n, err := loc.Count()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// tagName returns the lower-case tag name of the first match.
func tagName(loc playwright.Locator) (string, error) {
	v, err := loc.First().Evaluate("e => e.tagName.toLowerCase()", nil)
	if err != nil {
		return "", fmt.Errorf("failed to read tag name: %w", err)
	}
	s, _ := v.(string)
	return s, nil
}

// quickText reads the inner text of loc without the default long wait.
func quickText(loc playwright.Locator) (string, error) {
	return loc.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(milliseconds(quickReadTimeout)),
	})
}

// jsInt converts a number returned by page evaluation. Anything else is -1.
func jsInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return -1
	}
}
