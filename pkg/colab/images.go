package colab

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// imageSources returns the src of every img element in an HTML fragment,
// in document order, resolved against base the way the browser resolves
// them. An image without a src yields "".
func imageSources(fragment, base string) ([]string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("failed to parse output HTML: %w", err)
	}

	var srcs []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "img") {
			src := ""
			for _, attr := range n.Attr {
				if attr.Key != "src" {
					continue
				}
				ref, err := url.Parse(strings.TrimSpace(attr.Val))
				if err != nil {
					src = attr.Val
				} else {
					src = baseURL.ResolveReference(ref).String()
				}
				break
			}
			srcs = append(srcs, src)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return srcs, nil
}
