package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Filter отбирает URL изображений по CDN-хосту и отсекает мелкие превью
type Filter struct {
	HostSubstring   string
	ExcludedMarkers []string
}

// Match проверяет, проходит ли URL фильтр
func (f Filter) Match(url string) bool {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return false
	}
	if !strings.Contains(url, f.HostSubstring) {
		return false
	}
	for _, marker := range f.ExcludedMarkers {
		if strings.Contains(url, marker) {
			return false
		}
	}
	return true
}

// ExtractImageURLs вытаскивает из снимка DOM все src отрисованных <img>,
// прошедшие фильтр. Порядок — порядок элементов в документе.
func ExtractImageURLs(html string, filter Filter) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var urls []string
	doc.Find("img").Each(func(i int, sel *goquery.Selection) {
		src, exists := sel.Attr("src")
		if !exists {
			return
		}
		src = strings.TrimSpace(src)
		if filter.Match(src) {
			urls = append(urls, src)
		}
	})

	return urls, nil
}
