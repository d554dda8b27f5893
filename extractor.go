package main

import (
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// Sentinel values for extraction failures. Extraction is best-effort and
// brittle to layout changes; callers treat these as soft results, never as
// errors.
const (
	ContentNotFound = "콘텐츠를 찾을 수 없습니다."
	UnsupportedURL  = "지원하지 않는 URL입니다."
)

// pageLayout describes how to locate the main body on a known site section:
// an ordered list of container selectors, tried first to last, plus an
// optional iframe the real document hides behind.
type pageLayout struct {
	name          string
	frameSelector string
	selectors     []string
}

var (
	newsLayout = pageLayout{
		name:      "news",
		selectors: []string{"#dic_area", "#articeBody"},
	}
	blogLayout = pageLayout{
		name:          "blog",
		frameSelector: "iframe#mainFrame",
		selectors:     []string{"div.se-main-container", "div.post-view"},
	}
)

// layoutFor maps a URL onto the closed set of known layouts. The zero layout
// means the site is unrecognized.
func layoutFor(pageURL string) (pageLayout, bool) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return pageLayout{}, false
	}
	host := parsed.Hostname()
	switch {
	case strings.HasSuffix(host, "news.naver.com"):
		return newsLayout, true
	case strings.HasSuffix(host, "blog.naver.com"):
		return blogLayout, true
	}
	return pageLayout{}, false
}

// PageExtractor pulls main-body text out of known page layouts. The HTTP
// client and markdown converter are built once and shared; the converter
// preserves headings and lists the vault documents benefit from.
type PageExtractor struct {
	client    *http.Client
	converter *md.Converter
	limiter   *RateLimiter
}

// NewPageExtractor creates an extractor with a bounded per-page timeout.
func NewPageExtractor(limiter *RateLimiter) *PageExtractor {
	return &PageExtractor{
		client:    &http.Client{Timeout: 10 * time.Second},
		converter: md.NewConverter("", true, nil),
		limiter:   limiter,
	}
}

// Extract returns the main-body text of the page at pageURL, or a sentinel
// string when the site is unrecognized or every selector strategy fails.
func (pe *PageExtractor) Extract(pageURL string) string {
	layout, ok := layoutFor(pageURL)
	if !ok {
		return UnsupportedURL
	}

	pe.limiter.AwaitSlot("content_fetch")
	return pe.extractWithLayout(pageURL, layout)
}

func (pe *PageExtractor) extractWithLayout(pageURL string, layout pageLayout) string {
	doc, err := pe.fetchDocument(pageURL)
	if err != nil {
		log.Printf("✗ 콘텐츠 추출 중 오류 발생 (%s): %v", pageURL, err)
		return ContentNotFound
	}

	// Blog posts live inside an iframe; follow its src before selecting.
	if layout.frameSelector != "" {
		if src, ok := doc.Find(layout.frameSelector).Attr("src"); ok {
			frameURL := resolveFrameURL(pageURL, src)
			if frameDoc, err := pe.fetchDocument(frameURL); err == nil {
				doc = frameDoc
			} else {
				log.Printf("프레임 로딩 실패 (%s): %v", frameURL, err)
			}
		}
	}

	for _, selector := range layout.selectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		if text := pe.renderSelection(sel.First()); text != "" {
			return text
		}
	}

	return ContentNotFound
}

func (pe *PageExtractor) fetchDocument(pageURL string) (*goquery.Document, error) {
	resp, err := pe.client.Get(pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{Kind: ErrConnectivity, Message: "HTTP " + resp.Status + " for " + pageURL}
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// renderSelection converts the container to markdown-flavoured text, falling
// back to plain visible text when conversion fails.
func (pe *PageExtractor) renderSelection(sel *goquery.Selection) string {
	if html, err := goquery.OuterHtml(sel); err == nil {
		if markdown, err := pe.converter.ConvertString(html); err == nil {
			return strings.TrimSpace(markdown)
		}
	}
	return strings.TrimSpace(sel.Text())
}

// resolveFrameURL resolves a possibly-relative iframe src against the page it
// was found on.
func resolveFrameURL(pageURL, src string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return src
	}
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	return base.ResolveReference(ref).String()
}
