package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// naverPubDateLayout is the timestamp format the search API uses, e.g.
// "Mon, 02 Jan 2006 15:04:05 +0900".
const naverPubDateLayout = time.RFC1123Z

// Error codes the search API returns for invalid client credentials.
var credentialErrorCodes = map[string]bool{
	"024": true,
	"025": true,
}

// searchResponse is the JSON shape of /v1/search/{news,blog}.json.
type searchResponse struct {
	Total        int              `json:"total"`
	Items        []searchItemJSON `json:"items"`
	ErrorCode    string           `json:"errorCode"`
	ErrorMessage string           `json:"errorMessage"`
}

type searchItemJSON struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	BloggerName string `json:"bloggername"`
	PubDate     string `json:"pubDate"`
}

// SearchClient issues keyword searches against the Naver open API.
type SearchClient struct {
	client       *http.Client
	limiter      *RateLimiter
	apiURL       string
	clientID     string
	clientSecret string
	retryMax     int
	retryBase    time.Duration
}

// NewSearchClient builds a client from resolved configuration.
func NewSearchClient(cfg *Config, settings *Settings, limiter *RateLimiter) *SearchClient {
	return &SearchClient{
		client:       &http.Client{Timeout: 10 * time.Second},
		limiter:      limiter,
		apiURL:       strings.TrimRight(cfg.NaverAPIURL, "/"),
		clientID:     cfg.NaverClientID,
		clientSecret: cfg.NaverClientSecret,
		retryMax:     settings.RetryMax,
		retryBase:    settings.RetryBase(),
	}
}

// makeRequest performs one rate-limited, retried GET against the search API
// and returns the parsed body. API-level error codes are classified here:
// credential codes short-circuit the retry loop, everything else is a generic
// API error.
func (sc *SearchClient) makeRequest(endpoint string, params url.Values) (*searchResponse, error) {
	var result *searchResponse

	op := func() error {
		sc.limiter.AwaitSlot(endpoint)

		req, err := http.NewRequest(http.MethodGet, sc.apiURL+endpoint, nil)
		if err != nil {
			return &ClientError{Kind: ErrConnectivity, Message: "building request", Err: err}
		}
		req.URL.RawQuery = params.Encode()
		req.Header.Set("X-Naver-Client-Id", sc.clientID)
		req.Header.Set("X-Naver-Client-Secret", sc.clientSecret)

		resp, err := sc.client.Do(req)
		if err != nil {
			return &ClientError{Kind: ErrConnectivity, Message: "naver API request failed", Err: err}
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return &ClientError{Kind: ErrConnectivity, Message: "reading response body", Err: err}
		}

		// Error codes can arrive with any status, so inspect the body first.
		var parsed searchResponse
		parseErr := json.Unmarshal(body, &parsed)
		if parseErr == nil && parsed.ErrorCode != "" {
			if credentialErrorCodes[parsed.ErrorCode] {
				return &ClientError{Kind: ErrCredential, Message: fmt.Sprintf("API 키 오류 (%s): %s", parsed.ErrorCode, parsed.ErrorMessage)}
			}
			return &ClientError{Kind: ErrConnectivity, Message: fmt.Sprintf("API 오류 (%s): %s", parsed.ErrorCode, parsed.ErrorMessage)}
		}

		if resp.StatusCode != http.StatusOK {
			return &ClientError{Kind: ErrConnectivity, Message: fmt.Sprintf("HTTP %d for %s", resp.StatusCode, endpoint)}
		}
		if parseErr != nil {
			return &ClientError{Kind: ErrMalformed, Message: "잘못된 응답 형식", Err: parseErr}
		}

		result = &parsed
		return nil
	}

	if err := retryWithBackoff(op, sc.retryMax, sc.retryBase); err != nil {
		return nil, err
	}
	return result, nil
}

// SearchNews searches news articles for a keyword. Twice the requested count
// is fetched so that keyword-relevance filtering still fills the quota; the
// returned slice holds at most count items, each with HTML-stripped fields and
// notability tags attached.
func (sc *SearchClient) SearchNews(keyword string, count int) ([]SearchResult, error) {
	log.Printf("→ 뉴스 검색: 키워드=%q, 요청 개수=%d", keyword, count)

	params := url.Values{}
	params.Set("query", keyword)
	params.Set("display", strconv.Itoa(count*2))
	params.Set("sort", "date")

	data, err := sc.makeRequest("/v1/search/news.json", params)
	if err != nil {
		return nil, fmt.Errorf("news search: %w", err)
	}

	log.Printf("검색 결과: 총 %d개 중 %d개 수신", data.Total, len(data.Items))

	lowerKeyword := strings.ToLower(keyword)
	filtered := make([]SearchResult, 0, count)
	for _, item := range data.Items {
		title := stripHTML(item.Title)
		description := stripHTML(item.Description)

		if !strings.Contains(strings.ToLower(title), lowerKeyword) &&
			!strings.Contains(strings.ToLower(description), lowerKeyword) {
			continue
		}

		result := SearchResult{
			Title:       title,
			Link:        item.Link,
			Description: description,
		}
		if item.PubDate != "" {
			if ts, err := time.Parse(naverPubDateLayout, item.PubDate); err == nil {
				result.PublishDate = ts
			}
		}
		if isHotTopic(title, description) {
			result.Tags = []string{"#핫토픽", "#핫이슈"}
		}

		filtered = append(filtered, result)
		if len(filtered) >= count {
			break
		}
	}

	log.Printf("✓ 최종 필터링 결과: %d개의 기사 선택", len(filtered))
	return filtered, nil
}

// SearchBlogs searches blog posts for a keyword, sorted by similarity.
func (sc *SearchClient) SearchBlogs(keyword string, count int) ([]SearchResult, error) {
	log.Printf("→ 블로그 검색: 키워드=%q, 요청 개수=%d", keyword, count)

	params := url.Values{}
	params.Set("query", keyword)
	params.Set("display", strconv.Itoa(count))
	params.Set("sort", "sim")

	data, err := sc.makeRequest("/v1/search/blog.json", params)
	if err != nil {
		return nil, fmt.Errorf("blog search: %w", err)
	}

	results := make([]SearchResult, 0, len(data.Items))
	for _, item := range data.Items {
		results = append(results, SearchResult{
			Title:       stripHTML(item.Title),
			Link:        item.Link,
			Description: stripHTML(item.Description),
			BloggerName: item.BloggerName,
		})
	}

	log.Printf("✓ 블로그 검색 완료: %d개", len(results))
	return results, nil
}

// RelatedKeywords returns up to 10 autocomplete suggestions for a keyword.
// This is supplementary data: failures degrade to an empty list.
func (sc *SearchClient) RelatedKeywords(keyword string) []string {
	params := url.Values{}
	params.Set("q", keyword)
	params.Set("q_enc", "UTF-8")
	params.Set("st", "100")
	params.Set("r_format", "json")
	params.Set("r_enc", "UTF-8")
	params.Set("ans", "2")

	req, err := http.NewRequest(http.MethodGet, "https://ac.search.naver.com/nx/ac", nil)
	if err != nil {
		return nil
	}
	req.URL.RawQuery = params.Encode()

	resp, err := sc.client.Do(req)
	if err != nil {
		log.Printf("연관 검색어 조회 실패: %v", err)
		return nil
	}
	defer resp.Body.Close()

	// items is a nested array: items[0] holds [keyword, ...] pairs.
	var parsed struct {
		Items [][][]string `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("연관 검색어 파싱 실패: %v", err)
		return nil
	}
	if len(parsed.Items) == 0 {
		return nil
	}

	keywords := make([]string, 0, 10)
	for _, entry := range parsed.Items[0] {
		if len(entry) == 0 {
			continue
		}
		keywords = append(keywords, entry[0])
		if len(keywords) >= 10 {
			break
		}
	}
	return keywords
}

// stripHTML removes markup from an API field, returning its visible text.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
