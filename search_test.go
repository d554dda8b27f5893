package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func newTestSearchClient(serverURL string) *SearchClient {
	limiter := NewRateLimiter()
	limiter.sleep = func(time.Duration) {}
	return &SearchClient{
		client:       &http.Client{},
		limiter:      limiter,
		apiURL:       serverURL,
		clientID:     "test-id",
		clientSecret: "test-secret",
		retryMax:     3,
		retryBase:    time.Millisecond,
	}
}

func TestSearchNewsFiltersAndStrips(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Naver-Client-Id"); got != "test-id" {
			t.Errorf("X-Naver-Client-Id = %q, want test-id", got)
		}
		if got := r.URL.Query().Get("display"); got != "10" {
			t.Errorf("display = %q, want 10 (count*2)", got)
		}
		if got := r.URL.Query().Get("sort"); got != "date" {
			t.Errorf("sort = %q, want date", got)
		}
		fmt.Fprint(w, `{
			"total": 3,
			"items": [
				{"title": "<b>AI</b> 기술 발전", "link": "https://news.naver.com/1", "description": "최신 <b>AI</b> 소식", "pubDate": "Mon, 02 Jan 2006 15:04:05 +0900"},
				{"title": "[속보] AI 규제 발표!", "link": "https://news.naver.com/2", "description": "긴급 속보", "pubDate": "Mon, 02 Jan 2006 16:04:05 +0900"},
				{"title": "오늘의 날씨", "link": "https://news.naver.com/3", "description": "전국 맑음", "pubDate": "Mon, 02 Jan 2006 17:04:05 +0900"}
			]
		}`)
	}))
	defer server.Close()

	sc := newTestSearchClient(server.URL)
	results, err := sc.SearchNews("AI", 5)
	if err != nil {
		t.Fatalf("SearchNews() error = %v", err)
	}

	// The weather item does not mention the keyword and is filtered out.
	if len(results) != 2 {
		t.Fatalf("SearchNews() returned %d items, want 2", len(results))
	}

	if results[0].Title != "AI 기술 발전" {
		t.Errorf("Title = %q, want HTML-stripped %q", results[0].Title, "AI 기술 발전")
	}
	if results[0].Description != "최신 AI 소식" {
		t.Errorf("Description = %q, want HTML-stripped %q", results[0].Description, "최신 AI 소식")
	}
	if results[0].PublishDate.IsZero() {
		t.Error("PublishDate not parsed")
	}
	if len(results[0].Tags) != 0 {
		t.Errorf("plain item Tags = %v, want none", results[0].Tags)
	}

	// The breaking item clears the notability threshold.
	if len(results[1].Tags) != 2 || results[1].Tags[0] != "#핫토픽" {
		t.Errorf("notable item Tags = %v, want [#핫토픽 #핫이슈]", results[1].Tags)
	}
}

func TestSearchNewsTruncatesToCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total": 4, "items": [
			{"title": "AI 1", "link": "l1", "description": "d"},
			{"title": "AI 2", "link": "l2", "description": "d"},
			{"title": "AI 3", "link": "l3", "description": "d"},
			{"title": "AI 4", "link": "l4", "description": "d"}
		]}`)
	}))
	defer server.Close()

	sc := newTestSearchClient(server.URL)
	results, err := sc.SearchNews("AI", 2)
	if err != nil {
		t.Fatalf("SearchNews() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("SearchNews() returned %d items, want truncation to 2", len(results))
	}
}

func TestSearchCredentialErrorNoRetry(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"errorCode": "024", "errorMessage": "Authentication failed"}`)
	}))
	defer server.Close()

	sc := newTestSearchClient(server.URL)
	_, err := sc.SearchNews("AI", 5)

	var ce *ClientError
	if !errors.As(err, &ce) || ce.Kind != ErrCredential {
		t.Fatalf("SearchNews() error = %v, want credential ClientError", err)
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1 (zero retries)", hits)
	}
}

func TestSearchCredentialErrorCode025(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errorCode": "025", "errorMessage": "invalid secret"}`)
	}))
	defer server.Close()

	sc := newTestSearchClient(server.URL)
	_, err := sc.SearchBlogs("AI", 5)

	var ce *ClientError
	if !errors.As(err, &ce) || ce.Kind != ErrCredential {
		t.Fatalf("SearchBlogs() error = %v, want credential ClientError", err)
	}
}

func TestSearchMalformedResponseNoRetry(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `<html>not json</html>`)
	}))
	defer server.Close()

	sc := newTestSearchClient(server.URL)
	_, err := sc.SearchNews("AI", 5)

	var ce *ClientError
	if !errors.As(err, &ce) || ce.Kind != ErrMalformed {
		t.Fatalf("SearchNews() error = %v, want malformed ClientError", err)
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
}

func TestSearchConnectivityErrorRetried(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, `{}`)
			return
		}
		fmt.Fprint(w, `{"total": 1, "items": [{"title": "AI 뉴스", "link": "l", "description": "d"}]}`)
	}))
	defer server.Close()

	sc := newTestSearchClient(server.URL)
	stubRetrySleep(t)

	results, err := sc.SearchNews("AI", 5)
	if err != nil {
		t.Fatalf("SearchNews() error = %v after retries", err)
	}
	if hits != 3 {
		t.Errorf("server hit %d times, want 3", hits)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestSearchBlogsCarriesBloggerName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("sort"); got != "sim" {
			t.Errorf("sort = %q, want sim", got)
		}
		fmt.Fprint(w, `{"total": 1, "items": [
			{"title": "맛집 <b>리뷰</b>", "link": "https://blog.naver.com/p/1", "description": "후기", "bloggername": "여행러"}
		]}`)
	}))
	defer server.Close()

	sc := newTestSearchClient(server.URL)
	results, err := sc.SearchBlogs("맛집", 5)
	if err != nil {
		t.Fatalf("SearchBlogs() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Title != "맛집 리뷰" {
		t.Errorf("Title = %q, want stripped %q", results[0].Title, "맛집 리뷰")
	}
	if results[0].BloggerName != "여행러" {
		t.Errorf("BloggerName = %q, want 여행러", results[0].BloggerName)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bold tags", "<b>AI</b> 뉴스", "AI 뉴스"},
		{"entities", "&quot;인용&quot; 발언", `"인용" 발언`},
		{"plain text untouched", "그대로 유지", "그대로 유지"},
		{"nested markup", "<a href=\"x\"><em>링크</em></a> 텍스트", "링크 텍스트"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripHTML(tt.input); got != tt.want {
				t.Errorf("stripHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMakeRequestAppliesRateLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total": 0, "items": []}`)
	}))
	defer server.Close()

	sc := newTestSearchClient(server.URL)

	if _, err := sc.makeRequest("/v1/search/news.json", url.Values{}); err != nil {
		t.Fatalf("makeRequest() error = %v", err)
	}
	if _, err := sc.makeRequest("/v1/search/news.json", url.Values{}); err != nil {
		t.Fatalf("makeRequest() error = %v", err)
	}

	if got := sc.limiter.CallCount("/v1/search/news.json"); got != 2 {
		t.Errorf("limiter CallCount = %d, want 2", got)
	}
}
