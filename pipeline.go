package main

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// cacheKeyPrefixLen is how many characters of the input text feed the cache
// key. Two distinct inputs sharing their first 100 characters under the same
// mode collide by design; the approximation trades exactness for short keys.
const cacheKeyPrefixLen = 100

// Character targets for the two summary versions.
const (
	longSummaryLength  = 1000
	shortSummaryLength = 450
)

// bodyExtractor is the extraction surface the pipeline consumes.
type bodyExtractor interface {
	Extract(pageURL string) string
}

// ContentPipeline composes search, extraction and text transformation into
// ProcessedContent records. The cache and rate limiter are owned by the
// pipeline instance, not by the process; discarding the pipeline discards
// their state.
type ContentPipeline struct {
	search      *SearchClient
	extractor   bodyExtractor
	transformer Transformer
	cache       *ResultCache
	cacheTTL    time.Duration
	workers     int

	now func() time.Time
}

// NewContentPipeline wires the pipeline from its collaborators.
func NewContentPipeline(search *SearchClient, extractor *PageExtractor, transformer Transformer, settings *Settings) *ContentPipeline {
	return &ContentPipeline{
		search:      search,
		extractor:   extractor,
		transformer: transformer,
		cache:       NewResultCache(),
		cacheTTL:    settings.CacheTTL(),
		workers:     settings.FetchWorkers,
		now:         time.Now,
	}
}

// cacheKey builds the composite-result key: mode plus a fixed-length prefix
// of the input text.
func cacheKey(mode ProcessMode, text string) string {
	runes := []rune(text)
	if len(runes) > cacheKeyPrefixLen {
		runes = runes[:cacheKeyPrefixLen]
	}
	return string(mode) + ":" + string(runes)
}

// Process transforms one search result. Cache hits return the stored record;
// on a miss the primary transform and keyword extraction run as two
// concurrent operations, joined before assembly. A primary-transform failure
// discards all work for the invocation.
func (p *ContentPipeline) Process(result SearchResult, mode ProcessMode) (*ProcessedContent, error) {
	if result.Description == "" {
		return nil, fmt.Errorf("유효하지 않은 콘텐츠 형식입니다")
	}

	key := cacheKey(mode, result.Description)
	if cached, ok := p.cache.Get(key); ok {
		log.Printf("✓ 캐시 히트: %s", result.Title)
		return cached.(*ProcessedContent), nil
	}

	var (
		wg           sync.WaitGroup
		longVersion  string
		shortVersion string
		content      string
		primaryErr   error
		keywords     []string
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		switch mode {
		case ModeSummary:
			longVersion, primaryErr = p.transformer.Summarize(result.Description, longSummaryLength)
			if primaryErr != nil {
				return
			}
			shortVersion, primaryErr = p.transformer.Summarize(result.Description, shortSummaryLength)
		case ModeRestructured:
			content, primaryErr = p.transformer.Restructure(result.Description)
		default:
			primaryErr = fmt.Errorf("unknown process mode: %q", mode)
		}
	}()
	go func() {
		defer wg.Done()
		keywords = p.transformer.ExtractKeywords(result.Description)
	}()
	wg.Wait()

	if primaryErr != nil {
		log.Printf("✗ 콘텐츠 처리 중 오류 발생: %v", primaryErr)
		return nil, fmt.Errorf("콘텐츠 처리 실패: %w", primaryErr)
	}

	processed := &ProcessedContent{
		Mode:         mode,
		Title:        result.Title,
		OriginalLink: result.Link,
		LongVersion:  longVersion,
		ShortVersion: shortVersion,
		Content:      content,
		Keywords:     keywords,
		CreatedAt:    p.now(),
	}

	p.cache.Put(key, processed, p.cacheTTL)
	return processed, nil
}

// CollectContents fans the news and blog searches out concurrently and joins
// both result sets.
func (p *ContentPipeline) CollectContents(keyword string, newsCount, blogCount int) (news, blogs []SearchResult, err error) {
	var (
		wg                sync.WaitGroup
		newsErr, blogsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		news, newsErr = p.search.SearchNews(keyword, newsCount)
	}()
	go func() {
		defer wg.Done()
		blogs, blogsErr = p.search.SearchBlogs(keyword, blogCount)
	}()
	wg.Wait()

	if newsErr != nil {
		return nil, nil, newsErr
	}
	if blogsErr != nil {
		return nil, nil, blogsErr
	}
	return news, blogs, nil
}

// FetchBodies extracts page bodies for a batch of URLs through a bounded
// worker pool, preserving input order. Extraction failures surface as
// sentinel strings in place, never as errors.
func (p *ContentPipeline) FetchBodies(urls []string) []string {
	bodies := make([]string, len(urls))
	sem := make(chan struct{}, p.workers)

	var wg sync.WaitGroup
	for i, pageURL := range urls {
		wg.Add(1)
		go func(i int, pageURL string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			bodies[i] = p.extractor.Extract(pageURL)
		}(i, pageURL)
	}
	wg.Wait()

	return bodies
}
