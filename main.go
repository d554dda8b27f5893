package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	newsCount    int
	blogCount    int
	processMode  string
	savePlatform string
	translateTo  string
	showRelated  bool
	processCount int
	vaultPath    string
	settingsPath string
	apiKey       string
	debugMode    bool
)

var rootCmd = &cobra.Command{
	Use:   "smart-keyword <키워드>",
	Short: "네이버 키워드 콘텐츠 수집 및 가공 도구",
	Long: `키워드로 네이버 뉴스와 블로그를 검색하고, 본문을 추출해
AI로 요약하거나 재구성한 뒤 Obsidian 볼트와 Notion에 저장합니다.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := run(args[0]); err != nil {
			log.Fatalf("✗ %v", err)
		}
	},
}

func init() {
	rootCmd.Flags().IntVar(&newsCount, "news-count", 10, "수집할 뉴스 기사 수")
	rootCmd.Flags().IntVar(&blogCount, "blog-count", 10, "수집할 블로그 글 수")
	rootCmd.Flags().StringVar(&processMode, "mode", "요약", "가공 방식 (요약 | 재구성)")
	rootCmd.Flags().StringVar(&savePlatform, "save", "", "저장 대상, 쉼표 구분 (obsidian,notion)")
	rootCmd.Flags().StringVar(&translateTo, "translate", "", "가공 결과 번역 언어 (en, ja, zh-CN, zh-TW, ko)")
	rootCmd.Flags().BoolVar(&showRelated, "related", false, "연관 검색어 출력")
	rootCmd.Flags().IntVar(&processCount, "process", 0, "AI로 가공할 상위 결과 수")
	rootCmd.Flags().StringVar(&vaultPath, "vault", "", "Obsidian 볼트 경로")
	rootCmd.Flags().StringVar(&settingsPath, "settings", "settings.yaml", "설정 파일 경로")
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "Anthropic API 키")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "디버그 로그 출력")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(keyword string) error {
	if debugMode {
		SetDebugMode(true)
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	if apiKey != "" {
		cfg.AnthropicAPIKey = apiKey
	}
	if vaultPath != "" {
		cfg.VaultPath = vaultPath
	}

	settings, err := LoadSettings(settingsPath)
	if err != nil {
		return err
	}
	debugLog("설정 로드 완료: model=%s workers=%d", settings.Model, settings.FetchWorkers)

	mode, err := parseMode(processMode)
	if err != nil {
		return err
	}

	platforms, err := parsePlatforms(savePlatform)
	if err != nil {
		return err
	}

	limiter := NewRateLimiter()
	search := NewSearchClient(cfg, settings, limiter)
	extractor := NewPageExtractor(limiter)

	var transformer Transformer
	if processCount > 0 {
		tc, err := NewTransformClient(cfg.AnthropicAPIKey, settings)
		if err != nil {
			return err
		}
		transformer = tc
	}

	pipeline := NewContentPipeline(search, extractor, transformer, settings)

	log.Printf("→ '%s' 검색 중 (뉴스 %d건, 블로그 %d건)", keyword, newsCount, blogCount)
	news, blogs, err := pipeline.CollectContents(keyword, newsCount, blogCount)
	if err != nil {
		return err
	}
	log.Printf("✓ 검색 완료: 뉴스 %d건, 블로그 %d건", len(news), len(blogs))

	printResults("뉴스", news)
	printResults("블로그", blogs)

	if showRelated {
		printRelated(search, keyword)
	}

	if processCount == 0 {
		return nil
	}

	targets := selectTargets(news, blogs, processCount)
	log.Printf("→ 상위 %d건 본문 추출 중", len(targets))

	urls := make([]string, len(targets))
	for i, t := range targets {
		urls[i] = t.Link
	}
	bodies := pipeline.FetchBodies(urls)
	for i, body := range bodies {
		if body != ContentNotFound && body != UnsupportedURL {
			targets[i].Description = body
		}
	}

	var vault *VaultWriter
	var notion *NotionClient
	for _, platform := range platforms {
		switch platform {
		case "obsidian":
			vault = NewVaultWriter(cfg.VaultPath)
		case "notion":
			if cfg.NotionToken == "" || cfg.NotionDatabaseID == "" {
				return fmt.Errorf("Notion 저장에는 NOTION_TOKEN과 NOTION_DATABASE_ID가 필요합니다")
			}
			notion = NewNotionClient(cfg.NotionToken, cfg.NotionDatabaseID)
		}
	}

	for i, target := range targets {
		log.Printf("→ [%d/%d] 가공 중: %s", i+1, len(targets), target.Title)

		processed, err := pipeline.Process(target, mode)
		if err != nil {
			log.Printf("✗ 가공 실패: %v", err)
			continue
		}
		log.Printf("✓ 가공 완료: %s", processed.Title)

		if translateTo != "" {
			processed = translateContent(transformer, processed, translateTo)
		}

		for _, saved := range saveContent(processed, vault, notion) {
			if saved.Error != nil {
				log.Printf("✗ %s 저장 실패: %v", saved.Platform, saved.Error)
				continue
			}
			switch saved.Platform {
			case "obsidian":
				log.Printf("✓ Obsidian 저장 완료: %s", saved.Path)
			case "notion":
				log.Printf("✓ Notion 저장 완료: %s", saved.PageID)
			}
		}
	}

	return nil
}

func parseMode(mode string) (ProcessMode, error) {
	switch mode {
	case "요약":
		return ModeSummary, nil
	case "재구성":
		return ModeRestructured, nil
	default:
		return "", fmt.Errorf("알 수 없는 가공 방식: %q (요약 | 재구성)", mode)
	}
}

func parsePlatforms(list string) ([]string, error) {
	if list == "" {
		return nil, nil
	}

	var platforms []string
	for _, p := range strings.Split(list, ",") {
		p = strings.TrimSpace(p)
		switch p {
		case "obsidian", "notion":
			platforms = append(platforms, p)
		case "":
		default:
			return nil, fmt.Errorf("알 수 없는 저장 대상: %q (obsidian | notion)", p)
		}
	}
	return platforms, nil
}

// selectTargets takes the top results, news first, up to count.
func selectTargets(news, blogs []SearchResult, count int) []SearchResult {
	combined := append(append([]SearchResult{}, news...), blogs...)
	if len(combined) > count {
		combined = combined[:count]
	}
	return combined
}

func printResults(label string, results []SearchResult) {
	fmt.Printf("\n=== %s (%d건) ===\n", label, len(results))
	for i, r := range results {
		fmt.Printf("%d. %s\n", i+1, r.Title)
		if len(r.Tags) > 0 {
			fmt.Printf("   %s\n", strings.Join(r.Tags, " "))
		}
		if r.BloggerName != "" {
			fmt.Printf("   작성자: %s\n", r.BloggerName)
		}
		fmt.Printf("   %s\n", r.Link)
	}
}

func printRelated(search *SearchClient, keyword string) {
	related := search.RelatedKeywords(keyword)
	if len(related) == 0 {
		fmt.Println("\n연관 검색어 없음")
		return
	}
	fmt.Printf("\n=== 연관 검색어 ===\n%s\n", strings.Join(related, ", "))
}

// translateContent returns a copy of the record with its text fields
// translated. The input is shared with the pipeline cache and stays Korean;
// a failed translation keeps the original text for that field.
func translateContent(tr Transformer, content *ProcessedContent, lang string) *ProcessedContent {
	translated := *content

	translateField := func(field *string) {
		if *field == "" {
			return
		}
		text, err := tr.Translate(*field, lang)
		if err != nil {
			log.Printf("✗ 번역 실패 (%s): %v", lang, err)
			return
		}
		*field = text
	}

	translateField(&translated.LongVersion)
	translateField(&translated.ShortVersion)
	translateField(&translated.Content)

	return &translated
}

// saveContent writes the record to every configured platform and reports
// per-platform outcomes.
func saveContent(content *ProcessedContent, vault *VaultWriter, notion *NotionClient) []SaveResult {
	var results []SaveResult

	if vault != nil {
		path, err := vault.Save(content)
		results = append(results, SaveResult{Platform: "obsidian", Path: path, Error: err})
	}
	if notion != nil {
		pageID, err := notion.SavePage(content)
		results = append(results, SaveResult{Platform: "notion", PageID: pageID, Error: err})
	}
	return results
}
