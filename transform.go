package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

// Transformer is the text-transform surface the pipeline consumes.
type Transformer interface {
	Summarize(text string, targetLength int) (string, error)
	Restructure(text string) (string, error)
	ExtractKeywords(text string) []string
	Translate(text, targetLang string) (string, error)
}

const summarizePromptFormat = `다음 내용을 %d자 내외로 요약해주세요.
요약시 다음 규칙을 따라주세요:
1. 핵심 내용을 먼저 서술
2. 중요한 수치나 통계는 유지
3. 전문 용어는 가능한 쉽게 설명
4. 문장은 간결하게 구성`

const restructurePrompt = `다음 내용을 새롭게 재구성해주세요.
재구성시 다음 규칙을 따라주세요:
1. 논리적 구조화
2. 객관적 사실 중심
3. 핵심 메시지를 강조
4. 전문 용어는 쉽게 설명
5. 단락을 적절히 나누어 가독성 향상`

const keywordPrompt = `다음 내용에서 주요 키워드를 추출하여 해시태그 형식으로 반환해주세요. (최대 10개)`

// maxKeywords caps the hashtag list the keyword task returns.
const maxKeywords = 10

var translateLanguageNames = map[string]string{
	"en":    "영어",
	"ja":    "일본어",
	"zh-CN": "중국어(간체)",
	"zh-TW": "중국어(번체)",
	"ko":    "한국어",
}

// translationPrompt builds the system instruction for a target language,
// with the script rule Chinese targets need.
func translationPrompt(targetLang string) string {
	name, ok := translateLanguageNames[targetLang]
	if !ok {
		name = targetLang
	}

	prompt := fmt.Sprintf(`다음 내용을 %s로 번역해주세요.
번역시 다음 규칙을 따라주세요:
1. 자연스러운 표현 사용
2. 전문 용어는 정확하게 번역
3. 문맥을 고려한 번역
4. 원문의 뉘앙스 유지`, name)

	switch targetLang {
	case "zh-TW":
		prompt += "\n5. 번체자를 사용해주세요."
	case "zh-CN":
		prompt += "\n5. 간체자를 사용해주세요."
	}
	return prompt
}

// TransformClient sends task-specific instructions to the text-generation
// backend. Each task is one request: instruction plus input text in, generated
// text out.
type TransformClient struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

// NewTransformClient validates the key and builds a client with the
// configured model settings.
func NewTransformClient(apiKey string, settings *Settings) (*TransformClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("text-generation API key required: set ANTHROPIC_API_KEY")
	}
	return &TransformClient{
		apiKey:      apiKey,
		model:       settings.Model,
		maxTokens:   settings.MaxTokens,
		temperature: settings.Temperature,
	}, nil
}

func (tc *TransformClient) prompt(systemPrompt, userText string, temperature float64) (string, error) {
	settings := types.RequestSettings{
		Model:       tc.model,
		MaxTokens:   tc.maxTokens,
		Temperature: temperature,
	}

	response, err := anthropic.PromptWithSettings(systemPrompt, userText, "", tc.apiKey, settings)
	if err != nil {
		return "", fmt.Errorf("text-generation request: %w", err)
	}
	if len(response.Content) == 0 {
		return "", fmt.Errorf("no content in text-generation response")
	}
	return strings.TrimSpace(response.Content[0].Text), nil
}

// Summarize condenses text to roughly targetLength characters.
func (tc *TransformClient) Summarize(text string, targetLength int) (string, error) {
	summary, err := tc.prompt(fmt.Sprintf(summarizePromptFormat, targetLength), text, tc.temperature)
	if err != nil {
		return "", fmt.Errorf("요약 실패: %w", err)
	}
	return summary, nil
}

// Restructure rewrites text into a logically organized form.
func (tc *TransformClient) Restructure(text string) (string, error) {
	restructured, err := tc.prompt(restructurePrompt, text, tc.temperature)
	if err != nil {
		return "", fmt.Errorf("재구성 실패: %w", err)
	}
	return restructured, nil
}

// ExtractKeywords returns up to maxKeywords hashtag tokens for text. Keywords
// are supplementary, so failure degrades to an empty list instead of an error.
func (tc *TransformClient) ExtractKeywords(text string) []string {
	response, err := tc.prompt(keywordPrompt, text, 0.5)
	if err != nil {
		log.Printf("키워드 추출 실패: %v", err)
		return nil
	}
	return parseHashtags(response)
}

// Translate renders text in the target language.
func (tc *TransformClient) Translate(text, targetLang string) (string, error) {
	translated, err := tc.prompt(translationPrompt(targetLang), text, 0.3)
	if err != nil {
		return "", fmt.Errorf("번역 실패 (%s): %w", targetLang, err)
	}
	return translated, nil
}

// parseHashtags keeps the hashtag-prefixed tokens of a generated response,
// capped at maxKeywords.
func parseHashtags(text string) []string {
	var keywords []string
	for _, token := range strings.Fields(text) {
		if !strings.HasPrefix(token, "#") || len(token) == 1 {
			continue
		}
		keywords = append(keywords, token)
		if len(keywords) >= maxKeywords {
			break
		}
	}
	return keywords
}
