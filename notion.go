package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const notionAPIVersion = "2022-06-28"

// NotionClient writes processed records as pages into a Notion database.
type NotionClient struct {
	client     *http.Client
	token      string
	databaseID string
	baseURL    string
}

// NewNotionClient creates a client for the given integration token and
// target database.
func NewNotionClient(token, databaseID string) *NotionClient {
	return &NotionClient{
		client:     &http.Client{Timeout: 10 * time.Second},
		token:      token,
		databaseID: databaseID,
		baseURL:    "https://api.notion.com",
	}
}

type notionText struct {
	Content string `json:"content"`
}

type notionRichText struct {
	Text notionText `json:"text"`
}

type notionPageRequest struct {
	Parent     map[string]string      `json:"parent"`
	Properties map[string]interface{} `json:"properties"`
	Children   []map[string]interface{} `json:"children"`
}

type notionPageResponse struct {
	ID string `json:"id"`
}

type notionErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SavePage creates a database page carrying the record's title, source link,
// tags and creation date, with the full body as a paragraph block. Returns
// the new page ID.
func (nc *NotionClient) SavePage(content *ProcessedContent) (string, error) {
	payload := notionPageRequest{
		Parent: map[string]string{"database_id": nc.databaseID},
		Properties: map[string]interface{}{
			"제목": map[string]interface{}{
				"title": []notionRichText{{Text: notionText{Content: content.Title}}},
			},
			"출처": map[string]interface{}{
				"url": content.OriginalLink,
			},
			"태그": map[string]interface{}{
				"multi_select": tagOptions(content.Keywords),
			},
			"작성일": map[string]interface{}{
				"date": map[string]string{"start": content.CreatedAt.Format(time.RFC3339)},
			},
		},
		Children: []map[string]interface{}{
			{
				"object": "block",
				"type":   "paragraph",
				"paragraph": map[string]interface{}{
					"rich_text": []notionRichText{{Text: notionText{Content: content.Body()}}},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding page request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, nc.baseURL+"/v1/pages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building page request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+nc.token)
	req.Header.Set("Notion-Version", notionAPIVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := nc.client.Do(req)
	if err != nil {
		return "", &ClientError{Kind: ErrConnectivity, Message: "Notion 연결 실패", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ClientError{Kind: ErrConnectivity, Message: "Notion 응답 읽기 실패", Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return "", &ClientError{
			Kind:    ErrCredential,
			Message: "Notion 토큰 오류",
			Err:     fmt.Errorf("status %d: %s", resp.StatusCode, notionErrorDetail(respBody)),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ClientError{
			Kind:    ErrConnectivity,
			Message: "Notion 페이지 생성 실패",
			Err:     fmt.Errorf("status %d: %s", resp.StatusCode, notionErrorDetail(respBody)),
		}
	}

	var page notionPageResponse
	if err := json.Unmarshal(respBody, &page); err != nil || page.ID == "" {
		return "", &ClientError{Kind: ErrMalformed, Message: "잘못된 Notion 응답 형식", Err: err}
	}
	return page.ID, nil
}

// tagOptions maps keywords to multi_select options, dropping the hash
// prefix Notion does not want in option names.
func tagOptions(keywords []string) []map[string]string {
	options := make([]map[string]string, 0, len(keywords))
	for _, kw := range keywords {
		name := strings.TrimPrefix(kw, "#")
		if name == "" {
			continue
		}
		options = append(options, map[string]string{"name": name})
	}
	return options
}

func notionErrorDetail(body []byte) string {
	var e notionErrorResponse
	if json.Unmarshal(body, &e) == nil && e.Message != "" {
		return e.Message
	}
	return string(body)
}
