package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

// vaultDocumentTemplate renders a ProcessedContent record as the markdown
// body of a vault note. Frontmatter is prepended separately.
const vaultDocumentTemplate = `# {{.Title}}

## 원문 링크
{{.OriginalLink}}

{{if .IsSummary}}## 요약본 (1000자)
{{.LongVersion}}

## 요약본 (450자)
{{.ShortVersion}}
{{else}}## 내용
{{.Content}}
{{end}}
## 키워드
{{.KeywordLine}}
`

// vaultFrontmatter is the YAML header of a vault note.
type vaultFrontmatter struct {
	Title  string   `yaml:"title"`
	Source string   `yaml:"source"`
	Date   string   `yaml:"date"`
	Tags   []string `yaml:"tags,flow"`
}

// VaultWriter persists processed records into the note-taking vault
// directory.
type VaultWriter struct {
	dir string

	now func() time.Time
}

// NewVaultWriter creates a writer for the given vault directory.
func NewVaultWriter(dir string) *VaultWriter {
	return &VaultWriter{dir: dir, now: time.Now}
}

// Save formats the record as a markdown document with YAML frontmatter and
// writes it into the vault, returning the file path.
func (vw *VaultWriter) Save(content *ProcessedContent) (string, error) {
	if err := os.MkdirAll(vw.dir, 0755); err != nil {
		return "", fmt.Errorf("creating vault directory: %w", err)
	}

	document, err := vw.render(content)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s_%s.md", vw.now().Format("20060102_150405"), sanitizeFilename(content.Title))
	path := filepath.Join(vw.dir, filename)

	if err := os.WriteFile(path, []byte(document), 0644); err != nil {
		return "", fmt.Errorf("writing vault file: %w", err)
	}
	return path, nil
}

func (vw *VaultWriter) render(content *ProcessedContent) (string, error) {
	frontmatter, err := yaml.Marshal(vaultFrontmatter{
		Title:  content.Title,
		Source: content.OriginalLink,
		Date:   vw.now().Format("2006-01-02 15:04:05"),
		Tags:   content.Keywords,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling frontmatter: %w", err)
	}

	tmpl, err := template.New("vault").Parse(vaultDocumentTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing vault template: %w", err)
	}

	view := struct {
		Title        string
		OriginalLink string
		IsSummary    bool
		LongVersion  string
		ShortVersion string
		Content      string
		KeywordLine  string
	}{
		Title:        content.Title,
		OriginalLink: content.OriginalLink,
		IsSummary:    content.Mode == ModeSummary,
		LongVersion:  content.LongVersion,
		ShortVersion: content.ShortVersion,
		Content:      content.Content,
		KeywordLine:  strings.Join(content.Keywords, " "),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("executing vault template: %w", err)
	}

	return "---\n" + string(frontmatter) + "---\n\n" + buf.String(), nil
}

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// sanitizeFilename makes a title safe as a filename on every platform:
// forbidden characters removed, spaces to underscores, capped at 50
// characters.
func sanitizeFilename(name string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, " ", "_")

	runes := []rune(name)
	if len(runes) > 50 {
		runes = runes[:50]
	}
	return string(runes)
}
