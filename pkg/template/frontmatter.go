package template

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// Document is a template file split into YAML frontmatter and body.
type Document struct {
	Metadata map[string]any
	Body     string
}

// Subject returns the "Subject" (or "subject") frontmatter value, if any.
func (d *Document) Subject() string {
	for _, key := range []string{"Subject", "subject"} {
		if s, ok := d.Metadata[key].(string); ok {
			return s
		}
	}
	return ""
}

// ParseDocument extracts optional frontmatter from content. Frontmatter must
// open on the first line with "---" and close with a line containing only "---".
// Content without an opening delimiter is returned whole as the body.
func ParseDocument(content string) (*Document, error) {
	first, rest, found := cutLine(content)
	if strings.TrimRight(first, "\r") != frontmatterDelimiter {
		return &Document{Metadata: map[string]any{}, Body: content}, nil
	}
	if !found {
		return nil, fmt.Errorf("%w: no content after opening delimiter", ErrInvalidFrontmatter)
	}

	var yamlLines []string
	for {
		line, next, more := cutLine(rest)
		if strings.TrimRight(line, "\r") == frontmatterDelimiter {
			rest = next
			break
		}
		if !more {
			return nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
		}
		yamlLines = append(yamlLines, strings.TrimRight(line, "\r"))
		rest = next
	}

	metadata := map[string]any{}
	if raw := strings.Join(yamlLines, "\n"); strings.TrimSpace(raw) != "" {
		if err := yaml.Unmarshal([]byte(raw), &metadata); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}

	return &Document{Metadata: metadata, Body: rest}, nil
}

// cutLine splits s at the first newline. found reports whether one existed.
func cutLine(s string) (line, rest string, found bool) {
	return strings.Cut(s, "\n")
}
