package template

import "errors"

var (
	ErrInvalidFrontmatter = errors.New("template: invalid frontmatter")
	ErrLoad               = errors.New("template: failed to load")
	ErrRender             = errors.New("template: failed to render markdown")
)
