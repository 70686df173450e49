// Package template loads message templates and personalizes them per contact.
//
// Templates are plain text with $name or ${name} placeholders. Files are read
// as ISO-8859-1 and may live on the local disk or behind any Opener, such as
// the S3-backed storage.Files. Unknown placeholders are left in the output
// unchanged:
//
//	tmpl, ok := template.Load(ctx, log, files, "welcome.html")
//	if !ok {
//		return ErrTemplateNotLoaded
//	}
//	body := template.Personalize(tmpl, map[string]string{"name": "Ada"})
//
// Templates with a .md extension may carry YAML frontmatter and are converted
// to HTML with goldmark after personalization. The converter understands a
// call-to-action shorthand:
//
//	[!button|Confirm](https://example.com/confirm)
package template
