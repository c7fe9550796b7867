package http

import (
	"html"

	str "resolveit/internal/platform/strings"
	"resolveit/internal/services/api/reports/domain"

	"github.com/microcosm-cc/bluemonday"
)

// strict drops every tag; a Policy is safe for concurrent use once built
var strict = bluemonday.StrictPolicy()

func clean(s string) string {
	return str.Squash(html.UnescapeString(strict.Sanitize(s)))
}

// sanitize strips markup from the free text a citizen typed
func sanitize(in domain.SubmitInput) domain.SubmitInput {
	in.Title = clean(in.Title)
	in.Description = clean(in.Description)
	in.Location = clean(in.Location)
	in.ReporterName = clean(in.ReporterName)
	return in
}
