package normalize

import (
	"regexp"

	"charm.land/jsonfix/repair"
)

// maxFilterPasses bounds the reapply-until-stable loop of the filters.
const maxFilterPasses = 8

type placeholderRule struct {
	re   *regexp.Regexp
	repl string
}

var ellipsisRules = []placeholderRule{
	{regexp.MustCompile(`\[\s*\.\.\.\s*\]`), `[]`},
	{regexp.MustCompile(`,\s*\.\.\.\s*\]`), `]`},
	{regexp.MustCompile(`\[\s*\.\.\.\s*,\s*`), `[`},
	{regexp.MustCompile(`,\s*\.\.\.\s*,`), `,`},
	{regexp.MustCompile(`\.\.\.\s*([\]}])`), `$1`},
}

// debugKeywords are bare tokens models leave behind in place of content.
const debugKeywords = `(?:COMMENT|DEBUG|PLACEHOLDER|TODO|FIXME|TBD|XXX|HACK)`

var keywordRules = []placeholderRule{
	// object start, also the sole member of an object
	{regexp.MustCompile(`\{\s*` + debugKeywords + `\s*(?:,\s*|(\}))`), `{$1`},
	// between pairs
	{regexp.MustCompile(`,\s*` + debugKeywords + `\s*,`), `,`},
	// array start
	{regexp.MustCompile(`\[\s*` + debugKeywords + `\s*,\s*`), `[`},
	// sole array value
	{regexp.MustCompile(`\[\s*` + debugKeywords + `\s*\]`), `[]`},
	{regexp.MustCompile(`,\s*` + debugKeywords + `\s*\]`), `]`},
	{regexp.MustCompile(`,\s*` + debugKeywords + `\s*\}`), `}`},
}

// filterPlaceholders removes unquoted placeholder tokens, applying rules
// until the text stops changing.
func filterPlaceholders(text string, rules []placeholderRule, action repair.Action, log *repair.Log) string {
	for range maxFilterPasses {
		changed := false
		for _, rule := range rules {
			var n int
			text, n = replaceOutside(text, rule.re, rule.repl)
			if n > 0 {
				log.AddCount(action, n, rule.re.String())
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return text
}

func filterEllipses(text string, log *repair.Log) string {
	return filterPlaceholders(text, ellipsisRules, repair.RemovedEllipsis, log)
}

func filterKeywords(text string, log *repair.Log) string {
	return filterPlaceholders(text, keywordRules, repair.RemovedKeyword, log)
}
