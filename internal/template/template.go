package template

import (
	"regexp"
	"strings"

	"github.com/promptnest/promptnest/internal/models"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Compile substitutes {{key}} placeholders in text. For each key the value is
// resolved as: explicit entry in values, then the variable's default, then the
// placeholder is left as {{key}} unresolved. That double-brace fallback is the
// one convention used everywhere (copy, export, test runs). All occurrences of
// a key are replaced; unknown keys never raise an error.
//
// Keys are matched literally, so keys containing regexp metacharacters are
// safe: the replacement walks the placeholder matches rather than building a
// pattern per key.
func Compile(text string, vars []models.PromptVariable, values map[string]string) string {
	if text == "" {
		return text
	}

	defaults := make(map[string]string, len(vars))
	for _, v := range vars {
		defaults[v.Key] = v.DefaultValue
	}

	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		key := match[2 : len(match)-2]
		if val, ok := values[key]; ok && val != "" {
			return val
		}
		if def, ok := defaults[key]; ok && def != "" {
			return def
		}
		return match
	})
}

// Extract returns the unique placeholder keys in text, in order of first
// appearance.
func Extract(text string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool)
	var keys []string
	for _, m := range matches {
		if len(m) > 1 && !seen[m[1]] {
			keys = append(keys, m[1])
			seen[m[1]] = true
		}
	}
	return keys
}

// Derive re-syncs a variable list against the current template text: entries
// whose key still appears are kept as-is (label and default preserved), newly
// introduced keys get a capitalized label and empty default, and entries whose
// key no longer appears are dropped. Pure; call on every edit of the primary
// text.
func Derive(old []models.PromptVariable, text string) []models.PromptVariable {
	keys := Extract(text)
	if len(keys) == 0 {
		return nil
	}

	existing := make(map[string]models.PromptVariable, len(old))
	for _, v := range old {
		existing[v.Key] = v
	}

	vars := make([]models.PromptVariable, 0, len(keys))
	for _, key := range keys {
		if v, ok := existing[key]; ok {
			vars = append(vars, v)
			continue
		}
		vars = append(vars, models.PromptVariable{Key: key, Label: capitalize(key)})
	}
	return vars
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
