package models

import "strings"

// ModelGroup represents a model and its allowed effort levels.
type ModelGroup struct {
	Base    string
	Efforts []string
}

// AllModelGroups returns the catalog of models the client knows how to address.
func AllModelGroups() []ModelGroup {
	return []ModelGroup{
		{Base: "gpt-5", Efforts: []string{"high", "medium", "low", "minimal"}},
		{Base: "gpt-5.1", Efforts: []string{"high", "medium", "low"}},
		{Base: "gpt-5-codex", Efforts: []string{"high", "medium", "low"}},
		{Base: "gpt-5.1-codex", Efforts: []string{"high", "medium", "low"}},
		{Base: "o3", Efforts: []string{"high", "medium", "low"}},
		{Base: "o4-mini", Efforts: []string{"high", "medium", "low"}},
		{Base: "codex-mini-latest", Efforts: []string{"high", "medium", "low"}},
		{Base: "gpt-4.1", Efforts: nil},
		{Base: "gpt-4o", Efforts: nil},
		{Base: "gpt-oss-120b", Efforts: nil},
	}
}

// ModelCatalog returns all model IDs. If exposeVariants is true, also includes effort-level variants.
func ModelCatalog(exposeVariants bool) []string {
	var ids []string
	for _, g := range AllModelGroups() {
		ids = append(ids, g.Base)
		if exposeVariants {
			for _, e := range g.Efforts {
				ids = append(ids, g.Base+"-"+e)
			}
		}
	}
	return ids
}

var modelAliases = map[string]string{
	"gpt5":               "gpt-5",
	"gpt-5-latest":       "gpt-5",
	"gpt5-codex":         "gpt-5-codex",
	"gpt-5-codex-latest": "gpt-5-codex",
	"codex":              "codex-mini-latest",
	"codex-mini":         "codex-mini-latest",
	"gpt4.1":             "gpt-4.1",
}

var effortSuffixes = []string{"minimal", "low", "medium", "high", "xhigh"}

// NormalizeModelName maps model aliases to canonical names and strips effort suffixes.
// A non-empty override always wins.
func NormalizeModelName(name, override string) string {
	if override != "" {
		return strings.TrimSpace(override)
	}
	if name == "" {
		return "gpt-5"
	}
	base := strings.TrimSpace(strings.SplitN(name, ":", 2)[0])

	lowered := strings.ToLower(base)
	for _, sep := range []string{"-", "_"} {
		for _, effort := range effortSuffixes {
			suffix := sep + effort
			if strings.HasSuffix(lowered, suffix) {
				base = base[:len(base)-len(suffix)]
				lowered = strings.ToLower(base)
				break
			}
		}
	}

	if mapped, ok := modelAliases[base]; ok {
		return mapped
	}
	return base
}

// AllowedEfforts returns the set of valid reasoning effort levels for a model.
func AllowedEfforts(model string) map[string]bool {
	normalized := strings.SplitN(strings.ToLower(strings.TrimSpace(model)), ":", 2)[0]

	switch {
	case normalized == "":
		return defaultEfforts()
	case strings.HasPrefix(normalized, "gpt-5.1"):
		return map[string]bool{"low": true, "medium": true, "high": true}
	case strings.HasPrefix(normalized, "o3"), strings.HasPrefix(normalized, "o4-mini"),
		strings.HasPrefix(normalized, "codex-"):
		return map[string]bool{"low": true, "medium": true, "high": true}
	}
	return defaultEfforts()
}

func defaultEfforts() map[string]bool {
	return map[string]bool{"minimal": true, "low": true, "medium": true, "high": true, "xhigh": true}
}
