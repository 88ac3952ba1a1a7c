// Package content embeds the declarative answer banks for compile-time inclusion.
// Each v1/*.yaml file is one category: its answers, scoring entries, suggestions,
// and the courses its topics belong to.
//
// Usage:
//
//	bank.LoadRegistry(content.FS, "v1")
package content

import "embed"

//go:embed v1/*.yaml
var FS embed.FS
