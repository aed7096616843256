package models

import "strings"

// Languages is the fixed list offered by the language selector.
var Languages = []string{
	"English",
	"Spanish",
	"French",
	"German",
	"Italian",
	"Portuguese",
	"Dutch",
	"Swedish",
	"Russian",
	"Polish",
	"Greek",
	"Latin",
	"Arabic",
	"Hebrew",
	"Persian",
	"Turkish",
	"Hindi",
	"Sanskrit",
	"Chinese",
	"Japanese",
	"Korean",
}

// LanguageIndex returns the position of language in Languages, ignoring case.
// Returns -1 when it is not in the list.
func LanguageIndex(language string) int {
	for i, l := range Languages {
		if strings.EqualFold(l, strings.TrimSpace(language)) {
			return i
		}
	}
	return -1
}
