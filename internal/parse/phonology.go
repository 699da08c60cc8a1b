// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"github.com/tidwall/gjson"

	"github.com/pdiddy/conlang-forge/pkg/types"
)

// NormalizePhonology coerces v into a fully populated PhonologyConfig.
// String fields keep their value only when it is a JSON string; list
// fields keep theirs only when it is a JSON array. Anything else takes the
// empty default. It never fails.
func NormalizePhonology(v gjson.Result) types.PhonologyConfig {
	return types.PhonologyConfig{
		Name:               stringField(v, "name"),
		Description:        stringField(v, "description"),
		Consonants:         listField(v, "consonants"),
		Vowels:             listField(v, "vowels"),
		SyllableStructure:  stringField(v, "syllableStructure"),
		BannedCombinations: listField(v, "bannedCombinations"),
	}
}

func stringField(v gjson.Result, key string) string {
	f := v.Get(key)
	if f.Type != gjson.String {
		return ""
	}
	return f.Str
}

// listField does not validate element types; each element is rendered
// with its string form.
func listField(v gjson.Result, key string) []string {
	f := v.Get(key)
	out := []string{}
	if !f.IsArray() {
		return out
	}
	for _, e := range f.Array() {
		out = append(out, e.String())
	}
	return out
}
