// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package forge

import (
	"context"
	"strings"

	"github.com/pdiddy/conlang-forge/internal/parse"
	"github.com/pdiddy/conlang-forge/internal/prompt"
	"github.com/pdiddy/conlang-forge/pkg/types"
)

// SynthesizePhonology designs a phonology from a prose description. The
// model's answer is normalized, so every field of the result is populated
// even when the model omits or malforms it.
func (a *Adapter) SynthesizePhonology(ctx context.Context, description string) (types.PhonologyConfig, error) {
	if strings.TrimSpace(description) == "" {
		return types.PhonologyConfig{}, emptyInput(opPhonology, "description is blank")
	}

	g, err := a.connect(ctx, opPhonology)
	if err != nil {
		return types.PhonologyConfig{}, err
	}

	text, err := prompt.Phonology(description)
	if err != nil {
		return types.PhonologyConfig{}, fail(opPhonology, err)
	}

	res, err := a.ask(ctx, g, opPhonology, text, a.profiles.Phonology)
	if err != nil {
		return types.PhonologyConfig{}, fail(opPhonology, err)
	}
	return parse.NormalizePhonology(res), nil
}
