package filter

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// RecipeVersion is the recipe format written by WriteRecipe.
const RecipeVersion = 1

// recipe is the on-disk form of a confirmed stack.
type recipe struct {
	Version int     `yaml:"version"`
	Filters []Entry `yaml:"filters"`
}

// WriteRecipe encodes the stack as YAML.
func WriteRecipe(w io.Writer, s *Stack) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(recipe{Version: RecipeVersion, Filters: s.Entries()}); err != nil {
		return fmt.Errorf("filter: write recipe: %w", err)
	}
	return enc.Close()
}

// ReadRecipe decodes a stack written by WriteRecipe. When cat is non-nil
// every entry is validated against it.
func ReadRecipe(r io.Reader, cat *Catalogue) (*Stack, error) {
	var rc recipe
	if err := yaml.NewDecoder(r).Decode(&rc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Stack{}, nil
		}
		return nil, fmt.Errorf("filter: read recipe: %w", err)
	}
	if rc.Version != RecipeVersion {
		return nil, fmt.Errorf("filter: unsupported recipe version %d", rc.Version)
	}
	st := &Stack{}
	for i, e := range rc.Filters {
		if !e.Family.Valid() {
			return nil, fmt.Errorf("filter: recipe entry %d: unknown family %q", i, e.Family)
		}
		if cat != nil {
			if err := cat.Validate(e); err != nil {
				return nil, fmt.Errorf("filter: recipe entry %d: %w", i, err)
			}
		}
		if st.Index(e.Kind) >= 0 {
			return nil, fmt.Errorf("filter: recipe entry %d: duplicate kind %q", i, e.Kind)
		}
		st.Apply(e)
	}
	return st, nil
}
