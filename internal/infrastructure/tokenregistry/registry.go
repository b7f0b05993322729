package tokenregistry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"cardano-explorer.backend/internal/domain/entities"
)

var readFile = os.ReadFile

// File is the on-disk registry layout
type File struct {
	Decimals map[string]int        `yaml:"decimals"`
	Tokens   []entities.PriceToken `yaml:"tokens"`
}

// Registry holds the fallback decimals table and the priced token list
type Registry struct {
	decimals map[string]int
	tokens   []entities.PriceToken
}

var defaultFile = File{
	Decimals: map[string]int{
		"MIN":    6,
		"INDY":   6,
		"IUSD":   6,
		"DJED":   6,
		"SHEN":   6,
		"WMT":    6,
		"COPI":   6,
		"LQ":     6,
		"SUNDAE": 6,
		"WRT":    6,
		"AGIX":   8,
	},
	Tokens: []entities.PriceToken{
		{ID: "minswap", Symbol: "min", Name: "minswap"},
		{ID: "snek", Symbol: "snek", Name: "snek"},
		{ID: "hosky", Symbol: "hosky", Name: "hosky token"},
		{ID: "indigo-protocol", Symbol: "indy", Name: "indigo dao governance token"},
		{ID: "world-mobile-token", Symbol: "wmt", Name: "world mobile token"},
		{ID: "djed", Symbol: "djed", Name: "djed"},
		{ID: "sundaeswap", Symbol: "sundae", Name: "sundaeswap"},
		{ID: "singularitynet", Symbol: "agix", Name: "singularitynet"},
	},
}

// Default returns the built-in registry
func Default() *Registry {
	return fromFile(defaultFile)
}

// Load reads a YAML registry; an empty path yields the built-in one
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token registry: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse token registry: %w", err)
	}
	for i, tok := range f.Tokens {
		if tok.ID == "" {
			return nil, fmt.Errorf("token registry entry %d has no id", i)
		}
	}
	return fromFile(f), nil
}

func fromFile(f File) *Registry {
	r := &Registry{decimals: make(map[string]int, len(f.Decimals))}
	for name, d := range f.Decimals {
		r.decimals[strings.ToUpper(strings.TrimSpace(name))] = d
	}
	for _, tok := range f.Tokens {
		r.tokens = append(r.tokens, entities.PriceToken{
			ID:     tok.ID,
			Symbol: strings.ToLower(tok.Symbol),
			Name:   strings.ToLower(tok.Name),
		})
	}
	return r
}

// FallbackDecimals looks up decimals by uppercased display name
func (r *Registry) FallbackDecimals(displayName string) (int, bool) {
	d, ok := r.decimals[strings.ToUpper(strings.TrimSpace(displayName))]
	return d, ok
}

// PriceTokens returns the token list priced once per request
func (r *Registry) PriceTokens() []entities.PriceToken {
	return r.tokens
}

// PriceIDs returns the ids of PriceTokens
func (r *Registry) PriceIDs() []string {
	ids := make([]string, 0, len(r.tokens))
	for _, tok := range r.tokens {
		ids = append(ids, tok.ID)
	}
	return ids
}

// Match finds the priced token whose symbol or name equals the lowercased ticker or display name
func (r *Registry) Match(ticker, displayName string) (entities.PriceToken, bool) {
	candidates := []string{strings.ToLower(strings.TrimSpace(ticker)), strings.ToLower(strings.TrimSpace(displayName))}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		for _, tok := range r.tokens {
			if tok.Symbol == c || tok.Name == c {
				return tok, true
			}
		}
	}
	return entities.PriceToken{}, false
}
