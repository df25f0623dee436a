// Package resolver maps the loose product references that come out of
// conversation (an id, a SKU, a partial name) onto exactly one product.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/texfolio/stockroom/internal/models"
	"github.com/texfolio/stockroom/internal/repo"
)

// MaxSuggestions caps the candidate names attached to resolution
// failures.
const MaxSuggestions = 5

// NotFoundError means the identifier matched nothing. Suggestions holds
// near-miss product names when a loosened search found any.
type NotFoundError struct {
	Identifier  string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no product matches %q", e.Identifier)
}

// AmbiguousError means a partial name matched several products. The
// resolver refuses to guess; Suggestions lists the candidates in match
// order so the caller can ask the user to pick one.
type AmbiguousError struct {
	Identifier  string
	Suggestions []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%q matches %d products", e.Identifier, len(e.Suggestions))
}

// Resolver resolves identifiers against the product store.
type Resolver struct {
	products repo.ProductRepository
}

func New(products repo.ProductRepository) *Resolver {
	return &Resolver{products: products}
}

// Resolve tries, in order: numeric id, exact SKU (case-insensitive),
// then partial name. A partial name hitting several products is an
// AmbiguousError; no hit at all is a NotFoundError carrying suggestions
// from a loosened first-word search.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (models.Product, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return models.Product{}, &NotFoundError{Identifier: identifier}
	}

	if id, err := strconv.Atoi(identifier); err == nil {
		p, err := r.products.GetByID(ctx, id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, repo.ErrProductNotFound) {
			return models.Product{}, err
		}
		// A number that is not an id may still be a name fragment.
	}

	p, err := r.products.GetBySKU(ctx, identifier)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repo.ErrProductNotFound) {
		return models.Product{}, err
	}

	matches, err := r.products.SearchByName(ctx, identifier)
	if err != nil {
		return models.Product{}, err
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		suggestions, err := r.loosenedSuggestions(ctx, identifier)
		if err != nil {
			return models.Product{}, err
		}
		return models.Product{}, &NotFoundError{Identifier: identifier, Suggestions: suggestions}
	default:
		return models.Product{}, &AmbiguousError{Identifier: identifier, Suggestions: names(matches)}
	}
}

// loosenedSuggestions retries the search with just the first word of
// the identifier, so "blue cushon cover" can still surface the cushion
// covers.
func (r *Resolver) loosenedSuggestions(ctx context.Context, identifier string) ([]string, error) {
	words := strings.Fields(identifier)
	if len(words) < 2 {
		return nil, nil
	}
	matches, err := r.products.SearchByName(ctx, words[0])
	if err != nil {
		return nil, err
	}
	return names(matches), nil
}

func names(products []models.Product) []string {
	n := len(products)
	if n > MaxSuggestions {
		n = MaxSuggestions
	}
	out := make([]string, 0, n)
	for _, p := range products[:n] {
		out = append(out, fmt.Sprintf("%s (%s)", p.Name, p.SKU))
	}
	return out
}
