package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/paletteview/paletteview-server/internal/color"
	domainerrors "github.com/paletteview/paletteview-server/internal/errors"
)

// Params configures a search.
type Params struct {
	Query string // free text over names
	Kind  Kind   // empty means both
	Color string // hex colour the palette must contain

	Limit  int
	Offset int
}

// DefaultParams returns the defaults used by the HTTP layer.
func DefaultParams() Params {
	return Params{Limit: 20}
}

// Result is a page of hits.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit is one matching palette.
type Hit struct {
	Index      int               `json:"index"`
	Kind       Kind              `json:"kind"`
	Name       string            `json:"name"`
	Score      float64           `json:"score"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search runs params against the index.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, err := buildQuery(params)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultParams().Limit
	}

	req := bleve.NewSearchRequestOptions(q, limit, params.Offset, false)
	if params.Query == "" {
		req.SortBy([]string{"index"})
	} else {
		req.SortBy([]string{"-_score", "index"})
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("name")
	}
	req.Fields = []string{"index", "kind", "name"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}
	for _, h := range res.Hits {
		hit := Hit{Score: h.Score}
		if v, ok := h.Fields["index"].(float64); ok {
			hit.Index = int(v)
		}
		if v, ok := h.Fields["kind"].(string); ok {
			hit.Kind = Kind(v)
		}
		if v, ok := h.Fields["name"].(string); ok {
			hit.Name = v
		}
		if len(h.Fragments) > 0 {
			hit.Highlights = make(map[string]string)
			for field, frags := range h.Fragments {
				if len(frags) > 0 {
					hit.Highlights[field] = frags[0]
				}
			}
		}
		out.Hits = append(out.Hits, hit)
	}

	return out, nil
}

func buildQuery(params Params) (query.Query, error) {
	var queries []query.Query

	if text := strings.TrimSpace(params.Query); text != "" {
		nameMatch := bleve.NewMatchQuery(text)
		nameMatch.SetField("name")
		nameMatch.SetBoost(3.0)

		fuzzy := bleve.NewFuzzyQuery(strings.ToLower(text))
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("name")
		fuzzy.SetBoost(0.8)

		textQueries := []query.Query{nameMatch, fuzzy}
		if len(text) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(text))
			prefix.SetField("name")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}
		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.Kind != "" {
		tq := bleve.NewTermQuery(string(params.Kind))
		tq.SetField("kind")
		queries = append(queries, tq)
	}

	if params.Color != "" {
		hex, err := color.Normalize(params.Color)
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid color filter")
		}
		inColors := bleve.NewTermQuery(hex)
		inColors.SetField("colors")
		asBg := bleve.NewTermQuery(hex)
		asBg.SetField("bg_color")
		queries = append(queries, bleve.NewDisjunctionQuery(inColors, asBg))
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery(), nil
	case 1:
		return queries[0], nil
	default:
		return bleve.NewConjunctionQuery(queries...), nil
	}
}
