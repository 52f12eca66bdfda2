package search

import (
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/whitespace"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolpilot/tools"
)

const (
	analyzerName = "tokens"

	fieldName        = "name"
	fieldDescription = "description"
	fieldTags        = "tags"
	fieldCategory    = "category"
)

var indexedFields = []string{fieldName, fieldDescription, fieldTags, fieldCategory}

// index is an in-memory bleve index over a tool catalog.
type index struct {
	idx         bleve.Index
	fingerprint uint64
	// fields are the tokenized fields by catalog position
	fields []*fields
}

// fingerprint returns a hash of the searchable content of the tools.
func fingerprint(list []*tools.Tool) uint64 {
	h := xxhash.New()
	for _, t := range list {
		_, _ = h.WriteString(t.ID)
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(t.Name)
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(t.Description)
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(strings.Join(t.Tags, "\x01"))
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(t.Category)
		_, _ = h.WriteString("\x02")
	}
	_, _ = h.WriteString(strconv.Itoa(len(list)))
	return h.Sum64()
}

func indexMapping() (mapping.IndexMapping, error) {
	im := bleve.NewIndexMapping()
	// documents are pre-tokenized, the analyzer only splits and lower-cases
	err := im.AddCustomAnalyzer(analyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     whitespace.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to register analyzer")
	}
	im.DefaultAnalyzer = analyzerName
	return im, nil
}

func tokenizeTool(t *tools.Tool) *fields {
	return &fields{
		name:        tokenize(t.Name),
		description: tokenize(t.Description),
		tags:        tokenize(strings.Join(t.Tags, " ")),
		category:    tokenize(t.Category),
	}
}

// newIndex indexes the tools in memory.
func newIndex(list []*tools.Tool, fp uint64) (*index, error) {
	im, err := indexMapping()
	if err != nil {
		return nil, err
	}
	idx, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create index")
	}

	ix := &index{
		idx:         idx,
		fingerprint: fp,
		fields:      make([]*fields, len(list)),
	}

	batch := idx.NewBatch()
	for i, t := range list {
		f := tokenizeTool(t)
		ix.fields[i] = f
		doc := map[string]interface{}{
			fieldName:        strings.Join(f.name, " "),
			fieldDescription: strings.Join(f.description, " "),
			fieldTags:        strings.Join(f.tags, " "),
			fieldCategory:    strings.Join(f.category, " "),
		}
		if err = batch.Index(strconv.Itoa(i), doc); err != nil {
			_ = idx.Close()
			return nil, errors.Wrapf(err, "failed to index tool %s", t.ID)
		}
	}
	if err = idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, errors.Wrap(err, "failed to index tools")
	}
	return ix, nil
}

// candidates returns catalog positions of tools matching any of the terms
// in any field by exact, fuzzy, prefix or substring match.
func (ix *index) candidates(terms []string) (map[int]bool, error) {
	count, err := ix.idx.DocCount()
	if err != nil {
		return nil, errors.Wrap(err, "failed to count documents")
	}
	if count == 0 || len(terms) == 0 {
		return map[int]bool{}, nil
	}

	disjunction := bleve.NewDisjunctionQuery()
	for _, term := range terms {
		for _, field := range indexedFields {
			for _, q := range termQueries(term) {
				q.SetField(field)
				disjunction.AddQuery(q)
			}
		}
	}

	req := bleve.NewSearchRequestOptions(disjunction, int(count), 0, false)
	res, err := ix.idx.Search(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search index")
	}

	positions := make(map[int]bool, len(res.Hits))
	for _, hit := range res.Hits {
		pos, err := strconv.Atoi(hit.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "unexpected document %q", hit.ID)
		}
		positions[pos] = true
	}
	return positions, nil
}

type fieldableQuery interface {
	query.Query
	SetField(f string)
}

func termQueries(term string) []fieldableQuery {
	var list []fieldableQuery
	if edits := maxEdits(term); edits > 0 {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(edits)
		list = append(list, fq)
	} else {
		list = append(list, bleve.NewTermQuery(term))
	}
	list = append(list, bleve.NewPrefixQuery(term))
	if len([]rune(term)) >= 3 {
		list = append(list, bleve.NewWildcardQuery("*"+term+"*"))
	}
	return list
}

func (ix *index) close() {
	if ix != nil && ix.idx != nil {
		_ = ix.idx.Close()
	}
}
