package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/domain/query"
)

// jsonRootField is the FT.SEARCH return field holding the whole JSON document.
const jsonRootField = "$"

// Search runs a query via FT.SEARCH and returns at most req.Size hits.
func (s *Store) Search(ctx context.Context, req *db.SearchRequest) (*db.SearchResult, error) {
	if req.Index == "" {
		return nil, fmt.Errorf("%w: index name is required", db.ErrInvalidRequest)
	}
	if req.Size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive", db.ErrInvalidRequest)
	}

	queryStr, err := buildQuery(req.Query)
	if err != nil {
		return nil, err
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(
		req.Index, queryStr,
		"WITHSCORES",
		"RETURN", "1", jsonRootField,
		"LIMIT", "0", strconv.Itoa(req.Size),
		"DIALECT", "2",
	).Build()

	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "no such index") || isRedisErr(err, "unknown index name") {
			err = fmt.Errorf("%w: %w", db.ErrIndexNotFound, err)
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return s.parseResult(raw)
}

// --- Result parsing ---

func (s *Store) parseResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, &db.Error{Op: db.OpDecode, Err: fmt.Errorf("parse total: %w", err)}
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	hits := make([]db.Hit, 0, (len(raw)-1)/3)
	// 3-stride: [total, key1, score1, fields1, key2, score2, fields2, ...]
	for i := 1; i+2 < len(raw); i += 3 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		scoreStr, err := raw[i+1].ToString()
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			continue
		}

		fields, err := raw[i+2].ToArray()
		if err != nil {
			continue
		}

		hit := db.Hit{
			ID:    strings.TrimPrefix(key, s.keyPrefix),
			Score: score,
		}
		if body, ok := parseFieldPairs(fields)[jsonRootField]; ok {
			hit.Source = json.RawMessage(body)
		}
		hits = append(hits, hit)
	}

	return &db.SearchResult{Total: int(total), Hits: hits}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Query building ---

// buildQuery translates q into RediSearch DIALECT 2 syntax.
func buildQuery(q query.Query) (string, error) {
	switch q.Kind() {
	case query.KindMatchAll:
		return "*", nil
	case query.KindMultiMatch:
		return buildMultiMatch(q)
	case query.KindWildcard:
		return fmt.Sprintf("@%s:(w'%s')", q.Field(), wildcardEscaper.Replace(q.Pattern())), nil
	default:
		return "", fmt.Errorf("%w: unsupported query kind %q", db.ErrInvalidRequest, q.Kind())
	}
}

// buildMultiMatch ORs the text terms within each field, then ORs the weighted fields.
func buildMultiMatch(q query.Query) (string, error) {
	words := strings.Fields(q.Text())
	if len(words) == 0 {
		return "", fmt.Errorf("%w: multi-match text is empty", db.ErrInvalidRequest)
	}

	terms := make([]string, len(words))
	for i, w := range words {
		terms[i] = fuzzyTerm(w, q.Fuzziness())
	}
	termExpr := strings.Join(terms, "|")

	fields := q.Fields()
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("(@%s:(%s)) => { $weight: %g; }", f.Name(), termExpr, f.Boost())
	}
	return strings.Join(parts, " | "), nil
}

// fuzzyTerm wraps word in Levenshtein markers. AUTO follows the usual length
// bands: up to 2 runes exact, 3 to 5 one edit, longer two edits.
func fuzzyTerm(word, fuzziness string) string {
	escaped := escapeQuery(word)
	if fuzziness != query.FuzzinessAuto {
		return escaped
	}
	switch n := utf8.RuneCountInString(word); {
	case n <= 2:
		return escaped
	case n <= 5:
		return "%" + escaped + "%"
	default:
		return "%%" + escaped + "%%"
	}
}

// --- Query helpers ---

var wildcardEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
	`,`, `\,`,
	`.`, `\.`,
)
