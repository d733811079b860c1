package redis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/domain/query"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c, "")
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c, "")
	err := s.Ping(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestContainsIgnoreCase(t *testing.T) {
	tests := []struct {
		s, sub string
		want   bool
	}{
		{"Unknown Index Name", "unknown index name", true},
		{"NO SUCH INDEX", "no such index", true},
		{"hello world", "world", true},
		{"short", "longer than input", false},
		{"exact", "exact", true},
		{"", "", true},
		{"notempty", "", true},
	}
	for _, tc := range tests {
		got := containsIgnoreCase(tc.s, tc.sub)
		if got != tc.want {
			t.Errorf("containsIgnoreCase(%q, %q) = %v, want %v", tc.s, tc.sub, got, tc.want)
		}
	}
}

func TestBackend(t *testing.T) {
	if NewStoreForTest(nil, "").Backend() != "redis" {
		t.Error("unexpected backend name")
	}
}

// --- search.go tests ---

func TestSearch_MatchAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.SEARCH", "amazon_products_4", "*",
			"WITHSCORES",
			"RETURN", "1", "$",
			"LIMIT", "0", "20",
			"DIALECT", "2",
		)).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("product:a1"),
			mock.RedisString("1"),
			mock.RedisArray(mock.RedisString("$"), mock.RedisString(`{"product_name":"Kite"}`)),
			mock.RedisString("product:b2"),
			mock.RedisString("0.5"),
			mock.RedisArray(mock.RedisString("$"), mock.RedisString(`{"product_name":"Ball"}`)),
		)))

	s := NewStoreForTest(c, "product:")
	res, err := s.Search(context.Background(), &db.SearchRequest{
		Index: "amazon_products_4",
		Query: query.MatchAll(),
		Size:  20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 || len(res.Hits) != 2 {
		t.Fatalf("result = %+v", res)
	}
	if res.Hits[0].ID != "a1" || res.Hits[1].ID != "b2" {
		t.Errorf("ids = %s, %s; want prefix stripped", res.Hits[0].ID, res.Hits[1].ID)
	}
	if res.Hits[1].Score != 0.5 {
		t.Errorf("score = %v", res.Hits[1].Score)
	}
	if string(res.Hits[0].Source) != `{"product_name":"Kite"}` {
		t.Errorf("source = %s", res.Hits[0].Source)
	}
}

func TestSearch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c, "")
	res, err := s.Search(context.Background(), &db.SearchRequest{Index: "idx", Query: query.MatchAll(), Size: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Hits) != 0 {
		t.Errorf("expected 0 hits, got %d", len(res.Hits))
	}
}

func TestSearch_MultiMatchQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var got string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			if cmd[0] != "FT.SEARCH" {
				return false
			}
			got = cmd[2]
			return true
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c, "")
	_, err := s.Search(context.Background(), &db.SearchRequest{
		Index: "idx",
		Query: query.ForHandle("sneakers"),
		Size:  20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "(@product_name:(%%sneakers%%)) => { $weight: 3; } | " +
		"(@description:(%%sneakers%%)) => { $weight: 1; } | " +
		"(@category:(%%sneakers%%)) => { $weight: 4; }"
	if got != want {
		t.Errorf("query = %q\nwant    %q", got, want)
	}
}

func TestSearch_WildcardQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[1] == "amazon_products_2" && cmd[2] == "@category:(w'*Toys*')"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c, "")
	_, err := s.Search(context.Background(), &db.SearchRequest{
		Index: "amazon_products_2",
		Query: query.ForCategory("Toys"),
		Size:  100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearch_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c, "")
	_, err := s.Search(context.Background(), &db.SearchRequest{Index: "idx", Query: query.MatchAll(), Size: 5})
	if err == nil {
		t.Fatal("expected error")
	}
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected cause in chain, got %v", err)
	}
}

func TestSearch_IndexNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c, "")
	_, err := s.Search(context.Background(), &db.SearchRequest{Index: "missing", Query: query.MatchAll(), Size: 5})
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Fatalf("err = %v, want ErrIndexNotFound", err)
	}
}

func TestSearch_Validation(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	_, err := s.Search(ctx, &db.SearchRequest{Query: query.MatchAll(), Size: 5})
	if !errors.Is(err, db.ErrInvalidRequest) {
		t.Errorf("empty index: err = %v", err)
	}

	_, err = s.Search(ctx, &db.SearchRequest{Index: "idx", Query: query.MatchAll()})
	if !errors.Is(err, db.ErrInvalidRequest) {
		t.Errorf("zero size: err = %v", err)
	}

	_, err = s.Search(ctx, &db.SearchRequest{Index: "idx", Query: query.MultiMatch("   "), Size: 5})
	if !errors.Is(err, db.ErrInvalidRequest) {
		t.Errorf("blank text: err = %v", err)
	}

	_, err = s.Search(ctx, &db.SearchRequest{Index: "idx", Query: query.Query{}, Size: 5})
	if !errors.Is(err, db.ErrInvalidRequest) {
		t.Errorf("unknown kind: err = %v", err)
	}
}

func TestParseResult_SkipsMalformedEntries(t *testing.T) {
	s := NewStoreForTest(nil, "")
	res, err := s.parseResult([]rueidis.RedisMessage{
		mock.RedisInt64(2),
		mock.RedisString("k1"),
		mock.RedisString("not-a-number"),
		mock.RedisArray(mock.RedisString("$"), mock.RedisString(`{}`)),
		mock.RedisString("k2"),
		mock.RedisString("2"),
		mock.RedisArray(mock.RedisString("$"), mock.RedisString(`{"a":1}`)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Hits) != 1 || res.Hits[0].ID != "k2" {
		t.Errorf("hits = %+v", res.Hits)
	}
}

func TestFuzzyTerm(t *testing.T) {
	tests := []struct {
		word, fuzziness, want string
	}{
		{"tv", query.FuzzinessAuto, "tv"},
		{"shoe", query.FuzzinessAuto, "%shoe%"},
		{"sneakers", query.FuzzinessAuto, "%%sneakers%%"},
		{"café", query.FuzzinessAuto, "%café%"},
		{"sneakers", "", "sneakers"},
		{"t-shirt", query.FuzzinessAuto, `%%t\-shirt%%`},
	}
	for _, tc := range tests {
		if got := fuzzyTerm(tc.word, tc.fuzziness); got != tc.want {
			t.Errorf("fuzzyTerm(%q, %q) = %q, want %q", tc.word, tc.fuzziness, got, tc.want)
		}
	}
}

func TestBuildMultiMatch_OrsTerms(t *testing.T) {
	got, err := buildMultiMatch(query.MultiMatch("red shoes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "(@product_name:(%red%|%shoes%)) => { $weight: 3; }") {
		t.Errorf("query = %q", got)
	}
}

func TestWildcardEscaping(t *testing.T) {
	got, err := buildQuery(query.ForCategory("Kid's"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `@category:(w'*Kid\'s*')` {
		t.Errorf("query = %q", got)
	}
}

// --- helpers ---

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
