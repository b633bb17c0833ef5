package server

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"testing"

	"github.com/bastiangx/phraseserve/pkg/config"
	"github.com/bastiangx/phraseserve/pkg/suggest"
	"github.com/vmihailenco/msgpack/v5"
)

func newTestService() *Service {
	cfg := config.DefaultConfig().Server
	cfg.MaxTokens = 50
	return NewService(
		suggest.NewGenerator(suggest.DefaultMaxCombinedTokens),
		suggest.NewStopWords("is", "can", "the"),
		suggest.NewIndex(),
		cfg,
	)
}

// runIPC encodes requests into one stream, runs the server to EOF and
// returns the decoded responses as generic maps (ready message first).
func runIPC(t *testing.T, service *Service, requests ...any) []map[string]any {
	t.Helper()

	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range requests {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("encoding request: %v", err)
		}
	}

	var out bytes.Buffer
	srv := NewServerWithIO(service, &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("server stopped with error: %v", err)
	}

	var responses []map[string]any
	dec := msgpack.NewDecoder(&out)
	for {
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatalf("decoding response: %v", err)
		}
		responses = append(responses, m)
	}
	return responses
}

func toStrings(t *testing.T, v any) []string {
	t.Helper()
	raw, ok := v.([]any)
	if !ok {
		t.Fatalf("expected array, got %T", v)
	}
	out := make([]string, len(raw))
	for i, r := range raw {
		out[i] = r.(string)
	}
	return out
}

func TestServerSuggest(t *testing.T) {
	responses := runIPC(t, newTestService(), Request{
		ID:     "req1",
		Action: ActionSuggest,
		Tokens: []string{"The", "beautiful", "girl", "from", "the", "farmers", "market", ".", "I", "like", "chewing", "gum", "."},
	})

	if len(responses) != 2 {
		t.Fatalf("expected ready + 1 response, got %d", len(responses))
	}
	if responses[0]["status"] != "ready" {
		t.Errorf("expected ready message first, got %v", responses[0])
	}

	resp := responses[1]
	if resp["id"] != "req1" {
		t.Errorf("expected id 'req1', got %v", resp["id"])
	}
	got := toStrings(t, resp["s"])
	expected := []string{
		"beautiful", "beautiful girl", "beautiful girl from", "girl", "girl from", "from",
		"farmers", "farmers market", "market",
		"like", "like chewing", "like chewing gum", "chewing", "chewing gum", "gum",
	}
	if !slices.Equal(got, expected) {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

// extra stop words apply to one request only
func TestServerRequestStopWords(t *testing.T) {
	service := newTestService()
	responses := runIPC(t, service,
		Request{ID: "a", Action: ActionSuggest, Tokens: []string{"cat", "sat", "mat"}, StopWords: []string{"SAT"}},
		Request{ID: "b", Action: ActionSuggest, Tokens: []string{"cat", "sat"}},
	)

	if got := toStrings(t, responses[1]["s"]); !slices.Equal(got, []string{"cat", "mat"}) {
		t.Errorf("request a: got %q", got)
	}
	if got := toStrings(t, responses[2]["s"]); !slices.Equal(got, []string{"cat", "cat sat", "sat"}) {
		t.Errorf("request b: got %q", got)
	}
}

func TestServerIndexAndComplete(t *testing.T) {
	responses := runIPC(t, newTestService(),
		Request{ID: "ix", Action: ActionIndex, Tokens: []string{"farmers", "market", "opens", "."}},
		Request{ID: "c1", Action: ActionComplete, Prefix: "farm"},
		Request{ID: "c2", Action: ActionComplete, Prefix: "farm", Limit: 1},
		Request{ID: "r", Action: ActionReset},
		Request{ID: "c3", Action: ActionComplete, Prefix: "farm"},
	)

	if len(responses) != 6 {
		t.Fatalf("expected 6 responses, got %d", len(responses))
	}

	ix := responses[1]
	if ix["status"] != "ok" {
		t.Errorf("index failed: %v", ix)
	}
	var added int
	if err := msgpack.Unmarshal(mustMarshal(t, ix["added"]), &added); err != nil || added != 6 {
		t.Errorf("expected 6 added phrases, got %v (%v)", ix["added"], err)
	}

	if got := toStrings(t, responses[2]["s"]); !slices.Equal(got, []string{"farmers", "farmers market", "farmers market opens"}) {
		t.Errorf("complete: got %q", got)
	}
	if got := toStrings(t, responses[3]["s"]); !slices.Equal(got, []string{"farmers"}) {
		t.Errorf("complete with limit: got %q", got)
	}
	if responses[4]["status"] != "ok" {
		t.Errorf("reset failed: %v", responses[4])
	}
	if got := toStrings(t, responses[5]["s"]); len(got) != 0 {
		t.Errorf("expected empty index after reset, got %q", got)
	}
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := msgpack.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestServerErrors(t *testing.T) {
	responses := runIPC(t, newTestService(),
		Request{ID: "u", Action: "explode"},
		Request{ID: "m"},
		Request{ID: "p", Action: ActionComplete},
		42,
		Request{ID: "h", Action: ActionHealth},
	)

	if len(responses) != 6 {
		t.Fatalf("expected 6 responses, got %d", len(responses))
	}
	for i, id := range []string{"u", "m", "p", ""} {
		resp := responses[i+1]
		if resp["id"] != id {
			t.Errorf("response %d: expected id %q, got %v", i, id, resp["id"])
		}
		if resp["e"] == nil || resp["e"] == "" {
			t.Errorf("response %d: expected an error message, got %v", i, resp)
		}
	}
	// the stream keeps going after a bad request
	if responses[5]["status"] != "ok" {
		t.Errorf("expected health ok, got %v", responses[5])
	}
}

func TestServerAssignsID(t *testing.T) {
	responses := runIPC(t, newTestService(), Request{Action: ActionHealth})
	id, _ := responses[1]["id"].(string)
	if len(id) != 36 {
		t.Errorf("expected a generated UUID, got %q", id)
	}
}

// tokens past server.max_tokens are not used
func TestServiceMaxTokens(t *testing.T) {
	cfg := config.DefaultConfig().Server
	cfg.MaxTokens = 2
	service := NewService(nil, nil, nil, cfg)

	got, _, err := service.Suggest([]string{"aa", "bb", "cc"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []string{"aa", "aa bb", "bb"}) {
		t.Errorf("got %q", got)
	}
}

func TestServiceClampLimit(t *testing.T) {
	service := newTestService()
	testCases := map[int]int{0: 10, -3: 10, 5: 5, 64: 64, 1000: 64}
	for in, expected := range testCases {
		if got := service.clampLimit(in); got != expected {
			t.Errorf("clampLimit(%d): expected %d, got %d", in, expected, got)
		}
	}
}

// a truncated stream is an error, not a clean shutdown
func TestServerTruncatedStream(t *testing.T) {
	data, err := msgpack.Marshal(Request{ID: "x", Action: ActionHealth})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	srv := NewServerWithIO(newTestService(), bytes.NewReader(data[:len(data)-3]), &out)
	if err := srv.Start(); err == nil {
		t.Errorf("expected an error for a truncated request")
	}
}
