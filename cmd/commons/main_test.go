package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/commons/internal/app"
	"github.com/five82/commons/internal/config"
	"github.com/five82/commons/internal/forum/forumtest"
	"github.com/five82/commons/internal/history"
)

type env struct {
	srv         *forumtest.Server
	configPath  string
	historyPath string
}

func newEnv(t *testing.T) env {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.TokenEnv, "")

	now := time.Now()
	srv := forumtest.NewServer([]forumtest.Thread{
		{ID: 1, Title: "Welcome week", Username: "ana", CategoryID: 1, Category: "Events", Tags: []string{"events"}, CreatedAt: now},
		{ID: 2, Title: "Exam timetable", Username: "ben", CategoryID: 3, Category: "Courses", Tags: []string{"cs101", "exam"}, ReplyCount: 4, CreatedAt: now},
		{ID: 3, Title: "Exam prep group", Username: "cy", CategoryID: 3, Category: "Courses", Tags: []string{"exam"}, CreatedAt: now},
		{ID: 4, Title: "Laptop repair", Username: "dee", CategoryID: 2, Category: "Tech", Tags: []string{"hardware"}, CreatedAt: now},
	}, []forumtest.Category{{ID: 1, Name: "Events"}, {ID: 2, Name: "Tech"}, {ID: 3, Name: "Courses"}})
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	e := env{
		srv:         srv,
		configPath:  filepath.Join(dir, "config.toml"),
		historyPath: filepath.Join(dir, "history.db"),
	}
	content := fmt.Sprintf("[api]\nbase_url = %q\nrequests_per_second = 0\n\n[history]\npath = %q\n\n[logging]\nlevel = \"error\"\n",
		srv.BaseURL(), e.historyPath)
	if err := os.WriteFile(e.configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return e
}

// run executes the root command and returns stdout and the error.
func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs(append([]string{"--config", e.configPath}, args...))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestSearch_PrintsTable(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "search", "--tag", "exam", "--category", "3")
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}
	for _, want := range []string{"?category=3&tag=exam via list, page 1", "Exam timetable", "Exam prep group", "#cs101 #exam"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Welcome week") {
		t.Fatalf("unfiltered thread listed:\n%s", out)
	}
}

func TestSearch_JSONWithKeyword(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "search", "exam", "--tag", "cs101", "--json")
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}
	var got searchResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Link != "q=exam&tag=cs101" || got.Strategy != "search+intersect" || got.Page != 1 {
		t.Fatalf("result = %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].ID != 2 {
		t.Fatalf("items = %+v, want thread 2 only", got.Items)
	}
}

func TestSearch_LinkIsRefinedByFlags(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "search", "--link", "tag=exam&page=4", "--page", "1", "--json")
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}
	var got searchResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.Link != "tag=exam" || len(got.Items) != 2 {
		t.Fatalf("result = %+v", got)
	}
}

func TestSearch_ReportsClassifiedFailure(t *testing.T) {
	e := newEnv(t)
	e.srv.Lock()
	e.srv.Failures["threads"] = forumtest.Failure{Status: 502, Body: `{"detail":"upstream down"}`}
	e.srv.Unlock()

	_, err := e.run(t, "search")
	if err == nil || !strings.HasPrefix(err.Error(), "search failed: Forum returned 502") {
		t.Fatalf("error = %v, want classified 502", err)
	}
}

func TestSearch_KeywordTooLong(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "search", strings.Repeat("a", 101))
	if err == nil || !strings.Contains(err.Error(), "too long") {
		t.Fatalf("error = %v, want invalid query", err)
	}
	if n := len(e.srv.RequestsTo("search")); n != 0 {
		t.Fatalf("search requests = %d, want none", n)
	}
}

func TestLink_EncodeAndDecode(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "link", "encode", "--q", "  exam ", "--tag", "Exam", "--tag", "cs101", "--category", "3", "--page", "2")
	if err != nil {
		t.Fatalf("link encode returned error: %v", err)
	}
	if got, want := strings.TrimSpace(out), "category=3&page=2&q=exam&tag=cs101,exam"; got != want {
		t.Fatalf("encoded link = %q, want %q", got, want)
	}

	out, err = e.run(t, "link", "decode", "tag=Exam,exam&page=0&category=x")
	if err != nil {
		t.Fatalf("link decode returned error: %v", err)
	}
	for _, want := range []string{"tags:      exam", "category:  any", "page:      1", "canonical: tag=exam"} {
		if !strings.Contains(out, want) {
			t.Errorf("decode output lacks %q:\n%s", want, out)
		}
	}
}

func TestLink_EncodeRoundTripsThroughDecode(t *testing.T) {
	e := newEnv(t)

	encoded, err := e.run(t, "link", "encode", "--q", "exam", "--tag", "cs101", "--page", "2")
	if err != nil {
		t.Fatalf("link encode returned error: %v", err)
	}
	link := strings.TrimSpace(encoded)
	out, err := e.run(t, "link", "decode", link)
	if err != nil {
		t.Fatalf("link decode returned error: %v", err)
	}
	if !strings.Contains(out, "canonical: "+link+"\n") {
		t.Fatalf("decode of %q is not canonical:\n%s", link, out)
	}
}

func TestCategoriesAndTags(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "categories")
	if err != nil {
		t.Fatalf("categories returned error: %v", err)
	}
	for _, want := range []string{"Events", "Tech", "Courses"} {
		if !strings.Contains(out, want) {
			t.Errorf("categories lacks %q:\n%s", want, out)
		}
	}

	out, err = e.run(t, "tags")
	if err != nil {
		t.Fatalf("tags returned error: %v", err)
	}
	for _, want := range []string{"#exam", "#cs101", "#hardware"} {
		if !strings.Contains(out, want) {
			t.Errorf("tags lacks %q:\n%s", want, out)
		}
	}
}

func TestHistory_ListAndClear(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "history")
	if err != nil {
		t.Fatalf("history returned error: %v", err)
	}
	if !strings.Contains(out, "No recent links.") {
		t.Fatalf("empty history output = %q", out)
	}

	store, err := history.Open(e.historyPath, 0)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	ctx := context.Background()
	if err := store.Record(ctx, "tag=exam", "#exam", time.Now()); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Record(ctx, "", "All threads", time.Now()); err != nil {
		t.Fatalf("Record: %v", err)
	}
	_ = store.Close()

	out, err = e.run(t, "history")
	if err != nil {
		t.Fatalf("history returned error: %v", err)
	}
	for _, want := range []string{"?tag=exam", "(all threads)", "#exam"} {
		if !strings.Contains(out, want) {
			t.Errorf("history lacks %q:\n%s", want, out)
		}
	}

	if _, err := e.run(t, "history", "--clear"); err != nil {
		t.Fatalf("history --clear returned error: %v", err)
	}
	out, _ = e.run(t, "history")
	if !strings.Contains(out, "No recent links.") {
		t.Fatalf("history after clear = %q", out)
	}
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	out, err := e.run(t, "version")
	if err != nil {
		t.Fatalf("version returned error: %v", err)
	}
	if out != "commons "+app.Version+"\n" {
		t.Fatalf("version output = %q", out)
	}
}

func TestBadConfigFails(t *testing.T) {
	e := newEnv(t)
	if err := os.WriteFile(e.configPath, []byte("[discovery]\npage_size = 500\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := e.run(t, "search"); err == nil || !strings.Contains(err.Error(), "page_size") {
		t.Fatalf("error = %v, want page_size complaint", err)
	}
}
