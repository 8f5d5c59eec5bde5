package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yoockh/coldreach/internal/cache"
	"github.com/yoockh/coldreach/internal/chain"
	"github.com/yoockh/coldreach/internal/logger"
	"github.com/yoockh/coldreach/internal/models"
	"github.com/yoockh/coldreach/internal/portfolio"
	"github.com/yoockh/coldreach/internal/providers/embedding"
	filerepo "github.com/yoockh/coldreach/internal/repositories/file"
)

const testPortfolio = "Techstack,Links\n" +
	"Python,https://example.com/python\n" +
	"\"React, Node.js\",https://example.com/react\n" +
	"\"Swift, iOS\",https://example.com/ios\n"

// scriptedLLM answers extraction prompts with a fixed JSON payload and
// compose prompts with a numbered email quoting the sender line.
type scriptedLLM struct {
	mu          sync.Mutex
	extractJSON string
	prompts     []string
	composed    int
}

func (f *scriptedLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)

	if strings.Contains(prompt, "### SCRAPED TEXT FROM WEBSITE:") {
		return f.extractJSON, nil
	}
	f.composed++
	sender := ""
	for _, line := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(line, "You are ") {
			sender = line
			break
		}
	}
	return fmt.Sprintf("Email #%d\n%s", f.composed, sender), nil
}

func (f *scriptedLLM) Close() error { return nil }

func (f *scriptedLLM) composeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.composed
}

func (f *scriptedLLM) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prompts[len(f.prompts)-1]
}

type staticPages struct {
	body string
	urls []string
}

func (p *staticPages) Load(_ context.Context, url string) (string, error) {
	p.urls = append(p.urls, url)
	return p.body, nil
}

type testEnv struct {
	llm       *scriptedLLM
	pages     *staticPages
	profiles  ProfileService
	sessions  SessionService
	generator GeneratorService
	index     *portfolio.Index
	dir       string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	log := logger.Discard()

	csvPath := filepath.Join(dir, "my_portfolio.csv")
	if err := os.WriteFile(csvPath, []byte(testPortfolio), 0o644); err != nil {
		t.Fatalf("write portfolio: %v", err)
	}

	fake := &scriptedLLM{
		extractJSON: `[{"role":"Software Engineer","experience":"2 years","skills":["Python"],"description":"Build APIs"}]`,
	}
	pages := &staticPages{body: "<html><body><h1>Software Engineer</h1><p>Python, 2 years</p></body></html>"}

	defaults := models.WithPreferenceDefaults()
	defaults.SenderName = "Your Name"
	defaults.SenderTitle = "Business Development Executive"
	defaults.CompanyName = "Your Company"

	idx := portfolio.NewIndex(csvPath, portfolio.NewMemoryStore(), embedding.NewHashing(128), 2, log)
	profiles := NewProfileService(filerepo.NewProfileRepo(filepath.Join(dir, "user_config.json")), defaults, log)
	sessions := NewSessionService(cache.NewMemoryCache(), time.Hour)

	return &testEnv{
		llm:       fake,
		pages:     pages,
		profiles:  profiles,
		sessions:  sessions,
		generator: NewGeneratorService(pages, chain.New(fake, log), idx, profiles, sessions, log),
		index:     idx,
		dir:       dir,
	}
}

func (e *testEnv) newSession(t *testing.T) *models.Session {
	t.Helper()
	s, err := e.sessions.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	return s
}
