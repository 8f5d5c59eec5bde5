package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yoockh/coldreach/internal/chain"
	"github.com/yoockh/coldreach/internal/logger"
	"github.com/yoockh/coldreach/internal/models"
	"github.com/yoockh/coldreach/internal/portfolio"
	"github.com/yoockh/coldreach/internal/providers/embedding"
	"github.com/yoockh/coldreach/internal/utils"
)

func TestGenerateEndToEnd(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	p := models.WithPreferenceDefaults()
	p.SenderName = "Ada Lovelace"
	p.SenderTitle = "Founder"
	p.CompanyName = "Analytical Engines"
	if err := env.profiles.Save(ctx, p); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	sess := env.newSession(t)
	var stages []string
	err := env.generator.Submit(ctx, sess, "jobs.example.com/careers", func(stage, _ string) {
		stages = append(stages, stage)
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if env.pages.urls[0] != "https://jobs.example.com/careers" {
		t.Fatalf("fetched %v", env.pages.urls)
	}
	if strings.Join(stages, ",") != "fetching,cleaning,portfolio,extracting" {
		t.Fatalf("stages = %v", stages)
	}
	if !strings.Contains(env.llm.prompts[0], "Software Engineer") || strings.Contains(env.llm.prompts[0], "<h1>") {
		t.Fatalf("extraction prompt should carry cleaned page text:\n%s", env.llm.prompts[0])
	}
	if len(sess.Jobs) != 1 || sess.Jobs[0].Role != "Software Engineer" {
		t.Fatalf("jobs = %#v", sess.Jobs)
	}
	if !sess.PortfolioLoaded || sess.Notice != "" {
		t.Fatalf("portfolio state = %v %q", sess.PortfolioLoaded, sess.Notice)
	}

	views, err := env.generator.Compose(ctx, sess, nil)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("views = %#v", views)
	}
	if !strings.Contains(env.llm.lastPrompt(), "https://example.com/python") {
		t.Fatalf("compose prompt missing matched portfolio link:\n%s", env.llm.lastPrompt())
	}
	email := views[0].Email
	if !strings.Contains(email, "Ada Lovelace") || !strings.Contains(email, "Analytical Engines") {
		t.Fatalf("email = %q", email)
	}
	if views[0].Key != "https://jobs.example.com/careers_0" {
		t.Fatalf("key = %q", views[0].Key)
	}
	if sess.Generated != 1 {
		t.Fatalf("generated = %d", sess.Generated)
	}
}

func TestComposeReusesCacheUntilRegenerate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	sess := env.newSession(t)

	if err := env.generator.Submit(ctx, sess, "https://example.com/jobs", nil); err != nil {
		t.Fatalf("submit: %v", err)
	}

	first, err := env.generator.Compose(ctx, sess, nil)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	second, _ := env.generator.Compose(ctx, sess, nil)
	if env.llm.composeCount() != 1 {
		t.Fatalf("plain re-render composed again: %d calls", env.llm.composeCount())
	}
	if second[0].Email != first[0].Email || second[0].Fresh {
		t.Fatalf("expected cached email, got %+v", second[0])
	}

	for round := 2; round <= 3; round++ {
		if err := env.generator.Regenerate(ctx, sess, first[0].Key); err != nil {
			t.Fatalf("regenerate: %v", err)
		}
		views, err := env.generator.Compose(ctx, sess, nil)
		if err != nil {
			t.Fatalf("compose: %v", err)
		}
		if env.llm.composeCount() != round || !views[0].Fresh {
			t.Fatalf("round %d: compose calls = %d", round, env.llm.composeCount())
		}
	}
}

func TestRegenerateUnknownKey(t *testing.T) {
	env := newTestEnv(t)
	sess := env.newSession(t)

	err := env.generator.Regenerate(context.Background(), sess, "https://nowhere_0")
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmitSameURLClearsPreviousEmails(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	sess := env.newSession(t)

	_ = env.generator.Submit(ctx, sess, "https://example.com/jobs", nil)
	_, _ = env.generator.Compose(ctx, sess, nil)
	_ = env.generator.Submit(ctx, sess, "https://example.com/jobs", nil)
	views, _ := env.generator.Compose(ctx, sess, nil)

	if env.llm.composeCount() != 2 || !views[0].Fresh {
		t.Fatalf("expected recomposition after resubmit, calls = %d", env.llm.composeCount())
	}
}

func TestSubmitWithoutPortfolioContinues(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	if err := os.Remove(filepath.Join(env.dir, "my_portfolio.csv")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	sess := env.newSession(t)

	if err := env.generator.Submit(ctx, sess, "https://example.com/jobs", nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sess.PortfolioLoaded || sess.Notice == "" {
		t.Fatalf("expected portfolio notice, got %v %q", sess.PortfolioLoaded, sess.Notice)
	}
	if _, err := env.generator.Compose(ctx, sess, nil); err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !strings.Contains(env.llm.lastPrompt(), "incorporate them naturally: (none)") {
		t.Fatalf("expected no links in prompt")
	}
}

// restart rebuilds the generator over a fresh in-memory vector store, keeping
// the sessions and profiles, the way a process restart with a shared session
// cache would.
func (e *testEnv) restart() {
	log := logger.Discard()
	e.index = portfolio.NewIndex(filepath.Join(e.dir, "my_portfolio.csv"), portfolio.NewMemoryStore(), embedding.NewHashing(128), 2, log)
	e.generator = NewGeneratorService(e.pages, chain.New(e.llm, log), e.index, e.profiles, e.sessions, log)
}

func TestComposeReindexesAfterRestart(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	sess := env.newSession(t)

	if err := env.generator.Submit(ctx, sess, "https://example.com/jobs", nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !sess.PortfolioLoaded {
		t.Fatalf("portfolio not loaded on submit")
	}

	env.restart()
	if n, _ := env.index.Count(ctx); n != 0 {
		t.Fatalf("fresh store count = %d", n)
	}

	if _, err := env.generator.Compose(ctx, sess, nil); err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !strings.Contains(env.llm.lastPrompt(), "https://example.com/python") {
		t.Fatalf("portfolio link missing after restart: %q", env.llm.lastPrompt())
	}
	if n, _ := env.index.Count(ctx); n != 3 {
		t.Fatalf("store count after compose = %d", n)
	}
	if !sess.PortfolioLoaded || sess.Notice != "" {
		t.Fatalf("session = %v %q", sess.PortfolioLoaded, sess.Notice)
	}
}

func TestComposeFlagsMissingPortfolioAfterRestart(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	sess := env.newSession(t)

	if err := env.generator.Submit(ctx, sess, "https://example.com/jobs", nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := os.Remove(filepath.Join(env.dir, "my_portfolio.csv")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	env.restart()

	if _, err := env.generator.Compose(ctx, sess, nil); err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !strings.Contains(env.llm.lastPrompt(), "incorporate them naturally: (none)") {
		t.Fatalf("expected no links in prompt")
	}
	if sess.PortfolioLoaded || sess.Notice == "" {
		t.Fatalf("expected portfolio notice, got %v %q", sess.PortfolioLoaded, sess.Notice)
	}
}

func TestSubmitRejectsEmptyURL(t *testing.T) {
	env := newTestEnv(t)
	err := env.generator.Submit(context.Background(), env.newSession(t), "   ", nil)
	if !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if len(env.pages.urls) != 0 {
		t.Fatalf("page should not be fetched")
	}
}

func TestSubmitUnparseableExtraction(t *testing.T) {
	env := newTestEnv(t)
	env.llm.extractJSON = "Sorry, the page is too long."
	sess := env.newSession(t)

	err := env.generator.Submit(context.Background(), sess, "https://example.com/jobs", nil)
	if utils.PublicMessage(err) != "Context too big. Unable to parse jobs." {
		t.Fatalf("err = %v", err)
	}
	if len(sess.Jobs) != 0 {
		t.Fatalf("jobs should be untouched")
	}
}
