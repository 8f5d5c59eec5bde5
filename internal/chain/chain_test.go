package chain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yoockh/coldreach/internal/logger"
	"github.com/yoockh/coldreach/internal/models"
	"github.com/yoockh/coldreach/internal/utils"
)

type fakeLLM struct {
	answers []string
	err     error
	prompts []string
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.answers) == 0 {
		return "", nil
	}
	a := f.answers[0]
	if len(f.answers) > 1 {
		f.answers = f.answers[1:]
	}
	return a, nil
}

func (f *fakeLLM) Close() error { return nil }

func TestExtractJobsList(t *testing.T) {
	fake := &fakeLLM{answers: []string{"```json\n[{\"role\":\"Software Engineer\",\"skills\":[\"Python\"]},{\"role\":\"Data Analyst\",\"skills\":\"SQL, Excel\"}]\n```"}}
	c := New(fake, logger.Discard())

	jobs, err := c.ExtractJobs(context.Background(), "We are hiring a Software Engineer")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("jobs = %d", len(jobs))
	}
	if jobs[1].Skills[1] != "Excel" {
		t.Fatalf("skills = %#v", jobs[1].Skills)
	}
	if !strings.Contains(fake.prompts[0], "We are hiring a Software Engineer") {
		t.Fatalf("prompt missing page text:\n%s", fake.prompts[0])
	}
	if !strings.Contains(fake.prompts[0], "### VALID JSON (NO PREAMBLE):") {
		t.Fatalf("prompt missing output marker")
	}
}

func TestExtractJobsWrapsSingleObject(t *testing.T) {
	fake := &fakeLLM{answers: []string{`Here you go: {"role":"Software Engineer","experience":"2 years","skills":["Python"]}`}}
	c := New(fake, logger.Discard())

	jobs, err := c.ExtractJobs(context.Background(), "text")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Role != "Software Engineer" {
		t.Fatalf("jobs = %#v", jobs)
	}
}

func TestExtractJobsPrefersFencedBlock(t *testing.T) {
	answer := "Here are the roles [2 found]:\n```json\n" +
		`[{"role":"Backend Engineer","skills":["Go"]},{"role":"SRE","skills":["Kubernetes"]}]` +
		"\n```\nLet me know if you need more."
	c := New(&fakeLLM{answers: []string{answer}}, logger.Discard())

	jobs, err := c.ExtractJobs(context.Background(), "text")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(jobs) != 2 || jobs[0].Role != "Backend Engineer" || jobs[1].Role != "SRE" {
		t.Fatalf("jobs = %#v", jobs)
	}
}

func TestExtractJobsEmptyList(t *testing.T) {
	c := New(&fakeLLM{answers: []string{"[]"}}, logger.Discard())

	jobs, err := c.ExtractJobs(context.Background(), "no openings")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if jobs == nil || len(jobs) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", jobs)
	}
}

func TestExtractJobsUnparseable(t *testing.T) {
	for _, answer := range []string{"I could not find any jobs.", `[{"role": "Engineer",`} {
		c := New(&fakeLLM{answers: []string{answer}}, logger.Discard())

		_, err := c.ExtractJobs(context.Background(), "text")
		if !utils.IsCode(err, utils.CodeUnprocessable) {
			t.Fatalf("answer %q: expected unprocessable, got %v", answer, err)
		}
		if utils.PublicMessage(err) != ErrUnparseable {
			t.Fatalf("message = %q", utils.PublicMessage(err))
		}
	}
}

func TestExtractJobsModelError(t *testing.T) {
	c := New(&fakeLLM{err: errors.New("quota")}, logger.Discard())
	if _, err := c.ExtractJobs(context.Background(), "text"); !utils.IsCode(err, utils.CodeUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestBuildEmailPromptCasualMinimal(t *testing.T) {
	p := models.WithPreferenceDefaults()
	p.SenderName = "Ada"
	p.SenderTitle = "Founder"
	p.CompanyName = "Acme"
	p.EmailTone = models.ToneCasual
	p.SignatureStyle = models.SignatureMinimal

	got, err := BuildEmailPrompt(models.JobPosting{Role: "Software Engineer"}, []string{"https://example.com/py"}, p)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if !strings.Contains(got, toneInstructions[models.ToneCasual]) {
		t.Fatalf("missing casual directive")
	}
	if !strings.Contains(got, signatureInstructions[models.SignatureMinimal]) {
		t.Fatalf("missing minimal directive")
	}
	for tone, s := range toneInstructions {
		if tone != models.ToneCasual && strings.Contains(got, s) {
			t.Fatalf("unexpected %s tone directive", tone)
		}
	}
	for style, s := range signatureInstructions {
		if style != models.SignatureMinimal && strings.Contains(got, s) {
			t.Fatalf("unexpected %s signature directive", style)
		}
	}
	for _, want := range []string{"You are Ada, Founder at Acme.", "https://example.com/py", `"role": "Software Engineer"`} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestBuildEmailPromptDefaultsAndContacts(t *testing.T) {
	p := models.Profile{
		SenderName:  "Ada",
		SenderTitle: "Founder",
		CompanyName: "Acme",
		SenderEmail: "ada@acme.io",
		GitHubURL:   "https://github.com/ada",
		EmailTone:   "sarcastic",
	}

	got, err := BuildEmailPrompt(models.JobPosting{}, nil, p)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, want := range []string{
		ToneInstruction(models.ToneProfessional),
		SignatureInstruction(models.SignatureStandard),
		LengthInstruction(models.LengthMedium),
		"- Email: ada@acme.io",
		"- GitHub: https://github.com/ada",
		"incorporate them naturally: (none)",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "- Phone:") {
		t.Fatalf("empty contact line rendered")
	}
}

func TestWriteMailTrimsAnswer(t *testing.T) {
	fake := &fakeLLM{answers: []string{"\n  Subject: Hello\n\nHi there  \n"}}
	c := New(fake, logger.Discard())

	p := models.Profile{SenderName: "Ada", SenderTitle: "Founder", CompanyName: "Acme"}
	got, err := c.WriteMail(context.Background(), models.JobPosting{Role: "SRE"}, nil, p)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if got != "Subject: Hello\n\nHi there" {
		t.Fatalf("email = %q", got)
	}
}
