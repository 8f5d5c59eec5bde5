package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/coldreach/internal/models"
	"github.com/yoockh/coldreach/internal/providers/llm"
	"github.com/yoockh/coldreach/internal/utils"
)

// ErrUnparseable is the message shown when the extraction answer is not JSON.
const ErrUnparseable = "Context too big. Unable to parse jobs."

// Chain owns the extract and compose prompts and runs them on the model.
type Chain struct {
	llm llm.Provider
	log *logrus.Logger
}

func New(p llm.Provider, log *logrus.Logger) *Chain {
	return &Chain{llm: p, log: log}
}

// ExtractJobs asks the model for the job postings in text. The answer is
// always a list; a lone object is wrapped.
func (c *Chain) ExtractJobs(ctx context.Context, text string) ([]models.JobPosting, error) {
	const op = "Chain.ExtractJobs"

	prompt, err := buildExtractPrompt(text)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to build prompt", err)
	}

	start := time.Now()
	answer, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "llm request failed", err)
	}

	raw, err := firstJSONValue(answer)
	if err != nil {
		return nil, utils.E(utils.CodeUnprocessable, op, ErrUnparseable, err)
	}

	var jobs []models.JobPosting
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &jobs); err != nil {
			return nil, utils.E(utils.CodeUnprocessable, op, ErrUnparseable, err)
		}
	} else {
		var one models.JobPosting
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, utils.E(utils.CodeUnprocessable, op, ErrUnparseable, err)
		}
		jobs = []models.JobPosting{one}
		c.log.WithFields(logrus.Fields{
			"op":            op,
			"normalization": "single_object",
		}).Warn("model returned a single job object; wrapped into a list")
	}
	if jobs == nil {
		jobs = []models.JobPosting{}
	}

	c.log.WithFields(logrus.Fields{
		"op":          op,
		"jobs":        len(jobs),
		"input_chars": len(text),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("jobs extracted")
	return jobs, nil
}

// WriteMail composes a cold email for job as the given sender.
func (c *Chain) WriteMail(ctx context.Context, job models.JobPosting, links []string, p models.Profile) (string, error) {
	const op = "Chain.WriteMail"

	prompt, err := BuildEmailPrompt(job, links, p)
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to build prompt", err)
	}
	answer, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "llm request failed", err)
	}
	return strings.TrimSpace(answer), nil
}

var fencedBlock = regexp.MustCompile("(?s)```[A-Za-z]*[ \t]*\n?(.*?)```")

// firstJSONValue returns the first JSON object or array in s. A fenced code
// block is searched first; otherwise the first bracket anywhere starts it.
func firstJSONValue(s string) (json.RawMessage, error) {
	if m := fencedBlock.FindStringSubmatch(s); m != nil {
		if raw, err := decodeFrom(m[1]); err == nil {
			return raw, nil
		}
	}
	return decodeFrom(strings.Trim(strings.TrimSpace(s), "`"))
}

func decodeFrom(s string) (json.RawMessage, error) {
	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return nil, errNoJSON
	}

	dec := json.NewDecoder(strings.NewReader(s[start:]))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(raw), nil
}

type parseError string

func (e parseError) Error() string { return string(e) }

const errNoJSON = parseError("no JSON value in model output")
