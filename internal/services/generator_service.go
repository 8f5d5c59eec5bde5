package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/coldreach/internal/chain"
	"github.com/yoockh/coldreach/internal/models"
	"github.com/yoockh/coldreach/internal/portfolio"
	"github.com/yoockh/coldreach/internal/scrape"
	"github.com/yoockh/coldreach/internal/utils"
)

// Pipeline stages reported through a ProgressFunc.
const (
	StageFetching   = "fetching"
	StageCleaning   = "cleaning"
	StagePortfolio  = "portfolio"
	StageExtracting = "extracting"
	StageComposing  = "composing"
)

const msgNoPortfolio = "Portfolio not available. Emails will be generated without portfolio links."

// ProgressFunc receives a stage name and a short human readable note.
type ProgressFunc func(stage, note string)

// JobView is one job with its composed email, ready to display.
type JobView struct {
	Key   string            `json:"key"`
	Index int               `json:"index"`
	Job   models.JobPosting `json:"job"`
	Email string            `json:"email"`
	Fresh bool              `json:"fresh"` // composed during this call
}

type GeneratorService interface {
	// Submit scrapes url, extracts its jobs and stores them in the session.
	Submit(ctx context.Context, sess *models.Session, url string, progress ProgressFunc) error
	// Compose returns an email for every session job, reusing cached ones.
	Compose(ctx context.Context, sess *models.Session, onJob func(JobView)) ([]JobView, error)
	// Regenerate discards the cached email for one job key.
	Regenerate(ctx context.Context, sess *models.Session, key string) error
}

type generatorService struct {
	pages     scrape.PageLoader
	chain     *chain.Chain
	portfolio *portfolio.Index
	profiles  ProfileService
	sessions  SessionService
	log       *logrus.Logger
}

func NewGeneratorService(
	pages scrape.PageLoader,
	ch *chain.Chain,
	idx *portfolio.Index,
	profiles ProfileService,
	sessions SessionService,
	log *logrus.Logger,
) GeneratorService {
	return &generatorService{
		pages:     pages,
		chain:     ch,
		portfolio: idx,
		profiles:  profiles,
		sessions:  sessions,
		log:       log,
	}
}

func (s *generatorService) Submit(ctx context.Context, sess *models.Session, rawURL string, progress ProgressFunc) error {
	const op = "GeneratorService.Submit"

	if progress == nil {
		progress = func(string, string) {}
	}
	target, err := scrape.NormalizeURL(rawURL)
	if err != nil {
		return utils.E(utils.CodeInvalidArgument, op, "Please enter a valid URL", err)
	}
	start := time.Now()

	progress(StageFetching, target)
	page, err := s.pages.Load(ctx, target)
	if err != nil {
		return err
	}

	progress(StageCleaning, "")
	text := scrape.CleanText(page)

	progress(StagePortfolio, "")
	s.refreshPortfolio(ctx, op, sess)

	progress(StageExtracting, "")
	jobs, err := s.chain.ExtractJobs(ctx, text)
	if err != nil {
		return err
	}

	if err := s.sessions.DropEmails(ctx, sess.ID, jobKeys(sess)...); err != nil {
		return err
	}
	sess.LastURL = target
	sess.Jobs = jobs
	if err := s.sessions.Save(ctx, sess); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"op":          op,
		"session_id":  sess.ID,
		"url":         target,
		"jobs":        len(jobs),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("page processed")
	return nil
}

func (s *generatorService) Compose(ctx context.Context, sess *models.Session, onJob func(JobView)) ([]JobView, error) {
	const op = "GeneratorService.Compose"

	if len(sess.Jobs) == 0 {
		return nil, nil
	}
	profile, _, err := s.profiles.Current(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]JobView, 0, len(sess.Jobs))
	composed := 0
	checked := false
	var composeErr error
	for i, job := range sess.Jobs {
		key := models.JobKey(sess.LastURL, i)
		v := JobView{Key: key, Index: i, Job: job}

		body, hit, err := s.sessions.Email(ctx, sess.ID, key)
		if err != nil {
			composeErr = err
			break
		}
		if !hit {
			// The vector store may have been emptied since Submit, e.g. an
			// in-memory store across a restart.
			if !checked && profile.IncludePortfolio {
				s.refreshPortfolio(ctx, op, sess)
				checked = true
			}
			body, err = s.compose(ctx, sess, job, profile)
			if err != nil {
				composeErr = err
				break
			}
			if err := s.sessions.StoreEmail(ctx, sess.ID, key, body); err != nil {
				composeErr = err
				break
			}
			v.Fresh = true
			composed++
		}
		v.Email = body
		views = append(views, v)
		if onJob != nil {
			onJob(v)
		}
	}

	if composed > 0 {
		sess.Generated += composed
		if err := s.sessions.Save(ctx, sess); err != nil && composeErr == nil {
			composeErr = err
		}
		s.log.WithFields(logrus.Fields{
			"op":         op,
			"session_id": sess.ID,
			"composed":   composed,
			"cached":     len(views) - composed,
		}).Info("emails composed")
	}
	return views, composeErr
}

// refreshPortfolio makes sure the portfolio is indexed and records the
// outcome on the session.
func (s *generatorService) refreshPortfolio(ctx context.Context, op string, sess *models.Session) {
	sess.Notice = ""
	loaded, err := s.portfolio.Load(ctx)
	if err != nil || !loaded {
		s.log.WithFields(logrus.Fields{"op": op, "error": err}).Info("continuing without portfolio")
		sess.Notice = msgNoPortfolio
	}
	sess.PortfolioLoaded = loaded && err == nil
}

func (s *generatorService) compose(ctx context.Context, sess *models.Session, job models.JobPosting, p models.Profile) (string, error) {
	const op = "GeneratorService.compose"

	links := []string{}
	if p.IncludePortfolio && sess.PortfolioLoaded {
		found, err := s.portfolio.QueryLinks(ctx, job.Skills)
		if err != nil {
			s.log.WithFields(logrus.Fields{"op": op, "error": err}).Warn("portfolio lookup failed")
		} else {
			links = found
		}
	}
	return s.chain.WriteMail(ctx, job, links, p)
}

func (s *generatorService) Regenerate(ctx context.Context, sess *models.Session, key string) error {
	const op = "GeneratorService.Regenerate"

	if key == "" {
		return utils.E(utils.CodeInvalidArgument, op, "job key is required", nil)
	}
	found := false
	for _, k := range jobKeys(sess) {
		if k == key {
			found = true
			break
		}
	}
	if !found {
		return utils.E(utils.CodeNotFound, op, "job not found in session", nil)
	}
	return s.sessions.DropEmails(ctx, sess.ID, key)
}

func jobKeys(sess *models.Session) []string {
	keys := make([]string, len(sess.Jobs))
	for i := range sess.Jobs {
		keys[i] = models.JobKey(sess.LastURL, i)
	}
	return keys
}
