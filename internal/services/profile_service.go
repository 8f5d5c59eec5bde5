package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/coldreach/internal/models"
	filerepo "github.com/yoockh/coldreach/internal/repositories/file"
	"github.com/yoockh/coldreach/internal/utils"
)

// MsgRequiredFields is shown when a save misses a required field.
const MsgRequiredFields = "Please fill in the required fields: Name, Title, and Company Name"

type ProfileService interface {
	// Current returns the saved profile, or the environment defaults with saved=false.
	Current(ctx context.Context) (p models.Profile, saved bool, err error)
	Save(ctx context.Context, p models.Profile) error
	Reset(ctx context.Context) error
	Export(ctx context.Context) ([]byte, error)
}

type profileService struct {
	profiles filerepo.ProfileRepository
	defaults models.Profile
	log      *logrus.Logger
}

func NewProfileService(profiles filerepo.ProfileRepository, defaults models.Profile, log *logrus.Logger) ProfileService {
	return &profileService{profiles: profiles, defaults: defaults, log: log}
}

func (s *profileService) Current(ctx context.Context) (models.Profile, bool, error) {
	const op = "ProfileService.Current"

	p, err := s.profiles.Get(ctx)
	if errors.Is(err, utils.ErrNotFound) {
		return s.defaults, false, nil
	}
	if err != nil {
		return models.Profile{}, false, utils.E(utils.CodeInternal, op, "failed to read profile", err)
	}
	return *p, true, nil
}

func (s *profileService) Save(ctx context.Context, p models.Profile) error {
	const op = "ProfileService.Save"

	p = normalizeProfile(p)
	if missing := p.MissingRequired(); len(missing) > 0 {
		return utils.E(utils.CodeInvalidArgument, op, MsgRequiredFields, nil)
	}
	if err := s.profiles.Save(ctx, p); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to save profile", err)
	}

	s.log.WithFields(logrus.Fields{
		"op":        op,
		"tone":      p.EmailTone,
		"signature": p.SignatureStyle,
	}).Info("profile saved")
	return nil
}

func (s *profileService) Reset(ctx context.Context) error {
	const op = "ProfileService.Reset"

	if err := s.profiles.Delete(ctx); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to reset profile", err)
	}
	s.log.WithField("op", op).Info("profile reset to defaults")
	return nil
}

func (s *profileService) Export(ctx context.Context) ([]byte, error) {
	const op = "ProfileService.Export"

	b, err := filerepo.Export(ctx, s.profiles, s.defaults)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to export profile", err)
	}
	return b, nil
}

func normalizeProfile(p models.Profile) models.Profile {
	for _, f := range []*string{
		&p.SenderName, &p.SenderTitle, &p.SenderEmail, &p.SenderPhone, &p.YearsExperience, &p.Location,
		&p.LinkedInURL, &p.GitHubURL, &p.PortfolioURL, &p.TwitterURL,
		&p.CompanyName, &p.CompanyType, &p.CompanyWebsite, &p.CompanySize, &p.EstablishedYear,
		&p.CompanyDescription, &p.CompanyAchievements, &p.UniqueValueProposition,
	} {
		*f = strings.TrimSpace(*f)
	}
	p.EmailTone = strings.ToLower(strings.TrimSpace(p.EmailTone))
	p.SignatureStyle = strings.ToLower(strings.TrimSpace(p.SignatureStyle))
	p.EmailLength = strings.ToLower(strings.TrimSpace(p.EmailLength))
	if p.EmailTone == "" {
		p.EmailTone = models.ToneProfessional
	}
	if p.SignatureStyle == "" {
		p.SignatureStyle = models.SignatureStandard
	}
	if p.EmailLength == "" {
		p.EmailLength = models.LengthMedium
	}
	return p
}
