package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/coldreach/internal/models"
	mongorepo "github.com/yoockh/coldreach/internal/repositories/mongo"
	"github.com/yoockh/coldreach/internal/storage"
	"github.com/yoockh/coldreach/internal/utils"
)

type DraftService interface {
	// Save writes body to email_draft_<timestamp>.txt and records it.
	Save(ctx context.Context, sess *models.Session, key, body string) (*models.Draft, error)
	Recent(ctx context.Context, limit int) ([]models.Draft, error)
}

type draftService struct {
	files  storage.Uploader
	drafts mongorepo.DraftRepository
	log    *logrus.Logger
	now    func() time.Time
}

func NewDraftService(files storage.Uploader, drafts mongorepo.DraftRepository, log *logrus.Logger) DraftService {
	return &draftService{files: files, drafts: drafts, log: log, now: time.Now}
}

// DraftFileName names a draft saved at t.
func DraftFileName(t time.Time) string {
	return "email_draft_" + t.Format("20060102_150405") + ".txt"
}

func (s *draftService) Save(ctx context.Context, sess *models.Session, key, body string) (*models.Draft, error) {
	const op = "DraftService.Save"

	if strings.TrimSpace(body) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Nothing to save: the email is empty", nil)
	}

	now := s.now()
	d := &models.Draft{
		ID:        uuid.NewString(),
		SessionID: sess.ID,
		JobKey:    key,
		FileName:  DraftFileName(now),
		Body:      body,
		CreatedAt: now.UTC(),
	}
	for i, job := range sess.Jobs {
		if models.JobKey(sess.LastURL, i) == key {
			d.Role = string(job.Role)
			d.Company = string(job.Company)
			break
		}
	}

	loc, err := s.files.Upload(ctx, d.FileName, "text/plain; charset=utf-8", strings.NewReader(body))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to write draft", err)
	}
	d.Location = loc

	if err := s.drafts.Insert(ctx, d); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to record draft", err)
	}

	s.log.WithFields(logrus.Fields{
		"op":         op,
		"session_id": sess.ID,
		"file":       d.FileName,
		"location":   loc,
	}).Info("draft saved")
	return d, nil
}

func (s *draftService) Recent(ctx context.Context, limit int) ([]models.Draft, error) {
	const op = "DraftService.Recent"

	out, err := s.drafts.ListRecent(ctx, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list drafts", err)
	}
	return out, nil
}
