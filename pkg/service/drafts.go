package service

import (
	"context"
	"errors"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/errs"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/session"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/store"
	"github.com/sirupsen/logrus"
)

// DraftService keeps at most one draft per user under draft_<username>.
type DraftService struct {
	store store.Store
}

// NewDraftService creates a draft service backed by s.
func NewDraftService(s store.Store) *DraftService {
	return &DraftService{store: s}
}

// Save replaces the user's draft.
func (d *DraftService) Save(ctx context.Context, username string, draft session.SessionDraft) error {
	if err := store.SetJSON(ctx, d.store, DraftKey(username), draft); err != nil {
		return err
	}
	logrus.Debugf("saved draft for user %s at season %d", username, draft.CurrentSeason)
	return nil
}

// Load returns the user's draft, or a NotFoundError if there is none.
func (d *DraftService) Load(ctx context.Context, username string) (session.SessionDraft, error) {
	var draft session.SessionDraft
	err := store.GetJSON(ctx, d.store, DraftKey(username), &draft)
	if errors.Is(err, store.ErrNotFound) {
		return session.SessionDraft{}, errs.NewNotFound("draft", username)
	}
	if err != nil {
		return session.SessionDraft{}, err
	}
	return draft, nil
}

// Exists reports whether the user has a draft.
func (d *DraftService) Exists(ctx context.Context, username string) (bool, error) {
	_, err := d.store.Get(ctx, DraftKey(username))
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errs.NewPersistence("get", DraftKey(username), err)
	}
	return true, nil
}

// Discard removes the user's draft. Discarding a missing draft is not an error.
func (d *DraftService) Discard(ctx context.Context, username string) error {
	if err := store.Delete(ctx, d.store, DraftKey(username)); err != nil {
		return err
	}
	logrus.Debugf("discarded draft for user %s", username)
	return nil
}
