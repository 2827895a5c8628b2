package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/harjunatn/fun-soccer/models"
	"github.com/harjunatn/fun-soccer/store"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrCapacityExceeded      = errors.New("team is full")
	ErrDuplicateRegistration = errors.New("you have already registered for this game")
	ErrInvalidRegistration   = errors.New("invalid registration")
	ErrInsufficientTeams     = errors.New("at least two teams are required to generate matches")
	ErrResultsRecorded       = errors.New("matches already have recorded results")
	ErrInvalidStatus         = errors.New("status must be confirmed or rejected")
	ErrInvalidTransition     = errors.New("player status is already final")
	ErrInvalidScore          = errors.New("invalid score")
	ErrScoreMismatch         = errors.New("scorer goals do not add up to the score")
	ErrInvalidGame           = errors.New("invalid game")
	ErrInvalidGalleryLink    = errors.New("gallery link must be an absolute http(s) URL")
	ErrPersistence           = errors.New("persistence failure")

	// errUnchanged aborts an update without writing anything.
	errUnchanged = errors.New("unchanged")
)

// NotFoundError names the kind of entity that is missing.
// errors.Is(err, ErrNotFound) matches any kind.
type NotFoundError struct {
	Kind string
}

func (e *NotFoundError) Error() string {
	return e.Kind + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(kind string) error {
	return &NotFoundError{Kind: kind}
}

// IsNotFound reports whether err is a NotFoundError of the given kind.
func IsNotFound(err error, kind string) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) && nf.Kind == kind
}

// PersistenceError wraps a failure of the store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// loadGame maps store errors onto the service taxonomy.
func loadGame(ctx context.Context, st store.Store, op, id string) (*models.Game, error) {
	game, err := st.LoadGame(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("game")
		}
		return nil, &PersistenceError{Op: op, Err: err}
	}
	return game, nil
}

// updateGame runs fn inside the store's update unit. Errors returned by fn
// come back unchanged, except errUnchanged which means success without a write.
func updateGame(ctx context.Context, st store.Store, op, id string, fn func(game *models.Game) error) error {
	var fnErr error
	err := st.UpdateGame(ctx, id, func(game *models.Game) error {
		fnErr = fn(game)
		return fnErr
	})
	if err == nil {
		return nil
	}
	if fnErr != nil {
		if errors.Is(fnErr, errUnchanged) {
			return nil
		}
		return fnErr
	}
	if errors.Is(err, store.ErrNotFound) {
		return notFound("game")
	}
	return &PersistenceError{Op: op, Err: err}
}
