package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Kind names a caller-facing failure. Handlers map kinds to status codes.
type Kind string

const (
	KindNotFound              Kind = "not_found"
	KindAmbiguousMatch        Kind = "ambiguous_match"
	KindSelfFriendRequest     Kind = "self_friend_request"
	KindAlreadyFriends        Kind = "already_friends"
	KindRequestAlreadyPending Kind = "request_already_pending"
	KindNoSuchRequest         Kind = "no_such_request"
	KindNoSuchFriendship      Kind = "no_such_friendship"
	KindUnknownTask           Kind = "unknown_task"
	KindNotCompleted          Kind = "not_completed"
	KindEmailTaken            Kind = "email_taken"
	KindInvalidInput          Kind = "invalid_input"
)

// Error is a typed, recoverable failure returned by the engines.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same kind, so wrapped variants still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotFound              = &Error{KindNotFound, "user not found"}
	ErrAmbiguousMatch        = &Error{KindAmbiguousMatch, "more than one user matches that name"}
	ErrSelfFriendRequest     = &Error{KindSelfFriendRequest, "you cannot send a friend request to yourself"}
	ErrAlreadyFriends        = &Error{KindAlreadyFriends, "you are already friends"}
	ErrRequestAlreadyPending = &Error{KindRequestAlreadyPending, "a friend request is already pending"}
	ErrNoSuchRequest         = &Error{KindNoSuchRequest, "no pending friend request"}
	ErrNoSuchFriendship      = &Error{KindNoSuchFriendship, "not friends"}
	ErrUnknownTask           = &Error{KindUnknownTask, "unknown task"}
	ErrNotCompleted          = &Error{KindNotCompleted, "task is not completed"}
	ErrEmailTaken            = &Error{KindEmailTaken, "email already registered"}
)

// invalidInput builds a validation error with a specific message.
func invalidInput(msg string) error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

// KindOf returns the kind of a typed error, or "" for storage and other failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// isUniqueViolation covers gorm's translated error and raw Postgres 23505.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
