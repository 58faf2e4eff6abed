package service

import "errors"

// Kind classifies a service error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindInvalidTarget
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

var (
	ErrNameRequired     = errors.New("name is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrReceiverRequired = errors.New("receiver_id is required")
	ErrContentRequired  = errors.New("content is required")
	ErrContentTooLong   = errors.New("content exceeds 5000 characters")
	ErrInvalidStatus    = errors.New("status must be Accepted or Rejected")

	ErrSelfTarget = errors.New("cannot target yourself")

	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrForbidden  = errors.New("only the receiver can update this request")
	ErrNotParty   = errors.New("not a party to this swap request")
	ErrNotMatched = errors.New("you can only message users you have an accepted swap with")

	ErrUserNotFound    = errors.New("user not found")
	ErrRequestNotFound = errors.New("swap request not found")

	ErrEmailTaken     = errors.New("email already taken")
	ErrNameTaken      = errors.New("display name already taken")
	ErrRequestExists  = errors.New("a swap request between these users already exists")
	ErrAlreadyDecided = errors.New("swap request has already been decided")
)

var kinds = map[error]Kind{
	ErrNameRequired:       KindValidation,
	ErrEmailRequired:      KindValidation,
	ErrPasswordRequired:   KindValidation,
	ErrReceiverRequired:   KindValidation,
	ErrContentRequired:    KindValidation,
	ErrContentTooLong:     KindValidation,
	ErrInvalidStatus:      KindValidation,
	ErrSelfTarget:         KindInvalidTarget,
	ErrInvalidCredentials: KindUnauthenticated,
	ErrForbidden:          KindForbidden,
	ErrNotParty:           KindForbidden,
	ErrNotMatched:         KindForbidden,
	ErrUserNotFound:       KindNotFound,
	ErrRequestNotFound:    KindNotFound,
	ErrEmailTaken:         KindConflict,
	ErrNameTaken:          KindConflict,
	ErrRequestExists:      KindConflict,
	ErrAlreadyDecided:     KindConflict,
}

// KindOf reports the kind of err. Errors not raised by this package are
// KindInternal.
func KindOf(err error) Kind {
	for sentinel, kind := range kinds {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindInternal
}
