// Package auth implements the Yggdrasil and Microsoft authentication
// chains and the persisted session database, grounded in the teacher's
// api.AuthClient but replacing its device-code grant (wrong endpoint
// family for this flow) with the authorization_code/refresh_token grant
// the spec requires, and adding the Yggdrasil variant and database layer
// the teacher never implemented.
package auth

import (
	"context"
	"fmt"
)

// Kind discriminates the two session variants, and doubles as the
// top-level key under which each is persisted in the auth database.
type Kind string

const (
	KindYggdrasil Kind = "yggdrasil"
	KindMicrosoft Kind = "microsoft"
)

// Session is the capability set every variant exposes.
type Session interface {
	Validate(ctx context.Context) (bool, error)
	Refresh(ctx context.Context) error
	Invalidate(ctx context.Context) error
	FormatTokenArgument(legacy bool) string
	GetXUID() string
	AccessToken() string
	Username() string
	UUIDHex() string
	ClientID() string
	UserType() string
}

// ErrorKind tags the reason an AuthError occurred.
type ErrorKind string

const (
	Yggdrasil                    ErrorKind = "yggdrasil"
	Microsoft                    ErrorKind = "microsoft"
	MicrosoftInconsistentHash    ErrorKind = "microsoft_inconsistent_user_hash"
	MicrosoftDoesNotOwnMinecraft ErrorKind = "microsoft_does_not_own_minecraft"
	MicrosoftOutdatedToken       ErrorKind = "microsoft_outdated_token"
)

// Error is the typed error raised by any authentication step.
type Error struct {
	Kind    ErrorKind
	Details string
}

func (e *Error) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("auth error (%s)", e.Kind)
	}
	return fmt.Sprintf("auth error (%s): %s", e.Kind, e.Details)
}

func (e *Error) Code() string { return string(e.Kind) }

func tokenArgument(accessToken, uuidHex string, legacy bool) string {
	if legacy {
		return fmt.Sprintf("token:%s:%s", accessToken, uuidHex)
	}
	return accessToken
}
