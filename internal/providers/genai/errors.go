package genai

import (
	"errors"
	"fmt"
	"strings"

	sdk "google.golang.org/genai"

	"creativestudio/internal/domain"
)

// DefaultErrorMessage is reported when an error carries no usable text.
const DefaultErrorMessage = "Generation failed"

// Credential labels which key a failed call used.
type Credential string

const (
	CredentialShared   Credential = "shared"
	CredentialOverride Credential = "override"
)

var ErrNotConfigured = errors.New("genai: no shared generator configured")

// ProviderError is returned for every failed generation call.
type ProviderError struct {
	Message    string
	Credential Credential
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("genai: %s credential: %s", e.Credential, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) Is(target error) bool {
	return target == domain.ErrProviderFailure
}

func newProviderError(cred Credential, err error) *ProviderError {
	msg := apiErrorMessage(err)
	if msg == "" && err != nil {
		msg = strings.TrimSpace(err.Error())
	}
	return &ProviderError{Message: msg, Credential: cred, Err: err}
}

// ErrorMessage extracts the most specific human-readable message from err.
func ErrorMessage(err error) string {
	if err == nil {
		return DefaultErrorMessage
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		if msg := strings.TrimSpace(pe.Message); msg != "" {
			return msg
		}
	}
	if msg := apiErrorMessage(err); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}

// The SDK returns APIError by value; accept a pointer too.
func apiErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr sdk.APIError
	if errors.As(err, &apiErr) {
		return strings.TrimSpace(apiErr.Message)
	}
	var apiErrPtr *sdk.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return strings.TrimSpace(apiErrPtr.Message)
	}
	return ""
}
