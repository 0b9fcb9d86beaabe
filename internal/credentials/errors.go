package credentials

import "fmt"

// CredentialError reports that no usable service-account credential exists.
type CredentialError struct {
	Source string
	Reason string
	Err    error
}

func (e *CredentialError) Error() string {
	msg := fmt.Sprintf("credentials: %s (checked %s); configure %s or a %s table in the secrets file",
		e.Reason, e.Source, EnvProjectID+"/"+EnvPrivateKey, SecretsKey)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}
