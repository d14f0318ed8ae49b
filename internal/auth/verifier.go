package auth

// CredentialVerifier compares a stored credential against a presented
// one. The comparison lives behind this interface so that hashing and a
// timing-safe compare can land without touching the booking core.
type CredentialVerifier interface {
	Verify(stored, presented string) bool
}

// PlaintextVerifier matches the shipped behavior: credentials are stored
// and compared as entered. Deliberately not hardened here; see the
// design notes before changing the semantics.
type PlaintextVerifier struct{}

func (PlaintextVerifier) Verify(stored, presented string) bool {
	return stored == presented
}
