package errors

import "testing"

func TestSentinelErrors(t *testing.T) {
	if ErrEmailTaken == nil {
		t.Error("ErrEmailTaken should not be nil")
	}
	if ErrInvalidCredentials == nil {
		t.Error("ErrInvalidCredentials should not be nil")
	}
	if ErrTaskNotFound == nil {
		t.Error("ErrTaskNotFound should not be nil")
	}
}

func TestCredentialErrorsShareNoDetail(t *testing.T) {
	// Login failures must read identically for unknown email and wrong
	// password; both map to the one sentinel.
	if ErrInvalidCredentials.Error() != "incorrect email or password" {
		t.Errorf("unexpected message: %q", ErrInvalidCredentials.Error())
	}
}
