package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	err := New(CodeParseFailure, "parse failed")
	if !strings.Contains(err.Error(), "PARSE_FAILURE") {
		t.Errorf("expected code in message, got %q", err.Error())
	}

	wrapped := Wrap(fmt.Errorf("boom"), CodeFileAccess, "read failed")
	if !strings.Contains(wrapped.Error(), "boom") {
		t.Errorf("expected cause in message, got %q", wrapped.Error())
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("io failure")
	wrapped := Wrap(cause, CodeFileAccess, "read failed")
	if !errors.Is(wrapped, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestIsCode(t *testing.T) {
	err := New(CodeNotFound, "missing")
	if !IsCode(err, CodeNotFound) {
		t.Error("expected IsCode to match")
	}
	if IsCode(err, CodeInternal) {
		t.Error("expected IsCode to reject other codes")
	}
	if IsCode(fmt.Errorf("plain"), CodeNotFound) {
		t.Error("expected IsCode to reject non-domain errors")
	}
}

func TestAddContext(t *testing.T) {
	err := AddContext(New(CodeParseFailure, "bad input"), CtxPath, "/src/a.ts")
	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatal("expected a DomainError")
	}
	if de.Context[CtxPath] != "/src/a.ts" {
		t.Errorf("expected path context, got %v", de.Context)
	}

	plain := AddContext(fmt.Errorf("plain"), CtxOperation, "resolve")
	if CodeOf(plain) != CodeInternal {
		t.Errorf("expected internal code for wrapped plain error, got %s", CodeOf(plain))
	}
}
