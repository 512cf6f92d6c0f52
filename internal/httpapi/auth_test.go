package httpapi

import (
	"testing"
	"time"

	"usahaku/backend/internal/domain"
	"usahaku/backend/internal/store/memory"
)

func TestTokenRoundTrip(t *testing.T) {
	auth := NewAuthManager("test-secret-key", time.Hour, memory.NewSeeded())

	resp, err := auth.Login(domain.LoginRequest{Username: "owner", Password: "owner123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Role != "owner" {
		t.Fatalf("expected owner role, got %q", resp.Role)
	}

	actor, err := auth.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if actor.Username != "owner" || actor.Role != "owner" {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	auth := NewAuthManager("test-secret-key", time.Hour, nil)

	if _, err := auth.ParseToken("not-a-token"); err == nil {
		t.Fatalf("expected parse failure")
	}
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	signer := NewAuthManager("secret-one-secret-one-secret-one", time.Hour, memory.NewSeeded())
	verifier := NewAuthManager("secret-two-secret-two-secret-two", time.Hour, nil)

	resp, err := signer.Login(domain.LoginRequest{Username: "staff", Password: "staff123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := verifier.ParseToken(resp.AccessToken); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestCreateStaffValidation(t *testing.T) {
	auth := NewAuthManager("test-secret-key", time.Hour, memory.New())

	if _, err := auth.CreateStaff(domain.StaffCreateRequest{Username: "ab", Password: "longenough"}); err == nil {
		t.Fatalf("expected short username to be rejected")
	}
	if _, err := auth.CreateStaff(domain.StaffCreateRequest{Username: "kasir1", Password: "123"}); err == nil {
		t.Fatalf("expected short password to be rejected")
	}

	user, err := auth.CreateStaff(domain.StaffCreateRequest{Username: "Kasir1", Password: "rahasia1"})
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}
	if user.Username != "kasir1" {
		t.Fatalf("expected lowercased username, got %q", user.Username)
	}

	if _, err := auth.CreateStaff(domain.StaffCreateRequest{Username: "kasir1", Password: "rahasia1"}); err == nil {
		t.Fatalf("expected duplicate username to be rejected")
	}

	staff := auth.ListStaff()
	if len(staff) != 1 || staff[0].Username != "kasir1" {
		t.Fatalf("unexpected staff list: %+v", staff)
	}

	resp, err := auth.Login(domain.LoginRequest{Username: "kasir1", Password: "rahasia1"})
	if err != nil {
		t.Fatalf("new staff login: %v", err)
	}
	if resp.Role != "staff" {
		t.Fatalf("expected staff role, got %q", resp.Role)
	}
}

func TestCSRFTokenValidity(t *testing.T) {
	api := New(nil, nil, "*")

	token := api.generateCSRFToken()
	if !api.validateCSRFToken(token) {
		t.Fatalf("expected freshly issued token to validate")
	}
	if api.validateCSRFToken("deadbeef") {
		t.Fatalf("expected forged token to fail")
	}
	if api.validateCSRFToken("") {
		t.Fatalf("expected empty token to fail")
	}
}
