package service

import (
	"testing"

	"github.com/uniportal/thesis-portal/internal/core/domain"
)

func sessionWith(roles ...string) domain.Session {
	return domain.Session{
		Token: "token-123",
		User:  &domain.User{ID: "u1", Email: "u1@uni.edu", Roles: roles},
	}
}

func TestEvaluateGuardNoToken(t *testing.T) {
	d := EvaluateGuard(domain.Session{}, []domain.Role{domain.RoleAdmin}, RedirectPolicy{})
	if d.Outcome != GuardLoginRedirect {
		t.Fatalf("outcome = %v, want login redirect", d.Outcome)
	}
}

func TestEvaluateGuardTokenWithoutUser(t *testing.T) {
	// A corrupted user slot loads as nil; the guard fails closed.
	sess := domain.Session{Token: "token-123"}
	d := EvaluateGuard(sess, []domain.Role{domain.RoleStudent}, RedirectPolicy{})
	if d.Outcome != GuardLoginRedirect {
		t.Fatalf("outcome = %v, want login redirect", d.Outcome)
	}
}

func TestEvaluateGuardAllowWithoutRequirement(t *testing.T) {
	d := EvaluateGuard(sessionWith("user"), nil, RedirectPolicy{})
	if d.Outcome != GuardAllow {
		t.Fatalf("outcome = %v, want allow", d.Outcome)
	}
}

func TestEvaluateGuardAllowOnMatch(t *testing.T) {
	d := EvaluateGuard(sessionWith("student"), []domain.Role{domain.RoleStudent}, RedirectPolicy{})
	if d.Outcome != GuardAllow {
		t.Fatalf("outcome = %v, want allow", d.Outcome)
	}
	// The teacher alias matches a lecturer requirement.
	d = EvaluateGuard(sessionWith("teacher"), []domain.Role{domain.RoleLecturer}, RedirectPolicy{})
	if d.Outcome != GuardAllow {
		t.Fatalf("alias outcome = %v, want allow", d.Outcome)
	}
}

func TestEvaluateGuardMismatchRedirectsHome(t *testing.T) {
	d := EvaluateGuard(sessionWith("student"), []domain.Role{domain.RoleLecturer}, RedirectPolicy{})
	if d.Outcome != GuardHomeRedirect {
		t.Fatalf("outcome = %v, want home redirect", d.Outcome)
	}
	if d.Location != "/student/dashboard" {
		t.Fatalf("location = %q, want /student/dashboard", d.Location)
	}
}

func TestEvaluateGuardMismatchWithoutHomeFallsBack(t *testing.T) {
	// moderator has no dedicated home; the policy fallback applies.
	d := EvaluateGuard(sessionWith("moderator"), []domain.Role{domain.RoleAdmin}, RedirectPolicy{Fallback: "/profile"})
	if d.Outcome != GuardHomeRedirect || d.Location != "/profile" {
		t.Fatalf("decision = %+v, want /profile fallback", d)
	}

	// Empty role set with no configured fallback lands on login.
	d = EvaluateGuard(sessionWith(), []domain.Role{domain.RoleAdmin}, RedirectPolicy{})
	if d.Outcome != GuardHomeRedirect || d.Location != "/auth/login" {
		t.Fatalf("decision = %+v, want login fallback", d)
	}
}

func TestEvaluateGuardMismatchDenyPolicy(t *testing.T) {
	d := EvaluateGuard(sessionWith("student"), []domain.Role{domain.RoleAdmin}, DenyPolicy{})
	if d.Outcome != GuardDeny {
		t.Fatalf("outcome = %v, want deny", d.Outcome)
	}
}

// Every role home must admit its own role, so a redirect chain always
// terminates after one hop.
func TestRoleHomesAdmitTheirOwnRole(t *testing.T) {
	homes := map[string][]domain.Role{
		"admin":    {domain.RoleAdmin},
		"lecturer": {domain.RoleLecturer, domain.RoleAdmin},
		"student":  {domain.RoleStudent},
	}
	for role, required := range homes {
		if _, ok := domain.HomeRoute([]string{role}); !ok {
			t.Fatalf("role %q has no home route", role)
		}
		d := EvaluateGuard(sessionWith(role), required, RedirectPolicy{})
		if d.Outcome != GuardAllow {
			t.Fatalf("role %q is not admitted to its own home: %+v", role, d)
		}
	}
}
