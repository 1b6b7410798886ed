package service

import (
	"github.com/uniportal/thesis-portal/internal/core/domain"
)

// loginFallback is where guarded navigation lands when no session (or no
// recognized role home) exists.
const loginFallback = "/auth/login"

// GuardOutcome enumerates the terminal states of one guard evaluation.
type GuardOutcome int

const (
	// GuardAllow renders the guarded content.
	GuardAllow GuardOutcome = iota
	// GuardLoginRedirect sends the visitor to login, carrying the
	// attempted path so login can return them afterwards.
	GuardLoginRedirect
	// GuardHomeRedirect silently sends the user to their role home.
	GuardHomeRedirect
	// GuardDeny renders the explicit access-denied surface.
	GuardDeny
)

// GuardDecision is the outcome of a guard evaluation. Location is set for
// GuardHomeRedirect; login redirects compose their own location from the
// attempted path.
type GuardDecision struct {
	Outcome  GuardOutcome
	Location string
}

// GuardPolicy decides what happens when an authenticated user's roles do
// not intersect a route's requirement. Two strategies exist; each route
// family picks exactly one.
type GuardPolicy interface {
	OnRoleMismatch(sess domain.Session, required []domain.Role) GuardDecision
}

// RedirectPolicy is the silent strategy: the user is sent to their own
// role home with no explanation. Role sets without a recognized home go
// to Fallback (login when empty).
type RedirectPolicy struct {
	Fallback string
}

func (p RedirectPolicy) OnRoleMismatch(sess domain.Session, _ []domain.Role) GuardDecision {
	if home, ok := domain.HomeRoute(sess.Roles()); ok {
		return GuardDecision{Outcome: GuardHomeRedirect, Location: home}
	}
	fallback := p.Fallback
	if fallback == "" {
		fallback = loginFallback
	}
	return GuardDecision{Outcome: GuardHomeRedirect, Location: fallback}
}

// DenyPolicy is the explicit strategy: render an access-denied surface
// naming the user's current role(s) and the requirement, with "go back"
// and "logout" escapes.
type DenyPolicy struct{}

func (DenyPolicy) OnRoleMismatch(domain.Session, []domain.Role) GuardDecision {
	return GuardDecision{Outcome: GuardDeny}
}

// EvaluateGuard runs the per-navigation decision table. It is synchronous
// and side-effect-free; every error condition fails closed:
//
//  1. no token                       → login redirect
//  2. token but no usable user record → login redirect (corrupted session)
//  3. role requirement unmet          → policy outcome
//  4. otherwise                       → allow
func EvaluateGuard(sess domain.Session, required []domain.Role, policy GuardPolicy) GuardDecision {
	if !sess.IsAuthenticated() {
		return GuardDecision{Outcome: GuardLoginRedirect}
	}
	if sess.User == nil {
		return GuardDecision{Outcome: GuardLoginRedirect}
	}
	if len(required) > 0 && !domain.HasAnyRole(sess.Roles(), required) {
		return policy.OnRoleMismatch(sess, required)
	}
	return GuardDecision{Outcome: GuardAllow}
}
