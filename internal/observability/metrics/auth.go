package metrics

// Package metrics collects and exposes Prometheus metrics for the admin
// session lifecycle.

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AuthCollector counts session lifecycle outcomes. All methods are safe on a
// nil receiver so callers can run without metrics wired.
type AuthCollector struct {
	loginSuccess    prometheus.Counter
	loginFailure    prometheus.Counter
	logout          prometheus.Counter
	validateSuccess prometheus.Counter
	validateFailure prometheus.Counter
	revokeFailure   prometheus.Counter
}

// NewAuthCollector creates an AuthCollector and registers its metrics with reg.
func NewAuthCollector(reg prometheus.Registerer) *AuthCollector {
	c := &AuthCollector{
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "algexpress_login_success_total",
			Help: "Successful admin logins.",
		}),
		loginFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "algexpress_login_failure_total",
			Help: "Failed admin login attempts.",
		}),
		logout: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "algexpress_logout_total",
			Help: "Admin logouts.",
		}),
		validateSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "algexpress_session_validate_success_total",
			Help: "Persisted sessions restored at validation.",
		}),
		validateFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "algexpress_session_validate_failure_total",
			Help: "Persisted sessions rejected or absent at validation.",
		}),
		revokeFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "algexpress_token_revoke_failure_total",
			Help: "Best-effort token revocations that failed during logout.",
		}),
	}

	reg.MustRegister(
		c.loginSuccess,
		c.loginFailure,
		c.logout,
		c.validateSuccess,
		c.validateFailure,
		c.revokeFailure,
	)

	return c
}

// RecordLoginSuccess counts a successful login.
func (c *AuthCollector) RecordLoginSuccess() {
	if c == nil {
		return
	}
	c.loginSuccess.Inc()
}

// RecordLoginFailure counts a rejected or failed login attempt.
func (c *AuthCollector) RecordLoginFailure() {
	if c == nil {
		return
	}
	c.loginFailure.Inc()
}

// RecordLogout counts a logout.
func (c *AuthCollector) RecordLogout() {
	if c == nil {
		return
	}
	c.logout.Inc()
}

// RecordValidateOutcome counts one session validation by result.
func (c *AuthCollector) RecordValidateOutcome(restored bool) {
	if c == nil {
		return
	}
	if restored {
		c.validateSuccess.Inc()
		return
	}
	c.validateFailure.Inc()
}

// RecordRevokeFailure counts a swallowed revocation failure.
func (c *AuthCollector) RecordRevokeFailure() {
	if c == nil {
		return
	}
	c.revokeFailure.Inc()
}
