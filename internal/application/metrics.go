package application

import "expvar"

// Counters published under /debug/vars.
var (
	usersMetrics  = expvar.NewMap("users")
	usersCreated  = new(expvar.Int)
	usersDeleted  = new(expvar.Int)
	loginFailures = new(expvar.Int)
	demoSeeded    = new(expvar.Int)
	termsCreated  = new(expvar.Int)
	broadcastSent = new(expvar.Int)
)

func init() {
	usersMetrics.Set("created", usersCreated)
	usersMetrics.Set("deleted", usersDeleted)
	usersMetrics.Set("login_failures", loginFailures)
	usersMetrics.Set("demo_seeded", demoSeeded)
	usersMetrics.Set("terms_created", termsCreated)
	usersMetrics.Set("broadcasts_sent", broadcastSent)
}
