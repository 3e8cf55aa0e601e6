package tasks

// Outcome is the mandatory return contract of Slack delivery tasks. A
// handler that completed its API calls successfully returns OK=true; if it
// got a response it could not accept, it returns OK=false with a
// human-readable Detail so an admin can act on it. The worker wrapper
// enforces the contract and routes failures, so handlers never talk to the
// admin channel themselves.
type Outcome struct {
	OK     bool
	Detail string
}

// Done is the outcome of a task that completed with nothing to report.
func Done() Outcome {
	return Outcome{OK: true}
}

// Failed builds a not-ok outcome with the given detail.
func Failed(detail string) Outcome {
	return Outcome{OK: false, Detail: detail}
}
