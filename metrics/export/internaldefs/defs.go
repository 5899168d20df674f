package internaldefs

import (
	goAuthFlow "github.com/MrEthical07/goAuthFlow"
)

// CounterDef names one exported counter. Flow and Outcome are set for the
// per-flow outcome counters and empty for the rest.
type CounterDef struct {
	ID      goAuthFlow.MetricID
	Name    string
	Help    string
	Flow    string
	Outcome string
}

// HistogramDef names one exported histogram.
type HistogramDef struct {
	ID   goAuthFlow.MetricID
	Name string
	Help string
}

// Flow outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeInvalid  = "invalid"
	OutcomeFailure  = "failure"
)

type flowCounters struct {
	flow     string
	noun     string
	success  goAuthFlow.MetricID
	rejected goAuthFlow.MetricID
	invalid  goAuthFlow.MetricID
	failure  goAuthFlow.MetricID
}

var flows = []flowCounters{
	{"register", "Registrations", goAuthFlow.MetricRegisterSuccess, goAuthFlow.MetricRegisterRejected, goAuthFlow.MetricRegisterInvalid, goAuthFlow.MetricRegisterFailure},
	{"login", "Logins", goAuthFlow.MetricLoginSuccess, goAuthFlow.MetricLoginRejected, goAuthFlow.MetricLoginInvalid, goAuthFlow.MetricLoginFailure},
	{"verify_email", "Email verifications", goAuthFlow.MetricVerifyEmailSuccess, goAuthFlow.MetricVerifyEmailRejected, goAuthFlow.MetricVerifyEmailInvalid, goAuthFlow.MetricVerifyEmailFailure},
	{"resend_verification", "Resend requests", goAuthFlow.MetricResendSuccess, goAuthFlow.MetricResendRejected, goAuthFlow.MetricResendInvalid, goAuthFlow.MetricResendFailure},
	{"forgot_password", "Recovery requests", goAuthFlow.MetricForgotPasswordSuccess, goAuthFlow.MetricForgotPasswordRejected, goAuthFlow.MetricForgotPasswordInvalid, goAuthFlow.MetricForgotPasswordFailure},
	{"reset_password", "Password resets", goAuthFlow.MetricResetPasswordSuccess, goAuthFlow.MetricResetPasswordRejected, goAuthFlow.MetricResetPasswordInvalid, goAuthFlow.MetricResetPasswordFailure},
}

// CounterDefs lists every counter in export order: four outcome counters per
// flow, then the engine-wide counters.
var CounterDefs = buildCounterDefs()

func buildCounterDefs() []CounterDef {
	defs := make([]CounterDef, 0, len(flows)*4+6)
	for _, f := range flows {
		for _, o := range []struct {
			id      goAuthFlow.MetricID
			outcome string
			help    string
		}{
			{f.success, OutcomeSuccess, " accepted by the backend."},
			{f.rejected, OutcomeRejected, " rejected by the backend."},
			{f.invalid, OutcomeInvalid, " blocked by local validation."},
			{f.failure, OutcomeFailure, " that ended in a connection or storage failure."},
		} {
			defs = append(defs, CounterDef{
				ID:      o.id,
				Name:    "goauthflow_" + f.flow + "_" + o.outcome + "_total",
				Help:    f.noun + o.help,
				Flow:    f.flow,
				Outcome: o.outcome,
			})
		}
	}
	return append(defs,
		CounterDef{ID: goAuthFlow.MetricSubmitBusy, Name: "goauthflow_submit_busy_total", Help: "Submits refused while another was in flight."},
		CounterDef{ID: goAuthFlow.MetricNavigation, Name: "goauthflow_navigation_total", Help: "Navigations handed to the host."},
		CounterDef{ID: goAuthFlow.MetricNavigationCancelled, Name: "goauthflow_navigation_cancelled_total", Help: "Timed navigations cancelled by unmounting."},
		CounterDef{ID: goAuthFlow.MetricLogout, Name: "goauthflow_logout_total", Help: "Local logouts."},
		CounterDef{ID: goAuthFlow.MetricAPIRequest, Name: "goauthflow_api_requests_total", Help: "Backend calls issued."},
		CounterDef{ID: goAuthFlow.MetricAPIConnectionFailure, Name: "goauthflow_api_connection_failures_total", Help: "Backend calls that ended in the synthesized connection failure."},
	)
}

// HistogramDefs lists every histogram in export order.
var HistogramDefs = []HistogramDef{
	{ID: goAuthFlow.MetricAPILatency, Name: "goauthflow_api_latency_seconds", Help: "Backend call latency."},
}

// Audit delivery counters.
const (
	AuditDroppedName = "goauthflow_audit_dropped_total"
	AuditDroppedHelp = "Audit events dropped by the dispatcher."
	AuditFailedName  = "goauthflow_audit_failed_total"
	AuditFailedHelp  = "Audit events lost to a panicking sink."
)

// HistogramBounds are the bucket upper bounds in seconds, as exposition labels.
var HistogramBounds = []string{
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"1",
	"2.5",
	"+Inf",
}

// HistogramUpperBounds are the finite bounds of HistogramBounds.
var HistogramUpperBounds = []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// HistogramBoundSuffix turns each bound into an instrument name suffix.
var HistogramBoundSuffix = []string{
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"1",
	"2_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed array, padding with zeros.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
