package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoanTransitions counts persisted loan status changes, labelled by the
	// status entered.
	LoanTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agriloan_loan_transitions_total",
		Help: "Persisted loan lifecycle transitions by target status.",
	}, []string{"to"})

	RepaymentsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agriloan_repayments_recorded_total",
		Help: "Repayment ledger entries recorded.",
	})

	RepaymentAmount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agriloan_repayment_amount_total",
		Help: "Total repaid amount across all loans.",
	})

	// NegotiationEvents counts offer-exchange actions (start, offer, accept,
	// decline, order, cancel, message).
	NegotiationEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agriloan_negotiation_events_total",
		Help: "Negotiation engine actions by event type.",
	}, []string{"event"})

	OverdueSweeps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agriloan_overdue_sweeps_total",
		Help: "Completed overdue sweeper passes.",
	})

	AdviceRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agriloan_advice_requests_total",
		Help: "Calls to the external text-advice service by outcome.",
	}, []string{"outcome"})
)
