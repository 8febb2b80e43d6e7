// Package pipeline drives catalog items through the engagement funnel:
// discover, score, generate, submit, verify submission, boost, verify
// boost. The orchestrator owns run lifecycle and cancellation; the batch
// runner isolates per-item failures; the completion poller resolves the
// asynchronous stages with a bounded attempt budget.
//
// Every stage has an eligibility predicate over the item's explicit
// status, so re-running a pipeline skips work that already happened and
// never repeats a remote side effect.
package pipeline
