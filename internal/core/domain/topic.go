package domain

import "time"

// Topic is a durable, named cluster of semantically related documents.
// A topic keeps the same ID across retrains even though the underlying
// cluster label differs on every run; the registry's reconciliation is the
// only code allowed to create or re-point topics.
type Topic struct {
	// ID is a ULID assigned at creation. ULIDs sort lexically by creation
	// time, so "lower ID" means "created earlier" - the reconciliation
	// tie-break relies on this.
	ID string

	// Name is derived deterministically from the top keywords.
	Name string

	// Keywords is the ranked keyword list, most representative first.
	Keywords []string

	// CreatedAt is when the topic was first discovered.
	CreatedAt time.Time

	// DocumentCount is the current membership size. Derived per retrain,
	// not authoritative; zero for dormant topics.
	DocumentCount int

	// Signature is the set of member document IDs from the most recent
	// retrain in which the topic was active. Reconciliation matches new
	// clusters against it by overlap.
	Signature []string

	// LowConfidence marks a topic whose cluster yielded no usable
	// keywords (stop-word-only content). Kept, but consumers exclude it
	// from top-topic views.
	LowConfidence bool

	// Dormant is set when a retrain finds no matching cluster. The topic
	// and its temporal history are retained; it may reactivate later.
	Dormant bool
}

// Active reports whether the topic currently has members.
func (t *Topic) Active() bool {
	return !t.Dormant && t.DocumentCount > 0
}

// SignatureSet returns the signature as a set for overlap computation.
func (t *Topic) SignatureSet() map[string]struct{} {
	set := make(map[string]struct{}, len(t.Signature))
	for _, id := range t.Signature {
		set[id] = struct{}{}
	}
	return set
}
