// Package crossref orchestrates impact analysis across multiple
// independently-rooted sibling repositories.
package crossref

import "strconv"

// Kind classifies one impact record.
type Kind string

const (
	// KindClassReference marks a sibling file that references the
	// changed class (import, FQN, or same-package use).
	KindClassReference Kind = "ClassReference"
	// KindAPICall marks an externally reachable endpoint affected by the
	// change, directly or through recursive escalation.
	KindAPICall Kind = "ApiCall"
	// KindMethodCall marks an intermediate-layer caller (service,
	// client, manager...) without a confirmed downstream endpoint.
	KindMethodCall Kind = "MethodCall"
)

// ImpactRecord is the atomic unit of cross-repository impact.
type ImpactRecord struct {
	Project      string `json:"project"`
	Kind         Kind   `json:"kind"`
	File         string `json:"file"`
	Line         int    `json:"line"`
	Snippet      string `json:"snippet,omitempty"`
	Endpoint     string `json:"endpoint,omitempty"`     // "GET /user/info" when known
	CallerClass  string `json:"callerClass,omitempty"`
	CallerMethod string `json:"callerMethod,omitempty"`
	Depth        int    `json:"depth,omitempty"`        // discovery depth for escalated hits
	Detail       string `json:"detail"`
}

// dedupKey implements the record identity: two impacts identical in
// (project, file, line, kind, endpoint, callerMethod) are one record even
// when discovered by different phases.
func (r ImpactRecord) dedupKey() string {
	return r.Project + "|" + r.File + "|" + strconv.Itoa(r.Line) + "|" +
		string(r.Kind) + "|" + r.Endpoint + "|" + r.CallerMethod
}

// recordSet accumulates deduplicated records in discovery order. Each
// analysis run owns exactly one recordSet; it is never shared across
// concurrent runs.
type recordSet struct {
	seen    map[string]bool
	records []ImpactRecord
}

func newRecordSet() *recordSet {
	return &recordSet{seen: make(map[string]bool)}
}

func (s *recordSet) add(r ImpactRecord) {
	key := r.dedupKey()
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.records = append(s.records, r)
}
