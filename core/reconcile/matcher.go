package reconcile

// MatchResult is the outcome of matching one CRM record against the unlinked pool.
type MatchResult struct {
	// Record is the first passing pool entry in pool order, nil when nothing passed.
	Record *PublishedRecord

	// Candidates lists every passing pool entry in pool order.
	Candidates []PublishedRecord
}

// Found reports whether any pool entry matched.
func (m MatchResult) Found() bool {
	return m.Record != nil
}

// Ambiguous reports whether more than one pool entry matched.
func (m MatchResult) Ambiguous() bool {
	return len(m.Candidates) > 1
}

// CandidateIDs returns the ids of every passing pool entry.
func (m MatchResult) CandidateIDs() []int {
	ids := make([]int, len(m.Candidates))
	for i, c := range m.Candidates {
		ids[i] = c.ID
	}
	return ids
}

// Match finds the published record in pool that represents the same listing as candidate.
// A pool entry matches when its normalized title equals the candidate's normalized
// address (with or without state and postcode) and one normalized description
// contains the other.
func Match(candidate SourceRecord, pool []PublishedRecord) MatchResult {
	keys := newMatchKeys(candidate)

	var result MatchResult
	for _, entry := range pool {
		if keys.sameTitle(entry) && keys.sameContent(entry) {
			result.Candidates = append(result.Candidates, entry)
		}
	}
	if len(result.Candidates) > 0 {
		first := result.Candidates[0]
		result.Record = &first
	}
	return result
}

// matchKeys holds the normalized forms of a CRM record used for matching.
type matchKeys struct {
	addr        string
	addrFull    string
	description string
}

func newMatchKeys(candidate SourceRecord) matchKeys {
	return matchKeys{
		addr:        NormalizeIdentifier(candidate.Address),
		addrFull:    NormalizeIdentifier(candidate.Address + " " + candidate.State + " " + candidate.Postcode),
		description: NormalizeText(candidate.Description),
	}
}

func (k matchKeys) sameTitle(entry PublishedRecord) bool {
	title := NormalizeIdentifier(entry.Title)
	return title == k.addr || title == k.addrFull
}

func (k matchKeys) sameContent(entry PublishedRecord) bool {
	return ContainsEither(NormalizeText(entry.Content), k.description)
}

// pool is the set of published records that carry no CRM link yet, in store order.
type pool struct {
	entries []PublishedRecord
}

func newPool(records []PublishedRecord) *pool {
	p := &pool{}
	for _, r := range records {
		if !r.Linked() {
			p.entries = append(p.entries, r)
		}
	}
	return p
}

func (p *pool) records() []PublishedRecord {
	return p.entries
}

// claim removes a matched record so it cannot match another CRM record in the same run.
func (p *pool) claim(id int) {
	for i, r := range p.entries {
		if r.ID == id {
			p.entries = append(p.entries[:i:i], p.entries[i+1:]...)
			return
		}
	}
}
