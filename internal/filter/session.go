package filter

import "listing-radar/internal/listing"

// Session holds one user's current Spec. It is owned by the caller (a chat,
// a browser cookie) and is not safe for concurrent use.
type Session struct {
	spec Spec
}

func NewSession() *Session {
	return &Session{spec: Default()}
}

// Resume continues from a previously saved spec.
func Resume(spec Spec) *Session {
	if spec.Chart == "" {
		spec.Chart = ChartBar
	}
	return &Session{spec: spec}
}

func (s *Session) Spec() Spec {
	return s.spec
}

// Update merges p into the current spec without filtering.
func (s *Session) Update(p Patch) Spec {
	s.spec = s.spec.Merge(p)
	return s.spec
}

func (s *Session) Reset() Spec {
	s.spec = Default()
	return s.spec
}

func (s *Session) ApplyFilter(p Patch, all []listing.Listing) []listing.Listing {
	return Compute(s.Update(p), all)
}

func (s *Session) ResetFilter(all []listing.Listing) []listing.Listing {
	return Compute(s.Reset(), all)
}

func (s *Session) Filtered(all []listing.Listing) []listing.Listing {
	return Compute(s.spec, all)
}
