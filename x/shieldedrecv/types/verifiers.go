package types

import "sort"

// VerifierSet accumulates the addresses whose authorization must be
// checked by the host transaction's validity predicates. One instance is
// shared by every link of the middleware chain; the host engine processes
// a single packet at a time, so no locking is performed here.
type VerifierSet struct {
	addrs map[string]struct{}
}

func NewVerifierSet() *VerifierSet {
	return &VerifierSet{addrs: make(map[string]struct{})}
}

func (v *VerifierSet) Insert(addr string) {
	v.addrs[addr] = struct{}{}
}

func (v *VerifierSet) Contains(addr string) bool {
	_, ok := v.addrs[addr]
	return ok
}

func (v *VerifierSet) Len() int {
	return len(v.addrs)
}

// Addresses returns the accumulated addresses in sorted order.
func (v *VerifierSet) Addresses() []string {
	out := make([]string, 0, len(v.addrs))
	for addr := range v.addrs {
		out = append(out, addr)
	}
	sort.Strings(out)
	return out
}
