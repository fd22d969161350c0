package store

import "sort"

// Registry maps each known city to its subscriber addresses. Addresses
// are stored lower-cased and each appears at most once per city; slices
// are kept sorted so persisted files diff cleanly.
type Registry map[string][]string

// NewRegistry returns a registry with an empty list for every city.
func NewRegistry(cities []string) Registry {
	reg := make(Registry, len(cities))
	for _, c := range cities {
		reg[c] = []string{}
	}
	return reg
}

// Has reports whether email is subscribed to city.
func (r Registry) Has(city, email string) bool {
	for _, e := range r[city] {
		if e == email {
			return true
		}
	}
	return false
}

// Count returns the number of subscribers for city.
func (r Registry) Count(city string) int {
	return len(r[city])
}

func (r Registry) add(city, email string) {
	r[city] = append(r[city], email)
	sort.Strings(r[city])
}

func (r Registry) remove(city, email string) {
	list := r[city]
	for i, e := range list {
		if e == email {
			r[city] = append(list[:i], list[i+1:]...)
			return
		}
	}
}
