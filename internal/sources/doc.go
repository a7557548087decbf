// Package sources maintains the two site lists a check cycle runs against:
// the operator-curated manual list and the list synchronised from the
// hosting panel. It filters panel records into sites, protects the synced
// list from empty refreshes, merges both lists into the working set and
// decides when a refresh is due.
package sources
