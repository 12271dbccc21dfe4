// Package verify checks corpus-wide honor invariants and reports violations.
//
// The verifier is read-only. It runs after every per-game merge has finished
// and inspects the whole corpus at once: winner counts and nominee/special
// caps per award family and year, malformed stored records, and placeholder
// games whose name is an award description.
package verify
