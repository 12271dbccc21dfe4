// Package placeholder finds games whose name is an award description rather
// than a real title ("2019 Spiel des Jahres Winner") and removes them on
// request.
//
// Detection is read-only and feeds the verifier's placeholder-game rule.
// Deletion happens only through Cleaner, which the CLI exposes as an explicit
// command outside the rebuild cycle.
package placeholder
