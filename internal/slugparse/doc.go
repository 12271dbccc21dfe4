// Package slugparse turns award URL slugs such as "2024-spiel-des-jahres-winner"
// into a year and a human-readable title.
//
// Parsing is total: every input yields a best-effort Parsed value. Title
// casing, word substitutions, and the lowercase word list are data supplied
// through Options so new languages can be added without code changes.
package slugparse
