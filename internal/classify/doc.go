// Package classify assigns a canonical category, award family, and
// subcategory to a raw honor entry.
//
// Classification never fails on ambiguous text: entries without any result
// signal default to Special. The only hard error is a missing award set.
package classify
