// Package awardrules holds the per award family integrity rules: whether a
// family crowns exactly one winner per year, and how many nominees and
// special mentions a year may carry in each era.
//
// Built-in defaults cover the Spiel des Jahres family. Additional families or
// overrides are read from a directory of YAML files, one family per file or a
// "rules:" list.
package awardrules
