// Package app wires configuration into the store backend and the pipeline
// components used by the CLI.
//
// OpenStore picks a backend from the [store] section. New builds every
// collaborator (parser, classifier, award rules, placeholder detector,
// verifier, metrics, runner, cleaner) from the same config so commands only
// deal with a single Services value. AcquireRunLock guards mutating commands
// against a concurrent run on the same data directory.
package app
