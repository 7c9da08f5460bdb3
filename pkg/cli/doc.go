// Package cli implements the schemacheck command-line tool.
//
// # Commands
//
// validate - Validate a document:
//
//	schemacheck validate --schemas schemas.yaml --type Person --input ann.json [--lang zh] [--format yaml] [--watch]
//
// Loads the definitions (a file or a directory of YAML/JSON files), builds
// a record of the given schema from the input (JSON or YAML, - for stdin)
// and prints the validated record. On failure the error and its dotted
// path are written to stderr and the tool exits with status 1. With
// --watch the check re-runs whenever the definitions or the input change.
//
// schemas - List definitions:
//
//	schemacheck schemas --schemas schemas/
//
// # Configuration
//
// Defaults are read from the environment (see package config):
// SCHEMA_LOG_LEVEL, SCHEMA_LOG_FORMAT, SCHEMA_LANG, SCHEMA_TIMEZONE and
// SCHEMA_MESSAGES, a directory of message catalogs merged over the
// built-in ones. --log-level and --log-format override the first two.
// Logs go to stderr; command output goes to stdout.
package cli
