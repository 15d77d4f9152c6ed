// Package utils provides input helpers for keyward commands.
//
// # I/O Utilities
//
//   - ReadStdin: reads all data from standard input
//   - ReadValue: takes a value from the arguments or from stdin
//
// # Terminal Utilities
//
//   - ReadPassword: reads a backup password from $KEYWARD_PASSWORD or the
//     terminal, optionally with confirmation
//   - ReadPassphraseFromTTY: prompts on /dev/tty without echo
package utils
