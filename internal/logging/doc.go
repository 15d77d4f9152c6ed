// Package logger provides leveled logging for keyward commands and the key
// manager.
//
// Output is formatted with colored semantic prefixes from fatih/color.
//
// # Verbosity Levels
//
//   - --verbose: shows info and warning messages
//   - --debug: shows everything, including debug details and errors
//
// Without flags, only critical warnings (WarnfAlways) are shown.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Loaded master key from %s", path)
//
// Key material must never be passed to any log method.
package logger
