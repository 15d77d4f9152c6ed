// Package ui provides semantic text formatting for keyward's CLI output.
//
// Each formatter colors its content when the terminal supports it. When
// NO_COLOR is set or color is unavailable, a text decoration is used
// instead:
//
//	ui.Code.Sprint("keyward init")          // `keyward init`
//	ui.Path.Sprint("/home/u/.local/share")  // unchanged
//	ui.Highlight.Sprint("keychain")         // 'keychain'
//	ui.Muted.Sprint("not created")          // (not created)
//
// Mark renders the ✓/✗ prefix of command results, and YesNo renders boolean
// fields in `keyward status`.
package ui
