// Package commands defines the quotectl CLI.
//
// Commands
//
//   - price                 Price a quote document without saving it
//   - catalog show          Print the active or a builtin rate catalog
//   - catalog validate      Check a catalog document
//   - estimates list        List saved estimates with totals
//   - estimates show        Print one saved estimate
//   - estimates save        Price and save an estimate
//   - estimates recompute   Reprice a saved estimate against the active catalog
//   - estimates delete      Remove a saved estimate
//
// The root command loads configuration the same way the server does; flags
// override the environment.
package commands
