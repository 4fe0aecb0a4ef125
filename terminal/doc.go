// Package terminal provides direct ANSI terminal control for the loom
// framework.
//
// Features:
//   - Styled cell model with default-color awareness
//   - Diff-based output with cell-level dirty tracking and SGR coalescing
//   - Raw stdin parsing: CSI, SS3, SGR mouse, UTF-8, escape disambiguation
//   - SIGWINCH resize detection with polling fallback
//   - Clean terminal restoration on exit and panic
//
// The primary implementation bypasses terminfo entirely and emits direct
// ANSI sequences; NewTcellTerminal offers a terminfo-driven alternative
// backed by tcell for hosts that need it.
package terminal
