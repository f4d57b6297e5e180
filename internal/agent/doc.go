// Package agent provides the seats that do not need a network: a scripted
// threshold policy, a replay of a recorded game, and a human at a terminal.
package agent
