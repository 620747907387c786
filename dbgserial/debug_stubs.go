//go:build !dbgserialdebug

package dbgserial

type Stats struct{}

func (s *Serial) DebugReset()       {}
func (s *Serial) DebugStats() Stats { return Stats{} }
