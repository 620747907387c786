//go:build !dbgserialdebug

package dbgserial

func (s *Serial) dbgQueued()    {}
func (s *Serial) dbgDrop()      {}
func (s *Serial) dbgArm(bool)   {}
func (s *Serial) dbgDrain(bool) {}
