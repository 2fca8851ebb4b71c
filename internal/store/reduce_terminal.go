package store

// reduceTerminal handles terminal session lifecycle events. The store
// only keeps bookkeeping (scrollback, exit status); the pty itself is
// owned and pumped by the terminal subsystem outside the store.
func reduceTerminal(s State, action Action) (State, DispatchResult) {
	switch a := action.(type) {
	case TerminalSpawned:
		return terminalSpawned(s, a)
	case TerminalOutput:
		return terminalOutput(s, a)
	case TerminalExited:
		return terminalExited(s, a)
	default:
		return s, noChange
	}
}

func terminalSpawned(s State, a TerminalSpawned) (State, DispatchResult) {
	sessions := cloneSessions(s.Terminal.Sessions)
	sessions[a.SessionID] = TerminalSession{}
	s.Terminal.Sessions = sessions
	return s, DispatchResult{StateChanged: true}
}

func terminalOutput(s State, a TerminalOutput) (State, DispatchResult) {
	sess, ok := s.Terminal.Sessions[a.SessionID]
	if !ok || sess.Exited {
		return s, noChange
	}
	sessions := cloneSessions(s.Terminal.Sessions)
	sess.Output = append(append([]byte{}, sess.Output...), a.Data...)
	sessions[a.SessionID] = sess
	s.Terminal.Sessions = sessions
	return s, DispatchResult{StateChanged: true}
}

func terminalExited(s State, a TerminalExited) (State, DispatchResult) {
	sess, ok := s.Terminal.Sessions[a.SessionID]
	if !ok || sess.Exited {
		return s, noChange
	}
	sessions := cloneSessions(s.Terminal.Sessions)
	sess.Exited = true
	sess.Code = a.Code
	sessions[a.SessionID] = sess
	s.Terminal.Sessions = sessions
	return s, DispatchResult{StateChanged: true}
}

func cloneSessions(in map[string]TerminalSession) map[string]TerminalSession {
	out := make(map[string]TerminalSession, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
