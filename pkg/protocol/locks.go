package protocol

// RuntimeLocks is the global lock structure owned by the kernel and read by
// every module. When a lock is engaged the corresponding pin writes are
// suppressed to their safe level. Both locks engage by default so a freshly
// started controller cannot actuate anything until the host explicitly
// unlocks it.
type RuntimeLocks struct {
	// ActionLock gates actuation pin writes (analog and digital).
	ActionLock bool
	// TTLLock gates output TTL signaling pin writes.
	TTLLock bool
}

// DefaultRuntimeLocks returns the startup lock state.
func DefaultRuntimeLocks() RuntimeLocks {
	return RuntimeLocks{ActionLock: true, TTLLock: true}
}

const runtimeLocksSize = 2

func (l RuntimeLocks) append(dst []byte) []byte {
	return append(dst, boolByte(l.ActionLock), boolByte(l.TTLLock))
}

func (l *RuntimeLocks) unpack(b []byte) {
	l.ActionLock = b[0] != 0
	l.TTLLock = b[1] != 0
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
