package context

type Key string

const (
	Params    Key = "params"
	Session   Key = "session"
	SessionID Key = "session_id"
)
