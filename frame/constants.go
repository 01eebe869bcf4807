package frame

// Command codes, transmitted as ASCII digits.
const (
	CmdGet      byte = '0' // read one line by 1-based index
	CmdQuit     byte = '1' // close this connection
	CmdShutdown byte = '2' // stop the whole server
)

// Wire sizes.
const (
	PayloadSize = 6 // command + index + checksum, delimiter excluded
	WireSize    = 7 // PayloadSize + delimiter
)

// Delimiter terminates every request frame and every response line.
const Delimiter byte = '\n'

// Response status lines.
const (
	StatusOK  = "OK"
	StatusErr = "ERR"
)
