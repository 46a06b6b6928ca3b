package logger

import (
	"fmt"

	"tandem/core/kernel"
	"tandem/core/proto"
)

// Log sends a log line to the logger service.
//
// The call is best-effort: it may drop on queue full. Lines longer than
// kernel.MaxMessageBytes are truncated.
func Log(s kernel.Sender, logCap kernel.Capability, line string) kernel.SendResult {
	if s == nil {
		return kernel.SendErrInvalidFromCap
	}
	b := []byte(line)
	if len(b) > kernel.MaxMessageBytes {
		b = b[:kernel.MaxMessageBytes]
	}
	return s.SendTo(logCap, uint16(proto.MsgLogLine), proto.LogLinePayload(b))
}

// Logf formats and sends a log line.
func Logf(s kernel.Sender, logCap kernel.Capability, format string, args ...any) kernel.SendResult {
	return Log(s, logCap, fmt.Sprintf(format, args...))
}
