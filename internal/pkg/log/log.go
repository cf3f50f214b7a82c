// Package log add logging utilities.
package log

import (
	"net"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// SetLogger sets the default logger's level.
func SetLogger(level string) {
	logrus.SetLevel(logrus.ErrorLevel)
	customFormatter := new(logrus.TextFormatter)
	customFormatter.TimestampFormat = time.RFC3339
	logrus.SetFormatter(customFormatter)
	customFormatter.FullTimestamp = true
	switch strings.ToLower(level) {
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.ErrorLevel)
	}
}

// DatagramToFields describes an inbound datagram for structured logging.
func DatagramToFields(requestID string, addr *net.UDPAddr, payload []byte) logrus.Fields {
	return logrus.Fields{
		"request": requestID,
		"client":  addr.String(),
		"bytes":   len(payload),
	}
}

// ReplyToFields describes an outbound reply for structured logging.
func ReplyToFields(requestID string, addr *net.UDPAddr, reply string, fragments int) logrus.Fields {
	return logrus.Fields{
		"request":   requestID,
		"client":    addr.String(),
		"bytes":     len(reply),
		"fragments": fragments,
	}
}
