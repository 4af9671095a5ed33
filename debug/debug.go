package debug

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//
// Debug output is controlled by the TASKOSDEBUG environment variable,
// which can be a list of selectors (e.g., "CLONE;WAIT_ERR").
//

var labels map[Tselector]bool
var logger *zap.SugaredLogger

func init() {
	labels = make(map[Tselector]bool)
	s := os.Getenv("TASKOSDEBUG")
	if s != "" {
		for _, l := range strings.Split(s, ";") {
			labels[Tselector(l)] = true
		}
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000")
	cfg.DisableStacktrace = true
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "debug: zap build err %v\n", err)
		os.Exit(1)
	}
	logger = l.Sugar()
}

func willPrint(label Tselector) bool {
	return labels[label] || label == ALWAYS || label == ERROR
}

func DPrintf(label Tselector, format string, v ...interface{}) {
	if willPrint(label) {
		logger.Infof("%v %v", label, fmt.Sprintf(format, v...))
	}
}

// DFatalf is reserved for violated internal invariants; it must never run
// on caller-supplied bad input.
func DFatalf(format string, v ...interface{}) {
	logger.Fatalf("FATAL %v", fmt.Sprintf(format, v...))
}
