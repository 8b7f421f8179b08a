package log

import "testing"

func TestSetLevelAcceptsKnownLevels(t *testing.T) {
	for _, level := range []string{LevelDebug, LevelInfo, LevelWarn, LevelError, "bogus"} {
		SetLevel(level)
	}
	// Restore the default so later tests observe INFO-level output.
	SetLevel(LevelInfo)
}

func TestPackageLevelHelpersDoNotPanic(t *testing.T) {
	Debugf("debug %d", 1)
	Infof("info %s", "x")
	Warnf("warn")
	Errorf("error %v", nil)
}
