package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestToZapLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		InfoLevel:  zapcore.InfoLevel,
		WarnLevel:  zapcore.WarnLevel,
		ErrorLevel: zapcore.ErrorLevel,
		DebugLevel: zapcore.DebugLevel,
		"bogus":    defaultZapLevel,
	}
	for in, want := range cases {
		if got := toZapLevel(in); got != want {
			t.Fatalf("toZapLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestGet_ReturnsSingleton(t *testing.T) {
	a := Get(InfoLevel, JSONFormat)
	b := Get(DebugLevel, ConsoleFormat)
	if a != b {
		t.Fatalf("expected the same logger instance")
	}
}

func TestNewNop_IsUsable(t *testing.T) {
	l := NewNop()
	l.Infow("nop", "k", "v")
}

func TestNewWithCore_WritesToCore(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewWithCore(core)
	l.Debugw("dropped")
	l.Warnw("kept", "k", "v")

	entries := logs.All()
	if len(entries) != 1 || entries[0].Message != "kept" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if got := entries[0].ContextMap()["k"]; got != "v" {
		t.Fatalf("field k = %v, want v", got)
	}
}
