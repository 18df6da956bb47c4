package lifecycle

import (
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestKindForLogind(t *testing.T) {
	t.Parallel()
	name := logindInterface + "." + prepareForSleep
	if kind, ok := kindForLogind(&dbus.Signal{Name: name, Body: []interface{}{true}}); !ok || kind != KindSleep {
		t.Fatalf("expected sleep, got %s ok=%t", kind, ok)
	}
	if kind, ok := kindForLogind(&dbus.Signal{Name: name, Body: []interface{}{false}}); !ok || kind != KindWake {
		t.Fatalf("expected wake, got %s ok=%t", kind, ok)
	}
	if _, ok := kindForLogind(&dbus.Signal{Name: "org.example.Other", Body: []interface{}{true}}); ok {
		t.Fatalf("foreign signal must be ignored")
	}
	if _, ok := kindForLogind(&dbus.Signal{Name: name, Body: []interface{}{"yes"}}); ok {
		t.Fatalf("non-bool body must be ignored")
	}
}
