//go:build !release

package log

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	tests := []struct {
		name     string
		fn       func()
		expected string
	}{
		{"Print", func() { Print("test print") }, "test print"},
		{"Printf", func() { Printf("test printf %d", 123) }, "test printf 123"},
		{"Println", func() { Println("test println") }, "test println"},
		{"Debug", func() { Debug("test debug") }, "[DEBUG] test debug"},
		{"Debugf", func() { Debugf("test debugf %s", "foo") }, "[DEBUG] test debugf foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn()
			assert.Contains(t, buf.String(), tt.expected)
		})
	}
}
