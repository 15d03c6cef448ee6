package cli

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/roomforge/pkg/store"
)

func TestServeCommandFlags(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	cmd := c.serveCommand()

	for _, name := range []string{"addr", "config", "mongo-uri", "redis-addr", "no-cache"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("serve command missing --%s flag", name)
		}
	}
}

func TestBuildServerStoreDefaultsToMemory(t *testing.T) {
	s, err := buildServerStore(&cobra.Command{}, "")
	if err != nil {
		t.Fatalf("buildServerStore: %v", err)
	}
	if _, ok := s.(*store.MemoryStore); !ok {
		t.Errorf("store = %T, want *store.MemoryStore", s)
	}
}
