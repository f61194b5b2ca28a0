package wallpaper

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityLog(t *testing.T) {
	t.Run("Append and copy", func(t *testing.T) {
		l := NewActivityLog(10)
		l.Infof("one")
		l.Warnf("two %d", 2)

		entries := l.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "one", entries[0].Message)
		assert.Equal(t, LevelWarn, entries[1].Level)
		assert.Equal(t, "two 2", entries[1].Message)
		assert.NotEqual(t, entries[0].ID, entries[1].ID)

		entries[0].Message = "changed"
		assert.Equal(t, "one", l.Entries()[0].Message)
	})

	t.Run("Bounded", func(t *testing.T) {
		l := NewActivityLog(3)
		for i := 0; i < 5; i++ {
			l.Infof("entry %d", i)
		}
		entries := l.Entries()
		require.Len(t, entries, 3)
		assert.Equal(t, "entry 2", entries[0].Message)
		assert.Equal(t, "entry 4", entries[2].Message)

		last, ok := l.Last()
		require.True(t, ok)
		assert.Equal(t, "entry 4", last.Message)
	})

	t.Run("Subscribe", func(t *testing.T) {
		l := NewActivityLog(0)
		var got []string
		unsubscribe := l.Subscribe(func(e Entry) { got = append(got, e.Message) })

		l.Errorf("boom")
		unsubscribe()
		l.Infof("ignored")

		assert.Equal(t, []string{"boom"}, got)
	})

	t.Run("Concurrent appends", func(t *testing.T) {
		l := NewActivityLog(1000)
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				l.Infof("%s", fmt.Sprint("worker ", i))
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 50, l.Len())
	})
}
