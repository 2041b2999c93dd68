package memory

import (
	"testing"
	"time"

	"pdf-extractor/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestSessionRepository_SaveGetDelete(t *testing.T) {
	repo := NewSessionRepository(time.Hour, time.Minute)
	s := store.NewSession("abc")

	repo.Save(s)
	got, ok := repo.Get("abc")
	assert.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, repo.Count())

	repo.Delete("abc")
	_, ok = repo.Get("abc")
	assert.False(t, ok)
}

func TestSessionRepository_Expires(t *testing.T) {
	repo := NewSessionRepository(20*time.Millisecond, time.Hour)
	repo.Save(store.NewSession("short"))

	time.Sleep(50 * time.Millisecond)

	_, ok := repo.Get("short")
	assert.False(t, ok)
}
