package bmeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	m := New("1.2.0", "", "abc123")
	assert.Equal(t, "1.2.0", m.Version)
	assert.Equal(t, defaultBuildMeta, m.Date)
	assert.Equal(t, "shortener@1.2.0+abc123", m.Release("shortener"))
	assert.Equal(t, "worker@N/A+N/A", New("", "", "").Release("worker"))
}
