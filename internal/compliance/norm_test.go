package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidSeverity(t *testing.T) {
	for _, s := range []string{"low", "medium", "high"} {
		assert.True(t, ValidSeverity(s), s)
	}
	for _, s := range []string{"", "LOW", "critical", "med"} {
		assert.False(t, ValidSeverity(s), s)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"open", "in_progress", "done"} {
		assert.True(t, ValidStatus(s), s)
	}
	for _, s := range []string{"", "closed", "OPEN", "in-progress"} {
		assert.False(t, ValidStatus(s), s)
	}
}

func TestParseFrameworks(t *testing.T) {
	assert.Equal(t, []string{"iso27001", "soc2"}, ParseFrameworks("ISO27001, soc2"))
	assert.Equal(t, []string{"gdpr"}, ParseFrameworks("gdpr,GDPR, gdpr "))
	assert.Nil(t, ParseFrameworks(""))
	assert.Nil(t, ParseFrameworks(" , ,"))
}
