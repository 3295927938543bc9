package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngineSelection(t *testing.T) {
	eng, err := New("chromium")
	require.NoError(t, err)
	assert.IsType(t, &ChromiumEngine{}, eng)

	eng, err = New("")
	require.NoError(t, err)
	assert.IsType(t, &ChromiumEngine{}, eng)

	eng, err = New("none")
	require.NoError(t, err)
	assert.Nil(t, eng)

	_, err = New("weasyprint")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weasyprint")
}
