package cv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const diffBase = `
name: Jane Doe
title: Senior Platform Engineer
contact:
  email: jane@example.com
experience:
  - title: Staff Engineer
    org: Example Corp
    start: 2021
    end: Present
    bullets:
      - Built the deployment pipeline
`

func TestDiffIdentical(t *testing.T) {
	report, err := Diff([]byte(diffBase), []byte(diffBase))
	require.NoError(t, err)
	assert.True(t, report.Empty())
}

func TestDiffChangedField(t *testing.T) {
	changed := `
name: Jane Doe
title: Principal Platform Engineer
contact:
  email: jane@example.com
experience:
  - title: Staff Engineer
    org: Example Corp
    start: 2021
    end: Present
    bullets:
      - Built the deployment pipeline
`
	report, err := Diff([]byte(diffBase), []byte(changed))
	require.NoError(t, err)
	require.Len(t, report.Changed, 1)
	assert.Equal(t, "title", report.Changed[0].Path)
	assert.Equal(t, "Senior Platform Engineer", report.Changed[0].Old)
	assert.Equal(t, "Principal Platform Engineer", report.Changed[0].New)
	assert.Empty(t, report.Added)
	assert.Empty(t, report.Removed)
}

func TestDiffListEntryAddressedByLabel(t *testing.T) {
	changed := `
name: Jane Doe
title: Senior Platform Engineer
contact:
  email: jane@example.com
experience:
  - title: Staff Engineer
    org: Example Corp
    start: 2021
    end: Present
    bullets:
      - Rebuilt the deployment pipeline
`
	report, err := Diff([]byte(diffBase), []byte(changed))
	require.NoError(t, err)
	require.Len(t, report.Changed, 1)
	assert.Equal(t, "experience[Staff Engineer].bullets[0]", report.Changed[0].Path)
}

func TestDiffAddedAndRemoved(t *testing.T) {
	changed := `
name: Jane Doe
title: Senior Platform Engineer
contact:
  phone: "+49 30 1234567"
experience:
  - title: Staff Engineer
    org: Example Corp
    start: 2021
    end: Present
    bullets:
      - Built the deployment pipeline
`
	report, err := Diff([]byte(diffBase), []byte(changed))
	require.NoError(t, err)
	require.Len(t, report.Added, 1)
	assert.Equal(t, "contact.phone", report.Added[0].Path)
	require.Len(t, report.Removed, 1)
	assert.Equal(t, "contact.email", report.Removed[0].Path)
	assert.Equal(t, "jane@example.com", report.Removed[0].Value)
}

func TestDiffSortedOutput(t *testing.T) {
	changed := `
name: Someone Else
title: Another Title
contact:
  email: other@example.com
experience:
  - title: Staff Engineer
    org: Example Corp
    start: 2021
    end: Present
    bullets:
      - Built the deployment pipeline
`
	report, err := Diff([]byte(diffBase), []byte(changed))
	require.NoError(t, err)
	require.Len(t, report.Changed, 3)
	assert.Equal(t, "contact.email", report.Changed[0].Path)
	assert.Equal(t, "name", report.Changed[1].Path)
	assert.Equal(t, "title", report.Changed[2].Path)
}

func TestDiffInvalidYAML(t *testing.T) {
	_, err := Diff([]byte("not: [valid"), []byte(diffBase))
	require.Error(t, err)
}
