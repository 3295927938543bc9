package linkedin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumake/internal/types"
)

type stubProvider struct {
	response string
	received string
}

func (s *stubProvider) ImportLinkedIn(_ context.Context, profileText string) (string, *types.TokenUsage, error) {
	s.received = profileText
	return s.response, &types.TokenUsage{TotalTokens: 42}, nil
}

const validResponse = `
name: Jane Doe
title: Senior Platform Engineer
contact:
  email: jane@example.com
experience:
  - title: Staff Engineer
    org: Example Corp
    start: 2021
    end: Present
`

func TestImport(t *testing.T) {
	stub := &stubProvider{response: validResponse}
	doc, usage, err := Import(context.Background(), stub, "  Jane Doe\nStaff Engineer at Example Corp  ")
	require.NoError(t, err)
	require.NotNil(t, usage)
	assert.Equal(t, "Jane Doe", doc.Name)
	assert.Equal(t, "Jane Doe\nStaff Engineer at Example Corp", stub.received)
}

func TestImportEmptyProfile(t *testing.T) {
	_, _, err := Import(context.Background(), &stubProvider{response: validResponse}, "   ")
	require.Error(t, err)
}

func TestImportNoProvider(t *testing.T) {
	_, _, err := Import(context.Background(), nil, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")
}

func TestImportMalformedResponse(t *testing.T) {
	_, _, err := Import(context.Background(), &stubProvider{response: "not: [valid"}, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid CV")
}
