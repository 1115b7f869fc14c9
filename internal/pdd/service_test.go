package pdd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pddgen/internal/catalog"
	"pddgen/internal/llm"
)

func twoEntryCatalog(t *testing.T) catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(`
sections:
  - {name: "Project Name", instruction: "Identify the project name."}
  - {name: "Purpose", instruction: "Describe the purpose."}
`))
	require.NoError(t, err)
	return c
}

func TestGenerate_EndToEndTwoSections(t *testing.T) {
	fake := &llm.FakeClient{Respond: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Identify the project name."):
			return "<p>Invoice Processing</p>", nil
		case strings.Contains(prompt, "Describe the purpose."):
			return "<p>Pay vendors on time.</p>", nil
		default:
			return "", errors.New("unexpected prompt")
		}
	}}

	svc := NewService(fake, twoEntryCatalog(t), 2)
	res, err := svc.Generate(context.Background(), "We process invoices to pay vendors on time.")
	require.NoError(t, err)

	require.Len(t, res.Sections, 2)
	assert.Equal(t, Section{Name: "Project Name", Content: "<p>Invoice Processing</p>"}, res.Sections[0])
	assert.Equal(t, Section{Name: "Purpose", Content: "<p>Pay vendors on time.</p>"}, res.Sections[1])
	assert.Equal(t, "Invoice Processing", res.ProcessName, "markup stripped")
	assert.Empty(t, res.DiagramCode, "two-entry catalog has no diagram source")
	assert.Empty(t, res.AnchorSection, "no overview section, no anchor")
}

func TestGenerate_DefaultCatalogProducesDiagramAndAnchor(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	fake := &llm.FakeClient{Respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "flowchart") {
			return "```mermaid\ngraph TD\nA[Start]-->B[End]\n```", nil
		}
		return "<p>content</p>", nil
	}}

	svc := NewService(fake, cat, 4)
	res, err := svc.Generate(context.Background(), "Receive invoice, validate, approve, pay.")
	require.NoError(t, err)

	assert.Len(t, res.Sections, cat.Len())
	assert.Equal(t, "graph TD\nA[Start]-->B[End]", res.DiagramCode, "fences stripped")
	assert.Equal(t, "Process Overview (AS IS)", res.AnchorSection)
	// One call per section plus one diagram call.
	assert.Equal(t, cat.Len()+1, fake.Calls())
}

func TestGenerate_DiagramFailureDoesNotAbortDocument(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	fake := &llm.FakeClient{Respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "flowchart") {
			return "", errors.New("provider down")
		}
		return "<p>content</p>", nil
	}}

	svc := NewService(fake, cat, 4)
	res, err := svc.Generate(context.Background(), "narrative")
	require.NoError(t, err)
	assert.Len(t, res.Sections, cat.Len())
	assert.Empty(t, res.DiagramCode)
}

func TestGenerate_ExtractionInvalidInputAborts(t *testing.T) {
	svc := NewService(llm.NewFakeClient(), twoEntryCatalog(t), 1)
	_, err := svc.Generate(context.Background(), "   ")
	var invErr *InvalidInputError
	require.ErrorAs(t, err, &invErr)
}

func TestChat_RequiresMessage(t *testing.T) {
	fake := llm.NewFakeClient()
	_, err := Chat(context.Background(), fake, "  ", "")
	var invErr *InvalidInputError
	require.ErrorAs(t, err, &invErr)
	assert.Zero(t, fake.Calls())
}

func TestChat_IncludesOptionalContext(t *testing.T) {
	fake := llm.NewFakeClient()
	_, err := Chat(context.Background(), fake, "What inputs do you need?", "Invoice automation")
	require.NoError(t, err)
	assert.Contains(t, fake.Prompts()[0], "Invoice automation")
	assert.Contains(t, fake.Prompts()[0], "What inputs do you need?")
}
