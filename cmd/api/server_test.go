package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pddgen/internal/catalog"
	"pddgen/internal/llm"
	llmclient "pddgen/internal/llmClient"
	"pddgen/internal/pdd"
)

func testServer(t *testing.T, fake *llm.FakeClient) *server {
	t.Helper()
	cat, err := catalog.Parse([]byte(`
sections:
  - name: Project Name
    instruction: Name the process.
  - name: Process Overview (AS IS)
    instruction: Summarize the current process.
  - name: Detailed Process Steps (AS IS)
    instruction: List the steps.
    diagram_source: true
`))
	require.NoError(t, err)
	return newServer(pdd.NewService(fake, cat, 2), nil)
}

func postJSON(t *testing.T, h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := testServer(t, llm.NewFakeClient())
	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestGeneratePDD(t *testing.T) {
	srv := testServer(t, llm.NewFakeClient())
	rec := postJSON(t, srv.handleGenerate, map[string]string{
		"process_text": "The clerk scans each invoice and routes it for approval.",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res pdd.GenerationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Sections, 3)
	assert.Equal(t, "Project Name", res.Sections[0].Name)
	assert.NotEmpty(t, res.ProcessName)
	assert.NotEmpty(t, res.DiagramCode)
}

func TestGeneratePDDRejectsEmptyInput(t *testing.T) {
	srv := testServer(t, llm.NewFakeClient())
	rec := postJSON(t, srv.handleGenerate, map[string]string{"process_text": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGeneratePDDProviderOutage(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Respond = func(string) (string, error) {
		return "", &llmclient.ProviderError{Provider: "gemini", Status: 503, Message: "overloaded"}
	}
	srv := testServer(t, fake)
	// extraction tolerates provider failures with placeholders, so the
	// run still succeeds
	rec := postJSON(t, srv.handleGenerate, map[string]string{
		"process_text": "The clerk scans each invoice.",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res pdd.GenerationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	for _, sec := range res.Sections {
		assert.Equal(t, pdd.PlaceholderContent, sec.Content)
	}
}

func TestRefineSection(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Respond = func(string) (string, error) {
		return "<p>Clerks scan and validate invoices.</p>", nil
	}
	srv := testServer(t, fake)
	rec := postJSON(t, srv.handleRefine, map[string]string{
		"section_name":    "Process Overview (AS IS)",
		"current_content": "<p>Clerks scan invoices.</p>",
		"user_feedback":   "Mention validation.",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"refined_content":"<p>Clerks scan and validate invoices.</p>"}`, rec.Body.String())
}

func TestRefineSectionRequiresFeedback(t *testing.T) {
	srv := testServer(t, llm.NewFakeClient())
	rec := postJSON(t, srv.handleRefine, map[string]string{
		"section_name":    "Process Overview (AS IS)",
		"current_content": "<p>Clerks scan invoices.</p>",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefineSectionProviderFailure(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Respond = func(string) (string, error) {
		return "", &llmclient.ProviderError{Provider: "gemini", Status: 500, Message: "boom"}
	}
	srv := testServer(t, fake)
	rec := postJSON(t, srv.handleRefine, map[string]string{
		"section_name":    "Input Data",
		"current_content": "<p>x</p>",
		"user_feedback":   "expand",
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestChat(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Respond = func(string) (string, error) { return "The process has three steps.", nil }
	srv := testServer(t, fake)
	rec := postJSON(t, srv.handleChat, map[string]string{
		"message":     "How many steps are there?",
		"context": "<p>Scan, validate, approve.</p>",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response":"The process has three steps."}`, rec.Body.String())
}

func TestExportHTML(t *testing.T) {
	srv := testServer(t, llm.NewFakeClient())
	rec := postJSON(t, srv.handleExport, map[string]any{
		"format":       "html",
		"process_name": "Invoice Processing",
		"sections": []pdd.Section{
			{Name: "Project Name", Content: "<p>Invoice Processing</p>"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<title>Invoice Processing</title>")
}

func TestExportMarkdown(t *testing.T) {
	srv := testServer(t, llm.NewFakeClient())
	rec := postJSON(t, srv.handleExport, map[string]any{
		"format":       "markdown",
		"process_name": "Invoice Processing",
		"sections": []pdd.Section{
			{Name: "Project Name", Content: "<p>Invoice Processing</p>"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "# Invoice Processing"))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	srv := testServer(t, llm.NewFakeClient())
	rec := postJSON(t, srv.handleExport, map[string]any{
		"format":   "docx",
		"sections": []pdd.Section{{Name: "Project Name", Content: "<p>x</p>"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportRejectsEmptyDocument(t *testing.T) {
	srv := testServer(t, llm.NewFakeClient())
	rec := postJSON(t, srv.handleExport, map[string]any{"format": "html"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func multipartUpload(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload-and-process", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadTextDocument(t *testing.T) {
	srv := testServer(t, llm.NewFakeClient())
	rec := httptest.NewRecorder()
	srv.handleUpload(rec, multipartUpload(t, "process.txt", []byte("The clerk scans each invoice.")))
	require.Equal(t, http.StatusOK, rec.Code)

	var res pdd.GenerationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Len(t, res.Sections, 3)
}

func TestUploadUnsupportedType(t *testing.T) {
	srv := testServer(t, llm.NewFakeClient())
	rec := httptest.NewRecorder()
	srv.handleUpload(rec, multipartUpload(t, "archive.zip", []byte{0x50, 0x4b}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadMediaWithoutTranscriber(t *testing.T) {
	srv := testServer(t, llm.NewFakeClient())
	rec := httptest.NewRecorder()
	srv.handleUpload(rec, multipartUpload(t, "demo.mp4", []byte{0x00}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubTranscriber struct {
	transcript string
	err        error
}

func (s stubTranscriber) Transcribe(_ context.Context, _ string, _ []byte) (string, error) {
	return s.transcript, s.err
}

func TestUploadMediaGoesThroughGuide(t *testing.T) {
	fake := llm.NewFakeClient()
	srv := testServer(t, fake)
	srv.transcriber = stubTranscriber{transcript: "First scan the invoice, then approve it."}

	rec := httptest.NewRecorder()
	srv.handleUpload(rec, multipartUpload(t, "walkthrough.mp4", []byte{0x00, 0x01}))
	require.Equal(t, http.StatusOK, rec.Code)

	// first prompt is the guide synthesis, grounded in the transcript
	prompts := fake.Prompts()
	require.NotEmpty(t, prompts)
	assert.Contains(t, prompts[0], "First scan the invoice, then approve it.")
}

func TestUploadMediaTranscriptionFailure(t *testing.T) {
	srv := testServer(t, llm.NewFakeClient())
	srv.transcriber = stubTranscriber{err: &llmclient.ProviderError{Provider: "gemini", Status: 503, Message: "overloaded"}}

	rec := httptest.NewRecorder()
	srv.handleUpload(rec, multipartUpload(t, "walkthrough.mp4", []byte{0x00}))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestWriteErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&pdd.InvalidInputError{Msg: "empty"}, http.StatusBadRequest},
		{&catalog.ConfigError{Reason: "bad yaml"}, http.StatusInternalServerError},
		{&pdd.GenerationError{Op: "refine", Err: &llmclient.ProviderError{Provider: "gemini", Status: 500}}, http.StatusBadGateway},
		{&pdd.GenerationError{Op: "diagram", Err: errors.New("opaque")}, http.StatusInternalServerError},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, tc.err)
		assert.Equal(t, tc.want, rec.Code, "%v", tc.err)
	}
}
