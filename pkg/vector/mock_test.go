package vector

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// recordedRequest 记录一次发出的请求
type recordedRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// bodyMap decodes the recorded body into a generic map.
func (r recordedRequest) bodyMap() map[string]any {
	var m map[string]any
	_ = json.Unmarshal(r.Body, &m)
	return m
}

// mockDoer 用于测试的 Doer，记录请求并返回预设响应
type mockDoer struct {
	DoFunc func(req *http.Request) (*http.Response, error)

	Calls []recordedRequest
}

func newMockDoer(status int, body string) *mockDoer {
	return &mockDoer{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			return newHTTPResponse(status, body), nil
		},
	}
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	m.Calls = append(m.Calls, recordedRequest{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
		Body:   body,
	})
	return m.DoFunc(req)
}

func newHTTPResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

// failingReader fails every read
type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }
