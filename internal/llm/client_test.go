package llm

import (
	"context"
	"errors"
	"testing"
)

func TestStripCodeBlock(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\nplain fenced\n```", "plain fenced"},
		{"no fences at all", "no fences at all"},
		{"  ```markdown\n# Title\nBody\n```  ", "# Title\nBody"},
		{"leading text ```not a fence```", "leading text ```not a fence```"},
	}
	for _, c := range cases {
		if got := StripCodeBlock(c.in); got != c.want {
			t.Errorf("StripCodeBlock(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestClassify_TimeoutIsRetryable(t *testing.T) {
	err := classify(context.DeadlineExceeded)
	var retryErr *RetryableError
	if !errors.As(err, &retryErr) {
		t.Fatalf("expected RetryableError for timeout, got %v", err)
	}
}

func TestClassify_OtherErrorsPassThrough(t *testing.T) {
	cause := errors.New("connection refused")
	err := classify(cause)
	var retryErr *RetryableError
	if errors.As(err, &retryErr) {
		t.Fatalf("expected non-retryable, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause preserved, got %v", err)
	}
}

func TestRetryableError_MessageTruncated(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	e := &RetryableError{StatusCode: 503, Message: string(long)}
	if len(e.Error()) > 300 {
		t.Errorf("expected truncated message, got %d chars", len(e.Error()))
	}
}

func TestEmbed_RejectsEmptyText(t *testing.T) {
	c := NewClient(Options{APIKey: "test", EmbedModel: "m"})
	if _, err := c.Embed(context.Background(), "   "); err == nil {
		t.Error("expected error for empty text")
	}
}
