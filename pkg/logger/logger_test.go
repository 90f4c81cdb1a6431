package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestWithCtxFallsBackToBase(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := InjectLogger(context.Background(), custom)
	assert.Same(t, custom, WithCtx(ctx))
}

func TestNewHandlerByEnv(t *testing.T) {
	var buf bytes.Buffer
	slog.New(newHandler(&buf, "production")).Info("hello", "k", 1)
	assert.True(t, strings.HasPrefix(buf.String(), "{"), "production logs are JSON")

	buf.Reset()
	slog.New(newHandler(&buf, "local")).Debug("hello")
	assert.Contains(t, buf.String(), "level=DEBUG")
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	log := slog.New(NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	)).With("request_id", "abc")

	log.Info("persisted", "bytes", 4096)

	assert.Contains(t, a.String(), "request_id=abc")
	assert.Contains(t, b.String(), `"request_id":"abc"`)
	assert.Contains(t, b.String(), `"bytes":4096`)
}

func TestLogDocumentAdd(t *testing.T) {
	doc := LogDocument{Attrs: bson.M{}}
	doc.add(slog.String("request_id", "r-1"))
	doc.add(slog.Any("error", errors.New("boom")))
	doc.add(slog.Int("quantity", 3))

	assert.Equal(t, "r-1", doc.RequestID)
	assert.Equal(t, "boom", doc.Attrs["error"])
	assert.EqualValues(t, 3, doc.Attrs["quantity"])
	assert.NotContains(t, doc.Attrs, "request_id")
}
