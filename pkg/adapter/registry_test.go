package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ResolveAndKnows(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewMockAdapter("mock", "model-a", "model-b"))

	a, err := registry.Resolve("model-a")
	require.NoError(t, err)
	assert.Equal(t, "mock", a.Name())

	assert.True(t, registry.Knows("model-b"))
	assert.False(t, registry.Knows("model-z"))

	_, err = registry.Resolve("model-z")
	assert.Error(t, err)
}

func TestRegistry_RegisterModelPassthrough(t *testing.T) {
	registry := NewRegistry()
	mock := NewMockAdapter("openrouter", "deepseek/deepseek-chat")
	registry.Register(mock)

	// Namespaced identifiers outside the adapter's built-in list can be
	// claimed one at a time.
	registry.RegisterModel("qwen/qwen3-coder", mock)
	assert.True(t, registry.Knows("qwen/qwen3-coder"))

	assert.Equal(t,
		[]string{"deepseek/deepseek-chat", "qwen/qwen3-coder"},
		registry.Models())
}

func TestRegistry_InvokeNormalizes(t *testing.T) {
	mock := NewMockAdapter("mock", "model-a").
		SetResponse("model-a", "hello").
		SetDelay("model-a", 10*time.Millisecond).
		SetUsage("model-a", Usage{PromptTokens: 120, CompletionTokens: 80})
	registry := NewRegistry()
	registry.Register(mock)

	gen, err := registry.Invoke(context.Background(), "model-a", "hi", Params{})
	require.NoError(t, err)

	assert.Equal(t, "model-a", gen.Model, "model is stamped by the registry")
	assert.Equal(t, "hello", gen.Text)
	assert.Equal(t, 200, gen.Usage.TotalTokens, "total is derived when omitted")
	assert.GreaterOrEqual(t, gen.Latency, 10*time.Millisecond)
}

func TestRegistry_InvokeUnknownModel(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Invoke(context.Background(), "ghost-model", "hi", Params{})
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "ghost-model", perr.Model)
	assert.Equal(t, KindTransport, perr.Kind)
}

func TestRegistry_InvokeWrapsErrors(t *testing.T) {
	mock := NewMockAdapter("mock", "model-a").
		SetError("model-a", errors.New("connection refused"))
	registry := NewRegistry()
	registry.Register(mock)

	_, err := registry.Invoke(context.Background(), "model-a", "hi", Params{})
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "model-a", perr.Model)
	assert.Equal(t, KindTransport, perr.Kind)
}

func TestRegistry_InvokeTimeout(t *testing.T) {
	mock := NewMockAdapter("mock", "model-a").
		SetResponse("model-a", "too late").
		SetDelay("model-a", time.Second)
	registry := NewRegistry()
	registry.Register(mock)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := registry.Invoke(ctx, "model-a", "hi", Params{})
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindTimeout, perr.Kind)
}

func TestWrapError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, WrapError("m", nil))
	})

	t.Run("deadline exceeded", func(t *testing.T) {
		perr := WrapError("m", context.DeadlineExceeded)
		assert.Equal(t, KindTimeout, perr.Kind)
	})

	t.Run("plain error", func(t *testing.T) {
		perr := WrapError("m", errors.New("boom"))
		assert.Equal(t, KindTransport, perr.Kind)
		assert.Equal(t, "m", perr.Model)
	})

	t.Run("existing provider error passes through", func(t *testing.T) {
		orig := &ProviderError{Kind: KindQuota, Status: 429, Err: errors.New("rate limited")}
		perr := WrapError("m", orig)
		assert.Same(t, orig, perr)
		assert.Equal(t, "m", perr.Model, "model is filled in when missing")
		assert.Equal(t, KindQuota, perr.Kind)
	})

	t.Run("wrapped provider error", func(t *testing.T) {
		inner := &ProviderError{Model: "other", Kind: KindQuota}
		perr := WrapError("m", inner)
		assert.Equal(t, "other", perr.Model, "existing model is preserved")
	})
}

func TestKindForStatus(t *testing.T) {
	assert.Equal(t, KindQuota, KindForStatus(429))
	assert.Equal(t, KindTimeout, KindForStatus(408))
	assert.Equal(t, KindTransport, KindForStatus(500))
	assert.Equal(t, KindTransport, KindForStatus(400))
}

func TestProviderError_Message(t *testing.T) {
	err := &ProviderError{Model: "model-a", Kind: KindQuota, Err: errors.New("rate limited")}
	assert.Contains(t, err.Error(), "model-a")
	assert.Contains(t, err.Error(), "quota")

	statusOnly := &ProviderError{Model: "model-a", Kind: KindTransport, Status: 502}
	assert.Contains(t, statusOnly.Error(), "status=502")
	assert.Nil(t, statusOnly.Unwrap())
}

func TestParams_MaxTokensDefault(t *testing.T) {
	assert.Equal(t, DefaultMaxTokens, Params{}.maxTokens())
	assert.Equal(t, 512, Params{MaxTokens: 512}.maxTokens())
}
