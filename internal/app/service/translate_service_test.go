package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTranslate_BatchesAndCaches(t *testing.T) {
	gen := &fakeGenerator{response: "Hello\n---SEPARATOR---\nSelling a bike"}
	cache := newFakeCache()
	svc := NewTranslateService(gen, cache, time.Hour, zap.NewNop())

	got := svc.Translate(context.Background(), []string{"Привет", "Продам байк"}, "en")

	require.Equal(t, []string{"Hello", "Selling a bike"}, got)
	assert.Equal(t, 1, gen.calls, "both texts should share one generation call")
	assert.Contains(t, gen.prompts[0], "to English")

	// Second request is served fully from the cache.
	got = svc.Translate(context.Background(), []string{"Привет", "Продам байк"}, "en")
	require.Equal(t, []string{"Hello", "Selling a bike"}, got)
	assert.Equal(t, 1, gen.calls)
}

func TestTranslate_CacheIsLanguageScoped(t *testing.T) {
	gen := &fakeGenerator{response: "Xin chào"}
	cache := newFakeCache()
	svc := NewTranslateService(gen, cache, time.Hour, zap.NewNop())

	svc.Translate(context.Background(), []string{"Привет"}, "en")
	svc.Translate(context.Background(), []string{"Привет"}, "vi")

	assert.Equal(t, 2, gen.calls, "different target languages must not share cache entries")
}

func TestTranslate_FallsBackToSourceOnFailure(t *testing.T) {
	gen := &fakeGenerator{err: assert.AnError}
	svc := NewTranslateService(gen, newFakeCache(), time.Hour, zap.NewNop())

	got := svc.Translate(context.Background(), []string{"Привет", "Пока"}, "en")

	assert.Equal(t, []string{"Привет", "Пока"}, got)
}

func TestTranslate_PartialSeparatorLoss(t *testing.T) {
	// The model collapsed the separator: only the first position gets a
	// translation, the rest fall back to source text.
	gen := &fakeGenerator{response: "Hello"}
	svc := NewTranslateService(gen, newFakeCache(), time.Hour, zap.NewNop())

	got := svc.Translate(context.Background(), []string{"Привет", "Пока"}, "en")

	assert.Equal(t, []string{"Hello", "Пока"}, got)
}

func TestTranslate_UnknownLanguageDefaultsToEnglish(t *testing.T) {
	gen := &fakeGenerator{response: "Hi"}
	svc := NewTranslateService(gen, newFakeCache(), time.Hour, zap.NewNop())

	svc.Translate(context.Background(), []string{"Привет"}, "xx")

	assert.Contains(t, gen.prompts[0], "to English")
}

func TestTranslate_CapsBatchSize(t *testing.T) {
	gen := &fakeGenerator{response: ""}
	svc := NewTranslateService(gen, newFakeCache(), time.Hour, zap.NewNop())

	texts := make([]string, 60)
	for i := range texts {
		texts[i] = "текст"
	}

	got := svc.Translate(context.Background(), texts, "en")

	assert.Len(t, got, maxTranslateBatch)
}
