package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"classifieds-service/internal/domain"
)

// translateSeparator joins batched texts into one prompt so a batch
// costs a single generation call.
const translateSeparator = "---SEPARATOR---"

// maxTranslateBatch caps how many texts one request may carry.
const maxTranslateBatch = 50

var translateLangNames = map[string]string{
	"en": "English",
	"vi": "Vietnamese",
	"ru": "Russian",
}

// TextGenerator produces text from a prompt.
// Implementation: internal/infra/gemini
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Enabled() bool
}

// TranslateService translates listing texts with a Redis cache in
// front of the generation API. Any failure degrades to the source text.
type TranslateService struct {
	gen      TextGenerator
	cache    domain.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewTranslateService creates a new TranslateService.
func NewTranslateService(gen TextGenerator, cache domain.Cache, cacheTTL time.Duration, logger *zap.Logger) *TranslateService {
	return &TranslateService{
		gen:      gen,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Enabled reports whether translation is configured.
func (s *TranslateService) Enabled() bool {
	return s.gen.Enabled()
}

// Translate returns the texts translated to the target language. Cached
// results are reused; misses are batched into one generation call.
// Positions that cannot be translated carry the source text.
func (s *TranslateService) Translate(ctx context.Context, texts []string, targetLang string) []string {
	if len(texts) > maxTranslateBatch {
		texts = texts[:maxTranslateBatch]
	}

	results := make([]string, len(texts))
	missing := make([]int, 0, len(texts))
	keys := make([]string, len(texts))

	for i, text := range texts {
		keys[i] = translationKey(text, targetLang)
		if cached, err := s.cache.Get(ctx, keys[i]); err == nil && cached != nil {
			results[i] = string(cached)
			continue
		}
		missing = append(missing, i)
	}

	if len(missing) > 0 {
		s.fillMissing(ctx, texts, results, missing, keys, targetLang)
	}

	for i, r := range results {
		if r == "" {
			results[i] = texts[i]
		}
	}

	return results
}

func (s *TranslateService) fillMissing(ctx context.Context, texts, results []string, missing []int, keys []string, targetLang string) {
	targetName, ok := translateLangNames[targetLang]
	if !ok {
		targetName = "English"
	}

	parts := make([]string, len(missing))
	for i, idx := range missing {
		parts[i] = texts[idx]
	}
	combined := strings.Join(parts, "\n"+translateSeparator+"\n")
	prompt := fmt.Sprintf(
		"Translate the following Russian text(s) to %s. Keep the same format, preserve emojis and special characters. If there are multiple texts separated by %s, keep the separator in output. Only output translations, no explanations:\n\n%s",
		targetName, translateSeparator, combined,
	)

	translated, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		s.logger.Warn("translation batch failed",
			zap.Int("texts", len(missing)),
			zap.String("lang", targetLang),
			zap.Error(err),
		)
		return
	}

	translatedParts := strings.Split(translated, translateSeparator)
	for i, idx := range missing {
		if i >= len(translatedParts) {
			break
		}
		clean := strings.TrimSpace(translatedParts[i])
		results[idx] = clean

		if err := s.cache.Set(ctx, keys[idx], []byte(clean), s.cacheTTL); err != nil {
			s.logger.Debug("translation cache write failed", zap.Error(err))
		}
	}
}

// translationKey derives the cache key from the text and target
// language.
func translationKey(text, lang string) string {
	sum := md5.Sum([]byte(text + ":" + lang))
	return "tr:" + hex.EncodeToString(sum[:])
}
