package service

import (
	"context"
	"fmt"
	"time"

	"classifieds-service/internal/domain"
)

// fakeStore is an in-memory domain.Store for service tests.
type fakeStore struct {
	data    map[domain.Country]domain.CategoryMap
	pending map[domain.Country][]domain.Listing
	saves   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data:    map[domain.Country]domain.CategoryMap{},
		pending: map[domain.Country][]domain.Listing{},
	}
}

func (f *fakeStore) Load(country domain.Country) domain.CategoryMap {
	if m, ok := f.data[country]; ok {
		return m
	}
	return domain.NewCategoryMap()
}

func (f *fakeStore) LoadAll() map[string]domain.CategoryMap {
	out := map[string]domain.CategoryMap{}
	for c, m := range f.data {
		out[string(c)] = m
	}
	return out
}

func (f *fakeStore) Save(country domain.Country, data domain.CategoryMap) error {
	f.data[country] = data
	f.saves++
	return nil
}

func (f *fakeStore) LoadPending(country domain.Country) []domain.Listing {
	return f.pending[country]
}

func (f *fakeStore) SavePending(country domain.Country, items []domain.Listing) error {
	f.pending[country] = items
	return nil
}

// fakePhotos resolves file ids to predictable URLs and records uploads.
type fakePhotos struct {
	resolveErr error
	uploadErr  error
	uploaded   [][]byte
	captions   []string
}

func (f *fakePhotos) ResolvePhotoURL(_ context.Context, fileID string) (string, error) {
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	return "https://photos.example.com/" + fileID, nil
}

func (f *fakePhotos) UploadPhoto(_ context.Context, image []byte, caption string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploaded = append(f.uploaded, image)
	f.captions = append(f.captions, caption)
	return fmt.Sprintf("file-%d", len(f.uploaded)), nil
}

// fakeNotifier records notification messages.
type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) Notify(_ context.Context, message string) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, message)
	return nil
}

// fakeCache is an in-memory domain.Cache.
type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	return f.entries[key], nil
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.entries[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

// fakeGenerator returns a fixed response and counts calls.
type fakeGenerator struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (f *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeGenerator) Enabled() bool { return true }
