// Package session derives prompt cache keys that stay stable across the turns
// of one conversation.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/n0madic/go-codexclient/internal/types"
)

// DefaultMaxEntries bounds the fingerprint table of the package-level cache.
const DefaultMaxEntries = 10000

// Cache maps conversation fingerprints to generated prompt cache keys.
type Cache struct {
	mu         sync.Mutex
	maxEntries int
	keys       map[string]string
	order      []string
}

// NewCache returns an empty cache holding at most maxEntries fingerprints.
// Non-positive values select DefaultMaxEntries.
func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{maxEntries: maxEntries, keys: make(map[string]string)}
}

var defaultCache = NewCache(DefaultMaxEntries)

// PromptCacheKey resolves the key through the package-level cache.
func PromptCacheKey(instructions string, input []types.ResponseItem, clientSupplied string) string {
	return defaultCache.PromptCacheKey(instructions, input, clientSupplied)
}

// PromptCacheKey returns clientSupplied when set. Otherwise the same instructions and
// first user message always map to the same key, so later turns of a conversation
// hit the upstream prompt cache.
func (c *Cache) PromptCacheKey(instructions string, input []types.ResponseItem, clientSupplied string) string {
	if clientSupplied != "" {
		return clientSupplied
	}

	fp := fingerprint(instructions, input)

	c.mu.Lock()
	defer c.mu.Unlock()

	if key, ok := c.keys[fp]; ok {
		return key
	}

	key := uuid.New().String()
	c.keys[fp] = key
	c.order = append(c.order, fp)
	if len(c.order) > c.maxEntries {
		// FIFO eviction
		oldest := c.order[0]
		c.order[0] = ""
		c.order = c.order[1:]
		delete(c.keys, oldest)
	}
	return key
}

// Len reports the number of fingerprints held.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keys)
}

type conversationPrefix struct {
	Instructions     string              `json:"instructions,omitempty"`
	FirstUserMessage []types.ContentItem `json:"first_user_message,omitempty"`
}

// fingerprint hashes only the conversation-invariant parts of a turn: the
// instructions and the first user message carrying text or images.
func fingerprint(instructions string, input []types.ResponseItem) string {
	data, _ := json.Marshal(conversationPrefix{
		Instructions:     instructions,
		FirstUserMessage: firstUserContent(input),
	})
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func firstUserContent(input []types.ResponseItem) []types.ContentItem {
	for _, item := range input {
		if item.Type != types.ItemTypeMessage || item.Role != "user" {
			continue
		}
		var content []types.ContentItem
		for _, part := range item.Content {
			switch part.Type {
			case types.ContentInputText:
				if part.Text != "" {
					content = append(content, types.ContentItem{Type: part.Type, Text: part.Text})
				}
			case types.ContentInputImage:
				if part.ImageURL != "" {
					content = append(content, types.ContentItem{Type: part.Type, ImageURL: part.ImageURL})
				}
			}
		}
		if len(content) > 0 {
			return content
		}
	}
	return nil
}
