// internal/handlers/tts/cache.go
package tts

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"freeflow-backend/internal/common/logger"
)

// DiskCache stores synthesized audio as content-addressed mp3 files. Entries
// older than maxAge are treated as misses and removed; when the total size
// exceeds maxSize the oldest entries are evicted first.
type DiskCache struct {
	dir     string
	maxSize int64
	maxAge  time.Duration
	logger  logger.Logger
}

func NewDiskCache(dir string, maxSize int64, maxAge time.Duration, log logger.Logger) *DiskCache {
	return &DiskCache{
		dir:     dir,
		maxSize: maxSize,
		maxAge:  maxAge,
		logger:  log.WithFields(map[string]interface{}{"component": "tts-cache"}),
	}
}

// CacheKey hashes the synthesis inputs so identical requests share one entry.
func CacheKey(text, voiceID string, settings VoiceSettings) string {
	payload, _ := json.Marshal(struct {
		Text          string        `json:"text"`
		VoiceID       string        `json:"voiceId"`
		VoiceSettings VoiceSettings `json:"voiceSettings"`
	}{text, voiceID, settings})

	sum := md5.Sum(payload)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached audio, or nil on a miss. Expired entries are deleted.
func (c *DiskCache) Get(key string) []byte {
	path := c.entryPath(key)

	info, err := os.Stat(path)
	if err != nil {
		return nil
	}

	if time.Since(info.ModTime()) > c.maxAge {
		_ = os.Remove(path)
		return nil
	}

	audio, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return audio
}

// Put writes an entry, evicting oldest files first when over the size limit.
// Write failures are logged and swallowed; the caller already has the audio.
func (c *DiskCache) Put(key string, audio []byte) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		c.logger.Warn("cache dir create failed", map[string]interface{}{"error": err.Error()})
		return
	}

	c.evict()

	if err := os.WriteFile(c.entryPath(key), audio, 0o644); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (c *DiskCache) entryPath(key string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%s.mp3", key))
}

type cacheEntry struct {
	path    string
	size    int64
	modTime time.Time
}

func (c *DiskCache) evict() {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}

	var totalSize int64
	entries := make([]cacheEntry, 0, len(files))
	for _, file := range files {
		info, err := file.Info()
		if err != nil {
			continue
		}
		totalSize += info.Size()
		entries = append(entries, cacheEntry{
			path:    filepath.Join(c.dir, file.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}

	if totalSize <= c.maxSize {
		return
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].modTime.Before(entries[j].modTime)
	})

	for _, entry := range entries {
		if totalSize <= c.maxSize {
			break
		}
		if err := os.Remove(entry.path); err != nil {
			continue
		}
		totalSize -= entry.size
	}
}
