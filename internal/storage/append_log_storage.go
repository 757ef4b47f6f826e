package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/e-ashitey/smart-history-manager/internal/models"
)

// AppendLogStorage layers an append-only JSONL delta log over the
// Parquet main files. Writes append a line and fsync; reads merge the
// main file with the in-memory delta buffer; once a buffer crosses the
// compaction threshold the merged view is rewritten to Parquet and the
// delta cleared. Delta files are replayed on startup, so nothing is
// lost across restarts.
type AppendLogStorage struct {
	dataDir string

	// History (append-only by nature, deduplication happens on read at
	// the repository level)
	historyDeltaFile   string
	historyDeltaBuffer []models.HistoryItem
	historyDeltaCount  int

	// Domain preferences (last write wins, empty value = tombstone)
	preferenceDeltaFile   string
	preferenceDeltaBuffer []models.DomainPreference
	preferenceDeltaCount  int

	// Ignore counters (last write wins, entries carry absolute counts)
	ignoreDeltaFile   string
	ignoreDeltaBuffer []models.IgnoreCounter
	ignoreDeltaCount  int

	compactThreshold int
	mutex            sync.RWMutex
	flushTicker      *time.Ticker
	stopChan         chan bool
	parquetStorage   *ParquetStorage
}

// NewAppendLogStorage creates the storage, replays any pending delta
// entries and starts the periodic flush.
func NewAppendLogStorage(dataDir string) *AppendLogStorage {
	os.MkdirAll(dataDir, 0755)

	als := &AppendLogStorage{
		dataDir:             dataDir,
		historyDeltaFile:    filepath.Join(dataDir, "history.delta.json"),
		preferenceDeltaFile: filepath.Join(dataDir, "preferences.delta.json"),
		ignoreDeltaFile:     filepath.Join(dataDir, "ignore_counts.delta.json"),
		compactThreshold:    100,
		stopChan:            make(chan bool),
		parquetStorage:      &ParquetStorage{dataDir: dataDir},
	}

	als.loadAllDeltaFiles()
	als.startPeriodicFlush()

	return als
}

// Close flushes pending changes and stops background tasks.
func (als *AppendLogStorage) Close() error {
	als.mutex.Lock()
	defer als.mutex.Unlock()

	if als.flushTicker != nil {
		als.flushTicker.Stop()
		als.flushTicker = nil
	}

	select {
	case als.stopChan <- true:
	default:
	}

	als.flushAllDelta()

	return nil
}

// ============== HISTORY METHODS ==============

// AppendHistory appends history items to the delta log. History is
// append-only here; the repository deduplicates by URL on read.
func (als *AppendLogStorage) AppendHistory(items []models.HistoryItem) error {
	als.mutex.Lock()
	defer als.mutex.Unlock()

	for _, item := range items {
		als.historyDeltaBuffer = append(als.historyDeltaBuffer, item)

		if err := als.appendToDeltaFile(als.historyDeltaFile, item); err != nil {
			return fmt.Errorf("failed to append history item: %w", err)
		}

		als.historyDeltaCount++
	}

	if als.historyDeltaCount >= als.compactThreshold {
		go als.compactHistory()
	}

	return nil
}

// ReadHistory returns all history items, main file plus delta.
func (als *AppendLogStorage) ReadHistory() ([]models.HistoryItem, error) {
	als.mutex.RLock()
	defer als.mutex.RUnlock()

	mainHistory, err := als.parquetStorage.ReadHistory()
	if err != nil {
		return nil, fmt.Errorf("failed to read main history: %w", err)
	}

	return append(mainHistory, als.historyDeltaBuffer...), nil
}

// ============== PREFERENCE METHODS ==============

// AppendPreference records a preference change. An empty Value removes
// the preference (tombstone).
func (als *AppendLogStorage) AppendPreference(pref models.DomainPreference) error {
	als.mutex.Lock()
	defer als.mutex.Unlock()

	pref.UpdatedAt = time.Now()
	als.preferenceDeltaBuffer = append(als.preferenceDeltaBuffer, pref)

	if err := als.appendToDeltaFile(als.preferenceDeltaFile, pref); err != nil {
		return fmt.Errorf("failed to append preference: %w", err)
	}

	als.preferenceDeltaCount++

	if als.preferenceDeltaCount >= als.compactThreshold {
		go als.compactPreferences()
	}

	return nil
}

// ReadPreferences returns the merged preference list with updates and
// tombstones applied, last write wins.
func (als *AppendLogStorage) ReadPreferences() ([]models.DomainPreference, error) {
	als.mutex.RLock()
	defer als.mutex.RUnlock()

	return als.mergedPreferences()
}

// mergedPreferences assumes the caller holds at least a read lock.
func (als *AppendLogStorage) mergedPreferences() ([]models.DomainPreference, error) {
	mainPrefs, err := als.parquetStorage.ReadPreferences()
	if err != nil {
		return nil, fmt.Errorf("failed to read main preferences: %w", err)
	}

	prefMap := make(map[string]models.DomainPreference)
	for _, pref := range mainPrefs {
		prefMap[pref.Domain] = pref
	}
	for _, pref := range als.preferenceDeltaBuffer {
		if pref.Value == "" {
			delete(prefMap, pref.Domain)
		} else {
			prefMap[pref.Domain] = pref
		}
	}

	result := make([]models.DomainPreference, 0, len(prefMap))
	for _, pref := range prefMap {
		result = append(result, pref)
	}

	return result, nil
}

// ============== IGNORE COUNTER METHODS ==============

// AppendIgnoreCounts records absolute counter values for the given
// domains. Later entries for the same domain shadow earlier ones.
func (als *AppendLogStorage) AppendIgnoreCounts(counters []models.IgnoreCounter) error {
	als.mutex.Lock()
	defer als.mutex.Unlock()

	now := time.Now()
	for _, counter := range counters {
		counter.UpdatedAt = now
		als.ignoreDeltaBuffer = append(als.ignoreDeltaBuffer, counter)

		if err := als.appendToDeltaFile(als.ignoreDeltaFile, counter); err != nil {
			return fmt.Errorf("failed to append ignore counter: %w", err)
		}

		als.ignoreDeltaCount++
	}

	if als.ignoreDeltaCount >= als.compactThreshold {
		go als.compactIgnoreCounts()
	}

	return nil
}

// ReadIgnoreCounts returns the merged counter list, last write wins.
func (als *AppendLogStorage) ReadIgnoreCounts() ([]models.IgnoreCounter, error) {
	als.mutex.RLock()
	defer als.mutex.RUnlock()

	return als.mergedIgnoreCounts()
}

func (als *AppendLogStorage) mergedIgnoreCounts() ([]models.IgnoreCounter, error) {
	mainCounters, err := als.parquetStorage.ReadIgnoreCounts()
	if err != nil {
		return nil, fmt.Errorf("failed to read main ignore counters: %w", err)
	}

	counterMap := make(map[string]models.IgnoreCounter)
	for _, counter := range mainCounters {
		counterMap[counter.Domain] = counter
	}
	for _, counter := range als.ignoreDeltaBuffer {
		counterMap[counter.Domain] = counter
	}

	result := make([]models.IgnoreCounter, 0, len(counterMap))
	for _, counter := range counterMap {
		result = append(result, counter)
	}

	return result, nil
}

// ============== PRIVATE HELPER METHODS ==============

func (als *AppendLogStorage) loadAllDeltaFiles() {
	loadDelta(als.historyDeltaFile, &als.historyDeltaBuffer, &als.historyDeltaCount)
	loadDelta(als.preferenceDeltaFile, &als.preferenceDeltaBuffer, &als.preferenceDeltaCount)
	loadDelta(als.ignoreDeltaFile, &als.ignoreDeltaBuffer, &als.ignoreDeltaCount)
}

func loadDelta[T any](filename string, buffer *[]T, count *int) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).WithField("file", filename).Warn("failed to read delta file")
		}
		return
	}

	for _, line := range splitLines(data) {
		if len(line) == 0 {
			continue
		}

		var entry T
		if err := json.Unmarshal(line, &entry); err != nil {
			logrus.WithError(err).WithField("file", filename).Warn("corrupted delta entry skipped")
			continue
		}

		*buffer = append(*buffer, entry)
		*count++
	}
}

func (als *AppendLogStorage) appendToDeltaFile(filename string, data interface{}) error {
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	jsonData = append(jsonData, '\n')

	if _, err := f.Write(jsonData); err != nil {
		return err
	}

	return f.Sync()
}

// Compaction methods. Each rewrites the merged view to the main Parquet
// file and clears the delta. Merging happens inline under the lock
// rather than through the public Read methods, which would self-deadlock
// on the RWMutex.

func (als *AppendLogStorage) compactHistory() error {
	als.mutex.Lock()
	defer als.mutex.Unlock()

	mainHistory, err := als.parquetStorage.ReadHistory()
	if err != nil {
		return fmt.Errorf("failed to read main history: %w", err)
	}

	allHistory := append(mainHistory, als.historyDeltaBuffer...)

	if err := als.parquetStorage.WriteHistory(allHistory); err != nil {
		return fmt.Errorf("history compaction failed: %w", err)
	}

	os.Remove(als.historyDeltaFile)
	als.historyDeltaBuffer = nil
	als.historyDeltaCount = 0

	return nil
}

func (als *AppendLogStorage) compactPreferences() error {
	als.mutex.Lock()
	defer als.mutex.Unlock()

	allPrefs, err := als.mergedPreferences()
	if err != nil {
		return fmt.Errorf("preference compaction failed: %w", err)
	}

	if err := als.parquetStorage.WritePreferences(allPrefs); err != nil {
		return fmt.Errorf("preference compaction failed: %w", err)
	}

	os.Remove(als.preferenceDeltaFile)
	als.preferenceDeltaBuffer = nil
	als.preferenceDeltaCount = 0

	return nil
}

func (als *AppendLogStorage) compactIgnoreCounts() error {
	als.mutex.Lock()
	defer als.mutex.Unlock()

	allCounters, err := als.mergedIgnoreCounts()
	if err != nil {
		return fmt.Errorf("ignore counter compaction failed: %w", err)
	}

	if err := als.parquetStorage.WriteIgnoreCounts(allCounters); err != nil {
		return fmt.Errorf("ignore counter compaction failed: %w", err)
	}

	os.Remove(als.ignoreDeltaFile)
	als.ignoreDeltaBuffer = nil
	als.ignoreDeltaCount = 0

	return nil
}

// Periodic flush

func (als *AppendLogStorage) startPeriodicFlush() {
	als.flushTicker = time.NewTicker(30 * time.Second)
	tick := als.flushTicker.C

	go func() {
		for {
			select {
			case <-tick:
				als.flushAllDelta()
			case <-als.stopChan:
				return
			}
		}
	}()
}

func (als *AppendLogStorage) flushAllDelta() {
	files := []string{
		als.historyDeltaFile,
		als.preferenceDeltaFile,
		als.ignoreDeltaFile,
	}

	for _, filename := range files {
		if _, err := os.Stat(filename); err == nil {
			if f, err := os.OpenFile(filename, os.O_RDWR, 0644); err == nil {
				f.Sync()
				f.Close()
			}
		}
	}
}

// splitLines splits a byte slice on newlines without allocating per
// line.
func splitLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0

	for i, b := range data {
		if b == '\n' {
			if i > start {
				lines = append(lines, data[start:i])
			}
			start = i + 1
		}
	}

	if start < len(data) {
		lines = append(lines, data[start:])
	}

	return lines
}
