package stealth

import (
	"sync"

	"github.com/shadowpurse/wallet-core/internal/curve"
)

// Match records a recognized output's index in the scanned batch and the
// private scalar that spends it.
type Match struct {
	Index int
	Spend curve.Scalar
}

// Scanner repeatedly tests candidate outputs against one master key,
// caching recognized outputs so re-scanning the same batch (e.g. after a
// chain reorg re-delivers it) is cheap. Cache mutation is confined to the
// scanner's owning caller: ScanBatch's worker goroutines compute matches
// into private, per-goroutine results and the cache is only written back
// after all workers have joined.
type Scanner struct {
	key *MasterKey

	mu    sync.Mutex
	cache map[[OutputSize]byte]curve.Scalar
}

// NewScanner creates a scanner bound to key.
func NewScanner(key *MasterKey) *Scanner {
	return &Scanner{key: key, cache: make(map[[OutputSize]byte]curve.Scalar)}
}

func cacheKey(o Output) [OutputSize]byte {
	var k [OutputSize]byte
	copy(k[:], o.Bytes())
	return k
}

// Scan tests a single output, consulting and updating the recognition
// cache.
func (s *Scanner) Scan(o Output) (curve.Scalar, bool) {
	key := cacheKey(o)

	s.mu.Lock()
	if sp, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return sp, true
	}
	s.mu.Unlock()

	sp, ok := s.key.Scan(o.Ephemeral, o.OneTime)
	if !ok {
		return curve.Scalar{}, false
	}

	s.mu.Lock()
	s.cache[key] = sp
	s.mu.Unlock()
	return sp, true
}

// CachedMatchCount reports how many distinct outputs this scanner has
// recognized so far.
func (s *Scanner) CachedMatchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

// ScanBatch scans outputs for recognition, returning matches in the order
// their outputs appear. With workers > 1 the batch is sharded across that
// many goroutines; each goroutine owns its own scratch scalars and writes
// only to its own slice of a preallocated results array, so there is no
// shared mutable state inside the parallel section itself. Cache writes are
// applied by the calling goroutine only after every worker has finished.
func (s *Scanner) ScanBatch(outputs []Output, workers int) []Match {
	if workers <= 1 || len(outputs) < workers {
		return s.scanSequential(outputs)
	}
	return s.scanParallel(outputs, workers)
}

func (s *Scanner) scanSequential(outputs []Output) []Match {
	var matches []Match
	for i, o := range outputs {
		if sp, ok := s.Scan(o); ok {
			matches = append(matches, Match{Index: i, Spend: sp})
		}
	}
	return matches
}

type scanResult struct {
	spend curve.Scalar
	ok    bool
}

func (s *Scanner) scanParallel(outputs []Output, workers int) []Match {
	results := make([]scanResult, len(outputs))
	s.mu.Lock()
	for i, o := range outputs {
		if sp, ok := s.cache[cacheKey(o)]; ok {
			results[i] = scanResult{spend: sp, ok: true}
		}
	}
	s.mu.Unlock()
	chunk := (len(outputs) + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < len(outputs); start += chunk {
		end := start + chunk
		if end > len(outputs) {
			end = len(outputs)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if results[i].ok {
					continue
				}
				sp, ok := s.key.Scan(outputs[i].Ephemeral, outputs[i].OneTime)
				results[i] = scanResult{spend: sp, ok: ok}
			}
		}(start, end)
	}
	wg.Wait()

	var matches []Match
	s.mu.Lock()
	for i, r := range results {
		if !r.ok {
			continue
		}
		matches = append(matches, Match{Index: i, Spend: r.spend})
		s.cache[cacheKey(outputs[i])] = r.spend
	}
	s.mu.Unlock()
	return matches
}
