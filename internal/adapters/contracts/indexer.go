package contracts

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/treb-deploy/internal/domain"
	"github.com/trebuchet-org/treb-deploy/internal/domain/config"
	"github.com/trebuchet-org/treb-deploy/internal/usecase"
)

const maxSuggestions = 3

// Indexer discovers compilation artifacts under the source directory and turns them
// into deployable contract factories
type Indexer struct {
	sourceDir string
	log       *slog.Logger

	mu        sync.RWMutex
	indexed   bool
	byKey     map[string]*artifact   // key: "source:Name"
	byName    map[string][]*artifact // key: contract name
	nameIndex []string
}

// NewIndexer creates a new artifact indexer
func NewIndexer(cfg *config.RuntimeConfig, log *slog.Logger) *Indexer {
	return &Indexer{
		sourceDir: cfg.SourceDir,
		log:       log.With("component", "ContractIndexer"),
	}
}

// Index walks the source directory. It is called lazily by the lookups and can be
// called again to pick up a fresh build.
func (i *Indexer) Index() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.byKey = make(map[string]*artifact)
	i.byName = make(map[string][]*artifact)
	i.nameIndex = nil

	if _, err := os.Stat(i.sourceDir); err != nil {
		return fmt.Errorf("artifact directory %s not found, build the contracts first: %w", i.sourceDir, err)
	}

	err := filepath.Walk(i.sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		art := parseArtifact(path, data)
		if art == nil {
			return nil
		}
		i.add(art)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index artifacts: %w", err)
	}

	for name := range i.byName {
		i.nameIndex = append(i.nameIndex, name)
	}
	sort.Strings(i.nameIndex)
	i.indexed = true

	i.log.Debug("indexed artifacts", "dir", i.sourceDir, "contracts", len(i.byKey))
	return nil
}

func (i *Indexer) add(art *artifact) {
	key := art.info.Key()
	if _, exists := i.byKey[key]; exists {
		return
	}
	i.byKey[key] = art
	i.byName[art.info.Name] = append(i.byName[art.info.Name], art)
}

func (i *Indexer) ensureIndexed() error {
	i.mu.RLock()
	indexed := i.indexed
	i.mu.RUnlock()
	if indexed {
		return nil
	}
	return i.Index()
}

// ListContracts returns every indexed contract sorted by key
func (i *Indexer) ListContracts(ctx context.Context) ([]*domain.ContractInfo, error) {
	if err := i.ensureIndexed(); err != nil {
		return nil, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	infos := make([]*domain.ContractInfo, 0, len(i.byKey))
	for _, art := range i.byKey {
		infos = append(infos, art.info)
	}
	sort.Slice(infos, func(a, b int) bool {
		return infos[a].Key() < infos[b].Key()
	})
	return infos, nil
}

// GetContractFactory resolves name (a bare contract name or "source:Name") to its
// interface and linked creation bytecode
func (i *Indexer) GetContractFactory(ctx context.Context, name string, libraries map[string]common.Address) (*domain.ContractFactory, error) {
	if err := i.ensureIndexed(); err != nil {
		return nil, err
	}

	art, err := i.lookup(name)
	if err != nil {
		return nil, err
	}
	if !art.deployable() {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotDeployable, art.info.Key())
	}

	parsed, err := abi.JSON(bytes.NewReader(art.abiJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse interface of %s: %w", art.info.Key(), err)
	}

	code, err := link(art, libraries)
	if err != nil {
		return nil, err
	}

	return &domain.ContractFactory{
		Contract: art.info,
		ABI:      &parsed,
		Bytecode: code,
	}, nil
}

func (i *Indexer) lookup(name string) (*artifact, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if strings.Contains(name, ":") {
		if art, ok := i.byKey[name]; ok {
			return art, nil
		}
		parts := strings.SplitN(name, ":", 2)
		return nil, &domain.ContractNotFoundError{Name: name, Suggestions: i.suggest(parts[1])}
	}

	matches := i.byName[name]
	switch len(matches) {
	case 0:
		return nil, &domain.ContractNotFoundError{Name: name, Suggestions: i.suggest(name)}
	case 1:
		return matches[0], nil
	default:
		infos := make([]*domain.ContractInfo, len(matches))
		for idx, m := range matches {
			infos[idx] = m.info
		}
		return nil, &domain.AmbiguousContractError{Name: name, Matches: infos}
	}
}

// suggest returns the closest known contract names
func (i *Indexer) suggest(name string) []string {
	matches := fuzzy.Find(name, i.nameIndex)
	if len(matches) == 0 {
		lower := strings.ToLower(name)
		var out []string
		for _, candidate := range i.nameIndex {
			if strings.Contains(strings.ToLower(candidate), lower) || strings.Contains(lower, strings.ToLower(candidate)) {
				out = append(out, candidate)
			}
			if len(out) == maxSuggestions {
				break
			}
		}
		return out
	}

	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// link substitutes library addresses into the placeholders of the creation bytecode.
// Libraries may be keyed by bare name or by "source:Name".
func link(art *artifact, libraries map[string]common.Address) ([]byte, error) {
	for name := range libraries {
		if !referenced(art.links, name) {
			return nil, fmt.Errorf("%w: %s is not linked by %s", domain.ErrUnusedLibrary, name, art.info.Key())
		}
	}

	code := []byte(art.bytecode)
	for _, ref := range art.links {
		addr, ok := libraries[ref.SourcePath+":"+ref.Library]
		if !ok {
			addr, ok = libraries[ref.Library]
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s requires library %s:%s", domain.ErrMissingLibrary, art.info.Key(), ref.SourcePath, ref.Library)
		}

		start, end := ref.Start*2, (ref.Start+ref.Length)*2
		if end > len(code) || ref.Length != common.AddressLength {
			return nil, fmt.Errorf("invalid link reference for %s in %s", ref.Library, art.info.Key())
		}
		copy(code[start:end], hex.EncodeToString(addr.Bytes()))
	}

	decoded, err := hex.DecodeString(string(code))
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode for %s: %w", art.info.Key(), err)
	}
	return decoded, nil
}

func referenced(links []domain.LinkReference, name string) bool {
	for _, ref := range links {
		if name == ref.Library || name == ref.SourcePath+":"+ref.Library {
			return true
		}
	}
	return false
}

// Ensure the indexer implements the interface
var _ usecase.ContractFactoryResolver = (*Indexer)(nil)
