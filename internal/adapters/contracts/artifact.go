package contracts

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"

	"github.com/trebuchet-org/treb-deploy/internal/domain"
)

// linkOffset is a single placeholder position inside creation bytecode
type linkOffset struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// linkReferences maps source file -> library name -> placeholder positions
type linkReferences map[string]map[string][]linkOffset

// foundryBytecode is the object form Foundry uses for "bytecode"
type foundryBytecode struct {
	Object         string         `json:"object"`
	LinkReferences linkReferences `json:"linkReferences"`
}

// rawArtifact covers both Hardhat (hh-sol-artifact-1) and Foundry artifact layouts
type rawArtifact struct {
	Format         string          `json:"_format"`
	ContractName   string          `json:"contractName"`
	SourceName     string          `json:"sourceName"`
	ABI            json.RawMessage `json:"abi"`
	Bytecode       json.RawMessage `json:"bytecode"`
	LinkReferences linkReferences  `json:"linkReferences"`
	Metadata       json.RawMessage `json:"metadata"`
}

type foundryMetadata struct {
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// artifact is a parsed, not yet linked, compilation output
type artifact struct {
	info     *domain.ContractInfo
	abiJSON  json.RawMessage
	bytecode string // hex without 0x, may contain link placeholders
	links    []domain.LinkReference
}

// parseArtifact parses an artifact file. It returns nil for JSON files that are not
// compilation artifacts.
func parseArtifact(path string, data []byte) *artifact {
	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	if len(raw.ABI) == 0 || len(raw.Bytecode) == 0 {
		return nil
	}

	var (
		bytecode string
		refs     = raw.LinkReferences
	)
	if err := json.Unmarshal(raw.Bytecode, &bytecode); err != nil {
		var obj foundryBytecode
		if err := json.Unmarshal(raw.Bytecode, &obj); err != nil {
			return nil
		}
		bytecode = obj.Object
		refs = obj.LinkReferences
	}

	name, source := raw.ContractName, raw.SourceName
	if name == "" || source == "" {
		var meta foundryMetadata
		if len(raw.Metadata) > 0 && json.Unmarshal(raw.Metadata, &meta) == nil {
			for src, contract := range meta.Settings.CompilationTarget {
				source, name = src, contract
			}
		}
	}
	if name == "" {
		// out/Counter.sol/Counter.json
		name = strings.TrimSuffix(filepath.Base(path), ".json")
		source = filepath.Base(filepath.Dir(path))
	}

	return &artifact{
		info: &domain.ContractInfo{
			Name:         name,
			SourcePath:   source,
			ArtifactPath: path,
		},
		abiJSON:  raw.ABI,
		bytecode: strings.TrimPrefix(bytecode, "0x"),
		links:    flattenLinks(refs),
	}
}

func flattenLinks(refs linkReferences) []domain.LinkReference {
	var links []domain.LinkReference
	for source, libs := range refs {
		for lib, offsets := range libs {
			for _, off := range offsets {
				links = append(links, domain.LinkReference{
					SourcePath: source,
					Library:    lib,
					Start:      off.Start,
					Length:     off.Length,
				})
			}
		}
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i].Start < links[j].Start
	})
	return links
}

// deployable reports whether the artifact has creation code
func (a *artifact) deployable() bool {
	return a.bytecode != ""
}
