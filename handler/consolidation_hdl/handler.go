/*
 * Copyright 2024 InfAI (CC SES)
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package consolidation_hdl

import (
	"fmt"
	"github.com/SENERGY-Platform/mgw-module-lib/validation/sem_ver"
	"github.com/bundle-works/bundle-manager/lib/model"
	"sort"
	"sync"
)

// IdentityResolver maps a record to its logical identity. An injected resolver
// takes precedence over the source-type based default.
type IdentityResolver func(record model.BundleRecord) string

type Handler struct {
	capacity int
	resolver IdentityResolver
	cache    map[string]*cacheEntry
	tick     uint64
	mu       sync.Mutex
}

func New(cacheCapacity int, resolver IdentityResolver) (*Handler, error) {
	if cacheCapacity < 1 {
		return nil, model.NewInvalidInputError(fmt.Errorf("cache capacity must be a positive integer, got %d", cacheCapacity))
	}
	return &Handler{
		capacity: cacheCapacity,
		resolver: resolver,
		cache:    make(map[string]*cacheEntry),
	}, nil
}

// Consolidate groups records by logical identity and derives one entry per
// identity with the highest version selected. Output order and cache side
// effects do not depend on input order.
func (h *Handler) Consolidate(records []model.BundleRecord) []model.ConsolidatedBundle {
	groups := make(map[string][]model.BundleRecord)
	for _, record := range records {
		identity := h.identity(record)
		groups[identity] = append(groups[identity], record)
	}
	identities := make([]string, 0, len(groups))
	for identity := range groups {
		identities = append(identities, identity)
	}
	sort.Strings(identities)
	var entries []model.ConsolidatedBundle
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, identity := range identities {
		group := groups[identity]
		sortVersionsDesc(group)
		h.set(identity, group)
		// callers may mutate the returned set, the cache keeps its own slice
		records := make([]model.BundleRecord, len(group))
		copy(records, group)
		entries = append(entries, model.ConsolidatedBundle{
			BundleRecord:   group[0],
			Identity:       identity,
			IsConsolidated: len(group) > 1,
			AllVersions:    records,
		})
	}
	return entries
}

// GetVersion returns the cached record for one version of an identity.
func (h *Handler) GetVersion(identity, version string) (model.BundleRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	entry, ok := h.cache[identity]
	if !ok {
		return model.BundleRecord{}, model.NewNotFoundError(fmt.Errorf("unknown identity '%s'", identity))
	}
	entry.atime = h.nextTick()
	for _, record := range entry.records {
		if record.Version == version {
			return record, nil
		}
	}
	return model.BundleRecord{}, model.NewNotFoundError(fmt.Errorf("no version '%s' for identity '%s'", version, identity))
}

// GetAllVersions returns the cached version set sorted descending. Unknown
// identities yield an empty result.
func (h *Handler) GetAllVersions(identity string) []model.BundleRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	entry, ok := h.cache[identity]
	if !ok {
		return nil
	}
	entry.atime = h.nextTick()
	records := make([]model.BundleRecord, len(entry.records))
	copy(records, entry.records)
	return records
}

func (h *Handler) ClearCache() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cache = make(map[string]*cacheEntry)
}

func sortVersionsDesc(records []model.BundleRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		res, err := sem_ver.CompareSemVer(records[i].Version, records[j].Version)
		if err != nil {
			return records[i].Version > records[j].Version
		}
		return res > 0
	})
}
