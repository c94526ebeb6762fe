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

import "github.com/bundle-works/bundle-manager/lib/model"

type cacheEntry struct {
	records []model.BundleRecord
	atime   uint64
}

// set stores a version set under its identity and refreshes recency. Callers
// must hold the mutex. Replacing an existing identity never evicts, inserting
// a new one evicts the least recently accessed other identity when full.
func (h *Handler) set(identity string, records []model.BundleRecord) {
	if entry, ok := h.cache[identity]; ok {
		entry.records = records
		entry.atime = h.nextTick()
		return
	}
	if len(h.cache) >= h.capacity {
		h.evictOldest()
	}
	h.cache[identity] = &cacheEntry{
		records: records,
		atime:   h.nextTick(),
	}
}

func (h *Handler) evictOldest() {
	var oldestID string
	var oldest uint64
	first := true
	for identity, entry := range h.cache {
		if first || entry.atime < oldest {
			oldestID = identity
			oldest = entry.atime
			first = false
		}
	}
	if !first {
		delete(h.cache, oldestID)
	}
}

// nextTick advances the recency clock. A counter is used instead of wall time
// so two touches in the same tick cannot invert recency order.
func (h *Handler) nextTick() uint64 {
	h.tick++
	return h.tick
}
