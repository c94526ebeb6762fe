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

package update_hdl

import (
	"github.com/bundle-works/bundle-manager/handler"
	"github.com/bundle-works/bundle-manager/lib/model"
	"github.com/bundle-works/bundle-manager/util/set"
	"sync"
	"time"
)

// resyncSourceTypes holds the source types whose upstream metadata is
// refreshed before an update. Releases of these sources are fetched by tag,
// catalog style and local sources serve from cached records.
var resyncSourceTypes = set.New[model.SourceType](model.GitTagSourceType)

type Handler struct {
	bundleHandler        handler.BundleHandler
	sourceHandler        handler.SourceHandler
	recordStorageHandler handler.RecordStorageHandler
	consolidationHandler handler.ConsolidationHandler
	notificationHandler  handler.NotificationHandler
	updates              map[string]updateTask
	mu                   sync.RWMutex
}

type updateTask struct {
	targetVersion   string
	previousVersion string
	started         time.Time
}

func New(bundleHandler handler.BundleHandler, sourceHandler handler.SourceHandler, recordStorageHandler handler.RecordStorageHandler, consolidationHandler handler.ConsolidationHandler, notificationHandler handler.NotificationHandler) *Handler {
	return &Handler{
		bundleHandler:        bundleHandler,
		sourceHandler:        sourceHandler,
		recordStorageHandler: recordStorageHandler,
		consolidationHandler: consolidationHandler,
		notificationHandler:  notificationHandler,
		updates:              make(map[string]updateTask),
	}
}

// IsUpdateInProgress reports lock presence for a bundle id.
func (h *Handler) IsUpdateInProgress(bID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.updates[bID]
	return ok
}

// acquire inserts the update task for a bundle id. Check and insert happen
// under one lock so two updates for the same id cannot both pass the check.
func (h *Handler) acquire(bID, version string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.updates[bID]; ok {
		return model.NewUpdateInProgressError(bID)
	}
	h.updates[bID] = updateTask{
		targetVersion: version,
		started:       time.Now().UTC(),
	}
	return nil
}

func (h *Handler) setPrevious(bID, version string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	task := h.updates[bID]
	task.previousVersion = version
	h.updates[bID] = task
}

func (h *Handler) release(bID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.updates, bID)
}
