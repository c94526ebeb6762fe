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

package notification_hdl

import (
	"github.com/bundle-works/bundle-manager/handler"
	"github.com/bundle-works/bundle-manager/lib/model"
	"github.com/bundle-works/bundle-manager/util"
	"sync"
	"time"
)

// Handler fans update events out to subscribed listeners. Listener calls run
// on the notifying goroutine, listeners must not block.
type Handler struct {
	listeners map[handler.NotificationListener]struct{}
	mu        sync.RWMutex
}

func New() *Handler {
	return &Handler{listeners: make(map[handler.NotificationListener]struct{})}
}

func (h *Handler) Subscribe(listener handler.NotificationListener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners[listener] = struct{}{}
}

func (h *Handler) Unsubscribe(listener handler.NotificationListener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.listeners, listener)
}

func (h *Handler) NotifySuccess(bID, oldVersion, newVersion string) {
	util.Logger.Infof("updated '%s' from %s to %s", bID, oldVersion, newVersion)
	event := model.UpdateSuccess{
		BundleID:   bID,
		OldVersion: oldVersion,
		NewVersion: newVersion,
		Time:       time.Now().UTC(),
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for listener := range h.listeners {
		listener.OnUpdateSuccess(event)
	}
}

func (h *Handler) NotifyFailure(bID, message string) {
	util.Logger.Errorf("update of '%s' failed: %s", bID, message)
	event := model.UpdateFailure{
		BundleID: bID,
		Message:  message,
		Time:     time.Now().UTC(),
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for listener := range h.listeners {
		listener.OnUpdateFailure(event)
	}
}

func (h *Handler) NotifyBatchSummary(succeeded []string, failed []model.BatchUpdateFailure) {
	util.Logger.Infof("batch update finished: %d succeeded, %d failed", len(succeeded), len(failed))
	event := model.BatchSummary{
		Succeeded: succeeded,
		Failed:    failed,
		Time:      time.Now().UTC(),
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for listener := range h.listeners {
		listener.OnBatchSummary(event)
	}
}
