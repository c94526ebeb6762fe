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

package lockfile_hdl

import (
	"fmt"
	"github.com/bundle-works/bundle-manager/lib/model"
	"gopkg.in/yaml.v3"
	"os"
	"path"
	"sync"
)

type lockfileDoc struct {
	Bundles map[string]model.LockfileEntry `yaml:"bundles"`
}

// Handler keeps the repository scope lockfile on disk. All mutations are
// read-modify-write under one lock and replace the file atomically.
type Handler struct {
	path string
	mu   sync.Mutex
}

func New(filePath string) (*Handler, error) {
	if !path.IsAbs(filePath) {
		return nil, fmt.Errorf("lockfile path must be absolute")
	}
	return &Handler{path: filePath}, nil
}

func (h *Handler) CreateOrUpdate(entry model.LockfileEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	doc, err := h.read()
	if err != nil {
		return err
	}
	if doc.Bundles == nil {
		doc.Bundles = make(map[string]model.LockfileEntry)
	}
	doc.Bundles[entry.BundleID] = entry
	return h.write(doc)
}

func (h *Handler) Remove(bID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	doc, err := h.read()
	if err != nil {
		return err
	}
	if _, ok := doc.Bundles[bID]; !ok {
		return nil
	}
	delete(doc.Bundles, bID)
	return h.write(doc)
}

func (h *Handler) Read() (map[string]model.LockfileEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	doc, err := h.read()
	if err != nil {
		return nil, err
	}
	if doc.Bundles == nil {
		return map[string]model.LockfileEntry{}, nil
	}
	return doc.Bundles, nil
}

func (h *Handler) read() (lockfileDoc, error) {
	var doc lockfileDoc
	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return doc, model.NewInternalError(err)
	}
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return doc, model.NewInternalError(err)
	}
	return doc, nil
}

func (h *Handler) write(doc lockfileDoc) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return model.NewInternalError(err)
	}
	tmp := h.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0664); err != nil {
		return model.NewInternalError(err)
	}
	if err = os.Rename(tmp, h.path); err != nil {
		os.Remove(tmp)
		return model.NewInternalError(err)
	}
	return nil
}
