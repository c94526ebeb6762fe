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

package source_hdl

import (
	"context"
	"fmt"
	"github.com/bundle-works/bundle-manager/handler"
	"github.com/bundle-works/bundle-manager/lib/model"
	"github.com/google/uuid"
	"time"
)

type Handler struct {
	sourceStorageHandler handler.SourceStorageHandler
	recordStorageHandler handler.RecordStorageHandler
	transferHandler      handler.TransferHandler
	consolidationHandler handler.ConsolidationHandler
	dbTimeout            time.Duration
}

func New(sourceStorageHandler handler.SourceStorageHandler, recordStorageHandler handler.RecordStorageHandler, transferHandler handler.TransferHandler, consolidationHandler handler.ConsolidationHandler, dbTimeout time.Duration) *Handler {
	return &Handler{
		sourceStorageHandler: sourceStorageHandler,
		recordStorageHandler: recordStorageHandler,
		transferHandler:      transferHandler,
		consolidationHandler: consolidationHandler,
		dbTimeout:            dbTimeout,
	}
}

func (h *Handler) List(ctx context.Context) ([]model.Source, error) {
	ctxWt, cf := context.WithTimeout(ctx, h.dbTimeout)
	defer cf()
	return h.sourceStorageHandler.ListSources(ctxWt)
}

func (h *Handler) Get(ctx context.Context, sID string) (model.Source, error) {
	ctxWt, cf := context.WithTimeout(ctx, h.dbTimeout)
	defer cf()
	return h.sourceStorageHandler.ReadSource(ctxWt, sID)
}

func (h *Handler) Add(ctx context.Context, req model.SourceRequest) error {
	if _, ok := model.SourceTypeMap[req.Type]; !ok {
		return model.NewInvalidInputError(fmt.Errorf("unknown source type '%s'", req.Type))
	}
	if req.Name == "" {
		return model.NewInvalidInputError(fmt.Errorf("source name required"))
	}
	if req.Type != model.LocalSourceType && req.URL == "" {
		return model.NewInvalidInputError(fmt.Errorf("source url required for type '%s'", req.Type))
	}
	sID := req.ID
	if sID == "" {
		sID = uuid.NewString()
	}
	ctxWt, cf := context.WithTimeout(ctx, h.dbTimeout)
	defer cf()
	return h.sourceStorageHandler.CreateSource(ctxWt, model.Source{
		ID:    sID,
		Type:  req.Type,
		Name:  req.Name,
		URL:   req.URL,
		Added: time.Now().UTC(),
	})
}

func (h *Handler) Delete(ctx context.Context, sID string) error {
	ctxWt, cf := context.WithTimeout(ctx, h.dbTimeout)
	defer cf()
	if err := h.sourceStorageHandler.DeleteSource(ctxWt, sID); err != nil {
		return err
	}
	h.consolidationHandler.ClearCache()
	return nil
}

// Resync refreshes a source's record set from its backing repository and
// invalidates the consolidation cache.
func (h *Handler) Resync(ctx context.Context, sID string) error {
	src, err := h.Get(ctx, sID)
	if err != nil {
		return err
	}
	if src.Type != model.GitTagSourceType {
		return model.NewInvalidInputError(fmt.Errorf("source type '%s' does not support resync", src.Type))
	}
	versions, err := h.transferHandler.ListVersions(ctx, src.URL)
	if err != nil {
		return err
	}
	var records []model.BundleRecord
	for _, ver := range versions {
		records = append(records, model.BundleRecord{
			ID:          src.Name + "-" + ver,
			Version:     ver,
			SourceID:    src.ID,
			SourceType:  src.Type,
			DownloadURL: src.URL,
			Name:        src.Name,
		})
	}
	ctxWt, cf := context.WithTimeout(ctx, h.dbTimeout)
	defer cf()
	if err = h.recordStorageHandler.ReplaceRecords(ctxWt, sID, records); err != nil {
		return err
	}
	if err = h.sourceStorageHandler.SetSourceSynced(ctxWt, sID); err != nil {
		return err
	}
	h.consolidationHandler.ClearCache()
	return nil
}
