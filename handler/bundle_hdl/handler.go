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

package bundle_hdl

import (
	"context"
	"errors"
	"github.com/bundle-works/bundle-manager/handler"
	"github.com/bundle-works/bundle-manager/lib/model"
	"time"
)

type Handler struct {
	ledgerStorageHandler handler.LedgerStorageHandler
	recordStorageHandler handler.RecordStorageHandler
	placementHandler     handler.PlacementHandler
	lockfileHandler      handler.LockfileHandler
	scopeHandler         handler.ScopeHandler
	dbTimeout            time.Duration
}

func New(ledgerStorageHandler handler.LedgerStorageHandler, recordStorageHandler handler.RecordStorageHandler, placementHandler handler.PlacementHandler, lockfileHandler handler.LockfileHandler, scopeHandler handler.ScopeHandler, dbTimeout time.Duration) *Handler {
	return &Handler{
		ledgerStorageHandler: ledgerStorageHandler,
		recordStorageHandler: recordStorageHandler,
		placementHandler:     placementHandler,
		lockfileHandler:      lockfileHandler,
		scopeHandler:         scopeHandler,
		dbTimeout:            dbTimeout,
	}
}

func (h *Handler) List(ctx context.Context, filter model.InstalledFilter) ([]model.InstalledBundle, error) {
	ctxWt, cf := context.WithTimeout(ctx, h.dbTimeout)
	defer cf()
	return h.ledgerStorageHandler.ListInstalled(ctxWt, filter)
}

func (h *Handler) Get(ctx context.Context, bID string, scope model.Scope) (model.InstalledBundle, error) {
	ctxWt, cf := context.WithTimeout(ctx, h.dbTimeout)
	defer cf()
	return h.ledgerStorageHandler.ReadInstalled(ctxWt, bID, scope)
}

// GetAnyScope returns the installed bundle regardless of scope. At most one
// scope holds an entry for a given id.
func (h *Handler) GetAnyScope(ctx context.Context, bID string) (model.InstalledBundle, error) {
	for _, scope := range model.Scopes {
		installed, err := h.Get(ctx, bID, scope)
		if err != nil {
			var nfe *model.NotFoundError
			if errors.As(err, &nfe) {
				continue
			}
			return model.InstalledBundle{}, err
		}
		return installed, nil
	}
	return model.InstalledBundle{}, model.NewNotInstalledError(bID, "")
}
