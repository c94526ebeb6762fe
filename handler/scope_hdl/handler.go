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

package scope_hdl

import (
	"context"
	"errors"
	"github.com/bundle-works/bundle-manager/handler"
	"github.com/bundle-works/bundle-manager/lib/model"
)

type Handler struct {
	ledgerStorageHandler handler.LedgerStorageHandler
}

func New(ledgerStorageHandler handler.LedgerStorageHandler) *Handler {
	return &Handler{
		ledgerStorageHandler: ledgerStorageHandler,
	}
}

// CheckConflict reports the first scope other than targetScope holding an
// entry for the bundle. All non-target scopes are queried even though at most
// one should ever hold an entry, so invariant violations surface here.
func (h *Handler) CheckConflict(ctx context.Context, bID string, targetScope model.Scope) (*model.ScopeConflict, error) {
	for _, scope := range model.Scopes {
		if scope == targetScope {
			continue
		}
		installed, err := h.ledgerStorageHandler.ReadInstalled(ctx, bID, scope)
		if err != nil {
			var nfe *model.NotFoundError
			if errors.As(err, &nfe) {
				continue
			}
			return nil, err
		}
		return &model.ScopeConflict{
			BundleID:        bID,
			ExistingScope:   scope,
			TargetScope:     targetScope,
			ExistingVersion: installed.Version,
		}, nil
	}
	return nil, nil
}

// Migrate moves a bundle between scopes. The uninstall callback runs before
// the install callback, an uninstall error aborts the migration with the
// source scope untouched. An install error leaves the bundle in neither scope
// and is surfaced verbatim, no automatic re-install is attempted.
func (h *Handler) Migrate(ctx context.Context, bID string, fromScope, toScope model.Scope, uninstallFunc handler.UninstallFunc, installFunc handler.InstallFunc) error {
	installed, err := h.ledgerStorageHandler.ReadInstalled(ctx, bID, fromScope)
	if err != nil {
		var nfe *model.NotFoundError
		if errors.As(err, &nfe) {
			return model.NewNotInstalledError(bID, fromScope)
		}
		return err
	}
	if err = uninstallFunc(ctx, installed); err != nil {
		return err
	}
	if err = installFunc(ctx, installed, toScope); err != nil {
		return err
	}
	return nil
}
