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
	"context"
	"errors"
	"fmt"
	"github.com/bundle-works/bundle-manager/lib/model"
	"github.com/bundle-works/bundle-manager/util"
)

// Update moves an installed bundle to the given version, or to the latest
// known version if none is given. On failure the previously installed version
// is reinstalled. Exactly one failure notification is emitted per failed
// attempt and the per-bundle lock is released on every terminal path.
func (h *Handler) Update(ctx context.Context, bID, version string) error {
	if err := h.acquire(bID, version); err != nil {
		return err
	}
	defer h.release(bID)
	installed, err := h.bundleHandler.GetAnyScope(ctx, bID)
	if err != nil {
		// failed before any state change, still counts as one failed attempt
		h.notificationHandler.NotifyFailure(bID, err.Error())
		return err
	}
	h.setPrevious(bID, installed.Version)
	h.resyncSource(ctx, installed)
	err = h.apply(ctx, installed, version)
	if err == nil {
		return nil
	}
	if rbErr := h.rollback(ctx, installed); rbErr != nil {
		util.Logger.Errorf("rolling back '%s' to '%s' failed: %s", bID, installed.Version, rbErr)
		rfErr := model.NewRollbackFailedError(bID, err)
		h.notificationHandler.NotifyFailure(bID, rfErr.Error())
		return rfErr
	}
	ufErr := model.NewUpdateFailedError(bID, installed.Version, err)
	h.notificationHandler.NotifyFailure(bID, ufErr.Error())
	return ufErr
}

func (h *Handler) apply(ctx context.Context, installed model.InstalledBundle, version string) error {
	target := version
	if target == "" {
		var err error
		target, err = h.resolveLatest(ctx, installed)
		if err != nil {
			return err
		}
	}
	newInstalled, err := h.bundleHandler.Install(ctx, model.InstallRequest{
		ID:         installed.ID,
		Version:    target,
		Scope:      installed.Scope,
		CommitMode: installed.CommitMode,
		Force:      true,
	})
	if err != nil {
		return err
	}
	current, err := h.bundleHandler.Get(ctx, newInstalled.ID, installed.Scope)
	if err != nil {
		return err
	}
	if current.Version != target {
		return fmt.Errorf("installed version '%s' does not match target '%s'", current.Version, target)
	}
	h.notificationHandler.NotifySuccess(installed.ID, installed.Version, target)
	return nil
}

func (h *Handler) rollback(ctx context.Context, installed model.InstalledBundle) error {
	_, err := h.bundleHandler.Install(ctx, model.InstallRequest{
		ID:         installed.ID,
		Version:    installed.Version,
		Scope:      installed.Scope,
		CommitMode: installed.CommitMode,
		Force:      true,
	})
	return err
}

// resyncSource refreshes upstream metadata when the owning source is fetched
// by tag. Re-sync errors and missing sources are not update failures, the
// update proceeds from cached records.
func (h *Handler) resyncSource(ctx context.Context, installed model.InstalledBundle) {
	source, err := h.sourceHandler.Get(ctx, installed.SourceID)
	if err != nil {
		var nfe *model.NotFoundError
		if !errors.As(err, &nfe) {
			util.Logger.Errorf("reading source '%s' failed: %s", installed.SourceID, err)
		}
		return
	}
	if !resyncSourceTypes.Contains(source.Type) {
		return
	}
	if err = h.sourceHandler.Resync(ctx, source.ID); err != nil {
		util.Logger.Errorf("re-syncing source '%s' failed: %s", source.ID, err)
	}
}

// resolveLatest determines the highest known version for the bundle's logical
// identity from the cached records of its source.
func (h *Handler) resolveLatest(ctx context.Context, installed model.InstalledBundle) (string, error) {
	records, err := h.recordStorageHandler.ListRecords(ctx, model.RecordFilter{SourceID: installed.SourceID})
	if err != nil {
		return "", err
	}
	entries := h.consolidationHandler.Consolidate(records)
	for _, entry := range entries {
		if entry.ID == installed.ID || entry.Identity == installed.ID {
			return entry.Version, nil
		}
		for _, record := range entry.AllVersions {
			if record.ID == installed.ID {
				return entry.Version, nil
			}
		}
	}
	return "", model.NewNotFoundError(fmt.Errorf("no records for '%s' in source '%s'", installed.ID, installed.SourceID))
}
