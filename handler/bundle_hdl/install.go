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
	"fmt"
	"github.com/bundle-works/bundle-manager/handler/consolidation_hdl"
	"github.com/bundle-works/bundle-manager/lib/model"
	"github.com/bundle-works/bundle-manager/util"
	"time"
)

func (h *Handler) Install(ctx context.Context, req model.InstallRequest) (model.InstalledBundle, error) {
	if _, ok := model.ScopeMap[req.Scope]; !ok {
		return model.InstalledBundle{}, model.NewInvalidInputError(fmt.Errorf("unknown scope '%s'", req.Scope))
	}
	conflict, err := h.scopeHandler.CheckConflict(ctx, req.ID, req.Scope)
	if err != nil {
		return model.InstalledBundle{}, err
	}
	if conflict != nil {
		return model.InstalledBundle{}, model.NewAlreadyInstalledError(conflict.BundleID, conflict.ExistingVersion, conflict.ExistingScope)
	}
	record, err := h.findRecord(ctx, req.ID, req.Version)
	if err != nil {
		return model.InstalledBundle{}, err
	}
	existing, stale, err := h.scanScope(ctx, record, req.Scope)
	if err != nil {
		return model.InstalledBundle{}, err
	}
	if existing != nil && existing.Version == record.Version && !req.Force {
		return model.InstalledBundle{}, model.NewAlreadyInstalledError(existing.ID, existing.Version, existing.Scope)
	}
	installPath, err := h.placementHandler.Place(ctx, record, req.Scope)
	if err != nil {
		return model.InstalledBundle{}, err
	}
	commitMode := req.CommitMode
	if req.Scope == model.RepositoryScope && commitMode == "" {
		commitMode = model.CommitModeCommit
	}
	now := time.Now().UTC()
	newInstalled := model.InstalledBundle{
		ID:          record.ID,
		Version:     record.Version,
		Scope:       req.Scope,
		SourceID:    record.SourceID,
		SourceType:  record.SourceType,
		InstallPath: installPath,
		CommitMode:  commitMode,
		Added:       now,
		Updated:     now,
	}
	if err = h.writeLedger(ctx, newInstalled, existing); err != nil {
		return model.InstalledBundle{}, err
	}
	if req.Scope == model.RepositoryScope && commitMode == model.CommitModeCommit {
		entry, err := h.lockfileEntry(newInstalled)
		if err != nil {
			return model.InstalledBundle{}, err
		}
		if err = h.lockfileHandler.CreateOrUpdate(entry); err != nil {
			return model.InstalledBundle{}, err
		}
	}
	// stale entries are removed only after the new version is durably recorded
	h.removeStale(ctx, stale)
	return newInstalled, nil
}

func (h *Handler) Uninstall(ctx context.Context, bID string, scope model.Scope) error {
	installed, err := h.Get(ctx, bID, scope)
	if err != nil {
		var nfe *model.NotFoundError
		if errors.As(err, &nfe) {
			return model.NewNotInstalledError(bID, scope)
		}
		return err
	}
	if err = h.placementHandler.Remove(ctx, installed); err != nil {
		return err
	}
	ctxWt, cf := context.WithTimeout(ctx, h.dbTimeout)
	defer cf()
	if err = h.ledgerStorageHandler.DeleteInstalled(ctxWt, bID, scope); err != nil {
		return err
	}
	if scope == model.RepositoryScope {
		if err = h.lockfileHandler.Remove(bID); err != nil {
			return err
		}
	}
	return nil
}

// findRecord resolves a catalog record by id and version. Ids carrying an
// embedded version suffix change between releases, so a miss on the exact id
// falls back to matching records of the same identity.
func (h *Handler) findRecord(ctx context.Context, bID, version string) (model.BundleRecord, error) {
	ctxWt, cf := context.WithTimeout(ctx, h.dbTimeout)
	defer cf()
	records, err := h.recordStorageHandler.ListRecords(ctxWt, model.RecordFilter{ID: bID})
	if err != nil {
		return model.BundleRecord{}, err
	}
	if version == "" && len(records) > 0 {
		return latestRecord(records), nil
	}
	for _, record := range records {
		if record.Version == version {
			return record, nil
		}
	}
	records, err = h.recordStorageHandler.ListRecords(ctxWt, model.RecordFilter{})
	if err != nil {
		return model.BundleRecord{}, err
	}
	identity := consolidation_hdl.ExtractIdentity(bID)
	var sameIdentity []model.BundleRecord
	for _, record := range records {
		if consolidation_hdl.ExtractIdentity(record.ID) != identity {
			continue
		}
		if record.Version == version {
			return record, nil
		}
		sameIdentity = append(sameIdentity, record)
	}
	if version == "" && len(sameIdentity) > 0 {
		return latestRecord(sameIdentity), nil
	}
	return model.BundleRecord{}, model.NewNotFoundError(fmt.Errorf("no record for '%s' in version '%s'", bID, version))
}

// scanScope returns the entry matching the record's id at the target scope,
// if any, along with stale entries of the same identity under a different id.
func (h *Handler) scanScope(ctx context.Context, record model.BundleRecord, scope model.Scope) (*model.InstalledBundle, []model.InstalledBundle, error) {
	ctxWt, cf := context.WithTimeout(ctx, h.dbTimeout)
	defer cf()
	installed, err := h.ledgerStorageHandler.ListInstalled(ctxWt, model.InstalledFilter{Scope: scope})
	if err != nil {
		return nil, nil, err
	}
	identity := consolidation_hdl.ExtractIdentity(record.ID)
	var existing *model.InstalledBundle
	var stale []model.InstalledBundle
	for i := range installed {
		ib := installed[i]
		if ib.ID == record.ID {
			existing = &ib
			continue
		}
		if consolidation_hdl.ExtractIdentity(ib.ID) == identity {
			stale = append(stale, ib)
		}
	}
	return existing, stale, nil
}

func (h *Handler) writeLedger(ctx context.Context, newInstalled model.InstalledBundle, existing *model.InstalledBundle) error {
	ctxWt, cf := context.WithTimeout(ctx, h.dbTimeout)
	defer cf()
	if existing != nil {
		newInstalled.Added = existing.Added
		return h.ledgerStorageHandler.UpdateInstalled(ctxWt, newInstalled)
	}
	return h.ledgerStorageHandler.CreateInstalled(ctxWt, newInstalled)
}

func (h *Handler) removeStale(ctx context.Context, stale []model.InstalledBundle) {
	for _, old := range stale {
		if err := h.placementHandler.Remove(ctx, old); err != nil {
			util.Logger.Errorf("removing stale files of '%s' failed: %s", old.ID, err)
		}
		ctxWt, cf := context.WithTimeout(ctx, h.dbTimeout)
		if err := h.ledgerStorageHandler.DeleteInstalled(ctxWt, old.ID, old.Scope); err != nil {
			util.Logger.Errorf("removing stale entry for '%s' failed: %s", old.ID, err)
		}
		cf()
		if old.Scope == model.RepositoryScope {
			if err := h.lockfileHandler.Remove(old.ID); err != nil {
				util.Logger.Errorf("removing stale lockfile entry for '%s' failed: %s", old.ID, err)
			}
		}
	}
}

func latestRecord(records []model.BundleRecord) model.BundleRecord {
	latest := records[0]
	for _, record := range records[1:] {
		if versionLess(latest.Version, record.Version) {
			latest = record
		}
	}
	return latest
}
