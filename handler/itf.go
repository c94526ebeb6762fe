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

package handler

import (
	"context"
	"github.com/bundle-works/bundle-manager/lib/model"
	"github.com/bundle-works/bundle-manager/util/dir_fs"
)

// ConsolidationHandler collapses raw bundle records into one entry per logical
// identity and caches the known version sets.
type ConsolidationHandler interface {
	Consolidate(records []model.BundleRecord) []model.ConsolidatedBundle
	GetVersion(identity, version string) (model.BundleRecord, error)
	GetAllVersions(identity string) []model.BundleRecord
	ClearCache()
}

type UpdateHandler interface {
	Update(ctx context.Context, bID, version string) error
	AutoUpdate(ctx context.Context, items []model.BatchUpdateItem) model.BatchUpdateResult
	IsUpdateInProgress(bID string) bool
}

type ScopeHandler interface {
	CheckConflict(ctx context.Context, bID string, targetScope model.Scope) (*model.ScopeConflict, error)
	Migrate(ctx context.Context, bID string, fromScope, toScope model.Scope, uninstallFunc UninstallFunc, installFunc InstallFunc) error
}

type UninstallFunc func(ctx context.Context, installed model.InstalledBundle) error

type InstallFunc func(ctx context.Context, installed model.InstalledBundle, toScope model.Scope) error

type BundleHandler interface {
	List(ctx context.Context, filter model.InstalledFilter) ([]model.InstalledBundle, error)
	Get(ctx context.Context, bID string, scope model.Scope) (model.InstalledBundle, error)
	GetAnyScope(ctx context.Context, bID string) (model.InstalledBundle, error)
	Install(ctx context.Context, req model.InstallRequest) (model.InstalledBundle, error)
	Uninstall(ctx context.Context, bID string, scope model.Scope) error
}

type LedgerStorageHandler interface {
	ListInstalled(ctx context.Context, filter model.InstalledFilter) ([]model.InstalledBundle, error)
	ReadInstalled(ctx context.Context, bID string, scope model.Scope) (model.InstalledBundle, error)
	CreateInstalled(ctx context.Context, installed model.InstalledBundle) error
	UpdateInstalled(ctx context.Context, installed model.InstalledBundle) error
	DeleteInstalled(ctx context.Context, bID string, scope model.Scope) error
}

type RecordStorageHandler interface {
	ListRecords(ctx context.Context, filter model.RecordFilter) ([]model.BundleRecord, error)
	ReplaceRecords(ctx context.Context, sID string, records []model.BundleRecord) error
}

type SourceStorageHandler interface {
	ListSources(ctx context.Context) ([]model.Source, error)
	ReadSource(ctx context.Context, sID string) (model.Source, error)
	CreateSource(ctx context.Context, source model.Source) error
	DeleteSource(ctx context.Context, sID string) error
	SetSourceSynced(ctx context.Context, sID string) error
}

type SourceHandler interface {
	List(ctx context.Context) ([]model.Source, error)
	Get(ctx context.Context, sID string) (model.Source, error)
	Add(ctx context.Context, req model.SourceRequest) error
	Delete(ctx context.Context, sID string) error
	Resync(ctx context.Context, sID string) error
}

type TransferHandler interface {
	ListVersions(ctx context.Context, repoURL string) ([]string, error)
	Fetch(ctx context.Context, repoURL, version string) (dir_fs.DirFS, error)
}

// PlacementHandler performs the actual file placement for a scope. The install
// path layout is owned by the handler, not by callers.
type PlacementHandler interface {
	Place(ctx context.Context, record model.BundleRecord, scope model.Scope) (string, error)
	Remove(ctx context.Context, installed model.InstalledBundle) error
}

// LockfileHandler is invoked for repository scope operations only.
type LockfileHandler interface {
	CreateOrUpdate(entry model.LockfileEntry) error
	Remove(bID string) error
	Read() (map[string]model.LockfileEntry, error)
}

type NotificationHandler interface {
	NotifySuccess(bID, oldVersion, newVersion string)
	NotifyFailure(bID, message string)
	NotifyBatchSummary(succeeded []string, failed []model.BatchUpdateFailure)
}

// NotificationListener is implemented by consumers of install and update
// events, replacing host-driven event subscriptions.
type NotificationListener interface {
	OnUpdateSuccess(event model.UpdateSuccess)
	OnUpdateFailure(event model.UpdateFailure)
	OnBatchSummary(event model.BatchSummary)
}

type JobHandler interface {
	Create(desc string, tFunc func(context.Context, context.CancelFunc) error) (string, error)
	Get(id string) (model.Job, error)
	Cancel(id string) error
	List(filter model.JobFilter) []model.Job
	PurgeJobs(maxAge int64) int
}
