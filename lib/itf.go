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

package lib

import (
	"context"
	"github.com/bundle-works/bundle-manager/lib/model"
)

type Api interface {
	GetBundles(ctx context.Context, filter model.RecordFilter) ([]model.ConsolidatedBundle, error)
	GetBundleVersions(ctx context.Context, identity string) ([]model.BundleRecord, error)
	GetInstalledBundles(ctx context.Context, filter model.InstalledFilter) ([]model.InstalledBundle, error)
	GetInstalledBundle(ctx context.Context, bID string, scope model.Scope) (model.InstalledBundle, error)
	InstallBundle(ctx context.Context, req model.InstallRequest) (string, error)
	UninstallBundle(ctx context.Context, bID string, scope model.Scope) (string, error)
	UpdateBundle(ctx context.Context, req model.UpdateRequest) (string, error)
	AutoUpdateBundles(ctx context.Context, items []model.BatchUpdateItem) (string, error)
	IsUpdateInProgress(ctx context.Context, bID string) (bool, error)
	CheckScopeConflict(ctx context.Context, bID string, targetScope model.Scope) (*model.ScopeConflict, error)
	MigrateBundle(ctx context.Context, req model.MigrateRequest) (string, error)
	GetSources(ctx context.Context) ([]model.Source, error)
	GetSource(ctx context.Context, sID string) (model.Source, error)
	AddSource(ctx context.Context, req model.SourceRequest) error
	DeleteSource(ctx context.Context, sID string) error
	ResyncSource(ctx context.Context, sID string) (string, error)
	GetJobs(ctx context.Context, filter model.JobFilter) ([]model.Job, error)
	GetJob(ctx context.Context, jID string) (model.Job, error)
	CancelJob(ctx context.Context, jID string) error
}
