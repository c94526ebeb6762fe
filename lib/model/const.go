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

package model

const ServiceName = "bundle-manager"

const (
	HeaderRequestID = "X-Request-ID"
	HeaderApiVer    = "X-Api-Version"
	HeaderSrvName   = "X-Service"
)

const (
	BundlesPath           = "bundles"
	BundleVersionsPath    = "versions"
	InstalledPath         = "installed"
	InstalledMigratePath  = "migrate"
	InstalledConflictPath = "conflict"
	UpdatesPath           = "updates"
	UpdatesBatchPath      = "batch"
	SourcesPath           = "sources"
	SourcesResyncPath     = "resync"
	JobsPath              = "jobs"
	JobsCancelPath        = "cancel"
	HealthCheckPath       = "health-check"
)

type Scope = string

const (
	UserScope       Scope = "user"
	WorkspaceScope  Scope = "workspace"
	RepositoryScope Scope = "repository"
)

var Scopes = []Scope{UserScope, WorkspaceScope, RepositoryScope}

var ScopeMap = map[Scope]struct{}{
	UserScope:       {},
	WorkspaceScope:  {},
	RepositoryScope: {},
}

type SourceType = string

const (
	GitTagSourceType  SourceType = "git_tag"
	CatalogSourceType SourceType = "catalog"
	LocalSourceType   SourceType = "local"
)

var SourceTypeMap = map[SourceType]struct{}{
	GitTagSourceType:  {},
	CatalogSourceType: {},
	LocalSourceType:   {},
}

type CommitMode = string

const (
	CommitModeCommit    CommitMode = "commit"
	CommitModeLocalOnly CommitMode = "local-only"
)

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCanceled  JobStatus = "canceled"
	JobCompleted JobStatus = "completed"
	JobError     JobStatus = "error"
	JobOK        JobStatus = "ok"
)

var JobStateMap = map[JobStatus]struct{}{
	JobPending:   {},
	JobRunning:   {},
	JobCanceled:  {},
	JobCompleted: {},
	JobError:     {},
	JobOK:        {},
}
