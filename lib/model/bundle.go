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

import "time"

// BundleRecord is one version of a logical bundle as advertised by a source.
// Records are immutable and replaced wholesale when the source is re-synced.
type BundleRecord struct {
	ID          string     `json:"id"`
	Version     string     `json:"version"`
	SourceID    string     `json:"source_id"`
	SourceType  SourceType `json:"source_type"`
	DownloadURL string     `json:"download_url"`
	ManifestURL string     `json:"manifest_url"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
}

// ConsolidatedBundle is the derived view over all records sharing one identity.
type ConsolidatedBundle struct {
	BundleRecord
	Identity       string         `json:"identity"`
	IsConsolidated bool           `json:"is_consolidated"`
	AllVersions    []BundleRecord `json:"all_versions"`
}

type InstalledBundle struct {
	ID          string     `json:"id"`
	Version     string     `json:"version"`
	Scope       Scope      `json:"scope"`
	SourceID    string     `json:"source_id"`
	SourceType  SourceType `json:"source_type"`
	InstallPath string     `json:"install_path"`
	CommitMode  CommitMode `json:"commit_mode,omitempty"`
	Added       time.Time  `json:"added"`
	Updated     time.Time  `json:"updated"`
}

type InstalledFilter struct {
	Scope    Scope
	SourceID string
}

type RecordFilter struct {
	ID       string
	SourceID string
}

type InstallRequest struct {
	ID         string     `json:"id"`
	Version    string     `json:"version"`
	Scope      Scope      `json:"scope"`
	CommitMode CommitMode `json:"commit_mode,omitempty"`
	Force      bool       `json:"force"`
}

type ScopeConflict struct {
	BundleID        string `json:"bundle_id"`
	ExistingScope   Scope  `json:"existing_scope"`
	TargetScope     Scope  `json:"target_scope"`
	ExistingVersion string `json:"existing_version"`
}

type MigrateRequest struct {
	ID        string `json:"id"`
	FromScope Scope  `json:"from_scope"`
	ToScope   Scope  `json:"to_scope"`
}

// LockfileEntry mirrors a repository-scope InstalledBundle in the lockfile.
type LockfileEntry struct {
	BundleID   string            `json:"bundle_id" yaml:"bundle_id"`
	Version    string            `json:"version" yaml:"version"`
	SourceID   string            `json:"source_id" yaml:"source_id"`
	CommitMode CommitMode        `json:"commit_mode" yaml:"commit_mode"`
	Checksums  map[string]string `json:"checksums" yaml:"checksums"`
}
