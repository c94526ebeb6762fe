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
	"github.com/SENERGY-Platform/go-service-base/srv-base"
	"github.com/bundle-works/bundle-manager/handler"
	"github.com/bundle-works/bundle-manager/lib/model"
	"github.com/bundle-works/bundle-manager/util"
	"github.com/y-du/go-log-level/level"
	"os"
	"path"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	if _, err := util.InitLogger(srv_base.LoggerConfig{Level: level.Error, Terminal: true}); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

type ledgerKey struct {
	ID    string
	Scope model.Scope
}

type testEnv struct {
	handler   *Handler
	ledger    *ledgerStorageHandlerMock
	records   *recordStorageHandlerMock
	placement *placementHandlerMock
	lockfile  *lockfileHandlerMock
	scope     *scopeHandlerMock
	ops       *[]string
}

func newTestEnv(t *testing.T) *testEnv {
	ops := &[]string{}
	ledger := &ledgerStorageHandlerMock{Installed: make(map[ledgerKey]model.InstalledBundle), Ops: ops}
	records := &recordStorageHandlerMock{}
	placement := &placementHandlerMock{Dir: t.TempDir(), Ops: ops}
	lockfile := &lockfileHandlerMock{Entries: make(map[string]model.LockfileEntry), Ops: ops}
	scope := &scopeHandlerMock{}
	return &testEnv{
		handler:   New(ledger, records, placement, lockfile, scope, time.Second),
		ledger:    ledger,
		records:   records,
		placement: placement,
		lockfile:  lockfile,
		scope:     scope,
		ops:       ops,
	}
}

func TestHandler_Install(t *testing.T) {
	t.Run("fresh install user scope", func(t *testing.T) {
		env := newTestEnv(t)
		env.records.Records = []model.BundleRecord{
			{ID: "tool-1.0.0", Version: "1.0.0", SourceID: "src", SourceType: model.GitTagSourceType},
		}
		installed, err := env.handler.Install(context.Background(), model.InstallRequest{ID: "tool-1.0.0", Version: "1.0.0", Scope: model.UserScope})
		if err != nil {
			t.Fatal(err)
		}
		if installed.Version != "1.0.0" || installed.Scope != model.UserScope {
			t.Errorf("unexpected result %v", installed)
		}
		if installed.InstallPath == "" {
			t.Error("expected install path")
		}
		if _, ok := env.ledger.Installed[ledgerKey{ID: "tool-1.0.0", Scope: model.UserScope}]; !ok {
			t.Error("expected ledger entry")
		}
		if len(env.lockfile.Entries) != 0 {
			t.Errorf("lockfile must stay untouched outside repository scope, got %v", env.lockfile.Entries)
		}
	})
	t.Run("repository scope writes lockfile", func(t *testing.T) {
		env := newTestEnv(t)
		env.records.Records = []model.BundleRecord{
			{ID: "tool-1.0.0", Version: "1.0.0", SourceID: "src", SourceType: model.GitTagSourceType},
		}
		if err := os.WriteFile(path.Join(env.placement.Dir, "main.sh"), []byte("#!/bin/sh\n"), 0660); err != nil {
			t.Fatal(err)
		}
		installed, err := env.handler.Install(context.Background(), model.InstallRequest{ID: "tool-1.0.0", Version: "1.0.0", Scope: model.RepositoryScope})
		if err != nil {
			t.Fatal(err)
		}
		if installed.CommitMode != model.CommitModeCommit {
			t.Errorf("expected default commit mode, got %s", installed.CommitMode)
		}
		entry, ok := env.lockfile.Entries["tool-1.0.0"]
		if !ok {
			t.Fatal("expected lockfile entry")
		}
		if entry.Version != "1.0.0" {
			t.Errorf("expected version 1.0.0, got %s", entry.Version)
		}
		if _, ok = entry.Checksums["main.sh"]; !ok {
			t.Errorf("expected checksum for main.sh, got %v", entry.Checksums)
		}
	})
	t.Run("repository scope local-only mode skips lockfile", func(t *testing.T) {
		env := newTestEnv(t)
		env.records.Records = []model.BundleRecord{
			{ID: "tool-1.0.0", Version: "1.0.0", SourceID: "src", SourceType: model.GitTagSourceType},
		}
		_, err := env.handler.Install(context.Background(), model.InstallRequest{ID: "tool-1.0.0", Version: "1.0.0", Scope: model.RepositoryScope, CommitMode: model.CommitModeLocalOnly})
		if err != nil {
			t.Fatal(err)
		}
		if len(env.lockfile.Entries) != 0 {
			t.Errorf("expected no lockfile entry, got %v", env.lockfile.Entries)
		}
	})
	t.Run("same version without force", func(t *testing.T) {
		env := newTestEnv(t)
		env.records.Records = []model.BundleRecord{
			{ID: "tool-1.0.0", Version: "1.0.0", SourceID: "src", SourceType: model.GitTagSourceType},
		}
		env.ledger.Installed[ledgerKey{ID: "tool-1.0.0", Scope: model.UserScope}] = model.InstalledBundle{ID: "tool-1.0.0", Version: "1.0.0", Scope: model.UserScope}
		_, err := env.handler.Install(context.Background(), model.InstallRequest{ID: "tool-1.0.0", Version: "1.0.0", Scope: model.UserScope})
		var aie *model.AlreadyInstalledError
		if !errors.As(err, &aie) {
			t.Errorf("expected already installed error, got %v", err)
		}
		if len(env.placement.PlaceCalls) != 0 {
			t.Error("no files may be placed for a rejected install")
		}
	})
	t.Run("same version with force reinstalls", func(t *testing.T) {
		env := newTestEnv(t)
		env.records.Records = []model.BundleRecord{
			{ID: "tool-1.0.0", Version: "1.0.0", SourceID: "src", SourceType: model.GitTagSourceType},
		}
		added := time.Now().UTC().Add(-time.Hour)
		env.ledger.Installed[ledgerKey{ID: "tool-1.0.0", Scope: model.UserScope}] = model.InstalledBundle{ID: "tool-1.0.0", Version: "1.0.0", Scope: model.UserScope, Added: added}
		installed, err := env.handler.Install(context.Background(), model.InstallRequest{ID: "tool-1.0.0", Version: "1.0.0", Scope: model.UserScope, Force: true})
		if err != nil {
			t.Fatal(err)
		}
		if !installed.Added.Equal(added) {
			t.Errorf("expected original added time %v, got %v", added, installed.Added)
		}
		if len(env.placement.PlaceCalls) != 1 {
			t.Errorf("expected 1 place call but got %d", len(env.placement.PlaceCalls))
		}
	})
	t.Run("conflict in other scope", func(t *testing.T) {
		env := newTestEnv(t)
		env.scope.Conflict = &model.ScopeConflict{BundleID: "tool-1.0.0", ExistingScope: model.WorkspaceScope, TargetScope: model.UserScope, ExistingVersion: "1.0.0"}
		_, err := env.handler.Install(context.Background(), model.InstallRequest{ID: "tool-1.0.0", Version: "1.0.0", Scope: model.UserScope})
		var aie *model.AlreadyInstalledError
		if !errors.As(err, &aie) {
			t.Fatalf("expected already installed error, got %v", err)
		}
		if aie.Scope != model.WorkspaceScope {
			t.Errorf("expected workspace scope, got %s", aie.Scope)
		}
	})
	t.Run("unknown scope", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.handler.Install(context.Background(), model.InstallRequest{ID: "tool-1.0.0", Version: "1.0.0", Scope: "global"})
		var iie *model.InvalidInputError
		if !errors.As(err, &iie) {
			t.Errorf("expected invalid input error, got %v", err)
		}
	})
	t.Run("unknown version", func(t *testing.T) {
		env := newTestEnv(t)
		env.records.Records = []model.BundleRecord{
			{ID: "tool-1.0.0", Version: "1.0.0", SourceID: "src", SourceType: model.GitTagSourceType},
		}
		_, err := env.handler.Install(context.Background(), model.InstallRequest{ID: "tool-1.0.0", Version: "9.9.9", Scope: model.UserScope})
		var nfe *model.NotFoundError
		if !errors.As(err, &nfe) {
			t.Errorf("expected not found error, got %v", err)
		}
	})
	t.Run("empty version resolves latest", func(t *testing.T) {
		env := newTestEnv(t)
		env.records.Records = []model.BundleRecord{
			{ID: "tool-1.0.0", Version: "1.0.0", SourceID: "src", SourceType: model.GitTagSourceType},
			{ID: "tool-1.2.0", Version: "1.2.0", SourceID: "src", SourceType: model.GitTagSourceType},
		}
		installed, err := env.handler.Install(context.Background(), model.InstallRequest{ID: "tool-1.0.0", Scope: model.UserScope})
		if err != nil {
			t.Fatal(err)
		}
		if installed.Version != "1.2.0" {
			t.Errorf("expected version 1.2.0, got %s", installed.Version)
		}
	})
	t.Run("versioned id fallback", func(t *testing.T) {
		env := newTestEnv(t)
		env.records.Records = []model.BundleRecord{
			{ID: "tool-1.1.0", Version: "1.1.0", SourceID: "src", SourceType: model.GitTagSourceType},
		}
		installed, err := env.handler.Install(context.Background(), model.InstallRequest{ID: "tool-1.0.0", Version: "1.1.0", Scope: model.UserScope})
		if err != nil {
			t.Fatal(err)
		}
		if installed.ID != "tool-1.1.0" {
			t.Errorf("expected id tool-1.1.0, got %s", installed.ID)
		}
	})
}

func TestHandler_InstallStaleRemoval(t *testing.T) {
	env := newTestEnv(t)
	env.records.Records = []model.BundleRecord{
		{ID: "tool-1.1.0", Version: "1.1.0", SourceID: "src", SourceType: model.GitTagSourceType},
	}
	env.ledger.Installed[ledgerKey{ID: "tool-1.0.0", Scope: model.RepositoryScope}] = model.InstalledBundle{ID: "tool-1.0.0", Version: "1.0.0", Scope: model.RepositoryScope, InstallPath: "/repo/.bundles/tool-1.0.0"}
	env.lockfile.Entries["tool-1.0.0"] = model.LockfileEntry{BundleID: "tool-1.0.0", Version: "1.0.0"}
	installed, err := env.handler.Install(context.Background(), model.InstallRequest{ID: "tool-1.1.0", Version: "1.1.0", Scope: model.RepositoryScope})
	if err != nil {
		t.Fatal(err)
	}
	if installed.ID != "tool-1.1.0" {
		t.Errorf("expected id tool-1.1.0, got %s", installed.ID)
	}
	if _, ok := env.ledger.Installed[ledgerKey{ID: "tool-1.0.0", Scope: model.RepositoryScope}]; ok {
		t.Error("expected stale ledger entry to be removed")
	}
	if _, ok := env.lockfile.Entries["tool-1.0.0"]; ok {
		t.Error("expected stale lockfile entry to be removed")
	}
	if _, ok := env.lockfile.Entries["tool-1.1.0"]; !ok {
		t.Error("expected lockfile entry for new version")
	}
	createPos, deletePos := -1, -1
	for i, op := range *env.ops {
		switch op {
		case "create:tool-1.1.0":
			createPos = i
		case "delete:tool-1.0.0":
			deletePos = i
		}
	}
	if createPos < 0 || deletePos < 0 {
		t.Fatalf("missing expected operations in %v", *env.ops)
	}
	if deletePos < createPos {
		t.Errorf("stale entry removed before new version was recorded: %v", *env.ops)
	}
}

func TestHandler_Uninstall(t *testing.T) {
	t.Run("repository scope ordering", func(t *testing.T) {
		env := newTestEnv(t)
		env.ledger.Installed[ledgerKey{ID: "tool-1.0.0", Scope: model.RepositoryScope}] = model.InstalledBundle{ID: "tool-1.0.0", Version: "1.0.0", Scope: model.RepositoryScope, InstallPath: "/repo/.bundles/tool-1.0.0"}
		env.lockfile.Entries["tool-1.0.0"] = model.LockfileEntry{BundleID: "tool-1.0.0", Version: "1.0.0"}
		if err := env.handler.Uninstall(context.Background(), "tool-1.0.0", model.RepositoryScope); err != nil {
			t.Fatal(err)
		}
		expected := []string{"remove:tool-1.0.0", "delete:tool-1.0.0", "lockfile-remove:tool-1.0.0"}
		if len(*env.ops) != len(expected) {
			t.Fatalf("expected operations %v, got %v", expected, *env.ops)
		}
		for i, op := range expected {
			if (*env.ops)[i] != op {
				t.Fatalf("expected operations %v, got %v", expected, *env.ops)
			}
		}
	})
	t.Run("user scope leaves lockfile alone", func(t *testing.T) {
		env := newTestEnv(t)
		env.ledger.Installed[ledgerKey{ID: "tool-1.0.0", Scope: model.UserScope}] = model.InstalledBundle{ID: "tool-1.0.0", Version: "1.0.0", Scope: model.UserScope, InstallPath: "/home/u/.bundles/tool-1.0.0"}
		env.lockfile.Entries["tool-1.0.0"] = model.LockfileEntry{BundleID: "tool-1.0.0", Version: "1.0.0"}
		if err := env.handler.Uninstall(context.Background(), "tool-1.0.0", model.UserScope); err != nil {
			t.Fatal(err)
		}
		if _, ok := env.lockfile.Entries["tool-1.0.0"]; !ok {
			t.Error("lockfile entry must survive a user scope uninstall")
		}
	})
	t.Run("not installed", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.handler.Uninstall(context.Background(), "missing", model.UserScope)
		var nie *model.NotInstalledError
		if !errors.As(err, &nie) {
			t.Errorf("expected not installed error, got %v", err)
		}
	})
}

func TestHandler_GetAnyScope(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.Installed[ledgerKey{ID: "tool-1.0.0", Scope: model.WorkspaceScope}] = model.InstalledBundle{ID: "tool-1.0.0", Version: "1.0.0", Scope: model.WorkspaceScope}
	installed, err := env.handler.GetAnyScope(context.Background(), "tool-1.0.0")
	if err != nil {
		t.Error(err)
	}
	if installed.Scope != model.WorkspaceScope {
		t.Errorf("expected workspace scope, got %s", installed.Scope)
	}
	t.Run("not installed", func(t *testing.T) {
		_, err = env.handler.GetAnyScope(context.Background(), "missing")
		var nie *model.NotInstalledError
		if !errors.As(err, &nie) {
			t.Errorf("expected not installed error, got %v", err)
		}
	})
}

type ledgerStorageHandlerMock struct {
	Installed map[ledgerKey]model.InstalledBundle
	Err       error
	Ops       *[]string
}

func (m *ledgerStorageHandlerMock) ListInstalled(_ context.Context, filter model.InstalledFilter) ([]model.InstalledBundle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var installed []model.InstalledBundle
	for _, ib := range m.Installed {
		if filter.Scope != "" && ib.Scope != filter.Scope {
			continue
		}
		if filter.SourceID != "" && ib.SourceID != filter.SourceID {
			continue
		}
		installed = append(installed, ib)
	}
	return installed, nil
}

func (m *ledgerStorageHandlerMock) ReadInstalled(_ context.Context, bID string, scope model.Scope) (model.InstalledBundle, error) {
	if m.Err != nil {
		return model.InstalledBundle{}, m.Err
	}
	ib, ok := m.Installed[ledgerKey{ID: bID, Scope: scope}]
	if !ok {
		return model.InstalledBundle{}, model.NewNotFoundError(errors.New("not found"))
	}
	return ib, nil
}

func (m *ledgerStorageHandlerMock) CreateInstalled(_ context.Context, installed model.InstalledBundle) error {
	if m.Err != nil {
		return m.Err
	}
	m.Installed[ledgerKey{ID: installed.ID, Scope: installed.Scope}] = installed
	*m.Ops = append(*m.Ops, "create:"+installed.ID)
	return nil
}

func (m *ledgerStorageHandlerMock) UpdateInstalled(_ context.Context, installed model.InstalledBundle) error {
	if m.Err != nil {
		return m.Err
	}
	key := ledgerKey{ID: installed.ID, Scope: installed.Scope}
	if _, ok := m.Installed[key]; !ok {
		return model.NewNotFoundError(errors.New("not found"))
	}
	m.Installed[key] = installed
	*m.Ops = append(*m.Ops, "update:"+installed.ID)
	return nil
}

func (m *ledgerStorageHandlerMock) DeleteInstalled(_ context.Context, bID string, scope model.Scope) error {
	if m.Err != nil {
		return m.Err
	}
	key := ledgerKey{ID: bID, Scope: scope}
	if _, ok := m.Installed[key]; !ok {
		return model.NewNotFoundError(errors.New("not found"))
	}
	delete(m.Installed, key)
	*m.Ops = append(*m.Ops, "delete:"+bID)
	return nil
}

type recordStorageHandlerMock struct {
	Records []model.BundleRecord
	Err     error
}

func (m *recordStorageHandlerMock) ListRecords(_ context.Context, filter model.RecordFilter) ([]model.BundleRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var records []model.BundleRecord
	for _, record := range m.Records {
		if filter.ID != "" && record.ID != filter.ID {
			continue
		}
		if filter.SourceID != "" && record.SourceID != filter.SourceID {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (m *recordStorageHandlerMock) ReplaceRecords(_ context.Context, _ string, _ []model.BundleRecord) error {
	return m.Err
}

type placementHandlerMock struct {
	Dir         string
	Err         error
	PlaceCalls  []model.BundleRecord
	RemoveCalls []string
	Ops         *[]string
}

func (m *placementHandlerMock) Place(_ context.Context, record model.BundleRecord, _ model.Scope) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.PlaceCalls = append(m.PlaceCalls, record)
	*m.Ops = append(*m.Ops, "place:"+record.ID)
	return m.Dir, nil
}

func (m *placementHandlerMock) Remove(_ context.Context, installed model.InstalledBundle) error {
	if m.Err != nil {
		return m.Err
	}
	m.RemoveCalls = append(m.RemoveCalls, installed.ID)
	*m.Ops = append(*m.Ops, "remove:"+installed.ID)
	return nil
}

type lockfileHandlerMock struct {
	Entries map[string]model.LockfileEntry
	Err     error
	Ops     *[]string
}

func (m *lockfileHandlerMock) CreateOrUpdate(entry model.LockfileEntry) error {
	if m.Err != nil {
		return m.Err
	}
	m.Entries[entry.BundleID] = entry
	*m.Ops = append(*m.Ops, "lockfile:"+entry.BundleID)
	return nil
}

func (m *lockfileHandlerMock) Remove(bID string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Entries, bID)
	*m.Ops = append(*m.Ops, "lockfile-remove:"+bID)
	return nil
}

func (m *lockfileHandlerMock) Read() (map[string]model.LockfileEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	entries := make(map[string]model.LockfileEntry)
	for id, entry := range m.Entries {
		entries[id] = entry
	}
	return entries, nil
}

type scopeHandlerMock struct {
	Conflict *model.ScopeConflict
	Err      error
}

func (m *scopeHandlerMock) CheckConflict(_ context.Context, _ string, _ model.Scope) (*model.ScopeConflict, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Conflict, nil
}

func (m *scopeHandlerMock) Migrate(_ context.Context, _ string, _, _ model.Scope, _ handler.UninstallFunc, _ handler.InstallFunc) error {
	return m.Err
}
