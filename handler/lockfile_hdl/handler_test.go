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

package lockfile_hdl

import (
	"github.com/bundle-works/bundle-manager/lib/model"
	"os"
	"path"
	"reflect"
	"testing"
)

func TestNew(t *testing.T) {
	if _, err := New("bundles.lock"); err == nil {
		t.Error("expected error for relative path")
	}
	if _, err := New(path.Join(t.TempDir(), "bundles.lock")); err != nil {
		t.Error(err)
	}
}

func TestHandler(t *testing.T) {
	filePath := path.Join(t.TempDir(), "bundles.lock")
	h, err := New(filePath)
	if err != nil {
		t.Fatal(err)
	}
	t.Run("read missing file", func(t *testing.T) {
		entries, err := h.Read()
		if err != nil {
			t.Error(err)
		}
		if len(entries) != 0 {
			t.Errorf("expected empty map, got %v", entries)
		}
	})
	entryA := model.LockfileEntry{
		BundleID:   "tool-1.0.0",
		Version:    "1.0.0",
		SourceID:   "src",
		CommitMode: model.CommitModeCommit,
		Checksums:  map[string]string{"main.sh": "ab12"},
	}
	entryB := model.LockfileEntry{
		BundleID:   "pkg-2.0.0",
		Version:    "2.0.0",
		SourceID:   "src",
		CommitMode: model.CommitModeCommit,
	}
	t.Run("create and read", func(t *testing.T) {
		if err = h.CreateOrUpdate(entryA); err != nil {
			t.Fatal(err)
		}
		if err = h.CreateOrUpdate(entryB); err != nil {
			t.Fatal(err)
		}
		entries, err := h.Read()
		if err != nil {
			t.Fatal(err)
		}
		expected := map[string]model.LockfileEntry{entryA.BundleID: entryA, entryB.BundleID: entryB}
		if !reflect.DeepEqual(expected, entries) {
			t.Errorf("expected %v, got %v", expected, entries)
		}
	})
	t.Run("update existing", func(t *testing.T) {
		entryA2 := entryA
		entryA2.Version = "1.1.0"
		if err = h.CreateOrUpdate(entryA2); err != nil {
			t.Fatal(err)
		}
		entries, err := h.Read()
		if err != nil {
			t.Fatal(err)
		}
		if entries[entryA.BundleID].Version != "1.1.0" {
			t.Errorf("expected version 1.1.0, got %s", entries[entryA.BundleID].Version)
		}
		if len(entries) != 2 {
			t.Errorf("expected 2 entries but got %d", len(entries))
		}
	})
	t.Run("survives reopening", func(t *testing.T) {
		h2, err := New(filePath)
		if err != nil {
			t.Fatal(err)
		}
		entries, err := h2.Read()
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 2 {
			t.Errorf("expected 2 entries but got %d", len(entries))
		}
	})
	t.Run("remove", func(t *testing.T) {
		if err = h.Remove(entryB.BundleID); err != nil {
			t.Fatal(err)
		}
		entries, err := h.Read()
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := entries[entryB.BundleID]; ok {
			t.Error("expected entry to be removed")
		}
		if len(entries) != 1 {
			t.Errorf("expected 1 entry but got %d", len(entries))
		}
	})
	t.Run("remove absent id", func(t *testing.T) {
		if err = h.Remove("missing"); err != nil {
			t.Error(err)
		}
	})
	t.Run("no temp file left behind", func(t *testing.T) {
		if _, err = os.Stat(filePath + ".tmp"); !os.IsNotExist(err) {
			t.Error("expected temp file to be gone")
		}
	})
}
