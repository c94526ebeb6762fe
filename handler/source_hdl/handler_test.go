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

package source_hdl

import (
	"context"
	"errors"
	"github.com/bundle-works/bundle-manager/handler/consolidation_hdl"
	"github.com/bundle-works/bundle-manager/lib/model"
	"github.com/bundle-works/bundle-manager/util/dir_fs"
	"testing"
	"time"
)

func newTestHandler(t *testing.T, sourceStg *sourceStorageHandlerMock, recordStg *recordStorageHandlerMock, transferHdl *transferHandlerMock) (*Handler, *consolidation_hdl.Handler) {
	consolidationHdl, err := consolidation_hdl.New(100, nil)
	if err != nil {
		t.Fatal(err)
	}
	return New(sourceStg, recordStg, transferHdl, consolidationHdl, time.Second), consolidationHdl
}

func TestHandler_Add(t *testing.T) {
	sourceStg := &sourceStorageHandlerMock{Sources: make(map[string]model.Source)}
	h, _ := newTestHandler(t, sourceStg, &recordStorageHandlerMock{}, &transferHandlerMock{})
	t.Run("git tag source", func(t *testing.T) {
		err := h.Add(context.Background(), model.SourceRequest{ID: "src", Type: model.GitTagSourceType, Name: "tool", URL: "https://example.com/tool.git"})
		if err != nil {
			t.Fatal(err)
		}
		src, ok := sourceStg.Sources["src"]
		if !ok {
			t.Fatal("expected source to be created")
		}
		if src.Added.IsZero() {
			t.Error("expected added time to be set")
		}
	})
	t.Run("generated id", func(t *testing.T) {
		err := h.Add(context.Background(), model.SourceRequest{Type: model.LocalSourceType, Name: "local-bundles"})
		if err != nil {
			t.Fatal(err)
		}
		if len(sourceStg.Sources) != 2 {
			t.Errorf("expected 2 sources but got %d", len(sourceStg.Sources))
		}
	})
	t.Run("unknown type", func(t *testing.T) {
		err := h.Add(context.Background(), model.SourceRequest{Type: "svn", Name: "tool", URL: "https://example.com"})
		var iie *model.InvalidInputError
		if !errors.As(err, &iie) {
			t.Errorf("expected invalid input error, got %v", err)
		}
	})
	t.Run("missing name", func(t *testing.T) {
		err := h.Add(context.Background(), model.SourceRequest{Type: model.GitTagSourceType, URL: "https://example.com"})
		var iie *model.InvalidInputError
		if !errors.As(err, &iie) {
			t.Errorf("expected invalid input error, got %v", err)
		}
	})
	t.Run("missing url", func(t *testing.T) {
		err := h.Add(context.Background(), model.SourceRequest{Type: model.GitTagSourceType, Name: "tool"})
		var iie *model.InvalidInputError
		if !errors.As(err, &iie) {
			t.Errorf("expected invalid input error, got %v", err)
		}
	})
	t.Run("local source without url", func(t *testing.T) {
		err := h.Add(context.Background(), model.SourceRequest{ID: "lcl", Type: model.LocalSourceType, Name: "local-bundles"})
		if err != nil {
			t.Error(err)
		}
	})
}

func TestHandler_Resync(t *testing.T) {
	sourceStg := &sourceStorageHandlerMock{Sources: map[string]model.Source{
		"src": {ID: "src", Type: model.GitTagSourceType, Name: "tool", URL: "https://example.com/tool.git"},
		"lcl": {ID: "lcl", Type: model.LocalSourceType, Name: "local-bundles"},
	}}
	recordStg := &recordStorageHandlerMock{}
	transferHdl := &transferHandlerMock{Versions: []string{"1.0.0", "1.1.0"}}
	h, consolidationHdl := newTestHandler(t, sourceStg, recordStg, transferHdl)
	consolidationHdl.Consolidate([]model.BundleRecord{{ID: "tool-0.9.0", Version: "0.9.0", SourceID: "src"}})
	err := h.Resync(context.Background(), "src")
	if err != nil {
		t.Fatal(err)
	}
	if len(recordStg.Records) != 2 {
		t.Fatalf("expected 2 records but got %d", len(recordStg.Records))
	}
	ids := map[string]string{}
	for _, record := range recordStg.Records {
		ids[record.ID] = record.Version
	}
	if ids["tool-1.0.0"] != "1.0.0" || ids["tool-1.1.0"] != "1.1.0" {
		t.Errorf("unexpected record set %v", ids)
	}
	if sourceStg.Sources["src"].Synced == nil {
		t.Error("expected synced time to be set")
	}
	if versions := consolidationHdl.GetAllVersions("tool"); versions != nil {
		t.Errorf("expected consolidation cache to be cleared, got %v", versions)
	}
	t.Run("unsupported type", func(t *testing.T) {
		err = h.Resync(context.Background(), "lcl")
		var iie *model.InvalidInputError
		if !errors.As(err, &iie) {
			t.Errorf("expected invalid input error, got %v", err)
		}
	})
	t.Run("unknown source", func(t *testing.T) {
		err = h.Resync(context.Background(), "missing")
		var nfe *model.NotFoundError
		if !errors.As(err, &nfe) {
			t.Errorf("expected not found error, got %v", err)
		}
	})
	t.Run("transfer error", func(t *testing.T) {
		transferHdl.Err = errors.New("remote unreachable")
		defer func() { transferHdl.Err = nil }()
		if err = h.Resync(context.Background(), "src"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestHandler_Delete(t *testing.T) {
	sourceStg := &sourceStorageHandlerMock{Sources: map[string]model.Source{
		"src": {ID: "src", Type: model.GitTagSourceType, Name: "tool", URL: "https://example.com/tool.git"},
	}}
	h, consolidationHdl := newTestHandler(t, sourceStg, &recordStorageHandlerMock{}, &transferHandlerMock{})
	consolidationHdl.Consolidate([]model.BundleRecord{{ID: "tool-1.0.0", Version: "1.0.0", SourceID: "src"}})
	if err := h.Delete(context.Background(), "src"); err != nil {
		t.Fatal(err)
	}
	if len(sourceStg.Sources) != 0 {
		t.Error("expected source to be removed")
	}
	if versions := consolidationHdl.GetAllVersions("tool"); versions != nil {
		t.Errorf("expected consolidation cache to be cleared, got %v", versions)
	}
}

type sourceStorageHandlerMock struct {
	Sources map[string]model.Source
	Err     error
}

func (m *sourceStorageHandlerMock) ListSources(_ context.Context) ([]model.Source, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var sources []model.Source
	for _, src := range m.Sources {
		sources = append(sources, src)
	}
	return sources, nil
}

func (m *sourceStorageHandlerMock) ReadSource(_ context.Context, sID string) (model.Source, error) {
	if m.Err != nil {
		return model.Source{}, m.Err
	}
	src, ok := m.Sources[sID]
	if !ok {
		return model.Source{}, model.NewNotFoundError(errors.New("not found"))
	}
	return src, nil
}

func (m *sourceStorageHandlerMock) CreateSource(_ context.Context, source model.Source) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sources[source.ID] = source
	return nil
}

func (m *sourceStorageHandlerMock) DeleteSource(_ context.Context, sID string) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Sources[sID]; !ok {
		return model.NewNotFoundError(errors.New("not found"))
	}
	delete(m.Sources, sID)
	return nil
}

func (m *sourceStorageHandlerMock) SetSourceSynced(_ context.Context, sID string) error {
	if m.Err != nil {
		return m.Err
	}
	src, ok := m.Sources[sID]
	if !ok {
		return model.NewNotFoundError(errors.New("not found"))
	}
	now := time.Now().UTC()
	src.Synced = &now
	m.Sources[sID] = src
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

func (m *recordStorageHandlerMock) ReplaceRecords(_ context.Context, sID string, records []model.BundleRecord) error {
	if m.Err != nil {
		return m.Err
	}
	var kept []model.BundleRecord
	for _, record := range m.Records {
		if record.SourceID != sID {
			kept = append(kept, record)
		}
	}
	m.Records = append(kept, records...)
	return nil
}

type transferHandlerMock struct {
	Versions []string
	Err      error
}

func (m *transferHandlerMock) ListVersions(_ context.Context, _ string) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Versions, nil
}

func (m *transferHandlerMock) Fetch(_ context.Context, _, _ string) (dir_fs.DirFS, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return "", nil
}
