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

package placement_hdl

import (
	"context"
	"fmt"
	"github.com/bundle-works/bundle-manager/handler"
	"github.com/bundle-works/bundle-manager/lib/model"
	"github.com/bundle-works/bundle-manager/util/dir_fs"
	"io/fs"
	"os"
	"path"
	"strings"
)

type Handler struct {
	scopePaths      map[model.Scope]string
	perm            fs.FileMode
	transferHandler handler.TransferHandler
}

func New(userPath, workspacePath, repositoryPath string, perm fs.FileMode, transferHandler handler.TransferHandler) (*Handler, error) {
	scopePaths := map[model.Scope]string{
		model.UserScope:       userPath,
		model.WorkspaceScope:  workspacePath,
		model.RepositoryScope: repositoryPath,
	}
	for scope, p := range scopePaths {
		if !path.IsAbs(p) {
			return nil, fmt.Errorf("path for scope '%s' must be absolute", scope)
		}
	}
	return &Handler{
		scopePaths:      scopePaths,
		perm:            perm,
		transferHandler: transferHandler,
	}, nil
}

func (h *Handler) InitWorkspace() error {
	for _, p := range h.scopePaths {
		if err := os.MkdirAll(p, h.perm); err != nil {
			return err
		}
	}
	return nil
}

// Place materializes a record's files under the scope's base directory and
// returns the install path. An existing tree at the target is replaced.
func (h *Handler) Place(ctx context.Context, record model.BundleRecord, scope model.Scope) (string, error) {
	basePath, ok := h.scopePaths[scope]
	if !ok {
		return "", model.NewInvalidInputError(fmt.Errorf("unknown scope '%s'", scope))
	}
	srcDir, cleanup, err := h.stage(ctx, record)
	if err != nil {
		return "", err
	}
	defer cleanup()
	target := path.Join(basePath, record.ID)
	if err = os.RemoveAll(target); err != nil {
		return "", model.NewInternalError(err)
	}
	if err = os.MkdirAll(target, h.perm); err != nil {
		return "", model.NewInternalError(err)
	}
	if err = dir_fs.Copy(srcDir, target); err != nil {
		os.RemoveAll(target)
		return "", model.NewInternalError(err)
	}
	return target, nil
}

func (h *Handler) Remove(_ context.Context, installed model.InstalledBundle) error {
	basePath, ok := h.scopePaths[installed.Scope]
	if !ok {
		return model.NewInvalidInputError(fmt.Errorf("unknown scope '%s'", installed.Scope))
	}
	// refuse paths outside the scope's base directory
	if !strings.HasPrefix(installed.InstallPath, basePath+"/") {
		return model.NewInternalError(fmt.Errorf("install path '%s' not under '%s'", installed.InstallPath, basePath))
	}
	if err := os.RemoveAll(installed.InstallPath); err != nil {
		return model.NewInternalError(err)
	}
	return nil
}

func (h *Handler) stage(ctx context.Context, record model.BundleRecord) (dir_fs.DirFS, func(), error) {
	switch record.SourceType {
	case model.GitTagSourceType:
		dir, err := h.transferHandler.Fetch(ctx, record.DownloadURL, record.Version)
		if err != nil {
			return "", nil, err
		}
		return dir, func() { os.RemoveAll(dir.Path()) }, nil
	case model.CatalogSourceType:
		if !strings.HasSuffix(record.DownloadURL, ".git") {
			return "", nil, model.NewInvalidInputError(fmt.Errorf("unsupported download url '%s'", record.DownloadURL))
		}
		dir, err := h.transferHandler.Fetch(ctx, record.DownloadURL, record.Version)
		if err != nil {
			return "", nil, err
		}
		return dir, func() { os.RemoveAll(dir.Path()) }, nil
	case model.LocalSourceType:
		dir, err := dir_fs.New(record.DownloadURL)
		if err != nil {
			return "", nil, model.NewInvalidInputError(err)
		}
		return dir, func() {}, nil
	default:
		return "", nil, model.NewInvalidInputError(fmt.Errorf("unknown source type '%s'", record.SourceType))
	}
}
