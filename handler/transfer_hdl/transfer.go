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

package transfer_hdl

import (
	"context"
	"fmt"
	"github.com/SENERGY-Platform/mgw-module-lib/validation/sem_ver"
	"github.com/bundle-works/bundle-manager/lib/model"
	"github.com/bundle-works/bundle-manager/util/dir_fs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"
)

type Handler struct {
	wrkSpcPath  string
	perm        fs.FileMode
	httpTimeout time.Duration
}

func New(workspacePath string, perm fs.FileMode, httpTimeout time.Duration) (*Handler, error) {
	if !path.IsAbs(workspacePath) {
		return nil, fmt.Errorf("workspace path must be absolute")
	}
	return &Handler{
		wrkSpcPath:  workspacePath,
		perm:        perm,
		httpTimeout: httpTimeout,
	}, nil
}

func (h *Handler) InitWorkspace() error {
	if err := os.MkdirAll(h.wrkSpcPath, h.perm); err != nil {
		return err
	}
	return nil
}

// ListVersions returns the repository's version tags. Tags that are not plain
// semantic versions are skipped.
func (h *Handler) ListVersions(ctx context.Context, repoURL string) ([]string, error) {
	dir, err := os.MkdirTemp(h.wrkSpcPath, "list_")
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	defer os.RemoveAll(dir)
	ctxWt, cf := context.WithTimeout(ctx, h.httpTimeout)
	defer cf()
	repo, err := git.PlainCloneContext(ctxWt, dir, false, &git.CloneOptions{
		URL:               repoURL,
		NoCheckout:        true,
		RecurseSubmodules: git.NoRecurseSubmodules,
		Tags:              git.AllTags,
	})
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	iter, err := repo.Tags()
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	defer iter.Close()
	var versions []string
	for {
		ref, err := iter.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, model.NewInternalError(err)
		}
		tag := ref.Name().Short()
		if strings.Count(tag, "/") > 0 {
			continue
		}
		if !sem_ver.IsValidSemVer(strings.TrimPrefix(tag, "v")) {
			continue
		}
		versions = append(versions, tag)
	}
	return versions, nil
}

// Fetch checks out the tree at a version tag and returns a detached copy.
func (h *Handler) Fetch(ctx context.Context, repoURL, version string) (dir dir_fs.DirFS, err error) {
	tDir, err := os.MkdirTemp(h.wrkSpcPath, "clone_")
	if err != nil {
		return "", model.NewInternalError(err)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(tDir)
		}
	}()
	ctxWt, cf := context.WithTimeout(ctx, h.httpTimeout)
	defer cf()
	_, err = git.PlainCloneContext(ctxWt, tDir, false, &git.CloneOptions{
		URL:               repoURL,
		ReferenceName:     plumbing.NewTagReferenceName(version),
		SingleBranch:      true,
		Depth:             1,
		RecurseSubmodules: git.NoRecurseSubmodules,
		Tags:              git.NoTags,
	})
	if err != nil {
		return "", model.NewInternalError(err)
	}
	if err = os.RemoveAll(path.Join(tDir, ".git")); err != nil {
		return "", model.NewInternalError(err)
	}
	dir, err = dir_fs.New(tDir)
	if err != nil {
		return "", model.NewInternalError(err)
	}
	return dir, nil
}
