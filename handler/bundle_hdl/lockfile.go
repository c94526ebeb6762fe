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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"github.com/SENERGY-Platform/mgw-module-lib/validation/sem_ver"
	"github.com/bundle-works/bundle-manager/lib/model"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

func (h *Handler) lockfileEntry(installed model.InstalledBundle) (model.LockfileEntry, error) {
	checksums, err := dirChecksums(installed.InstallPath)
	if err != nil {
		return model.LockfileEntry{}, model.NewInternalError(fmt.Errorf("computing checksums for '%s': %s", installed.ID, err))
	}
	return model.LockfileEntry{
		BundleID:   installed.ID,
		Version:    installed.Version,
		SourceID:   installed.SourceID,
		CommitMode: installed.CommitMode,
		Checksums:  checksums,
	}, nil
}

func dirChecksums(root string) (map[string]string, error) {
	checksums := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		sum, err := fileChecksum(path)
		if err != nil {
			return err
		}
		checksums[filepath.ToSlash(relPath)] = sum
		return nil
	})
	if err != nil {
		return nil, err
	}
	return checksums, nil
}

func fileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	hash := sha256.New()
	if _, err = io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

func versionLess(a, b string) bool {
	res, err := sem_ver.CompareSemVer(a, b)
	if err != nil {
		return a < b
	}
	return res < 0
}
