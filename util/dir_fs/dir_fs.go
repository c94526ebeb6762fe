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

package dir_fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
)

// DirFS exposes a directory as an fs.FS rooted at its path.
type DirFS string

func New(dirPath string) (DirFS, error) {
	if _, err := os.Stat(dirPath); err != nil {
		return "", err
	}
	return DirFS(dirPath), nil
}

func (d DirFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrInvalid}
	}
	return os.Open(path.Join(string(d), name))
}

func (d DirFS) Path() string {
	return string(d)
}

// Copy mirrors the tree behind src into dst, preserving file modes. Irregular
// files are skipped. A partial copy is removed on error.
func Copy(src DirFS, dst string) error {
	rootInfo, err := os.Stat(src.Path())
	if err != nil {
		return err
	}
	if err = os.MkdirAll(dst, rootInfo.Mode()); err != nil {
		return err
	}
	err = fs.WalkDir(src, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if name == "." {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		target := path.Join(dst, name)
		if entry.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		written, err := copyFile(src, name, target, info.Mode())
		if err != nil {
			return err
		}
		if written != info.Size() {
			return fmt.Errorf("short write for '%s'", name)
		}
		return nil
	})
	if err != nil {
		os.RemoveAll(dst)
	}
	return err
}

func copyFile(src DirFS, name, dst string, mode fs.FileMode) (int64, error) {
	srcFile, err := src.Open(name)
	if err != nil {
		return 0, err
	}
	defer srcFile.Close()
	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return 0, err
	}
	defer dstFile.Close()
	return io.Copy(dstFile, srcFile)
}
