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
	"os"
	"path"
	"testing"
)

func TestNew(t *testing.T) {
	if _, err := New(path.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing path")
	}
	dir := t.TempDir()
	d, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if d.Path() != dir {
		t.Errorf("expected path '%s', got '%s'", dir, d.Path())
	}
}

func TestCopy(t *testing.T) {
	srcDir := t.TempDir()
	if err := os.MkdirAll(path.Join(srcDir, "sub"), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path.Join(srcDir, "a.txt"), []byte("test"), 0640); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path.Join(srcDir, "sub", "b.txt"), []byte("nested"), 0640); err != nil {
		t.Fatal(err)
	}
	src, err := New(srcDir)
	if err != nil {
		t.Fatal(err)
	}
	dst := path.Join(t.TempDir(), "copy")
	if err = Copy(src, dst); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path.Join(dst, "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "test" {
		t.Errorf("unexpected content '%s'", data)
	}
	data, err = os.ReadFile(path.Join(dst, "sub", "b.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "nested" {
		t.Errorf("unexpected content '%s'", data)
	}
	info, err := os.Stat(path.Join(dst, "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0640 {
		t.Errorf("expected mode 0640, got %v", info.Mode().Perm())
	}
}
