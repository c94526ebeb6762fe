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

package job_hdl

import (
	"context"
	"errors"
	"github.com/SENERGY-Platform/go-cc-job-handler/ccjh"
	"github.com/bundle-works/bundle-manager/lib/model"
	"testing"
	"time"
)

func TestHandler_Create(t *testing.T) {
	h := New(context.Background(), ccjh.New(10))
	jID, err := h.Create("install bundle", func(ctx context.Context, cf context.CancelFunc) error {
		defer cf()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if jID == "" {
		t.Fatal("expected job id")
	}
	meta, err := h.Get(jID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Description != "install bundle" {
		t.Errorf("unexpected description '%s'", meta.Description)
	}
	if meta.Started != nil || meta.Completed != nil || meta.Canceled != nil {
		t.Errorf("expected pending job, got %v", meta)
	}
	t.Run("unknown id", func(t *testing.T) {
		_, err = h.Get("missing")
		var nfe *model.NotFoundError
		if !errors.As(err, &nfe) {
			t.Errorf("expected not found error, got %v", err)
		}
	})
}

func TestHandler_Cancel(t *testing.T) {
	h := New(context.Background(), ccjh.New(10))
	jID, err := h.Create("update bundle", func(ctx context.Context, cf context.CancelFunc) error {
		defer cf()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if err = h.Cancel(jID); err != nil {
		t.Fatal(err)
	}
	meta, err := h.Get(jID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Canceled == nil {
		t.Error("expected canceled time to be set")
	}
	t.Run("unknown id", func(t *testing.T) {
		err = h.Cancel("missing")
		var nfe *model.NotFoundError
		if !errors.As(err, &nfe) {
			t.Errorf("expected not found error, got %v", err)
		}
	})
}

func TestHandler_List(t *testing.T) {
	h := New(context.Background(), ccjh.New(10))
	t0 := time.Now().UTC().Add(-3 * time.Hour)
	t1 := t0.Add(time.Hour)
	t2 := t1.Add(time.Hour)
	addTestJob(h, "pending", t0, false, false, nil)
	addTestJob(h, "failed", t1, false, true, errors.New("placement failed"))
	addTestJob(h, "done", t2, false, true, nil)
	t.Run("no filter sorted ascending", func(t *testing.T) {
		jobs := h.List(model.JobFilter{})
		if len(jobs) != 3 {
			t.Fatalf("expected 3 jobs but got %d", len(jobs))
		}
		if jobs[0].ID != "pending" || jobs[2].ID != "done" {
			t.Errorf("unexpected order %v", jobs)
		}
	})
	t.Run("sorted descending", func(t *testing.T) {
		jobs := h.List(model.JobFilter{SortDesc: true})
		if jobs[0].ID != "done" {
			t.Errorf("unexpected order %v", jobs)
		}
	})
	t.Run("status pending", func(t *testing.T) {
		jobs := h.List(model.JobFilter{Status: model.JobPending})
		if len(jobs) != 1 || jobs[0].ID != "pending" {
			t.Errorf("unexpected result %v", jobs)
		}
	})
	t.Run("status error", func(t *testing.T) {
		jobs := h.List(model.JobFilter{Status: model.JobError})
		if len(jobs) != 1 || jobs[0].ID != "failed" {
			t.Errorf("unexpected result %v", jobs)
		}
	})
	t.Run("status ok", func(t *testing.T) {
		jobs := h.List(model.JobFilter{Status: model.JobOK})
		if len(jobs) != 1 || jobs[0].ID != "done" {
			t.Errorf("unexpected result %v", jobs)
		}
	})
	t.Run("status completed", func(t *testing.T) {
		jobs := h.List(model.JobFilter{Status: model.JobCompleted})
		if len(jobs) != 2 {
			t.Errorf("expected 2 jobs but got %d", len(jobs))
		}
	})
	t.Run("since and until", func(t *testing.T) {
		jobs := h.List(model.JobFilter{Since: t0, Until: t2})
		if len(jobs) != 1 || jobs[0].ID != "failed" {
			t.Errorf("unexpected result %v", jobs)
		}
	})
}

func TestHandler_PurgeJobs(t *testing.T) {
	h := New(context.Background(), ccjh.New(10))
	old := time.Now().UTC().Add(-2 * time.Hour)
	addTestJob(h, "old-done", old, false, true, nil)
	addTestJob(h, "old-canceled", old, true, false, nil)
	addTestJob(h, "old-running", old, false, false, nil)
	addTestJob(h, "fresh-done", time.Now().UTC(), false, true, nil)
	purged := h.PurgeJobs(time.Hour.Microseconds())
	if purged != 2 {
		t.Errorf("expected 2 purged jobs but got %d", purged)
	}
	if _, err := h.Get("old-running"); err != nil {
		t.Error("running job must never be purged")
	}
	if _, err := h.Get("fresh-done"); err != nil {
		t.Error("job below max age must not be purged")
	}
	if _, err := h.Get("old-done"); err == nil {
		t.Error("expected settled job to be purged")
	}
}

func addTestJob(h *Handler, jID string, created time.Time, canceled, completed bool, jErr error) {
	ctx, cf := context.WithCancel(context.Background())
	j := &job{
		meta:   model.Job{ID: jID, Created: created},
		ctx:    ctx,
		cancel: cf,
	}
	if canceled {
		j.Cancel()
	}
	if completed {
		started := created.Add(time.Second)
		done := created.Add(2 * time.Second)
		j.meta.Started = &started
		j.meta.Completed = &done
		if jErr != nil {
			j.meta.Error = jErr.Error()
		}
	}
	h.jobs[jID] = j
}
