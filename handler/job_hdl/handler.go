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
	"fmt"
	"github.com/SENERGY-Platform/go-cc-job-handler/ccjh"
	"github.com/bundle-works/bundle-manager/lib/model"
	"github.com/google/uuid"
	"sort"
	"sync"
	"time"
)

type Handler struct {
	ctx       context.Context
	ccHandler *ccjh.Handler
	jobs      map[string]*job
	mu        sync.RWMutex
}

func New(ctx context.Context, ccHandler *ccjh.Handler) *Handler {
	return &Handler{
		ctx:       ctx,
		ccHandler: ccHandler,
		jobs:      make(map[string]*job),
	}
}

// Create queues the target function for execution and returns the job id.
// The job context derives from the handler context, a service shutdown
// cancels all pending jobs.
func (h *Handler) Create(desc string, tFunc func(context.Context, context.CancelFunc) error) (string, error) {
	jID := uuid.NewString()
	ctx, cf := context.WithCancel(h.ctx)
	j := &job{
		meta: model.Job{
			ID:          jID,
			Created:     time.Now().UTC(),
			Description: desc,
		},
		target: tFunc,
		ctx:    ctx,
		cancel: cf,
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.ccHandler.Add(j); err != nil {
		cf()
		return "", model.NewInternalError(err)
	}
	h.jobs[jID] = j
	return jID, nil
}

func (h *Handler) Get(jID string) (model.Job, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	j, ok := h.jobs[jID]
	if !ok {
		return model.Job{}, model.NewNotFoundError(fmt.Errorf("job '%s' not found", jID))
	}
	return j.snapshot(), nil
}

func (h *Handler) Cancel(jID string) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	j, ok := h.jobs[jID]
	if !ok {
		return model.NewNotFoundError(fmt.Errorf("job '%s' not found", jID))
	}
	j.Cancel()
	return nil
}

func (h *Handler) List(filter model.JobFilter) []model.Job {
	h.mu.RLock()
	var jobs []model.Job
	for _, j := range h.jobs {
		if meta := j.snapshot(); matches(filter, meta) {
			jobs = append(jobs, meta)
		}
	}
	h.mu.RUnlock()
	sort.Slice(jobs, func(i, k int) bool {
		if filter.SortDesc {
			return jobs[i].Created.After(jobs[k].Created)
		}
		return jobs[i].Created.Before(jobs[k].Created)
	})
	return jobs
}

// PurgeJobs drops settled jobs older than maxAge microseconds and reports how
// many were removed. Running jobs are never purged.
func (h *Handler) PurgeJobs(maxAge int64) int {
	now := time.Now().UTC()
	h.mu.Lock()
	defer h.mu.Unlock()
	purged := 0
	for jID, j := range h.jobs {
		meta := j.snapshot()
		if meta.Completed == nil && meta.Canceled == nil && !j.IsCanceled() {
			continue
		}
		if now.Sub(meta.Created).Microseconds() < maxAge {
			continue
		}
		delete(h.jobs, jID)
		purged++
	}
	return purged
}

func matches(filter model.JobFilter, meta model.Job) bool {
	if !filter.Since.IsZero() && !meta.Created.After(filter.Since) {
		return false
	}
	if !filter.Until.IsZero() && !meta.Created.Before(filter.Until) {
		return false
	}
	switch filter.Status {
	case model.JobPending:
		return meta.Started == nil && meta.Canceled == nil && meta.Completed == nil
	case model.JobRunning:
		return meta.Started != nil && meta.Canceled == nil && meta.Completed == nil
	case model.JobCanceled:
		return meta.Canceled != nil
	case model.JobCompleted:
		return meta.Completed != nil
	case model.JobError:
		return meta.Completed != nil && meta.Error != nil
	case model.JobOK:
		return meta.Completed != nil && meta.Error == nil
	}
	return true
}
